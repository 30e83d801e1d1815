package zksync

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// RPCProvider 基于 JSON-RPC 的 zkSync 节点客户端
type RPCProvider struct {
	client *rpc.Client

	mu     sync.Mutex
	tokens Tokens
}

func DialProvider(ctx context.Context, url string) (*RPCProvider, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "dial zksync rpc")
	}
	return NewRPCProvider(c), nil
}

func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

func (p *RPCProvider) Close() {
	p.client.Close()
}

func (p *RPCProvider) SubmitTx(ctx context.Context, tx SyncTx, ethSig *TxEthSignature, fastProcessing bool) (string, error) {
	var hash string
	if err := p.client.CallContext(ctx, &hash, "tx_submit", tx, ethSig, fastProcessing); err != nil {
		return "", errors.Wrap(err, "tx_submit")
	}
	return hash, nil
}

func (p *RPCProvider) SubmitTxsBatch(ctx context.Context, txs []*SignedTransaction) ([]string, error) {
	var hashes []string
	if err := p.client.CallContext(ctx, &hashes, "submit_txs_batch", txs, []*TxEthSignature{}); err != nil {
		return nil, errors.Wrap(err, "submit_txs_batch")
	}
	return hashes, nil
}

func (p *RPCProvider) AccountInfo(ctx context.Context, address common.Address) (*AccountState, error) {
	var st AccountState
	if err := p.client.CallContext(ctx, &st, "account_info", address); err != nil {
		return nil, errors.Wrap(err, "account_info")
	}
	return &st, nil
}

func (p *RPCProvider) TxInfo(ctx context.Context, txHash string) (*TransactionReceipt, error) {
	var r TransactionReceipt
	if err := p.client.CallContext(ctx, &r, "tx_info", txHash); err != nil {
		return nil, errors.Wrap(err, "tx_info")
	}
	return &r, nil
}

// Tokens 代币表只拉取一次
func (p *RPCProvider) Tokens(ctx context.Context) (Tokens, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tokens != nil {
		return p.tokens, nil
	}

	var ts Tokens
	if err := p.client.CallContext(ctx, &ts, "tokens"); err != nil {
		return nil, errors.Wrap(err, "tokens")
	}
	p.tokens = ts
	return ts, nil
}

func (p *RPCProvider) ContractAddress(ctx context.Context) (*ContractAddress, error) {
	var ca ContractAddress
	if err := p.client.CallContext(ctx, &ca, "contract_address"); err != nil {
		return nil, errors.Wrap(err, "contract_address")
	}
	return &ca, nil
}

package zksync

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Provider zkSync 节点 API
type Provider interface {
	SubmitTx(ctx context.Context, tx SyncTx, ethSig *TxEthSignature, fastProcessing bool) (string, error)
	SubmitTxsBatch(ctx context.Context, txs []*SignedTransaction) ([]string, error)
	AccountInfo(ctx context.Context, address common.Address) (*AccountState, error)
	TxInfo(ctx context.Context, txHash string) (*TransactionReceipt, error)
	Tokens(ctx context.Context) (Tokens, error)
	ContractAddress(ctx context.Context) (*ContractAddress, error)
}

// Wallet 已解锁的钱包会话
type Wallet interface {
	Address() common.Address
	GetNonce(ctx context.Context, tier NonceTier) (uint32, error)

	SyncTransfer(ctx context.Context, p TransferParams) (*Transaction, error)
	SyncMultiTransfer(ctx context.Context, ps []TransferParams) ([]*Transaction, error)
	SignSyncTransfer(ctx context.Context, p TransferParams) (*SignedTransaction, error)

	WithdrawFromSyncToEthereum(ctx context.Context, p WithdrawParams) (*Transaction, error)
	SignWithdrawFromSyncToEthereum(ctx context.Context, p WithdrawParams) (*SignedTransaction, error)

	DepositToSyncFromEthereum(ctx context.Context, p DepositParams) (*DepositResponse, error)

	Provider() Provider
}

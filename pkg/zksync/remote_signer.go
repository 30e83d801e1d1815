package zksync

import (
	"context"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// RemoteTxSigner 通过 JSON-RPC 调用持有 zkSync 私钥的签名服务
type RemoteTxSigner struct {
	client *rpc.Client
}

func DialRemoteTxSigner(ctx context.Context, url string) (*RemoteTxSigner, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "dial signer")
	}
	return &RemoteTxSigner{client: c}, nil
}

func (s *RemoteTxSigner) Close() {
	s.client.Close()
}

func (s *RemoteTxSigner) PubKeyHash(ctx context.Context) (string, error) {
	var h string
	if err := s.client.CallContext(ctx, &h, "signer_pubKeyHash"); err != nil {
		return "", errors.Wrap(err, "signer_pubKeyHash")
	}
	return h, nil
}

func (s *RemoteTxSigner) SignTransfer(ctx context.Context, tx *Transfer) (*Signature, error) {
	var sig Signature
	if err := s.client.CallContext(ctx, &sig, "signer_signTransfer", tx); err != nil {
		return nil, errors.Wrap(err, "signer_signTransfer")
	}
	return &sig, nil
}

func (s *RemoteTxSigner) SignWithdraw(ctx context.Context, tx *Withdraw) (*Signature, error) {
	var sig Signature
	if err := s.client.CallContext(ctx, &sig, "signer_signWithdraw", tx); err != nil {
		return nil, errors.Wrap(err, "signer_signWithdraw")
	}
	return &sig, nil
}

package zksync

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrAccountNotFound     = errors.New("zksync account not found")
	ErrTokenNotSupported   = errors.New("token not supported")
	ErrDepositUnavailable  = errors.New("l1 depositor not configured")
	ErrBatchResultMismatch = errors.New("batch result length mismatch")
)

// SyncWallet Wallet 的实现: provider + EthSigner + TxSigner (+ 可选的 L1 Depositor)
type SyncWallet struct {
	provider  Provider
	ethSigner *EthSigner
	txSigner  TxSigner
	depositor *Depositor

	mu        sync.Mutex
	accountID *uint32
}

func NewSyncWallet(provider Provider, ethSigner *EthSigner, txSigner TxSigner, depositor *Depositor) *SyncWallet {
	return &SyncWallet{
		provider:  provider,
		ethSigner: ethSigner,
		txSigner:  txSigner,
		depositor: depositor,
	}
}

func (w *SyncWallet) Address() common.Address {
	return w.ethSigner.Address()
}

func (w *SyncWallet) Provider() Provider {
	return w.provider
}

func (w *SyncWallet) GetNonce(ctx context.Context, tier NonceTier) (uint32, error) {
	st, err := w.provider.AccountInfo(ctx, w.Address())
	if err != nil {
		return 0, err
	}
	if tier == NonceVerified {
		return st.Verified.Nonce, nil
	}
	return st.Committed.Nonce, nil
}

func (w *SyncWallet) getAccountID(ctx context.Context) (uint32, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.accountID != nil {
		return *w.accountID, nil
	}

	st, err := w.provider.AccountInfo(ctx, w.Address())
	if err != nil {
		return 0, err
	}
	if st.ID == nil {
		return 0, errors.Wrap(ErrAccountNotFound, w.Address().Hex())
	}
	id := *st.ID
	w.accountID = &id
	return id, nil
}

func (w *SyncWallet) resolveToken(ctx context.Context, symbol string) (Token, error) {
	ts, err := w.provider.Tokens(ctx)
	if err != nil {
		return Token{}, err
	}
	t, ok := ts.Resolve(symbol)
	if !ok {
		return Token{}, errors.Wrap(ErrTokenNotSupported, symbol)
	}
	return t, nil
}

func (w *SyncWallet) resolveNonce(ctx context.Context, n *uint32) (uint32, error) {
	if n != nil {
		return *n, nil
	}
	return w.GetNonce(ctx, NonceCommitted)
}

func (w *SyncWallet) SignSyncTransfer(ctx context.Context, p TransferParams) (*SignedTransaction, error) {
	token, err := w.resolveToken(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	fee, err := ParseAmount(p.Fee)
	if err != nil {
		return nil, err
	}
	accountID, err := w.getAccountID(ctx)
	if err != nil {
		return nil, err
	}
	nonce, err := w.resolveNonce(ctx, p.Nonce)
	if err != nil {
		return nil, err
	}

	tx := &Transfer{
		Type:       "Transfer",
		AccountID:  accountID,
		From:       w.Address(),
		To:         p.To,
		Token:      token.ID,
		Amount:     amount.String(),
		Fee:        fee.String(),
		Nonce:      nonce,
		ValidFrom:  0,
		ValidUntil: MaxTimestamp,
	}
	if tx.Signature, err = w.txSigner.SignTransfer(ctx, tx); err != nil {
		return nil, err
	}
	ethSig, err := w.ethSigner.SignMessage([]byte(TransferMessage(p.To, token, amount, fee, nonce)))
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{Tx: tx, EthereumSignature: ethSig}, nil
}

func (w *SyncWallet) SyncTransfer(ctx context.Context, p TransferParams) (*Transaction, error) {
	signed, err := w.SignSyncTransfer(ctx, p)
	if err != nil {
		return nil, err
	}
	hash, err := w.provider.SubmitTx(ctx, signed.Tx, signed.EthereumSignature, false)
	if err != nil {
		return nil, err
	}
	return &Transaction{TxHash: hash, TxData: signed}, nil
}

// SyncMultiTransfer 未指定 nonce 的 leg 沿用上一笔 +1, 首笔取 committed nonce
func (w *SyncWallet) SyncMultiTransfer(ctx context.Context, ps []TransferParams) ([]*Transaction, error) {
	if len(ps) == 0 {
		return nil, nil
	}

	signed := make([]*SignedTransaction, 0, len(ps))
	var next *uint32
	for _, p := range ps {
		if p.Nonce == nil && next != nil {
			n := *next
			p.Nonce = &n
		}
		st, err := w.SignSyncTransfer(ctx, p)
		if err != nil {
			return nil, err
		}
		n := st.Tx.TxNonce() + 1
		next = &n
		signed = append(signed, st)
	}

	hashes, err := w.provider.SubmitTxsBatch(ctx, signed)
	if err != nil {
		return nil, err
	}
	if len(hashes) != len(signed) {
		return nil, errors.Wrap(ErrBatchResultMismatch, fmt.Sprintf("sent %d, got %d", len(signed), len(hashes)))
	}

	txs := make([]*Transaction, len(hashes))
	for i, h := range hashes {
		txs[i] = &Transaction{TxHash: h, TxData: signed[i]}
	}
	return txs, nil
}

func (w *SyncWallet) SignWithdrawFromSyncToEthereum(ctx context.Context, p WithdrawParams) (*SignedTransaction, error) {
	token, err := w.resolveToken(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	fee, err := ParseAmount(p.Fee)
	if err != nil {
		return nil, err
	}
	accountID, err := w.getAccountID(ctx)
	if err != nil {
		return nil, err
	}
	nonce, err := w.resolveNonce(ctx, p.Nonce)
	if err != nil {
		return nil, err
	}

	tx := &Withdraw{
		Type:       "Withdraw",
		AccountID:  accountID,
		From:       w.Address(),
		To:         p.EthAddress,
		Token:      token.ID,
		Amount:     amount.String(),
		Fee:        fee.String(),
		Nonce:      nonce,
		ValidFrom:  0,
		ValidUntil: MaxTimestamp,
	}
	if tx.Signature, err = w.txSigner.SignWithdraw(ctx, tx); err != nil {
		return nil, err
	}
	ethSig, err := w.ethSigner.SignMessage([]byte(WithdrawMessage(p.EthAddress, token, amount, fee, nonce)))
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{Tx: tx, EthereumSignature: ethSig}, nil
}

func (w *SyncWallet) WithdrawFromSyncToEthereum(ctx context.Context, p WithdrawParams) (*Transaction, error) {
	signed, err := w.SignWithdrawFromSyncToEthereum(ctx, p)
	if err != nil {
		return nil, err
	}
	hash, err := w.provider.SubmitTx(ctx, signed.Tx, signed.EthereumSignature, p.FastProcessing)
	if err != nil {
		return nil, err
	}
	return &Transaction{TxHash: hash, TxData: signed}, nil
}

func (w *SyncWallet) DepositToSyncFromEthereum(ctx context.Context, p DepositParams) (*DepositResponse, error) {
	if w.depositor == nil {
		return nil, ErrDepositUnavailable
	}
	token, err := w.resolveToken(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	return w.depositor.Deposit(ctx, token, amount, p.DepositTo)
}

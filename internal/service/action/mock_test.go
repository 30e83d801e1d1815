package action

import (
	"context"

	"zksync-wallet/pkg/zksync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

// MockWallet 模拟 zkSync 钱包会话
type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Address() common.Address {
	return m.Called().Get(0).(common.Address)
}

func (m *MockWallet) GetNonce(ctx context.Context, tier zksync.NonceTier) (uint32, error) {
	args := m.Called(ctx, tier)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockWallet) SyncTransfer(ctx context.Context, p zksync.TransferParams) (*zksync.Transaction, error) {
	args := m.Called(ctx, p)
	tx, _ := args.Get(0).(*zksync.Transaction)
	return tx, args.Error(1)
}

func (m *MockWallet) SyncMultiTransfer(ctx context.Context, ps []zksync.TransferParams) ([]*zksync.Transaction, error) {
	args := m.Called(ctx, ps)
	txs, _ := args.Get(0).([]*zksync.Transaction)
	return txs, args.Error(1)
}

func (m *MockWallet) SignSyncTransfer(ctx context.Context, p zksync.TransferParams) (*zksync.SignedTransaction, error) {
	args := m.Called(ctx, p)
	st, _ := args.Get(0).(*zksync.SignedTransaction)
	return st, args.Error(1)
}

func (m *MockWallet) WithdrawFromSyncToEthereum(ctx context.Context, p zksync.WithdrawParams) (*zksync.Transaction, error) {
	args := m.Called(ctx, p)
	tx, _ := args.Get(0).(*zksync.Transaction)
	return tx, args.Error(1)
}

func (m *MockWallet) SignWithdrawFromSyncToEthereum(ctx context.Context, p zksync.WithdrawParams) (*zksync.SignedTransaction, error) {
	args := m.Called(ctx, p)
	st, _ := args.Get(0).(*zksync.SignedTransaction)
	return st, args.Error(1)
}

func (m *MockWallet) DepositToSyncFromEthereum(ctx context.Context, p zksync.DepositParams) (*zksync.DepositResponse, error) {
	args := m.Called(ctx, p)
	resp, _ := args.Get(0).(*zksync.DepositResponse)
	return resp, args.Error(1)
}

func (m *MockWallet) Provider() zksync.Provider {
	return m.Called().Get(0).(zksync.Provider)
}

// MockProvider 只关心批量提交
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SubmitTx(ctx context.Context, tx zksync.SyncTx, ethSig *zksync.TxEthSignature, fast bool) (string, error) {
	args := m.Called(ctx, tx, ethSig, fast)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) SubmitTxsBatch(ctx context.Context, txs []*zksync.SignedTransaction) ([]string, error) {
	args := m.Called(ctx, txs)
	hashes, _ := args.Get(0).([]string)
	return hashes, args.Error(1)
}

func (m *MockProvider) AccountInfo(ctx context.Context, address common.Address) (*zksync.AccountState, error) {
	args := m.Called(ctx, address)
	st, _ := args.Get(0).(*zksync.AccountState)
	return st, args.Error(1)
}

func (m *MockProvider) TxInfo(ctx context.Context, hash string) (*zksync.TransactionReceipt, error) {
	args := m.Called(ctx, hash)
	r, _ := args.Get(0).(*zksync.TransactionReceipt)
	return r, args.Error(1)
}

func (m *MockProvider) Tokens(ctx context.Context) (zksync.Tokens, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).(zksync.Tokens)
	return ts, args.Error(1)
}

func (m *MockProvider) ContractAddress(ctx context.Context) (*zksync.ContractAddress, error) {
	args := m.Called(ctx)
	ca, _ := args.Get(0).(*zksync.ContractAddress)
	return ca, args.Error(1)
}

// MockTracker 记录收到的跟踪请求
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) WatchTransaction(ctx context.Context, req WatchTransactionRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockTracker) WatchDeposit(ctx context.Context, req WatchDepositRequest) error {
	return m.Called(ctx, req).Error(0)
}

package action

import (
	"context"
	"time"

	"zksync-wallet/pkg/logger"
	"zksync-wallet/pkg/monitor"
	"zksync-wallet/pkg/zksync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Tracker 交易状态跟踪
type Tracker interface {
	WatchTransaction(ctx context.Context, req WatchTransactionRequest) error
	WatchDeposit(ctx context.Context, req WatchDepositRequest) error
}

type WatchTransactionRequest struct {
	TransactionHash string `json:"transactionHash"`
}

// WatchDepositRequest 充值按 L1 交易跟踪, 不是 L2 交易哈希
type WatchDepositRequest struct {
	DepositTx   *zksync.DepositResponse `json:"depositTx"`
	TokenSymbol string                  `json:"tokenSymbol"`
	Amount      string                  `json:"amount"`
}

type TransferRequest struct {
	To       common.Address
	Token    string
	FeeToken string
	Amount   string
	Fee      string
}

type WithdrawRequest struct {
	Address      common.Address
	Token        string
	FeeToken     string
	Amount       string
	FastWithdraw bool
	Fees         string
}

type DepositRequest struct {
	Token  string
	Amount string
}

type WithdrawResult struct {
	TxHash string                    `json:"txHash"`
	TxData *zksync.SignedTransaction `json:"txData"`
}

// Service 钱包操作: 转账 / 提现 / 充值, 产生的交易交给 Tracker 跟踪
// 同一钱包的并发调用由调用方串行化 (HTTP 层使用分布式锁)
type Service struct {
	wallet  zksync.Wallet
	tracker Tracker
}

func NewService(wallet zksync.Wallet, tracker Tracker) *Service {
	return &Service{wallet: wallet, tracker: tracker}
}

func (s *Service) Address() common.Address {
	return s.wallet.Address()
}

func (s *Service) Nonce(ctx context.Context, tier zksync.NonceTier) (uint32, error) {
	return s.wallet.GetNonce(ctx, tier)
}

// Transfer 手续费与转账同币种时走单笔 syncTransfer;
// 否则拆成两笔: 零手续费的转账 (nonce N) + 转给自己的零金额手续费交易 (nonce N+1)
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (txs []*zksync.Transaction, err error) {
	start := time.Now()

	if req.Token == req.FeeToken {
		defer func() { monitor.Business.ObserveAction("transfer", "single", start, err) }()

		tx, err := s.wallet.SyncTransfer(ctx, zksync.TransferParams{
			To:     req.To,
			Token:  req.Token,
			Amount: req.Amount,
			Fee:    req.Fee,
		})
		if err != nil {
			return nil, err
		}
		s.watchTransaction(ctx, tx.TxHash)
		return []*zksync.Transaction{tx}, nil
	}

	defer func() { monitor.Business.ObserveAction("transfer", "batch", start, err) }()

	nonce, err := s.wallet.GetNonce(ctx, zksync.NonceCommitted)
	if err != nil {
		return nil, err
	}
	legs := AssignTransferNonces(nonce, []zksync.TransferParams{
		{To: req.To, Token: req.Token, Amount: req.Amount, Fee: "0"},
		{To: s.wallet.Address(), Token: req.FeeToken, Amount: "0", Fee: req.Fee},
	})

	// 两笔交易的成败由批量提交保证原子性, 这里不做补偿
	txs, err = s.wallet.SyncMultiTransfer(ctx, legs)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		s.watchTransaction(ctx, tx.TxHash)
	}
	return txs, nil
}

// Withdraw 同币种直接 withdrawFromSyncToEthereum;
// 否则先签名提现 (nonce N) 和手续费转账 (nonce N+1), 两笔都签好后再批量提交
func (s *Service) Withdraw(ctx context.Context, req WithdrawRequest) (results []WithdrawResult, err error) {
	start := time.Now()

	if req.Token == req.FeeToken {
		defer func() { monitor.Business.ObserveAction("withdraw", "single", start, err) }()

		tx, err := s.wallet.WithdrawFromSyncToEthereum(ctx, zksync.WithdrawParams{
			EthAddress:     req.Address,
			Token:          req.Token,
			Amount:         req.Amount,
			Fee:            req.Fees,
			FastProcessing: req.FastWithdraw,
		})
		if err != nil {
			return nil, err
		}
		s.watchTransaction(ctx, tx.TxHash)
		return []WithdrawResult{{TxHash: tx.TxHash, TxData: tx.TxData}}, nil
	}

	defer func() { monitor.Business.ObserveAction("withdraw", "batch", start, err) }()

	nonce, err := s.wallet.GetNonce(ctx, zksync.NonceCommitted)
	if err != nil {
		return nil, err
	}
	seq := NewNonceSequence(nonce)

	withdrawNonce := seq.Next()
	signedWithdraw, err := s.wallet.SignWithdrawFromSyncToEthereum(ctx, zksync.WithdrawParams{
		EthAddress: req.Address,
		Token:      req.Token,
		Amount:     req.Amount,
		Fee:        "0",
		Nonce:      &withdrawNonce,
	})
	if err != nil {
		return nil, stageErr(StageSignWithdraw, err)
	}

	feeNonce := seq.Next()
	signedFee, err := s.wallet.SignSyncTransfer(ctx, zksync.TransferParams{
		To:     s.wallet.Address(),
		Token:  req.FeeToken,
		Amount: "0",
		Fee:    req.Fees,
		Nonce:  &feeNonce,
	})
	if err != nil {
		return nil, stageErr(StageSignTransfer, err)
	}

	signed := []*zksync.SignedTransaction{signedWithdraw, signedFee}
	hashes, err := s.wallet.Provider().SubmitTxsBatch(ctx, signed)
	if err != nil {
		return nil, stageErr(StageSubmitBatch, err)
	}

	for _, h := range hashes {
		s.watchTransaction(ctx, h)
	}

	results = make([]WithdrawResult, len(hashes))
	for i, h := range hashes {
		results[i] = WithdrawResult{TxHash: h}
		if i < len(signed) {
			results[i].TxData = signed[i]
		}
	}
	return results, nil
}

// Deposit L1 -> L2 充值到自己的地址, 通过 WatchDeposit 跟踪
func (s *Service) Deposit(ctx context.Context, req DepositRequest) (resp *zksync.DepositResponse, err error) {
	start := time.Now()
	defer func() { monitor.Business.ObserveAction("deposit", "single", start, err) }()

	resp, err = s.wallet.DepositToSyncFromEthereum(ctx, zksync.DepositParams{
		DepositTo: s.wallet.Address(),
		Token:     req.Token,
		Amount:    req.Amount,
	})
	if err != nil {
		return nil, err
	}

	monitor.Business.HandleTracked("deposit")
	if terr := s.tracker.WatchDeposit(ctx, WatchDepositRequest{
		DepositTx:   resp,
		TokenSymbol: req.Token,
		Amount:      req.Amount,
	}); terr != nil {
		// 交易已经上链, 跟踪失败只记录
		logger.Warn("watch deposit failed",
			zap.String("eth_tx", resp.EthTxHash.Hex()),
			zap.Error(terr))
	}
	return resp, nil
}

func (s *Service) watchTransaction(ctx context.Context, hash string) {
	monitor.Business.HandleTracked("transaction")
	if err := s.tracker.WatchTransaction(ctx, WatchTransactionRequest{TransactionHash: hash}); err != nil {
		logger.Warn("watch transaction failed", zap.String("tx_hash", hash), zap.Error(err))
	}
}

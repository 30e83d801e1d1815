package tracker

import (
	"context"
	"errors"
	"time"

	"zksync-wallet/internal/event"
	"zksync-wallet/internal/model"
	"zksync-wallet/pkg/logger"
	"zksync-wallet/pkg/zksync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// StatusSource L2 交易状态 (zksync.Provider 满足该接口)
type StatusSource interface {
	TxInfo(ctx context.Context, txHash string) (*zksync.TransactionReceipt, error)
}

// ReceiptSource L1 交易回执 (ethclient.Client 满足该接口)
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Poller 定时查询未终结的交易并推进状态
type Poller struct {
	store     *Store
	status    StatusSource
	receipts  ReceiptSource // 为空时不跟踪充值
	interval  time.Duration
	batchSize int
}

func NewPoller(store *Store, status StatusSource, receipts ReceiptSource, interval time.Duration, batchSize int) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Poller{
		store:     store,
		status:    status,
		receipts:  receipts,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (p *Poller) Start(ctx context.Context) {
	logger.Info("[Tracker] 启动状态轮询", zap.Duration("interval", p.interval))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("[Tracker] 停止轮询")
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce 处理一批待跟踪对象, 单个失败不影响其他
func (p *Poller) PollOnce(ctx context.Context) {
	txs, err := p.store.PendingTransactions(ctx, p.batchSize)
	if err != nil {
		logger.Error("[Tracker] 查询待跟踪交易失败", zap.Error(err))
	}
	for _, tx := range txs {
		p.pollTransaction(ctx, tx)
	}

	if p.receipts == nil {
		return
	}
	deposits, err := p.store.PendingDeposits(ctx, p.batchSize)
	if err != nil {
		logger.Error("[Tracker] 查询待跟踪充值失败", zap.Error(err))
	}
	for _, d := range deposits {
		p.pollDeposit(ctx, d)
	}
}

func (p *Poller) pollTransaction(ctx context.Context, tx model.TrackedTransaction) {
	r, err := p.status.TxInfo(ctx, tx.TxHash)
	if err != nil {
		logger.Warn("[Tracker] tx_info 失败", zap.String("tx_hash", tx.TxHash), zap.Error(err))
		return
	}

	u := l2Status(tx.TxHash, r)
	if u.Status == tx.Status || u.Status == model.StatusPending {
		return
	}
	p.apply(ctx, u)
}

// l2Status executed 且失败 -> failed; 已进块按 committed / verified 区分
func l2Status(hash string, r *zksync.TransactionReceipt) StatusUpdate {
	u := StatusUpdate{Kind: event.KindTransaction, Hash: hash, Status: model.StatusPending}
	if r == nil || !r.Executed {
		return u
	}
	if r.Block != nil {
		u.BlockNumber = r.Block.BlockNumber
	}
	if r.Success != nil && !*r.Success {
		u.Status = model.StatusFailed
		if r.FailReason != nil {
			u.FailReason = *r.FailReason
		}
		return u
	}
	switch {
	case r.Block != nil && r.Block.Verified:
		u.Status = model.StatusVerified
	case r.Block != nil && r.Block.Committed:
		u.Status = model.StatusCommitted
	}
	return u
}

func (p *Poller) pollDeposit(ctx context.Context, d model.TrackedDeposit) {
	receipt, err := p.receipts.TransactionReceipt(ctx, common.HexToHash(d.EthTxHash))
	if errors.Is(err, ethereum.NotFound) {
		return
	}
	if err != nil {
		logger.Warn("[Tracker] 查询充值回执失败", zap.String("eth_tx", d.EthTxHash), zap.Error(err))
		return
	}

	u := StatusUpdate{Kind: event.KindDeposit, Hash: d.EthTxHash, Status: model.StatusMined}
	if receipt.BlockNumber != nil {
		u.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		u.Status = model.StatusFailed
		u.FailReason = "reverted"
	}
	p.apply(ctx, u)
}

func (p *Poller) apply(ctx context.Context, u StatusUpdate) {
	changed, err := p.store.UpdateStatus(ctx, u)
	if err != nil {
		logger.Error("[Tracker] 更新状态失败", zap.String("hash", u.Hash), zap.Error(err))
		return
	}
	if changed {
		logger.Info("[Tracker] 状态变化",
			zap.String("kind", u.Kind),
			zap.String("hash", u.Hash),
			zap.String("status", u.Status),
			zap.String("fail_reason", u.FailReason))
	}
}

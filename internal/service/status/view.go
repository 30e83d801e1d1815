package status

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"zksync-wallet/internal/event"
	"zksync-wallet/internal/model"
	"zksync-wallet/internal/service/mq"
	"zksync-wallet/internal/service/tracker"
	"zksync-wallet/pkg/cache"
	"zksync-wallet/pkg/logger"

	"go.uber.org/zap"
)

const keyPrefix = "tx_status:"

// cacheKey 哈希大小写不同的查询共用同一缓存项
func cacheKey(hash string) string {
	return keyPrefix + normalizeHash(hash)
}

func normalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}

// Lookup 缓存未命中时回源 (tracker.Store)
type Lookup interface {
	GetTransaction(ctx context.Context, hash string) (*model.TrackedTransaction, error)
	GetDeposit(ctx context.Context, ethTxHash string) (*model.TrackedDeposit, error)
}

// TxStatus 对外展示的跟踪状态
type TxStatus struct {
	Kind        string    `json:"kind"`
	Hash        string    `json:"hash"`
	Status      string    `json:"status"`
	FailReason  string    `json:"fail_reason,omitempty"`
	BlockNumber uint64    `json:"block_number,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// View 消费状态事件并投影到缓存, 读取时缓存优先
type View struct {
	cache  cache.Cache
	lookup Lookup
	ttl    time.Duration
}

func NewView(c cache.Cache, lookup Lookup, ttl time.Duration) *View {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &View{cache: c, lookup: lookup, ttl: ttl}
}

// Run 阻塞消费 wallet_events_tx_status
func (v *View) Run(ctx context.Context, consumer mq.Consumer) error {
	return consumer.Subscribe(ctx, event.TopicTxStatus, func(msg *mq.Message) error {
		return v.Handle(ctx, msg)
	})
}

// Handle 乱序到达时不让非终态覆盖终态
func (v *View) Handle(ctx context.Context, msg *mq.Message) error {
	var ev event.TxStatusEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		// 格式错误的消息重试也无意义
		logger.Warn("[StatusView] 无法解析状态事件", zap.String("id", msg.ID), zap.Error(err))
		return nil
	}

	key := cacheKey(ev.Hash)
	var current TxStatus
	if err := v.cache.Get(ctx, key, &current); err == nil {
		if model.IsFinal(current.Status) && !model.IsFinal(ev.Status) {
			return nil
		}
		if current.UpdatedAt.After(ev.ChangedAt) {
			return nil
		}
	}

	return v.cache.Set(ctx, key, TxStatus{
		Kind:        ev.Kind,
		Hash:        ev.Hash,
		Status:      ev.Status,
		FailReason:  ev.FailReason,
		BlockNumber: ev.BlockNumber,
		UpdatedAt:   ev.ChangedAt,
	}, v.ttl)
}

// Get 先查缓存, 再查 L2 交易表, 最后查充值表
func (v *View) Get(ctx context.Context, hash string) (*TxStatus, error) {
	hash = normalizeHash(hash)
	var st TxStatus
	if err := v.cache.Get(ctx, cacheKey(hash), &st); err == nil {
		return &st, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("[StatusView] 读取缓存失败", zap.String("hash", hash), zap.Error(err))
	}

	tx, err := v.lookup.GetTransaction(ctx, hash)
	switch {
	case err == nil:
		st = TxStatus{
			Kind:        event.KindTransaction,
			Hash:        tx.TxHash,
			Status:      tx.Status,
			FailReason:  tx.FailReason,
			BlockNumber: tx.BlockNumber,
			UpdatedAt:   tx.UpdatedAt,
		}
	case errors.Is(err, tracker.ErrNotFound):
		d, derr := v.lookup.GetDeposit(ctx, hash)
		if derr != nil {
			return nil, derr
		}
		st = TxStatus{
			Kind:        event.KindDeposit,
			Hash:        d.EthTxHash,
			Status:      d.Status,
			FailReason:  d.FailReason,
			BlockNumber: d.BlockNumber,
			UpdatedAt:   d.UpdatedAt,
		}
	default:
		return nil, err
	}

	if err := v.cache.Set(ctx, cacheKey(hash), st, v.ttl); err != nil {
		logger.Warn("[StatusView] 写入缓存失败", zap.String("hash", hash), zap.Error(err))
	}
	return &st, nil
}

package tracker

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"zksync-wallet/internal/event"
	"zksync-wallet/internal/model"
	"zksync-wallet/internal/service/action"
	"zksync-wallet/pkg/monitor"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyHash     = errors.New("交易哈希为空")
	ErrEmptyDeposit  = errors.New("充值交易为空")
	ErrInvalidAmount = errors.New("金额格式错误")
	ErrNotFound      = errors.New("未跟踪的交易")
)

// Store 持久化跟踪对象, 每次写入都在同一事务中追加 outbox 消息
type Store struct {
	db *gorm.DB
}

var _ action.Tracker = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WatchTransaction 重复提交同一哈希时不产生新消息
func (s *Store) WatchTransaction(ctx context.Context, req action.WatchTransactionRequest) error {
	hash := strings.TrimSpace(req.TransactionHash)
	if hash == "" {
		return ErrEmptyHash
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.TrackedTransaction{TxHash: hash, Status: model.StatusPending}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		return model.CreateOutboxMessage(tx, event.TopicTxWatch, hash, hash, event.TxWatchEvent{
			EventID:   uuid.NewString(),
			TxHash:    hash,
			WatchedAt: row.CreatedAt,
		})
	})
}

func (s *Store) WatchDeposit(ctx context.Context, req action.WatchDepositRequest) error {
	if req.DepositTx == nil {
		return ErrEmptyDeposit
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ErrInvalidAmount
	}

	ethHash := req.DepositTx.EthTxHash.Hex()
	row := model.TrackedDeposit{
		EthTxHash:   ethHash,
		TokenSymbol: req.TokenSymbol,
		Amount:      amount,
		DepositTo:   req.DepositTx.DepositTo.Hex(),
		Status:      model.StatusPending,
	}
	if req.DepositTx.ApproveTxHash != nil {
		row.ApproveTxHash = req.DepositTx.ApproveTxHash.Hex()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		return model.CreateOutboxMessage(tx, event.TopicDepositWatch, ethHash, ethHash, event.DepositWatchEvent{
			EventID:       uuid.NewString(),
			EthTxHash:     ethHash,
			ApproveTxHash: row.ApproveTxHash,
			TokenSymbol:   row.TokenSymbol,
			Amount:        row.Amount.String(),
			DepositTo:     row.DepositTo,
			WatchedAt:     row.CreatedAt,
		})
	})
}

func (s *Store) GetTransaction(ctx context.Context, hash string) (*model.TrackedTransaction, error) {
	var row model.TrackedTransaction
	if err := s.db.WithContext(ctx).Where("tx_hash = ?", hash).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *Store) GetDeposit(ctx context.Context, ethTxHash string) (*model.TrackedDeposit, error) {
	var row model.TrackedDeposit
	if err := s.db.WithContext(ctx).Where("LOWER(eth_tx_hash) = ?", strings.ToLower(ethTxHash)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// PendingTransactions 未到终态的 L2 交易, 最早的优先
func (s *Store) PendingTransactions(ctx context.Context, limit int) ([]model.TrackedTransaction, error) {
	var rows []model.TrackedTransaction
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{model.StatusPending, model.StatusCommitted}).
		Order("id").Limit(limit).Find(&rows).Error
	return rows, err
}

func (s *Store) PendingDeposits(ctx context.Context, limit int) ([]model.TrackedDeposit, error) {
	var rows []model.TrackedDeposit
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Order("id").Limit(limit).Find(&rows).Error
	return rows, err
}

// StatusUpdate 一次状态变化
type StatusUpdate struct {
	Kind        string // event.KindTransaction / event.KindDeposit
	Hash        string
	Status      string
	FailReason  string
	BlockNumber uint64
}

// maxFailReason 与 fail_reason 列宽一致 (字符数)
const maxFailReason = 255

func truncateReason(reason string) string {
	if utf8.RuneCountInString(reason) <= maxFailReason {
		return reason
	}
	return string([]rune(reason)[:maxFailReason])
}

// UpdateStatus 状态未变化或已是终态时返回 false
func (s *Store) UpdateStatus(ctx context.Context, u StatusUpdate) (bool, error) {
	u.FailReason = truncateReason(u.FailReason)
	var (
		table  interface{}
		column string
	)
	switch u.Kind {
	case event.KindTransaction:
		table, column = &model.TrackedTransaction{}, "tx_hash"
	case event.KindDeposit:
		table, column = &model.TrackedDeposit{}, "eth_tx_hash"
	default:
		return false, errors.New("unknown kind: " + u.Kind)
	}

	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(table).
			Where(column+" = ?", u.Hash).
			Where("status <> ?", u.Status).
			Where("status NOT IN ?", []string{model.StatusVerified, model.StatusMined, model.StatusFailed, model.StatusExpired}).
			Updates(map[string]interface{}{
				"status":       u.Status,
				"fail_reason":  u.FailReason,
				"block_number": u.BlockNumber,
				"updated_at":   time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true

		return model.CreateOutboxMessage(tx, event.TopicTxStatus, u.Hash, u.Hash+":"+u.Status, event.TxStatusEvent{
			EventID:     uuid.NewString(),
			Kind:        u.Kind,
			Hash:        u.Hash,
			Status:      u.Status,
			FailReason:  u.FailReason,
			BlockNumber: u.BlockNumber,
			ChangedAt:   time.Now(),
		})
	})
	if err != nil {
		return false, err
	}
	if changed {
		monitor.Business.StatusChanged(u.Kind, u.Status)
	}
	return changed, nil
}

// ExpireStale 将超过 before 仍未终结的对象标记为 expired
func (s *Store) ExpireStale(ctx context.Context, before time.Time) (int, error) {
	var txHashes, depositHashes []string
	if err := s.db.WithContext(ctx).Model(&model.TrackedTransaction{}).
		Where("status IN ? AND created_at < ?", []string{model.StatusPending, model.StatusCommitted}, before).
		Pluck("tx_hash", &txHashes).Error; err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Model(&model.TrackedDeposit{}).
		Where("status = ? AND created_at < ?", model.StatusPending, before).
		Pluck("eth_tx_hash", &depositHashes).Error; err != nil {
		return 0, err
	}

	expired := 0
	expire := func(kind string, hashes []string) error {
		for _, h := range hashes {
			changed, err := s.UpdateStatus(ctx, StatusUpdate{Kind: kind, Hash: h, Status: model.StatusExpired})
			if err != nil {
				return err
			}
			if changed {
				expired++
			}
		}
		return nil
	}
	if err := expire(event.KindTransaction, txHashes); err != nil {
		return expired, err
	}
	if err := expire(event.KindDeposit, depositHashes); err != nil {
		return expired, err
	}
	return expired, nil
}

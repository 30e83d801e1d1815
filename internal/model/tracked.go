package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 跟踪状态
// L2 交易: pending -> committed -> verified | failed
// L1 充值: pending -> mined | failed
// 超时未终结: expired
const (
	StatusPending   = "pending"
	StatusCommitted = "committed"
	StatusVerified  = "verified"
	StatusMined     = "mined"
	StatusFailed    = "failed"
	StatusExpired   = "expired"
)

// IsFinal 终态不再轮询
func IsFinal(status string) bool {
	switch status {
	case StatusVerified, StatusMined, StatusFailed, StatusExpired:
		return true
	}
	return false
}

// TrackedTransaction 已提交的 L2 交易
type TrackedTransaction struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TxHash      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"tx_hash"` // sync-tx:...
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	FailReason  string    `gorm:"type:varchar(255)" json:"fail_reason,omitempty"`
	BlockNumber uint64    `gorm:"not null;default:0" json:"block_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TrackedTransaction) TableName() string {
	return "tracked_transactions"
}

// TrackedDeposit L1 -> L2 充值
type TrackedDeposit struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EthTxHash     string          `gorm:"type:varchar(66);not null;uniqueIndex" json:"eth_tx_hash"`
	ApproveTxHash string          `gorm:"type:varchar(66)" json:"approve_tx_hash,omitempty"`
	TokenSymbol   string          `gorm:"type:varchar(20);not null" json:"token_symbol"`
	Amount        decimal.Decimal `gorm:"type:decimal(78,0);not null" json:"amount"` // 最小单位
	DepositTo     string          `gorm:"type:varchar(42);not null;index" json:"deposit_to"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	FailReason    string          `gorm:"type:varchar(255)" json:"fail_reason,omitempty"`
	BlockNumber   uint64          `gorm:"not null;default:0" json:"block_number"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (TrackedDeposit) TableName() string {
	return "tracked_deposits"
}

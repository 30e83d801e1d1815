package event

import "time"

const (
	TopicTxWatch      = "wallet_events_tx_watch"
	TopicDepositWatch = "wallet_events_deposit_watch"
	TopicTxStatus     = "wallet_events_tx_status"
)

const (
	KindTransaction = "transaction"
	KindDeposit     = "deposit"
)

// TxWatchEvent 开始跟踪一笔 L2 交易
// Topic: wallet_events_tx_watch
type TxWatchEvent struct {
	EventID   string    `json:"event_id"`
	TxHash    string    `json:"tx_hash"`
	WatchedAt time.Time `json:"watched_at"`
}

// DepositWatchEvent 开始跟踪一笔 L1 充值
// Topic: wallet_events_deposit_watch
type DepositWatchEvent struct {
	EventID       string    `json:"event_id"`
	EthTxHash     string    `json:"eth_tx_hash"`
	ApproveTxHash string    `json:"approve_tx_hash,omitempty"`
	TokenSymbol   string    `json:"token_symbol"`
	Amount        string    `json:"amount"` // 最小单位
	DepositTo     string    `json:"deposit_to"`
	WatchedAt     time.Time `json:"watched_at"`
}

// TxStatusEvent 跟踪对象的状态变化
// Topic: wallet_events_tx_status
type TxStatusEvent struct {
	EventID     string    `json:"event_id"`
	Kind        string    `json:"kind"` // transaction, deposit
	Hash        string    `json:"hash"`
	Status      string    `json:"status"`
	FailReason  string    `json:"fail_reason,omitempty"`
	BlockNumber uint64    `json:"block_number,omitempty"`
	ChangedAt   time.Time `json:"changed_at"`
}

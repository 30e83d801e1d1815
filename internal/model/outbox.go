package model

import (
	"encoding/json"
	"time"

	"zksync-wallet/pkg/crypto_util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
)

// OutboxMessage 本地消息表 (Transactional Outbox)
type OutboxMessage struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic     string         `gorm:"type:varchar(255);not null" json:"topic"`
	Key       string         `gorm:"type:varchar(255)" json:"key"` // 分区键 (交易哈希)
	DedupeKey string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"dedupe_key"`
	Payload   []byte         `gorm:"type:text;not null" json:"payload"`
	Status    string         `gorm:"type:varchar(50);not null;default:'PENDING';index" json:"status"` // PENDING, SENT
	Attempts  int            `gorm:"not null;default:0" json:"attempts"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}

// CreateOutboxMessage 在调用方的事务中写入消息
// dedupe 相同的消息只保留一条
func CreateOutboxMessage(tx *gorm.DB, topic, key, dedupe string, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := OutboxMessage{
		Topic:     topic,
		Key:       key,
		DedupeKey: crypto_util.DedupeKey(topic, []byte(dedupe)),
		Payload:   payloadBytes,
		Status:    OutboxPending,
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedupe_key"}},
		DoNothing: true,
	}).Create(&msg).Error
}

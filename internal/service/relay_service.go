package service

import (
	"context"
	"time"

	"zksync-wallet/internal/model"
	"zksync-wallet/internal/service/mq"
	"zksync-wallet/pkg/logger"
	"zksync-wallet/pkg/monitor"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RelayService 负责将本地消息表的消息搬运到 MQ
type RelayService struct {
	db        *gorm.DB
	producer  mq.Producer
	interval  time.Duration
	batchSize int
}

func NewRelayService(db *gorm.DB, producer mq.Producer) *RelayService {
	return &RelayService{
		db:        db,
		producer:  producer,
		interval:  500 * time.Millisecond, // 500ms 轮询一次
		batchSize: 50,
	}
}

func (s *RelayService) Start(ctx context.Context) {
	logger.Info("[Relay] 启动消息中继服务...")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("[Relay] 停止服务")
			return
		case <-ticker.C:
			s.ProcessPendingMessages(ctx)
		}
	}
}

// ProcessPendingMessages 按写入顺序投递一批 PENDING 消息, 返回成功条数
func (s *RelayService) ProcessPendingMessages(ctx context.Context) int {
	var messages []model.OutboxMessage
	if err := s.db.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id").Limit(s.batchSize).
		Find(&messages).Error; err != nil {
		logger.Error("[Relay] 查询消息失败", zap.Error(err))
		return 0
	}

	if len(messages) == 0 {
		return 0
	}

	logger.Debug("[Relay] 发现待发送消息", zap.Int("count", len(messages)))

	sent := 0
	for _, msg := range messages {
		err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload)
		monitor.Business.OutboxRelayed(msg.Topic, err)
		if err != nil {
			logger.Warn("[Relay] 发送消息失败", zap.Uint64("id", msg.ID), zap.Error(err))
			s.db.Model(&msg).UpdateColumn("attempts", gorm.Expr("attempts + 1"))
			continue
		}

		// 只有发送成功了才更新状态 => At-least-once (至少一次投递)
		// 如果这里更新失败，下次还会发，Consumer 用 dedupe_key / 状态比较做幂等
		if err := s.db.Model(&msg).Update("status", model.OutboxSent).Error; err != nil {
			logger.Warn("[Relay] 更新状态失败", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

package mq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zksync-wallet/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisProducer 实现 Producer 接口
type RedisProducer struct {
	client *redis.Client
	maxLen int64
}

// NewRedisProducer 创建 Redis 生产者
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{
		client: client,
		maxLen: 100000, // 近似裁剪, 防止 Stream 无限增长
	}
}

// Publish 发送消息到 Redis Stream (XADD), Stream Name = topic
func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}).Err()

	if err != nil {
		logger.Warn("[MQ] Publish Error", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("redis xadd error: %w", err)
	}

	return nil
}

// Close client 由调用方管理
func (p *RedisProducer) Close() error {
	return nil
}

// RedisConsumer 实现 Consumer 接口
type RedisConsumer struct {
	client *redis.Client
	group  string
	name   string
	block  time.Duration
}

// NewRedisConsumer 创建 Redis 消费者
func NewRedisConsumer(client *redis.Client, group, name string) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		group:  group,
		name:   name,
		block:  2 * time.Second,
	}
}

// Subscribe 订阅 Redis Stream
func (c *RedisConsumer) Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error {
	// 1. 创建 Consumer Group (如果不存在)
	// XGROUP CREATE <stream> <group> 0 MKSTREAM
	err := c.client.XGroupCreateMkStream(ctx, topic, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("创建消费者组失败: %w", err)
	}

	logger.Info("[Redis MQ] 开始监听主题", zap.String("topic", topic), zap.String("group", c.group))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// 2. 阻塞读取消息
		// XREADGROUP GROUP <group> <consumer> BLOCK 2000 COUNT 10 STREAMS <topic> >
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{topic, ">"},
			Count:    10,
			Block:    c.block,
		}).Result()

		if err == redis.Nil {
			continue // 超时无消息
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("[Redis MQ] 读取消息错误", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}

		// 3. 处理消息
		for _, stream := range streams {
			for _, xMessage := range stream.Messages {
				val, ok := xMessage.Values["payload"].(string)
				if !ok {
					logger.Warn("[Redis MQ] 消息格式错误: payload 缺失", zap.String("id", xMessage.ID))
					c.ack(ctx, topic, xMessage.ID)
					continue
				}
				key, _ := xMessage.Values["key"].(string)

				msg := &Message{
					ID:      xMessage.ID,
					Topic:   topic,
					Key:     key,
					Payload: []byte(val),
				}

				if err := handler(msg); err != nil {
					logger.Warn("[Redis MQ] 消息处理失败", zap.String("id", xMessage.ID), zap.Error(err))
					continue
				}
				c.ack(ctx, topic, xMessage.ID)
			}
		}
	}
}

func (c *RedisConsumer) ack(ctx context.Context, topic, id string) {
	c.client.XAck(ctx, topic, c.group, id)
}

// Close client 由调用方管理
func (c *RedisConsumer) Close() error {
	return nil
}

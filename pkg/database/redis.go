package database

import (
	"context"
	"fmt"

	"zksync-wallet/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis 连接到 Redis
// addr: "localhost:6379"
// password: ""
func ConnectRedis(addr string, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("无法连接到 Redis: %w", err)
	}

	logger.Info("Redis 连接成功")
	return rdb, nil
}

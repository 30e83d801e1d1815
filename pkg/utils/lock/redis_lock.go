package lock

import (
	"context"
	"time"

	"zksync-wallet/pkg/safe_random"

	"github.com/redis/go-redis/v9"
)

// DistributedLock 定义分布式锁接口
type DistributedLock interface {
	// Acquire 尝试获取锁
	// key: 锁的唯一标识
	// ttl: 锁的过期时间
	// 返回: (持有者 token, 是否成功, error)
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)

	// Release 释放锁, token 必须是 Acquire 返回的值
	Release(ctx context.Context, key, token string) error
}

// 只有持有者 (value 相同) 才能删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock 基于 Redis SET NX 的实现，value 为随机 token 用于释放时校验归属
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token, err := safe_random.GenerateRandomHexString(16)
	if err != nil {
		return "", false, err
	}

	// SET key token NX PX ttl
	success, err := l.client.SetNX(ctx, "lock:"+key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !success {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisLock) Release(ctx context.Context, key, token string) error {
	if token == "" {
		return nil
	}
	return releaseScript.Run(ctx, l.client, []string{"lock:" + key}, token).Err()
}

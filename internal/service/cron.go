package service

import (
	"context"
	"time"

	"zksync-wallet/pkg/logger"
	"zksync-wallet/pkg/utils/lock"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const expireLockKey = "cron:lock:expire_tracked"

type CronService struct {
	cron       *cron.Cron
	locker     lock.DistributedLock
	expirer    StaleExpirer
	spec       string
	pendingTTL time.Duration
}

// NewCronService spec 为 cron 表达式 (例如 "@every 1m")
func NewCronService(locker lock.DistributedLock, expirer StaleExpirer, spec string, pendingTTL time.Duration) *CronService {
	return &CronService{
		cron:       cron.New(),
		locker:     locker,
		expirer:    expirer,
		spec:       spec,
		pendingTTL: pendingTTL,
	}
}

func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.ExpireStaleEntries); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Cron Service started", zap.String("expire_spec", s.spec))
	return nil
}

func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cron Service stopped")
}

// ExpireStaleEntries 多实例部署时只有拿到锁的节点执行
func (s *CronService) ExpireStaleEntries() {
	ctx := context.Background()

	token, locked, err := s.locker.Acquire(ctx, expireLockKey, 30*time.Second)
	if err != nil || !locked {
		logger.Debug("ExpireStaleEntries: 获取锁失败或已有实例在运行", zap.Error(err))
		return
	}
	defer s.locker.Release(ctx, expireLockKey, token)

	n, err := s.expirer.ExpireStale(ctx, time.Now().Add(-s.pendingTTL))
	if err != nil {
		logger.Error("过期跟踪对象失败", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("已过期长时间未确认的交易", zap.Int("count", n))
	}
}

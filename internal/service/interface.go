package service

import (
	"context"
	"time"
)

// StaleExpirer 过期长时间未终结的跟踪对象 (tracker.Store)
type StaleExpirer interface {
	ExpireStale(ctx context.Context, before time.Time) (int, error)
}

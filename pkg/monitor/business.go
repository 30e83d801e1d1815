package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	WalletActionTotal    *prometheus.CounterVec
	WalletActionDuration *prometheus.HistogramVec
	TrackedHandlesTotal  *prometheus.CounterVec
	TxStatusTotal        *prometheus.CounterVec
	OutboxRelayedTotal   *prometheus.CounterVec
}

// Global Metrics Instance
// 未调用 Init 时为 nil，下面的方法均可安全调用
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		WalletActionTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_action_total",
			Help: "Wallet actions by action, path (single|batch) and result",
		}, []string{"action", "path", "result"}),
		WalletActionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_action_duration_seconds",
			Help:    "Duration of wallet actions including signing and submission",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		TrackedHandlesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_tracked_handles_total",
			Help: "Transaction handles handed to the tracker",
		}, []string{"kind"}),
		TxStatusTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_tx_status_total",
			Help: "Tracker status transitions",
		}, []string{"kind", "status"}),
		OutboxRelayedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_outbox_relayed_total",
			Help: "Outbox messages relayed to the message queue",
		}, []string{"topic", "result"}),
	}
}

func (m *BusinessMetrics) ObserveAction(action, path string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.WalletActionTotal.WithLabelValues(action, path, result).Inc()
	m.WalletActionDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}

func (m *BusinessMetrics) HandleTracked(kind string) {
	if m == nil {
		return
	}
	m.TrackedHandlesTotal.WithLabelValues(kind).Inc()
}

func (m *BusinessMetrics) StatusChanged(kind, status string) {
	if m == nil {
		return
	}
	m.TxStatusTotal.WithLabelValues(kind, status).Inc()
}

func (m *BusinessMetrics) OutboxRelayed(topic string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.OutboxRelayedTotal.WithLabelValues(topic, result).Inc()
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// MediaMetrics 媒体工作流相关指标，方法对 nil 接收者安全
type MediaMetrics struct {
	uploads       *prometheus.CounterVec
	compensations *prometheus.CounterVec
	orphans       *prometheus.CounterVec
	reconciled    *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *MediaMetrics
)

// Default 注册到全局 registry 的单例
func Default() *MediaMetrics {
	defaultOnce.Do(func() {
		shared = MustNewMediaMetrics(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNewMediaMetrics 注册失败直接 panic，测试中请传入独立的 registry
func MustNewMediaMetrics(reg prometheus.Registerer) *MediaMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &MediaMetrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gazette",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Media uploads attempted by the publishing workflow.",
		}, []string{"kind", "result"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gazette",
			Subsystem: "media",
			Name:      "compensations_total",
			Help:      "Best-effort media deletes issued after a failed or superseded write.",
		}, []string{"reason", "result"}),
		orphans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gazette",
			Subsystem: "media",
			Name:      "orphans_tracked_total",
			Help:      "References left for the reconciliation sweep.",
		}, []string{"reason"}),
		reconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gazette",
			Subsystem: "media",
			Name:      "reconciled_total",
			Help:      "Pending references resolved by the reconciliation sweep.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.uploads, m.compensations, m.orphans, m.reconciled)
	return m
}

func (m *MediaMetrics) ObserveUpload(kind string, err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(kind, result(err)).Inc()
}

func (m *MediaMetrics) ObserveCompensation(reason string, err error) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues(reason, result(err)).Inc()
}

func (m *MediaMetrics) ObserveOrphan(reason string) {
	if m == nil {
		return
	}
	m.orphans.WithLabelValues(reason).Inc()
}

// ObserveReconcile result 取 deleted / released / failed
func (m *MediaMetrics) ObserveReconcile(result string) {
	if m == nil {
		return
	}
	m.reconciled.WithLabelValues(result).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// Package metrics 提供系统代理操作的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "proxyctl"

// 结果标签取值
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics 所有指标，传给需要记录指标的组件
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	StepsTotal        *prometheus.CounterVec
}

// NewMetrics 创建指标并注册到 reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		OperationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of proxy operations",
			},
			[]string{"operation", "result"}, // operation=enable/disable/public_ip, result=ok/error
		),
		OperationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Proxy operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		StepsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Total number of best-effort steps by outcome",
			},
			[]string{"operation", "step", "outcome"},
		),
	}
}

// ObserveOperation 记录一次操作的结果和耗时
func (m *Metrics) ObserveOperation(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.OperationsTotal.WithLabelValues(operation, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

// ObserveStep 记录一个尽力而为步骤
func (m *Metrics) ObserveStep(operation, step string, err error) {
	if m == nil {
		return
	}
	outcome := ResultOK
	if err != nil {
		outcome = ResultError
	}
	m.StepsTotal.WithLabelValues(operation, step, outcome).Inc()
}

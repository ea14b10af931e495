package service

import (
	"sync"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/logging"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/metrics"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/systemproxy"
)

// StepLogger 把尽力而为步骤的结果写日志并计数。
// 失败记 WARN，成功记 DEBUG。
type StepLogger struct {
	logger  *logging.SafeLogger
	metrics *metrics.Metrics

	mu   sync.Mutex
	opID string
}

// NewStepLogger 创建步骤观察者，logger 和 m 都可以为 nil
func NewStepLogger(logger *logging.SafeLogger, m *metrics.Metrics) *StepLogger {
	return &StepLogger{logger: logger, metrics: m}
}

// begin 设置之后步骤日志携带的操作 ID
func (s *StepLogger) begin(opID string) {
	s.mu.Lock()
	s.opID = opID
	s.mu.Unlock()
}

// ObserveStep 实现 systemproxy.StepObserver
func (s *StepLogger) ObserveStep(r systemproxy.StepResult) {
	s.mu.Lock()
	opID := s.opID
	s.mu.Unlock()

	s.metrics.ObserveStep(r.Operation, r.Step, r.Err)

	target := r.Target
	if target == "" {
		target = "-"
	}
	if r.OK() {
		s.logger.Debugf(logging.LogTypeSysProxy, "[%s] %s/%s %s: ok", opID, r.Operation, r.Step, target)
		return
	}
	s.logger.Warnf(logging.LogTypeSysProxy, "[%s] %s/%s %s 失败（已忽略）: %v", opID, r.Operation, r.Step, target, r.Err)
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperr "github.com/CodeExpert787/VPN-Windows-Mac/internal/error"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/logging"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/metrics"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/publicip"
)

// 操作名，同时用作指标标签
const (
	OperationEnable   = "enable"
	OperationDisable  = "disable"
	OperationPublicIP = "public_ip"
)

// ProxyCommands 暴露给宿主（CLI、HTTP API）的命令入口。
// 代理开关在进程内串行执行，公网 IP 查询不受影响。
type ProxyCommands struct {
	mu       sync.Mutex
	proxy    *SystemProxyService
	steps    *StepLogger
	resolver publicip.Resolver
	logger   *logging.SafeLogger
	metrics  *metrics.Metrics
}

// NewProxyCommands 创建命令入口。
// 参数：
//   - proxy: 系统代理服务
//   - steps: 与 proxy 绑定的步骤观察者，用于在步骤日志中带上操作 ID（可为 nil）
//   - resolver: 公网 IP 查询
//   - logger: 日志（可为 nil）
//   - m: 指标（可为 nil）
func NewProxyCommands(proxy *SystemProxyService, steps *StepLogger, resolver publicip.Resolver, logger *logging.SafeLogger, m *metrics.Metrics) *ProxyCommands {
	if steps == nil {
		steps = NewStepLogger(logger, m)
	}
	return &ProxyCommands{
		proxy:    proxy,
		steps:    steps,
		resolver: resolver,
		logger:   logger,
		metrics:  m,
	}
}

// Platform 当前平台实现名称
func (pc *ProxyCommands) Platform() string {
	return pc.proxy.Platform()
}

// EnableProxy 启用系统代理，成功返回 nil，否则返回可读的错误。
func (pc *ProxyCommands) EnableProxy(host string, port uint16) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	opID := pc.startOp()
	pc.logger.Infof(logging.LogTypeSysProxy, "[%s] 启用系统代理 %s:%d (平台: %s)", opID, host, port, pc.proxy.Platform())

	start := time.Now()
	err := pc.proxy.SetSystemProxy(host, port)
	pc.finishOp(opID, OperationEnable, start, err)
	return err
}

// DisableProxy 关闭系统代理，成功返回 nil，否则返回可读的错误。
func (pc *ProxyCommands) DisableProxy() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	opID := pc.startOp()
	pc.logger.Infof(logging.LogTypeSysProxy, "[%s] 关闭系统代理 (平台: %s)", opID, pc.proxy.Platform())

	start := time.Now()
	err := pc.proxy.ClearSystemProxy()
	pc.finishOp(opID, OperationDisable, start, err)
	return err
}

// GetPublicIP 查询公网 IP；响应中没有 ip 字段时返回空字符串。
func (pc *ProxyCommands) GetPublicIP(ctx context.Context) (string, error) {
	start := time.Now()
	ip, err := pc.resolver.Lookup(ctx)
	pc.metrics.ObserveOperation(OperationPublicIP, time.Since(start).Seconds(), err)
	if err != nil {
		pc.logger.Errorf(logging.LogTypeApp, "查询公网 IP 失败: %v", err)
		return "", apperr.Wrap(apperr.CodePublicIP, "查询公网 IP 失败", err)
	}
	pc.logger.Debugf(logging.LogTypeApp, "公网 IP: %q", ip)
	return ip, nil
}

func (pc *ProxyCommands) startOp() string {
	opID := uuid.NewString()
	pc.steps.begin(opID)
	return opID
}

func (pc *ProxyCommands) finishOp(opID, operation string, start time.Time, err error) {
	elapsed := time.Since(start)
	pc.metrics.ObserveOperation(operation, elapsed.Seconds(), err)
	if err != nil {
		pc.logger.Errorf(logging.LogTypeSysProxy, "[%s] %s 失败 (%s): %v", opID, operation, elapsed, err)
		return
	}
	pc.logger.Infof(logging.LogTypeSysProxy, "[%s] %s 完成 (%s)", opID, operation, elapsed)
}

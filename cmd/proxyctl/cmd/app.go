package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/config"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/database"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/logging"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/metrics"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/publicip"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/service"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/store"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/systemproxy"
)

// app 一次命令执行所需的全部组件
type app struct {
	logger   *logging.Logger
	log      *logging.SafeLogger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	config   *service.ConfigService
	commands *service.ProxyCommands
}

func newApp(cfg *config.Config) (*app, error) {
	logger, err := logging.NewLogger(cfg.LogFile, cfg.Console, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	safe := logging.NewSafeLogger(logger)

	if err := database.InitDB(cfg.DBPath); err != nil {
		logger.Close()
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	st := store.NewStore()
	if err := st.LoadAll(); err != nil {
		database.CloseDB()
		logger.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics(reg)

	steps := service.NewStepLogger(safe, m)
	proxy := service.NewSystemProxyService(systemproxy.WithObserver(steps))
	resolver := publicip.New(
		publicip.WithEndpoint(cfg.IPLookupURL),
		publicip.WithTimeout(cfg.IPLookupTimeout),
	)

	return &app{
		logger:   logger,
		log:      safe,
		registry: reg,
		metrics:  m,
		config:   service.NewConfigService(st),
		commands: service.NewProxyCommands(proxy, steps, resolver, safe, m),
	}, nil
}

func (a *app) Close() {
	if err := database.CloseDB(); err != nil {
		a.log.Errorf(logging.LogTypeApp, "关闭数据库失败: %v", err)
	}
	a.logger.Close()
}

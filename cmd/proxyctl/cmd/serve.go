package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/api"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/config"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		addr          string
		disableOnExit bool
	)
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP control API",
		Long: `Serve a local HTTP API for toggling the system proxy.

Routes:
  GET  /health
  POST /proxy/enable   {"host": "...", "port": 1080}
  POST /proxy/disable
  GET  /ip
  GET  /defaults, PUT /defaults
  GET  /metrics

When started with a config file, changes to its log level are applied
without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = opts.cfg.APIAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, addr, disableOnExit)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (default: apiAddr from config)")
	c.Flags().BoolVar(&disableOnExit, "disable-on-exit", false, "turn the system proxy off when the server stops")
	return c
}

func runServe(ctx context.Context, opts *rootOptions, addr string, disableOnExit bool) error {
	a, err := newApp(opts.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancelWatch := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	defer func() {
		cancelWatch()
		<-watchDone
	}()

	if opts.cfgUsed == "" {
		close(watchDone)
	} else if w, err := config.NewWatcher(opts.cfgUsed); err != nil {
		a.log.Warnf(logging.LogTypeApp, "无法监听配置文件 %s: %v", opts.cfgUsed, err)
		close(watchDone)
	} else {
		go func() {
			defer close(watchDone)
			w.Run(ctx, func(cfg *config.Config, err error) {
				if err != nil {
					a.log.Warnf(logging.LogTypeApp, "重新加载配置失败: %v", err)
					return
				}
				a.log.SetLogLevel(cfg.LogLevel)
				a.log.Infof(logging.LogTypeApp, "配置已重新加载，日志级别: %s", cfg.LogLevel)
			})
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr: addr,
		Handler: api.NewRouter(api.Options{
			Commands: a.commands,
			Config:   a.config,
			Gatherer: a.registry,
			Logger:   a.log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof(logging.LogTypeApp, "HTTP API 监听 %s (平台: %s)", addr, a.commands.Platform())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP API 启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Infof(logging.LogTypeApp, "正在停止 HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf(logging.LogTypeApp, "停止 HTTP API 失败: %v", err)
	}
	<-errCh

	if disableOnExit {
		if err := a.commands.DisableProxy(); err != nil {
			a.log.Errorf(logging.LogTypeApp, "退出时关闭系统代理失败: %v", err)
		}
	}
	return nil
}

// Package api 提供本地 HTTP 控制接口（proxyctl serve）
package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperr "github.com/CodeExpert787/VPN-Windows-Mac/internal/error"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/logging"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/service"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/store"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/systemproxy"
)

type Router struct {
	commands service.ProxyCommandsInterface
	config   service.ConfigServiceInterface
	gatherer prometheus.Gatherer
	logger   *logging.SafeLogger
}

// Options 路由依赖。Config 为 nil 时 /defaults 不可用，enable 请求必须给出完整目标。
type Options struct {
	Commands service.ProxyCommandsInterface
	Config   service.ConfigServiceInterface
	Gatherer prometheus.Gatherer
	Logger   *logging.SafeLogger
}

func NewRouter(opts Options) *gin.Engine {
	r := &Router{
		commands: opts.Commands,
		config:   opts.Config,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), r.accessLog())
	r.register(engine)
	return engine
}

func (r *Router) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		r.logger.Debugf(logging.LogTypeApp, "[API] %s %s %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (r *Router) register(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "platform": r.commands.Platform(), "timestamp": time.Now()})
	})

	proxy := engine.Group("/proxy")
	{
		proxy.POST("/enable", r.enableProxy)
		proxy.POST("/disable", r.disableProxy)
	}

	engine.GET("/ip", r.publicIP)

	if r.config != nil {
		engine.GET("/defaults", r.getDefaults)
		engine.PUT("/defaults", r.saveDefaults)
	}

	if r.gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}
}

type enableRequest struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

type defaultsRequest struct {
	Host string `json:"host" binding:"required"`
	Port uint16 `json:"port" binding:"required"`
}

func (r *Router) enableProxy(c *gin.Context) {
	var req enableRequest
	// 空请求体表示使用默认目标
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	host, port := req.Host, req.Port
	if r.config != nil {
		var err error
		host, port, err = r.config.ResolveTarget(host, port)
		if err != nil {
			r.handleError(c, err)
			return
		}
	}
	if host == "" || port == 0 {
		badRequest(c, service.ErrNoProxyTarget)
		return
	}

	if err := r.commands.EnableProxy(host, port); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "enabled", "host": host, "port": port})
}

func (r *Router) disableProxy(c *gin.Context) {
	if err := r.commands.DisableProxy(); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disabled"})
}

func (r *Router) publicIP(c *gin.Context) {
	ip, err := r.commands.GetPublicIP(c.Request.Context())
	if err != nil {
		body := gin.H{"error": err.Error()}
		if code := apperr.CodeOf(err); code != "" {
			body["code"] = code
		}
		c.JSON(http.StatusBadGateway, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ip": ip})
}

func (r *Router) getDefaults(c *gin.Context) {
	d, err := r.config.GetProxyDefaults()
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (r *Router) saveDefaults(c *gin.Context) {
	var req defaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d := store.ProxyDefaults{Host: req.Host, Port: req.Port}
	if err := r.config.SaveProxyDefaults(d); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (r *Router) handleError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if code := apperr.CodeOf(err); code != "" {
		body["code"] = code
	}
	if errors.Is(err, systemproxy.ErrUnsupported) {
		body["code"] = "UNSUPPORTED"
	}
	c.JSON(http.StatusInternalServerError, body)
}

package systemproxy

import (
	"runtime"
	"strconv"
)

// ProxyConfig 一次 Enable 调用的代理目标，不做主机名/IP 校验。
type ProxyConfig struct {
	Host string
	Port uint16
}

// String 返回 "host:port"，与注册表 ProxyServer、netsh winhttp 使用的格式一致。
func (c ProxyConfig) String() string {
	return c.Host + ":" + strconv.Itoa(int(c.Port))
}

// SystemProxy 系统代理管理器
// 使用策略模式，构造时根据平台选定实现，之后不再切换
type SystemProxy struct {
	platform PlatformProxy
}

// Option 配置 SystemProxy 的可选项
type Option func(*options)

type options struct {
	runner   CommandRunner
	observer StepObserver
	platform PlatformProxy
}

// WithRunner 替换执行外部命令的 runner（networksetup / netsh）
func WithRunner(runner CommandRunner) Option {
	return func(o *options) {
		if runner != nil {
			o.runner = runner
		}
	}
}

// WithObserver 设置尽力而为步骤的观察者
func WithObserver(observer StepObserver) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithPlatform 直接指定平台实现，跳过按 GOOS 的选择
func WithPlatform(platform PlatformProxy) Option {
	return func(o *options) {
		o.platform = platform
	}
}

// NewSystemProxy 创建系统代理管理器
// 根据当前运行平台自动选择对应的实现
func NewSystemProxy(opts ...Option) *SystemProxy {
	o := options{
		runner:   NewExecRunner(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	platform := o.platform
	if platform == nil {
		platform = NewPlatformProxy(runtime.GOOS, o.runner, o.observer)
	}
	return &SystemProxy{platform: platform}
}

// Enable 启用系统 HTTP/HTTPS 代理
func (sp *SystemProxy) Enable(cfg ProxyConfig) error {
	return sp.platform.Enable(cfg)
}

// Disable 关闭系统代理
func (sp *SystemProxy) Disable() error {
	return sp.platform.Disable()
}

// Platform 返回当前使用的平台实现名称
func (sp *SystemProxy) Platform() string {
	return sp.platform.Name()
}

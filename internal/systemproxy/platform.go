package systemproxy

import "errors"

// 平台实现名称
const (
	PlatformWindows     = "windows"
	PlatformDarwin      = "darwin"
	PlatformUnsupported = "unsupported"
)

// ErrUnsupported 非 Windows / macOS 平台上的固定错误，文本是对外约定，不要修改。
var ErrUnsupported = errors.New("proxy enabling/disabling is only implemented for Windows and macOS")

// PlatformProxy 平台特定的代理操作接口
type PlatformProxy interface {
	// Name 平台实现名称
	Name() string
	// Enable 设置系统代理
	Enable(cfg ProxyConfig) error
	// Disable 清除系统代理设置
	Disable() error
}

// NewPlatformProxy 根据 goos 创建对应的代理管理器
func NewPlatformProxy(goos string, runner CommandRunner, observer StepObserver) PlatformProxy {
	if observer == nil {
		observer = nopObserver{}
	}
	switch goos {
	case "darwin":
		return newDarwinProxy(runner, observer)
	case "windows":
		return newWindowsProxy(newRegistryStore(), newSettingsBroadcaster(), runner, observer)
	default:
		return &UnsupportedProxy{}
	}
}

// UnsupportedProxy 不支持的操作系统实现，不执行任何系统调用
type UnsupportedProxy struct{}

func (p *UnsupportedProxy) Name() string {
	return PlatformUnsupported
}

func (p *UnsupportedProxy) Enable(ProxyConfig) error {
	return ErrUnsupported
}

func (p *UnsupportedProxy) Disable() error {
	return ErrUnsupported
}

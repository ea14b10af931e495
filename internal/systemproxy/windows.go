package systemproxy

import (
	"errors"
	"time"

	apperr "github.com/CodeExpert787/VPN-Windows-Mac/internal/error"
)

const (
	// HKEY_CURRENT_USER 下的 WinINET 代理设置
	internetSettingsPath = `Software\Microsoft\Windows\CurrentVersion\Internet Settings`

	valueProxyEnable = "ProxyEnable"
	valueProxyServer = "ProxyServer"

	broadcastTimeout = 5 * time.Second
	netshCmd         = "netsh"
)

// WindowsProxy Windows 平台的代理实现
// 启用时注册表写入必须成功；关闭时全部步骤都是尽力而为
type WindowsProxy struct {
	registry    RegistryStore
	broadcaster SettingsBroadcaster
	runner      CommandRunner
	observer    StepObserver
}

func newWindowsProxy(registry RegistryStore, broadcaster SettingsBroadcaster, runner CommandRunner, observer StepObserver) *WindowsProxy {
	return &WindowsProxy{
		registry:    registry,
		broadcaster: broadcaster,
		runner:      runner,
		observer:    observer,
	}
}

func (p *WindowsProxy) Name() string {
	return PlatformWindows
}

// Enable 设置 Windows 系统代理
// 通过修改注册表实现：HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Internet Settings
func (p *WindowsProxy) Enable(cfg ProxyConfig) error {
	if err := p.writeProxy(cfg.String()); err != nil {
		return err
	}

	// 以下步骤失败不影响结果
	p.broadcast(OpEnable)
	_, err := p.runner.Run(netshCmd, "winhttp", "set", "proxy", cfg.String())
	p.step(OpEnable, StepWinHTTP, "", err)
	return nil
}

func (p *WindowsProxy) writeProxy(server string) error {
	key, err := p.registry.CreateKey(internetSettingsPath)
	if err != nil {
		return apperr.Wrap(apperr.CodeRegistryOpen, "打开注册表失败", err)
	}
	defer key.Close()

	if err := key.SetDWord(valueProxyEnable, 1); err != nil {
		return apperr.Wrap(apperr.CodeRegistryWrite, "启用代理失败", err)
	}
	if err := key.SetString(valueProxyServer, server); err != nil {
		return apperr.Wrap(apperr.CodeRegistryWrite, "设置代理服务器地址失败", err)
	}
	return nil
}

// Disable 清除 Windows 系统代理设置，总是返回 nil
func (p *WindowsProxy) Disable() error {
	p.clearProxy()
	p.broadcast(OpDisable)
	_, err := p.runner.Run(netshCmd, "winhttp", "reset", "proxy")
	p.step(OpDisable, StepWinHTTP, "", err)
	return nil
}

func (p *WindowsProxy) clearProxy() {
	key, err := p.registry.CreateKey(internetSettingsPath)
	p.step(OpDisable, StepOpenKey, internetSettingsPath, err)
	if err != nil {
		return
	}
	defer key.Close()

	p.step(OpDisable, StepSetProxyEnable, valueProxyEnable, key.SetDWord(valueProxyEnable, 0))

	err = key.DeleteValue(valueProxyServer)
	if errors.Is(err, ErrValueNotFound) {
		err = nil
	}
	p.step(OpDisable, StepDeleteProxyServer, valueProxyServer, err)
}

// broadcast 发送 WM_SETTINGCHANGE，让已运行的程序无需重启即可读到新设置
func (p *WindowsProxy) broadcast(op string) {
	err := p.broadcaster.Broadcast(internetSettingsPath, broadcastTimeout)
	p.step(op, StepBroadcast, "", err)
}

func (p *WindowsProxy) step(op, step, target string, err error) {
	p.observer.ObserveStep(StepResult{Operation: op, Step: step, Target: target, Err: err})
}

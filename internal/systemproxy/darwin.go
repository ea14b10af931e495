package systemproxy

import (
	"strconv"
	"strings"

	apperr "github.com/CodeExpert787/VPN-Windows-Mac/internal/error"
)

const networksetupCmd = "networksetup"

// NetworkServiceEnumerator 列出 macOS 上启用的网络服务
type NetworkServiceEnumerator interface {
	ListServices() ([]string, error)
}

// DarwinProxy macOS 平台的代理实现
// 只有枚举网络服务是必须成功的，逐服务的 networksetup 命令都是尽力而为
type DarwinProxy struct {
	services NetworkServiceEnumerator
	runner   CommandRunner
	observer StepObserver
}

func newDarwinProxy(runner CommandRunner, observer StepObserver) *DarwinProxy {
	return &DarwinProxy{
		services: &networksetupEnumerator{runner: runner},
		runner:   runner,
		observer: observer,
	}
}

func (p *DarwinProxy) Name() string {
	return PlatformDarwin
}

// Enable 对每个网络服务设置并打开 HTTP、HTTPS 代理（每个服务 4 条命令）
func (p *DarwinProxy) Enable(cfg ProxyConfig) error {
	services, err := p.listServices()
	if err != nil {
		return err
	}

	port := strconv.Itoa(int(cfg.Port))
	for _, service := range services {
		p.networksetup(OpEnable, service, "-setwebproxy", service, cfg.Host, port)
		p.networksetup(OpEnable, service, "-setsecurewebproxy", service, cfg.Host, port)
		p.networksetup(OpEnable, service, "-setwebproxystate", service, "on")
		p.networksetup(OpEnable, service, "-setsecurewebproxystate", service, "on")
	}
	return nil
}

// Disable 对每个网络服务关闭 HTTP、HTTPS、SOCKS 代理
func (p *DarwinProxy) Disable() error {
	services, err := p.listServices()
	if err != nil {
		return err
	}

	for _, service := range services {
		p.networksetup(OpDisable, service, "-setwebproxystate", service, "off")
		p.networksetup(OpDisable, service, "-setsecurewebproxystate", service, "off")
		p.networksetup(OpDisable, service, "-setsocksfirewallproxystate", service, "off")
	}
	return nil
}

func (p *DarwinProxy) listServices() ([]string, error) {
	services, err := p.services.ListServices()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeServiceEnum, "获取网络服务失败", err)
	}
	return services, nil
}

// networksetup 执行一条逐服务命令，结果只交给 observer
func (p *DarwinProxy) networksetup(op, service string, args ...string) {
	_, err := p.runner.Run(networksetupCmd, args...)
	p.observer.ObserveStep(StepResult{
		Operation: op,
		Step:      strings.TrimPrefix(args[0], "-"),
		Target:    service,
		Err:       err,
	})
}

// networksetupEnumerator 通过 networksetup -listallnetworkservices 获取服务列表
type networksetupEnumerator struct {
	runner CommandRunner
}

func (e *networksetupEnumerator) ListServices() ([]string, error) {
	result, err := e.runner.Run(networksetupCmd, "-listallnetworkservices")
	if err != nil {
		return nil, err
	}
	return parseNetworkServices(result.Stdout), nil
}

// parseNetworkServices 解析服务列表：
// 跳过空行、以 "*" 开头的禁用服务，以及首行带 "*" 的说明文字。
// 服务名只去掉行尾的 \r，其余原样传给 networksetup。
func parseNetworkServices(output string) []string {
	lines := strings.Split(output, "\n")
	services := make([]string, 0, len(lines))
	first := true
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		legend := first && strings.Contains(trimmed, "*")
		first = false
		if legend || strings.HasPrefix(trimmed, "*") {
			continue
		}
		services = append(services, line)
	}
	return services
}

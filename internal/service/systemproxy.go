package service

import (
	"errors"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/systemproxy"
)

// ErrProxyNotInitialized 服务未持有系统代理管理器
var ErrProxyNotInitialized = errors.New("系统代理未初始化")

// SystemProxyService 系统代理服务，提供系统代理相关的业务逻辑。
type SystemProxyService struct {
	proxy *systemproxy.SystemProxy
}

// NewSystemProxyService 创建新的系统代理服务实例。
// 参数：
//   - opts: 透传给 systemproxy.NewSystemProxy 的选项（runner、observer、平台实现）
//
// 返回：初始化后的 SystemProxyService 实例
func NewSystemProxyService(opts ...systemproxy.Option) *SystemProxyService {
	return &SystemProxyService{
		proxy: systemproxy.NewSystemProxy(opts...),
	}
}

// SetSystemProxy 把系统 HTTP/HTTPS 代理指向 host:port。
// 返回：错误（如果有）
func (sps *SystemProxyService) SetSystemProxy(host string, port uint16) error {
	if sps == nil || sps.proxy == nil {
		return ErrProxyNotInitialized
	}
	return sps.proxy.Enable(systemproxy.ProxyConfig{Host: host, Port: port})
}

// ClearSystemProxy 清除系统代理设置。
// 返回：错误（如果有）
func (sps *SystemProxyService) ClearSystemProxy() error {
	if sps == nil || sps.proxy == nil {
		return ErrProxyNotInitialized
	}
	return sps.proxy.Disable()
}

// Platform 返回当前平台实现名称（windows/darwin/unsupported）
func (sps *SystemProxyService) Platform() string {
	if sps == nil || sps.proxy == nil {
		return ""
	}
	return sps.proxy.Platform()
}

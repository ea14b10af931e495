package service

import (
	"context"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/store"
)

// ProxyCommandsInterface 定义代理命令接口
type ProxyCommandsInterface interface {
	EnableProxy(host string, port uint16) error
	DisableProxy() error
	GetPublicIP(ctx context.Context) (string, error)
	Platform() string
}

// ConfigServiceInterface 定义配置服务接口
type ConfigServiceInterface interface {
	GetProxyDefaults() (store.ProxyDefaults, error)
	SaveProxyDefaults(d store.ProxyDefaults) error
	ResolveTarget(host string, port uint16) (string, uint16, error)
}

var (
	_ ProxyCommandsInterface = (*ProxyCommands)(nil)
	_ ConfigServiceInterface = (*ConfigService)(nil)
)

package service

import (
	"errors"
	"fmt"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/store"
)

// ErrNoProxyTarget 补全默认值后仍缺少主机或端口
var ErrNoProxyTarget = errors.New("host and port are required")

// ConfigService 应用配置服务层，提供用户偏好相关的业务逻辑。
type ConfigService struct {
	store *store.Store
}

// NewConfigService 创建新的配置服务实例。
// 参数：
//   - store: Store 实例，用于数据访问
//
// 返回：初始化后的 ConfigService 实例
func NewConfigService(store *store.Store) *ConfigService {
	return &ConfigService{store: store}
}

// GetProxyDefaults 获取默认代理目标。
func (cs *ConfigService) GetProxyDefaults() (store.ProxyDefaults, error) {
	if cs.store == nil || cs.store.AppConfig == nil {
		return store.ProxyDefaults{}, fmt.Errorf("配置服务: Store 未初始化")
	}
	return cs.store.AppConfig.ProxyDefaults()
}

// SaveProxyDefaults 保存默认代理目标。
func (cs *ConfigService) SaveProxyDefaults(d store.ProxyDefaults) error {
	if cs.store == nil || cs.store.AppConfig == nil {
		return fmt.Errorf("配置服务: Store 未初始化")
	}
	return cs.store.AppConfig.SaveProxyDefaults(d)
}

// ResolveTarget 用默认值补全调用方未给出的主机或端口（空主机、零端口视为未给出）。
func (cs *ConfigService) ResolveTarget(host string, port uint16) (string, uint16, error) {
	if host != "" && port != 0 {
		return host, port, nil
	}
	d, err := cs.GetProxyDefaults()
	if err != nil {
		return "", 0, err
	}
	if host == "" {
		host = d.Host
	}
	if port == 0 {
		port = d.Port
	}
	return host, port, nil
}

// All 返回已保存的全部偏好（key-value 副本）
func (cs *ConfigService) All() map[string]string {
	if cs.store == nil || cs.store.AppConfig == nil {
		return map[string]string{}
	}
	return cs.store.AppConfig.All()
}

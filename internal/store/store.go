package store

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/database"
)

// Store 是数据层入口，封装对 app_config 的访问。
type Store struct {
	// 应用配置管理
	AppConfig *AppConfigStore
}

// NewStore 创建新的 Store 实例。
// 注意：不会自动加载数据，需要在数据库初始化后调用 LoadAll()。
func NewStore() *Store {
	return &Store{
		AppConfig: NewAppConfigStore(),
	}
}

// LoadAll 从数据库加载所有数据到 Store。
func (s *Store) LoadAll() error {
	return s.AppConfig.Load()
}

// ProxyDefaults 用户保存的默认代理目标
type ProxyDefaults struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

// AppConfigStore 管理应用配置数据，带内存缓存。
type AppConfigStore struct {
	mu sync.RWMutex

	// 配置缓存（key-value）
	config map[string]string
}

// NewAppConfigStore 创建新的 AppConfigStore 实例。
func NewAppConfigStore() *AppConfigStore {
	return &AppConfigStore{
		config: make(map[string]string),
	}
}

// Load 写入缺失的默认值并把全部配置读入缓存。
func (acs *AppConfigStore) Load() error {
	if err := database.InitDefaultConfig(); err != nil {
		return fmt.Errorf("应用配置存储: 初始化默认配置失败: %w", err)
	}
	all, err := database.ListAppConfig()
	if err != nil {
		return fmt.Errorf("应用配置存储: 加载配置失败: %w", err)
	}
	acs.mu.Lock()
	acs.config = all
	acs.mu.Unlock()
	return nil
}

// Get 获取配置值，优先读缓存。
func (acs *AppConfigStore) Get(key string) (string, error) {
	acs.mu.RLock()
	value, ok := acs.config[key]
	acs.mu.RUnlock()
	if ok {
		return value, nil
	}
	return database.GetAppConfig(key)
}

// GetWithDefault 获取配置值，如果不存在则返回默认值。
func (acs *AppConfigStore) GetWithDefault(key, defaultValue string) (string, error) {
	value, err := acs.Get(key)
	if err != nil {
		return "", err
	}
	if value != "" {
		return value, nil
	}
	value, err = database.GetAppConfigWithDefault(key, defaultValue)
	if err != nil {
		return "", err
	}
	acs.mu.Lock()
	acs.config[key] = value
	acs.mu.Unlock()
	return value, nil
}

// Set 设置配置值。
func (acs *AppConfigStore) Set(key, value string) error {
	if err := database.SetAppConfig(key, value); err != nil {
		return fmt.Errorf("应用配置存储: 保存配置失败: %w", err)
	}
	acs.mu.Lock()
	acs.config[key] = value
	acs.mu.Unlock()
	return nil
}

// All 返回缓存的副本
func (acs *AppConfigStore) All() map[string]string {
	acs.mu.RLock()
	defer acs.mu.RUnlock()
	out := make(map[string]string, len(acs.config))
	for k, v := range acs.config {
		out[k] = v
	}
	return out
}

// ProxyDefaults 读取默认代理目标。
func (acs *AppConfigStore) ProxyDefaults() (ProxyDefaults, error) {
	host, err := acs.GetWithDefault(database.KeyProxyHost, database.DefaultProxyHost)
	if err != nil {
		return ProxyDefaults{}, err
	}
	portStr, err := acs.GetWithDefault(database.KeyProxyPort, database.DefaultProxyPort)
	if err != nil {
		return ProxyDefaults{}, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return ProxyDefaults{}, fmt.Errorf("应用配置存储: 无效的端口 %q: %w", portStr, err)
	}
	return ProxyDefaults{Host: host, Port: uint16(port)}, nil
}

// SaveProxyDefaults 保存默认代理目标。
func (acs *AppConfigStore) SaveProxyDefaults(d ProxyDefaults) error {
	if d.Host == "" {
		return fmt.Errorf("应用配置存储: 主机不能为空")
	}
	if d.Port == 0 {
		return fmt.Errorf("应用配置存储: 端口必须在 1-65535 之间")
	}
	if err := acs.Set(database.KeyProxyHost, d.Host); err != nil {
		return err
	}
	return acs.Set(database.KeyProxyPort, strconv.Itoa(int(d.Port)))
}

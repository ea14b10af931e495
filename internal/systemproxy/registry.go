package systemproxy

import (
	"errors"
	"time"
)

var (
	// ErrValueNotFound 注册表值不存在
	ErrValueNotFound = errors.New("registry value not found")
	// ErrRegistryUnavailable 当前平台没有注册表
	ErrRegistryUnavailable = errors.New("registry is only available on windows")
	// ErrBroadcastUnavailable 当前平台不能广播 WM_SETTINGCHANGE
	ErrBroadcastUnavailable = errors.New("settings broadcast is only available on windows")
)

// RegistryStore 当前用户注册表（HKEY_CURRENT_USER）的键值存储
type RegistryStore interface {
	// CreateKey 打开 path 对应的项，不存在则创建
	CreateKey(path string) (RegistryKey, error)
}

// RegistryKey 打开的注册表项
type RegistryKey interface {
	SetDWord(name string, value uint32) error
	SetString(name, value string) error
	// DeleteValue 值不存在时返回 ErrValueNotFound
	DeleteValue(name string) error
	Close() error
}

// SettingsBroadcaster 通知正在运行的程序系统设置已更改
type SettingsBroadcaster interface {
	Broadcast(area string, timeout time.Duration) error
}

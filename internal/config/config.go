package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// AppName 配置文件名、环境变量前缀和默认目录都由它派生
	AppName = "proxyctl"
	// EnvPrefix 环境变量前缀，例如 PROXYCTL_LOGLEVEL
	EnvPrefix = "PROXYCTL"
)

// Config 存储应用的配置信息。
// 代理目标（主机、端口）属于用户偏好，存放在数据库里，不在这里。
type Config struct {
	LogLevel        string        `json:"logLevel" mapstructure:"logLevel" validate:"omitempty,oneof=debug info warn error fatal"` // 日志级别
	LogFile         string        `json:"logFile" mapstructure:"logFile" validate:"required"`                                      // 日志文件路径
	Console         bool          `json:"console" mapstructure:"console"`                                                          // 是否同时输出到控制台
	DBPath          string        `json:"dbPath" mapstructure:"dbPath" validate:"required"`                                        // SQLite 数据库路径
	IPLookupURL     string        `json:"ipLookupURL" mapstructure:"ipLookupURL" validate:"required,url"`                          // 公网 IP 查询地址
	IPLookupTimeout time.Duration `json:"ipLookupTimeout" mapstructure:"ipLookupTimeout" validate:"gt=0"`                          // 公网 IP 查询超时
	APIAddr         string        `json:"apiAddr" mapstructure:"apiAddr" validate:"required,hostname_port"`                        // serve 模式监听地址
}

// DefaultConfig 返回默认的应用配置。
// 返回：包含默认值的配置实例
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		LogFile:         "proxyctl.log",
		Console:         false,
		DBPath:          "proxyctl.db",
		IPLookupURL:     "https://api.ipify.org?format=json",
		IPLookupTimeout: 10 * time.Second,
		APIAddr:         "127.0.0.1:9090",
	}
}

var validate = validator.New()

// Validate 验证配置的有效性。
// 返回：如果配置无效则返回错误，否则返回 nil
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s 校验失败 (值: %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("配置无效: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// newViper 创建带默认值和环境变量绑定的 viper 实例
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("logLevel", def.LogLevel)
	v.SetDefault("logFile", def.LogFile)
	v.SetDefault("console", def.Console)
	v.SetDefault("dbPath", def.DBPath)
	v.SetDefault("ipLookupURL", def.IPLookupURL)
	v.SetDefault("ipLookupTimeout", def.IPLookupTimeout)
	v.SetDefault("apiAddr", def.APIAddr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SearchPaths 未指定配置文件时依次查找的目录
func SearchPaths() []string {
	home, _ := os.UserHomeDir()
	paths := []string{".", filepath.Join(home, "."+AppName)}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			paths = append(paths, filepath.Join(appData, AppName))
		}
	}
	return paths
}

// FindConfigFile 在给定目录中查找 proxyctl.json / proxyctl.yaml / proxyctl.yml，找不到返回空字符串
func FindConfigFile(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".json", ".yaml", ".yml"} {
			path := filepath.Join(dir, AppName+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadConfig 加载配置。
// 参数：
//   - filePath: 配置文件路径；为空时在 SearchPaths 中查找，找不到则只使用默认值和环境变量。
//     指定的文件不存在时会写入一份默认配置。
//
// 返回：配置实例、实际使用的配置文件路径（可能为空）和错误
func LoadConfig(filePath string) (*Config, string, error) {
	if filePath == "" {
		filePath = FindConfigFile(SearchPaths())
	} else if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := SaveConfig(DefaultConfig(), filePath); err != nil {
			return nil, "", fmt.Errorf("保存默认配置失败: %w", err)
		}
	}

	v := newViper()
	if filePath != "" {
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, v.ConfigFileUsed(), nil
}

// SaveConfig 将配置保存到指定的 JSON 文件。
// 如果目录不存在，会自动创建。
// 参数：
//   - config: 要保存的配置实例
//   - filePath: 配置文件路径
//
// 返回：错误（如果有）
func SaveConfig(config *Config, filePath string) error {
	// 验证配置
	if err := config.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	// 创建目录（如果不存在）
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	// 序列化配置
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	// 保存到文件
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// 偏好键名
const (
	KeyProxyHost = "proxyHost"
	KeyProxyPort = "proxyPort"
)

// 默认代理目标
const (
	DefaultProxyHost = "127.0.0.1"
	DefaultProxyPort = "1080"
)

// DB 数据库连接
var DB *sql.DB

// InitDB 初始化 SQLite 数据库，创建必要的表结构。
// 如果数据库文件不存在，会自动创建。如果表已存在，不会重复创建。
// 参数：
//   - dbPath: 数据库文件路径
//
// 返回：错误（如果有）
func InitDB(dbPath string) error {
	// 创建目录（如果不存在）
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("创建数据库目录失败: %w", err)
	}

	// 打开数据库连接
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("打开数据库失败: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("数据库连接测试失败: %w", err)
	}
	DB = db

	// 创建表
	if err := createTables(); err != nil {
		return fmt.Errorf("创建表失败: %w", err)
	}

	return nil
}

// createTables 创建数据库表
func createTables() error {
	// 应用配置表，只保存用户偏好（默认代理目标等），不记录代理开关历史
	createAppConfigTable := `
	CREATE TABLE IF NOT EXISTS app_config (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL UNIQUE,
		value TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	createIndexes := `
	CREATE INDEX IF NOT EXISTS idx_app_config_key ON app_config(key);
	`

	if _, err := DB.Exec(createAppConfigTable); err != nil {
		return fmt.Errorf("创建应用配置表失败: %w", err)
	}

	if _, err := DB.Exec(createIndexes); err != nil {
		return fmt.Errorf("创建索引失败: %w", err)
	}

	return nil
}

// InitDefaultConfig 初始化默认配置到数据库。
// 如果配置已存在则跳过，避免覆盖用户设置。
func InitDefaultConfig() error {
	defaultConfigs := map[string]string{
		KeyProxyHost: DefaultProxyHost,
		KeyProxyPort: DefaultProxyPort,
	}

	for key, defaultValue := range defaultConfigs {
		// GetAppConfigWithDefault 会在不存在时写入默认值
		_, err := GetAppConfigWithDefault(key, defaultValue)
		if err != nil {
			return fmt.Errorf("初始化配置 %s 失败: %w", key, err)
		}
	}

	return nil
}

// CloseDB 关闭数据库连接。
// 应该在应用退出时调用此方法以正确释放资源。
// 返回：错误（如果有）
func CloseDB() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		return err
	}
	return nil
}

// SetAppConfig 保存应用配置到数据库的 app_config 表。
// 参数：
//   - key: 配置键名（如 "proxyHost", "proxyPort"）
//   - value: 配置值（字符串格式）
//
// 返回：错误（如果有）
func SetAppConfig(key, value string) error {
	if DB == nil {
		return fmt.Errorf("设置应用配置失败: 数据库未初始化")
	}
	now := time.Now()
	_, err := DB.Exec(
		`INSERT INTO app_config (key, value, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = ?`,
		key, value, now, now, value, now,
	)
	if err != nil {
		return fmt.Errorf("设置应用配置失败: %w", err)
	}
	return nil
}

// GetAppConfig 从数据库的 app_config 表获取应用配置。
// 参数：
//   - key: 配置键名
//
// 返回：配置值和错误（未找到时返回空字符串）
func GetAppConfig(key string) (string, error) {
	if DB == nil {
		return "", fmt.Errorf("获取应用配置失败: 数据库未初始化")
	}
	var value string
	err := DB.QueryRow("SELECT value FROM app_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("获取应用配置失败: %w", err)
	}
	return value, nil
}

// GetAppConfigWithDefault 获取应用配置，如果不存在则写入并返回默认值。
// 参数：
//   - key: 配置键名
//   - defaultValue: 默认值（当配置不存在时返回）
//
// 返回：配置值或默认值和错误（如果有）
func GetAppConfigWithDefault(key, defaultValue string) (string, error) {
	value, err := GetAppConfig(key)
	if err != nil {
		return "", err
	}
	if value == "" {
		if err := SetAppConfig(key, defaultValue); err != nil {
			return "", err
		}
		return defaultValue, nil
	}
	return value, nil
}

// ListAppConfig 返回 app_config 表中的全部键值
func ListAppConfig() (map[string]string, error) {
	if DB == nil {
		return nil, fmt.Errorf("读取应用配置失败: 数据库未初始化")
	}
	rows, err := DB.Query("SELECT key, value FROM app_config ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("读取应用配置失败: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("读取应用配置失败: %w", err)
		}
		result[key] = value
	}
	return result, rows.Err()
}

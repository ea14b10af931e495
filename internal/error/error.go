package error

import (
	"errors"
	"fmt"
)

// 错误码：仅用于致命失败（调用直接中止的那一类）。
const (
	// CodeRegistryOpen 打开/创建注册表项失败
	CodeRegistryOpen = "REGISTRY_OPEN"
	// CodeRegistryWrite 写入注册表值失败
	CodeRegistryWrite = "REGISTRY_WRITE"
	// CodeServiceEnum 枚举 macOS 网络服务失败
	CodeServiceEnum = "SERVICE_ENUM"
	// CodePublicIP 查询公网 IP 失败
	CodePublicIP = "PUBLIC_IP"
)

// AppError 定义结构化应用错误
type AppError struct {
	Code    string // 错误码
	Message string // 错误消息
	Err     error  // 原始错误（可选）
}

// Wrap 用错误码和消息包装原始错误
func Wrap(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *AppError) Unwrap() error {
	return e.Err
}

// CodeOf 返回错误链中第一个 AppError 的错误码，没有则返回空字符串。
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

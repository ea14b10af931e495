package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel 日志级别
type LogLevel int

const (
	// LevelDebug 调试级别
	LevelDebug LogLevel = iota
	// LevelInfo 信息级别
	LevelInfo
	// LevelWarn 警告级别
	LevelWarn
	// LevelError 错误级别
	LevelError
	// LevelFatal 致命级别
	LevelFatal
)

var levelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

// LogType 日志类型
type LogType string

const (
	// LogTypeApp 应用程序日志
	LogTypeApp LogType = "app"
	// LogTypeSysProxy 系统代理操作日志（注册表、networksetup、netsh）
	LogTypeSysProxy LogType = "sysproxy"
)

// Logger 日志记录器
// 同时写日志文件和（可选）控制台
type Logger struct {
	level       LogLevel
	file        *os.File // 单一日志文件
	console     io.Writer
	mutex       sync.Mutex
	logFilePath string
	logDir      string
}

const (
	// MaxLogFileSize 单个日志文件最大大小（10MB）
	MaxLogFileSize int64 = 10 * 1024 * 1024
)

// NewLogger 创建新的日志记录器
// 参数：
//   - logFilePath: 日志文件路径
//   - console: 是否输出到控制台（stderr）
//   - level: 日志级别
func NewLogger(logFilePath string, console bool, level string) (*Logger, error) {
	logLevel, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	unifiedLogPath := logFilePath
	// 如果路径没有扩展名，添加 .log
	if filepath.Ext(unifiedLogPath) == "" {
		unifiedLogPath = unifiedLogPath + ".log"
	}
	logDir := filepath.Dir(unifiedLogPath)

	logger := &Logger{
		level:       logLevel,
		logFilePath: unifiedLogPath,
		logDir:      logDir,
	}
	if console {
		logger.console = os.Stderr
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}

	// 启动时如果日志文件存在则归档
	if err := archive(unifiedLogPath, 0); err != nil {
		return nil, fmt.Errorf("归档日志文件失败: %w", err)
	}

	logFile, err := os.OpenFile(unifiedLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	logger.file = logFile

	return logger, nil
}

// archive 文件大小超过 threshold 时重命名为带时间戳的归档文件
func archive(logPath string, threshold int64) error {
	fileInfo, err := os.Stat(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if fileInfo.Size() == 0 || fileInfo.Size() < threshold {
		return nil
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := fmt.Sprintf("%s.%s", logPath, timestamp)
	if err := os.Rename(logPath, backupPath); err != nil {
		return fmt.Errorf("归档日志文件失败: %w", err)
	}
	return nil
}

// ParseLogLevel 解析日志级别字符串，空字符串视为 info
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("无效的日志级别: %s", level)
	}
}

// log 记录日志
func (l *Logger) log(level LogLevel, logType LogType, format string, args ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("%s [%s] [%s] %s\n", timestamp, levelNames[level], logType, message)

	if l.console != nil {
		fmt.Fprint(l.console, logLine)
	}

	if l.file != nil {
		l.rotateIfNeeded()
		if _, err := l.file.WriteString(logLine); err != nil {
			// 写入失败时重新打开文件再试一次
			l.reopenFile()
			if l.file != nil {
				l.file.WriteString(logLine)
			}
		}
	}

	if level == LevelFatal {
		os.Exit(1)
	}
}

// rotateIfNeeded 运行时检查日志大小，超过阈值则归档后重新打开
func (l *Logger) rotateIfNeeded() {
	info, err := l.file.Stat()
	if err != nil || info.Size() < MaxLogFileSize {
		return
	}
	l.file.Close()
	l.file = nil
	_ = archive(l.logFilePath, MaxLogFileSize)
	l.reopenFile()
}

// reopenFile 重新打开日志文件
func (l *Logger) reopenFile() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	newFile, err := os.OpenFile(l.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		l.file = newFile
	}
}

// Debug 记录调试日志
func (l *Logger) Debug(logType LogType, format string, args ...interface{}) {
	l.log(LevelDebug, logType, format, args...)
}

// Info 记录信息日志
func (l *Logger) Info(logType LogType, format string, args ...interface{}) {
	l.log(LevelInfo, logType, format, args...)
}

// Warn 记录警告日志
func (l *Logger) Warn(logType LogType, format string, args ...interface{}) {
	l.log(LevelWarn, logType, format, args...)
}

// Error 记录错误日志
func (l *Logger) Error(logType LogType, format string, args ...interface{}) {
	l.log(LevelError, logType, format, args...)
}

// GetLogLevel 获取当前日志级别
func (l *Logger) GetLogLevel() string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return strings.ToLower(levelNames[l.level])
}

// SetLogLevel 设置日志级别，无效级别被忽略
func (l *Logger) SetLogLevel(level string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if logLevel, err := ParseLogLevel(level); err == nil {
		l.level = logLevel
	}
}

// Close 关闭日志记录器
func (l *Logger) Close() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// GetLogFilePath 获取日志文件路径
func (l *Logger) GetLogFilePath() string {
	return l.logFilePath
}

// SafeLogger 安全日志包装器，处理 Logger 为 nil 的情况
type SafeLogger struct {
	logger *Logger
}

// NewSafeLogger 创建安全日志包装器
func NewSafeLogger(logger *Logger) *SafeLogger {
	return &SafeLogger{
		logger: logger,
	}
}

// Debugf 记录调试日志
func (sl *SafeLogger) Debugf(logType LogType, format string, args ...interface{}) {
	if sl != nil && sl.logger != nil {
		sl.logger.Debug(logType, format, args...)
	}
}

// Infof 记录信息日志
func (sl *SafeLogger) Infof(logType LogType, format string, args ...interface{}) {
	if sl != nil && sl.logger != nil {
		sl.logger.Info(logType, format, args...)
	}
}

// Warnf 记录警告日志
func (sl *SafeLogger) Warnf(logType LogType, format string, args ...interface{}) {
	if sl != nil && sl.logger != nil {
		sl.logger.Warn(logType, format, args...)
	}
}

// Errorf 记录错误日志
func (sl *SafeLogger) Errorf(logType LogType, format string, args ...interface{}) {
	if sl != nil && sl.logger != nil {
		sl.logger.Error(logType, format, args...)
	}
}

// SetLogLevel 设置底层 Logger 的日志级别
func (sl *SafeLogger) SetLogLevel(level string) {
	if sl != nil && sl.logger != nil {
		sl.logger.SetLogLevel(level)
	}
}

// IsReady 检查 Logger 是否已初始化
func (sl *SafeLogger) IsReady() bool {
	return sl != nil && sl.logger != nil
}

// SetLogger 设置底层 Logger
func (sl *SafeLogger) SetLogger(logger *Logger) {
	sl.logger = logger
}

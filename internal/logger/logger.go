// Package logger 提供统一的日志工具
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Level 日志级别
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析日志级别字符串
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DEBUG
	case "INFO", "info":
		return INFO
	case "WARN", "warn", "WARNING", "warning":
		return WARN
	case "ERROR", "error":
		return ERROR
	default:
		return INFO
	}
}

// 事件分类
const (
	CategoryCapture  = "CAP"
	CategoryOCR      = "OCR"
	CategoryLocate   = "LOC"
	CategoryClick    = "CLK"
	CategorySequence = "SEQ"
)

// Entry 一条已输出的日志
type Entry struct {
	Time    time.Time `json:"-"`
	Stamp   string    `json:"timestamp"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// DefaultHistorySize 默认保留的最近日志条数
const DefaultHistorySize = 500

// Logger 日志记录器
type Logger struct {
	mu       sync.Mutex
	level    Level
	enabled  bool
	console  bool
	file     bool
	filePath string
	logger   *log.Logger
	fileOut  *os.File

	// 最近日志环形缓冲，供 GUI 日志面板读取
	history []Entry
	next    int
	full    bool

	hook func(Entry)
}

// 全局默认 logger
var defaultLogger = New()

// New 创建新的 Logger 实例
func New() *Logger {
	return NewWithHistory(DefaultHistorySize)
}

// NewWithHistory 创建保留指定条数历史的 Logger
func NewWithHistory(size int) *Logger {
	if size <= 0 {
		size = 1
	}
	return &Logger{
		level:   INFO,
		enabled: true,
		console: true,
		logger:  log.New(os.Stdout, "", 0),
		history: make([]Entry, size),
	}
}

// Default 获取默认 logger
func Default() *Logger {
	return defaultLogger
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetEnabled 设置是否启用日志
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// SetConsole 设置是否输出到控制台
func (l *Logger) SetConsole(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = enabled
	l.updateOutput()
}

// SetOutput 替换控制台输出目标（测试时使用）
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// SetHook 设置日志回调，每条输出的日志都会回调一次
// 回调在持有锁之外执行，可以安全地再次写日志以外的操作
func (l *Logger) SetHook(hook func(Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hook = hook
}

// SetFile 设置是否输出到文件
func (l *Logger) SetFile(enabled bool, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileOut != nil {
		l.fileOut.Close()
		l.fileOut = nil
	}

	l.file = enabled
	l.filePath = path

	if enabled && path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("无法打开日志文件: %w", err)
		}
		l.fileOut = f
	}

	l.updateOutput()
	return nil
}

func (l *Logger) updateOutput() {
	var writers []io.Writer

	if l.console {
		writers = append(writers, os.Stdout)
	}
	if l.file && l.fileOut != nil {
		writers = append(writers, l.fileOut)
	}

	switch len(writers) {
	case 0:
		l.logger.SetOutput(io.Discard)
	case 1:
		l.logger.SetOutput(writers[0])
	default:
		l.logger.SetOutput(io.MultiWriter(writers...))
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	if !l.enabled || level < l.level {
		l.mu.Unlock()
		return
	}

	now := time.Now()
	entry := Entry{
		Time:    now,
		Stamp:   now.Format("15:04:05"),
		Level:   level.String(),
		Message: fmt.Sprintf(format, args...),
	}
	l.logger.Printf("%s | %-5s | %s", entry.Stamp, entry.Level, entry.Message)

	l.history[l.next] = entry
	l.next = (l.next + 1) % len(l.history)
	if l.next == 0 {
		l.full = true
	}
	hook := l.hook
	l.mu.Unlock()

	if hook != nil {
		hook(entry)
	}
}

// Recent 返回最近的 limit 条日志，按时间先后排列
// limit <= 0 时返回全部保留的日志
func (l *Logger) Recent(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.next
	if l.full {
		count = len(l.history)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	result := make([]Entry, 0, limit)
	start := l.next - limit
	for i := 0; i < limit; i++ {
		idx := (start + i + len(l.history)) % len(l.history)
		result = append(result, l.history[idx])
	}
	return result
}

// Debug 输出 DEBUG 级别日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info 输出 INFO 级别日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn 输出 WARN 级别日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error 输出 ERROR 级别日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// LogEvent 记录带分类的事件日志
func (l *Logger) LogEvent(category string, ok bool, elapsedMs float64, detail string) {
	if ok {
		l.Info("%-4s | OK | %6.1fms | %s", category, elapsedMs, detail)
	} else {
		l.Warn("%-4s | NG | %6.1fms | %s", category, elapsedMs, detail)
	}
}

// Close 关闭 logger，释放资源
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileOut != nil {
		err := l.fileOut.Close()
		l.fileOut = nil
		return err
	}
	return nil
}

// 包级别便捷函数
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
func LogEvent(category string, ok bool, elapsedMs float64, detail string) {
	defaultLogger.LogEvent(category, ok, elapsedMs, detail)
}
func Recent(limit int) []Entry { return defaultLogger.Recent(limit) }

// Since 计算自 start 起经过的毫秒数，配合 LogEvent 使用
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

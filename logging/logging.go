// Package logging 提供各组件共享的结构化日志。
//
// 日志基于 log/slog，默认输出到 stderr；级别由环境变量 CELLS_LOG_LEVEL
// 控制（debug / info / warn / error），未设置时为 info。
//
//	log := logging.New("director")
//	log.Debug("measure", "root", root.ID())
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelEnv 是控制日志级别的环境变量名。
const LevelEnv = "CELLS_LOG_LEVEL"

var (
	initLogger sync.Once
	baseLogger *slog.Logger
	level      = new(slog.LevelVar)
	output     = &switchWriter{w: os.Stderr}
)

// switchWriter 允许在 logger 创建之后切换输出目标。
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}

// New 返回带 component 属性的 logger；component 为空时返回基础 logger。
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		level.Set(ParseLevel(os.Getenv(LevelEnv)))
		baseLogger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// SetLevel 在运行期调整所有 logger 的级别（例如 CLI 的 --log-level）。
func SetLevel(value string) {
	level.Set(ParseLevel(value))
}

// FileOptions 配置滚动日志文件。
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ToFile 把所有 logger 的输出切换到按大小滚动的日志文件，返回的函数关闭文件并恢复 stderr。
func ToFile(opts FileOptions) (restore func() error) {
	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}
	prev := output.swap(file)
	return func() error {
		output.swap(prev)
		return file.Close()
	}
}

// Discard 返回一个丢弃所有输出的 logger，测试中使用。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel 将文本级别转换为 slog.Level，无法识别时返回 info。
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package log

import (
	"log/slog"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[SLog]

func init() {
	// 默认向终端输出 text 格式日志
	l, err := NewWithOptions(&Options{Level: "info", Format: "text"})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger.Store(l)
}

func Default() *SLog {
	return defaultLogger.Load()
}

// SetDefault 替换进程默认 logger，nil 忽略
func SetDefault(l *SLog) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// Discard 丢弃所有输出，测试中使用
func Discard() *SLog {
	return &SLog{slogger: slog.New(slog.DiscardHandler), level: &slog.LevelVar{}}
}

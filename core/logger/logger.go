package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	current = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
)

// Init configures the process logger. format is "json" or "text".
func Init(level string, format string) {
	InitWithWriter(os.Stderr, level, format)
}

func InitWithWriter(w io.Writer, level string, format string) {
	opts := log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(level),
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
	}

	mu.Lock()
	current = log.NewWithOptions(w, opts)
	mu.Unlock()
}

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Debug(msg any, keyvals ...any) {
	get().Debug(msg, keyvals...)
}

func Info(msg any, keyvals ...any) {
	get().Info(msg, keyvals...)
}

func Warn(msg any, keyvals ...any) {
	get().Warn(msg, keyvals...)
}

func Error(msg any, keyvals ...any) {
	get().Error(msg, keyvals...)
}

// With returns a child logger carrying the given key/value pairs.
func With(keyvals ...any) *log.Logger {
	return get().With(keyvals...)
}

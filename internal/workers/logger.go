// internal/workers/logger.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// AsynqLogger routes asynq's own logging into slog
type AsynqLogger struct {
	logger *slog.Logger
}

// NewAsynqLogger returns an asynq.Logger backed by logger
func NewAsynqLogger(logger *slog.Logger) *AsynqLogger {
	return &AsynqLogger{logger: logger.With(slog.String("component", "asynq"))}
}

func (l *AsynqLogger) Debug(args ...interface{}) {
	l.log(slog.LevelDebug, args...)
}

func (l *AsynqLogger) Info(args ...interface{}) {
	l.log(slog.LevelInfo, args...)
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	l.log(slog.LevelWarn, args...)
}

func (l *AsynqLogger) Error(args ...interface{}) {
	l.log(slog.LevelError, args...)
}

// Fatal logs at error level and exits, as asynq expects
func (l *AsynqLogger) Fatal(args ...interface{}) {
	l.log(slog.LevelError, args...)
	os.Exit(1)
}

func (l *AsynqLogger) log(level slog.Level, args ...interface{}) {
	l.logger.Log(context.Background(), level, fmt.Sprint(args...))
}

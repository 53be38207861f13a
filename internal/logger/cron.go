package logger

import "github.com/robfig/cron/v3"

type cronLogger struct{}

// Cron returns a cron.Logger that writes scheduler diagnostics to slog.
func Cron() cron.Logger {
	return cronLogger{}
}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	Get().Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]any{"error", err}, keysAndValues...)
	Get().Error("cron: "+msg, args...)
}

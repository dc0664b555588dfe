package logger

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type cronLogger struct {
	log *zap.SugaredLogger
}

// CronLogger adapts a zap logger to the cron.Logger interface.
func CronLogger(log *zap.Logger) cron.Logger {
	return &cronLogger{log: log.Named("cron").Sugar()}
}

// Info keeps cron's per-tick chatter at debug level.
func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

package logger

import (
	"go.uber.org/zap"
)

const serviceName = "LCID"

// New builds the service logger. Development mode gives console output with
// debug level; anything else uses the JSON production config.
func New(env string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(serviceName), nil
}

func Sync(log *zap.Logger) {
	_ = log.Sync()
}

package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Anything other than "production" gets the
// human readable development encoder.
func New(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "production") {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Named names the first non-nil logger in ls, falling back to the global
// logger. Handlers take their logger as an optional trailing argument.
func Named(name string, ls ...*zap.Logger) *zap.Logger {
	for _, l := range ls {
		if l != nil {
			return l.Named(name)
		}
	}
	return zap.L().Named(name)
}

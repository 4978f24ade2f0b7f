package internal

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. env comes from TRACKMATCH_ENV:
// the default profile is production-style console output, "dev" switches
// to the human-readable development encoder.
func NewLogger(env string) (*zap.Logger, error) {
	switch env {
	case "dev", "development":
		return zap.NewDevelopment()
	case "test":
		// keep test output quiet, no stack traces
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		return cfg.Build()
	default:
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
		return cfg.Build()
	}
}

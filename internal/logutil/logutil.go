// Package logutil builds the application logger. The pipeline logs
// data-quality exclusions at Warn so a run's noise is visible without
// being fatal.
package logutil

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger at the given level. Unknown levels fall
// back to info. Output is human-readable: this is a CLI, not a service.
func New(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return z.Named("patron-import").Sugar(), nil
}

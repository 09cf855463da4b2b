// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
)

// New returns a configured zap logger. With json=false output is the
// human-readable development format; debug lowers the level threshold.
func New(json, debug bool) (*zap.Logger, error) {
	var cfg zap.Config

	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}

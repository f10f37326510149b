// Package logger builds the process-wide zap logger from the configured level.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a production zap logger at the given level (debug, info, warn, error).
// The logger is constructed once at startup and passed to components explicitly.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

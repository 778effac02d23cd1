package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Level and format come from the
// environment rather than config because the logger must exist before the
// config is loaded.
func NewLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := os.Getenv("WARDBOOK_LOG_LEVEL"); raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(os.Getenv("WARDBOOK_LOG_FORMAT"), "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}

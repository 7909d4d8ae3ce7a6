// internal/logging/logger.go
//
// Application logging. The TUI owns the terminal, so log output goes to a
// file under the data directory where it can be inspected after the fact.

package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger writing to <logsDir>/eightd.log.
func New(logsDir, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	path := filepath.Join(logsDir, "eightd.log")
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

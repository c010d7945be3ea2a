package app

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewLogger builds a file-backed JSON logger. The TUI owns the terminal, so
// nothing may write to stdout or stderr while a program is running.
func NewLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

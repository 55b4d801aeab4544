// Package logging builds the hclog root logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	"focusflow/internal/platform/config"
)

const rootName = "focusflow"

// New returns the root logger and a close func for any opened log file.
func New(cfg config.LogConfig) (hclog.Logger, func() error, error) {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}

	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   rootName,
		Level:  level,
		Output: out,
	})
	return logger, closer, nil
}

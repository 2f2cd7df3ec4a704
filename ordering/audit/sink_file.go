package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSink appends one line per record to a local log file.
type FileSink struct {
	path string
}

type FileSinkConfig struct {
	Path string `envconfig:"PATH" split_words:"true" default:"data/orders.log"`
}

func NewFileSink(cfg FileSinkConfig) (*FileSink, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("audit log path is required")
	}
	return &FileSink{path: path}, nil
}

func (s *FileSink) Append(_ context.Context, rec Record) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create audit dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(rec.Line() + "\n"); err != nil {
		return fmt.Errorf("append audit line: %w", err)
	}
	return nil
}

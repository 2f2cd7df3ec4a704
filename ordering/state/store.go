package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrRecordNotFound = errors.New("session record not found")

// RecordStore persists the durable session record. Implementations return
// ErrRecordNotFound when no record exists yet; the Session treats every
// other error as best-effort and keeps running in memory.
type RecordStore interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

// FileStore keeps the session record as a single JSON file.
type FileStore struct {
	path string
}

type FileStoreConfig struct {
	Path string `envconfig:"PATH" split_words:"true" default:"data/session.json"`
}

func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("session file path is required")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load(_ context.Context) (*Record, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("read session record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	return &rec, nil
}

func (f *FileStore) Save(_ context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("nil session record")
	}

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, payload, 0o600); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type localArchive struct {
	baseDir string
	now     func() time.Time
}

func NewLocalArchive(baseDir string) (*localArchive, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}
	return &localArchive{baseDir: baseDir, now: time.Now}, nil
}

// Save writes data under the base directory and returns its relative key.
func (s *localArchive) Save(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(s.now())
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("creating dir: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return key, nil
}

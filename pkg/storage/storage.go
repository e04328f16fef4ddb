package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/dskvich/image-telegram-bot/pkg/config"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

const category = "generations"

type Archive interface {
	Save(ctx context.Context, data []byte) (string, error)
}

// New returns the archive configured by cfg, or nil when archiving is off.
func New(cfg config.Archive) (Archive, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case TypeLocal:
		return NewLocalArchive(cfg.LocalDir)
	case TypeS3:
		return NewS3Archive(cfg)
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", cfg.Type)
	}
}

// objectKey builds generations/YYYY/MM/DD/<uuid>.png.
func objectKey(now time.Time) string {
	now = now.UTC()
	return path.Join(
		category,
		fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		uuid.NewString()+".png",
	)
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/dskvich/image-telegram-bot/pkg/config"
)

func TestLocalArchiveSave(t *testing.T) {
	dir := t.TempDir()
	a, err := NewLocalArchive(dir)
	if err != nil {
		t.Fatalf("NewLocalArchive() error = %v", err)
	}
	a.now = func() time.Time { return time.Date(2025, time.March, 7, 23, 0, 0, 0, time.UTC) }

	key, err := a.Save(context.Background(), []byte("png"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	pattern := regexp.MustCompile(`^generations/2025/03/07/[0-9a-f-]{36}\.png$`)
	if !pattern.MatchString(key) {
		t.Errorf("Save() key = %q, want match %s", key, pattern)
	}

	got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(got) != "png" {
		t.Errorf("saved content = %q, want %q", got, "png")
	}
}

func TestLocalArchiveRejectsEmptyPayload(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalArchive() error = %v", err)
	}
	if _, err := a.Save(context.Background(), nil); err == nil {
		t.Error("Save(nil) error = nil, want error")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Archive
		wantNil bool
		wantErr bool
	}{
		{name: "disabled", cfg: config.Archive{}, wantNil: true},
		{name: "local", cfg: config.Archive{Type: TypeLocal, LocalDir: t.TempDir()}},
		{name: "s3", cfg: config.Archive{Type: TypeS3, S3Bucket: "images", S3Region: "us-east-1", S3Endpoint: "minio:9000", S3PathStyle: true}},
		{name: "s3 without bucket", cfg: config.Archive{Type: TypeS3, S3Region: "us-east-1"}, wantErr: true},
		{name: "unknown", cfg: config.Archive{Type: "ftp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("New() = %v, wantNil %v", got, tt.wantNil)
			}
		})
	}
}

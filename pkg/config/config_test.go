package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TELEGRAM_AUTHORIZED_USER_IDS", "1 2 3")
	t.Setenv("ARCHIVE_TYPE", "local")
	t.Setenv("ARCHIVE_LOCAL_DIR", "/tmp/archive")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.TelegramAuthorizedUserIDs) != 3 || cfg.TelegramAuthorizedUserIDs[2] != 3 {
		t.Errorf("unexpected authorized ids: %v", cfg.TelegramAuthorizedUserIDs)
	}
	if cfg.DefaultAllowance != 10 {
		t.Errorf("expected default allowance 10, got %d", cfg.DefaultAllowance)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected session ttl 30m, got %s", cfg.SessionTTL)
	}
	if cfg.Archive.LocalDir != "/tmp/archive" {
		t.Errorf("expected archive dir from env, got %q", cfg.Archive.LocalDir)
	}
	if cfg.AdminEnabled() {
		t.Error("expected admin console disabled without credentials")
	}
}

func TestLoadRequiresTokens(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when required variables are missing")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative allowance", func(c *Config) { c.DefaultAllowance = -1 }, true},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, true},
		{"s3 without bucket", func(c *Config) { c.Archive.Type = "s3" }, true},
		{"s3 with bucket", func(c *Config) { c.Archive.Type = "s3"; c.Archive.S3Bucket = "images" }, false},
		{"unknown archive", func(c *Config) { c.Archive.Type = "ftp" }, true},
	}

	for _, test := range tests {
		cfg := Config{DefaultAllowance: 10, SessionTTL: time.Minute}
		test.mutate(&cfg)
		if err := cfg.Validate(); (err != nil) != test.wantErr {
			t.Errorf("%s: expected error %v, got %v", test.name, test.wantErr, err)
		}
	}
}

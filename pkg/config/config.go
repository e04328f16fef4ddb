package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TelegramBotToken          string        `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAuthorizedUserIDs []int64       `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`
	TelegramUpdateTimeout     int           `env:"TELEGRAM_UPDATE_TIMEOUT" envDefault:"60"`
	SessionTTL                time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	DefaultAllowance          int           `env:"DEFAULT_ALLOWANCE" envDefault:"10"`

	GeminiAPIKey     string `env:"GEMINI_API_KEY,required"`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiImageModel string `env:"GEMINI_IMAGE_MODEL" envDefault:"gemini-3-pro-image-preview"`
	GeminiTextModel  string `env:"GEMINI_TEXT_MODEL" envDefault:"gemini-2.0-flash"`

	OpenAIToken string `env:"OPEN_AI_TOKEN"`

	Database

	AdminAddr         string        `env:"ADMIN_ADDR" envDefault:":8080"`
	AdminURL          string        `env:"ADMIN_URL"`
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	AdminJWTSecret    string        `env:"ADMIN_JWT_SECRET"`
	AdminSessionTTL   time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"24h"`

	DigitalOceanToken string `env:"DIGITALOCEAN_TOKEN"`

	Archive Archive `envPrefix:"ARCHIVE_"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"debug"`
	LogNoColor bool   `env:"LOG_NO_COLOR"`
}

// Database is everything the maintenance commands need.
type Database struct {
	PgURL  string `env:"DATABASE_URL"`
	PgHost string `env:"DB_HOST" envDefault:"localhost:65432"`
}

type Archive struct {
	Type        string `env:"TYPE"`
	LocalDir    string `env:"LOCAL_DIR" envDefault:"./data"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PathStyle bool   `env:"S3_PATH_STYLE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadDatabase() (*Database, error) {
	cfg := &Database{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DefaultAllowance < 0 {
		return errors.New("DEFAULT_ALLOWANCE must not be negative")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	switch c.Archive.Type {
	case "", "local":
	case "s3":
		if c.Archive.S3Bucket == "" {
			return errors.New("ARCHIVE_S3_BUCKET is required for the s3 archive")
		}
	default:
		return fmt.Errorf("unknown ARCHIVE_TYPE %q", c.Archive.Type)
	}
	return nil
}

// AdminEnabled reports whether the web console has credentials to accept logins with.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != "" && (c.AdminPassword != "" || c.AdminPasswordHash != "")
}

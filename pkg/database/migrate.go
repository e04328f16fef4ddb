package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Direction = migrate.MigrationDirection

const (
	Up   = migrate.Up
	Down = migrate.Down
)

// Migrate applies the embedded migrations. Down rolls back a single step.
func Migrate(db *sql.DB, dir Direction) error {
	src := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations",
	}

	max := 0
	if dir == Down {
		max = 1
	}

	n, err := migrate.ExecMax(db, "postgres", src, dir, max)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	slog.Info("migrations applied", "count", n, "direction", directionName(dir))
	return nil
}

func directionName(dir Direction) string {
	if dir == Down {
		return "down"
	}
	return "up"
}

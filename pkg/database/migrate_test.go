package database

import (
	"strings"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
)

func TestEmbeddedMigrationsParse(t *testing.T) {
	src := &migrate.EmbedFileSystemMigrationSource{FileSystem: migrations, Root: "migrations"}

	ms, err := src.FindMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms) == 0 {
		t.Fatal("expected at least one migration")
	}

	for _, m := range ms {
		if len(m.Up) == 0 || len(m.Down) == 0 {
			t.Errorf("migration %s must have both directions", m.Id)
		}
	}

	up := strings.Join(ms[0].Up, "\n")
	for _, table := range []string{"users", "pricing", "generations"} {
		if !strings.Contains(up, "CREATE TABLE "+table) {
			t.Errorf("expected %s table in the initial migration", table)
		}
	}
}

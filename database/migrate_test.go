package database

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRunMigrations_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	if err := RunMigrations(conn); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if err := RunMigrations(conn); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	var applied int
	if err := conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&applied); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}

	migrations, err := loadMigrations(migrationFiles)
	if err != nil {
		t.Fatalf("Failed to load migrations: %v", err)
	}
	if applied != len(migrations) {
		t.Errorf("Expected %d applied migrations, got %d", len(migrations), applied)
	}

	for _, table := range []string{"users", "record_updates"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s: %v", table, err)
		}
	}
}

func TestLoadMigrations_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/010_later.sql": {Data: []byte("SELECT 1;")},
		"migrations/002_second.sql": {Data: []byte("SELECT 2;")},
		"migrations/README.md":      {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("Failed to load migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("Expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != "002_second" || migrations[1].Version != "010_later" {
		t.Errorf("Unexpected order: %s, %s", migrations[0].Version, migrations[1].Version)
	}
}

func TestInitializeDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.db")
	if err := InitializeDatabase(path); err != nil {
		t.Fatalf("InitializeDatabase failed: %v", err)
	}
	defer CloseDB()

	if err := GetDB().Ping(); err != nil {
		t.Errorf("Expected an open connection: %v", err)
	}
}

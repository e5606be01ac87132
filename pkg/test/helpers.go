package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	database "todolists/internal/adapter/database/sqlite"
)

// findProjectRoot walks up from this file until it finds go.mod, so tests
// locate migrations regardless of which package runs them.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens a fresh in-memory database with foreign keys enforced
// and the full migration set applied.
func InitTestDB() *database.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations")
	database.RunMigrations(sqlDB, migrationsPath)

	return database.NewWithConn(sqlDB)
}

// CleanDB truncates every application table between test cases.
func CleanDB(t *testing.T, db *database.DB) {
	t.Helper()

	// Respect FK ordering: todos before lists before users.
	for _, table := range []string{"todos", "lists", "users"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

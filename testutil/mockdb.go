package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

	// Create pageforgeKV table
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS pageforgeKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create pageforgeKV table: %v", err)
	}

	return db
}

// SetKV inserts or replaces a key in pageforgeKV
func SetKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT INTO pageforgeKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to set key %s: %v", key, err)
	}
}

// GetKV reads a key from pageforgeKV, returning "" when absent
func GetKV(t *testing.T, db *sql.DB, key string) string {
	t.Helper()
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM pageforgeKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		t.Fatalf("Failed to get key %s: %v", key, err)
	}
	if !value.Valid {
		return ""
	}
	return value.String
}

package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens (creating if needed) the pageforge SQLite database and
// ensures the key-value table exists.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the pageforgeKV table if it is missing.
func EnsureSchema(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS pageforgeKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create pageforgeKV table: %w", err)
	}
	return nil
}

// GetValue reads a single key from pageforgeKV. A missing key returns the
// empty string with no error.
func GetValue(db *sql.DB, key string) (string, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM pageforgeKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	if !value.Valid {
		return "", nil
	}
	return value.String, nil
}

// SetValue writes a single key into pageforgeKV, replacing any previous value.
func SetValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO pageforgeKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// DeleteValue removes a key from pageforgeKV; deleting a missing key is a
// no-op.
func DeleteValue(db *sql.DB, key string) error {
	if _, err := db.Exec("DELETE FROM pageforgeKV WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

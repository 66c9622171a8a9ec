package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteKV implements the KV interface using SQLite for persistence.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV creates a new SQLite-backed key-value store.
// The database file and table are auto-created if they don't exist.
func NewSQLiteKV(dbPath string) (*SQLiteKV, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	// Create table if not exists
	createTableSQL := `
		CREATE TABLE IF NOT EXISTS state (
			state_key TEXT PRIMARY KEY NOT NULL,
			state_value BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create state table: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

// Get retrieves the value stored under key.
// Returns the value and true if present, otherwise nil and false.
func (s *SQLiteKV) Get(key string) ([]byte, bool) {
	var value []byte

	err := s.db.QueryRow(
		"SELECT state_value FROM state WHERE state_key = ?",
		key,
	).Scan(&value)

	if err != nil {
		// Not found or other error
		return nil, false
	}

	return value, true
}

// Set stores a value under key, fully overwriting any previous entry.
func (s *SQLiteKV) Set(key string, value []byte) error {
	// Use INSERT OR REPLACE to handle both new entries and updates
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO state (state_key, state_value, updated_at)
		 VALUES (?, ?, ?)`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set state entry: %w", err)
	}

	return nil
}

// Delete removes the entry stored under key, if any.
func (s *SQLiteKV) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM state WHERE state_key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete state entry: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteKV) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Package storage holds the on-device persistence: a string-keyed JSON
// store backed by SQLite, and the favorites and list-cache collections
// built on top of it.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// KV is the generic persisted key-value store. Read and write failures
// never reach callers: a failed read reports absent and a failed write is
// a no-op, both logged. Keeping the UI usable wins over strict
// persistence guarantees; callers cannot distinguish "empty" from "failed
// to read".
type KV struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates or opens the store at path. Use ":memory:" for tests.
// It initializes the database with WAL mode, applies pragmas, and runs
// migrations.
func Open(path string) (*KV, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &KV{
		db:  db,
		log: slog.Default().With("component", "storage"),
	}, nil
}

// enablePragmas sets SQLite pragmas for performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *KV) Close() error {
	return s.db.Close()
}

// Get returns the stored value for key, or absent. Read failures report
// absent.
func (s *KV) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv_entries WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.log.Warn("read failed, reporting absent", "key", key, "error", err)
		return "", false
	}
	return value, true
}

// Set stores value under key, overwriting any previous value. Write
// failures are a logged no-op.
func (s *KV) Set(key, value string) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now)
	if err != nil {
		s.log.Warn("write failed, value dropped", "key", key, "error", err)
	}
}

// Delete removes key. Failures are a logged no-op, same as Set.
func (s *KV) Delete(key string) {
	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		s.log.Warn("delete failed", "key", key, "error", err)
	}
}

package kv

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLite persists key-value pairs in the workspace_kv table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open database. The workspace_kv table must already
// exist (migrations run before stores are constructed).
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM workspace_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query workspace_kv: %w", err)
	}
	return []byte(value), true, nil
}

func (s *SQLite) Put(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO workspace_kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("upsert workspace_kv: %w", err)
	}
	return nil
}

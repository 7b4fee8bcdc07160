package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createBlobsTable = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLite stores the blob as one row of a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
	key  string
}

// OpenSQLite opens (creating if needed) the database at path and returns a
// backend for the row named key.
func OpenSQLite(path, key string) (*SQLite, error) {
	if key == "" {
		return nil, errors.New("sqlite blob key is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite3: %w", err)
	}
	// One writer, one process.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createBlobsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create blobs table: %w", err)
	}

	return &SQLite{db: db, path: path, key: key}, nil
}

// Location returns the database path and row key.
func (s *SQLite) Location() string {
	return s.path + "#" + s.key
}

// Read returns the stored blob for the backend key.
func (s *SQLite) Read() ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM blobs WHERE key = ?`, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, s.Location())
		}
		return nil, fmt.Errorf("query blob: %w", err)
	}
	return data, nil
}

// Write upserts the blob for the backend key.
func (s *SQLite) Write(data []byte) error {
	return s.upsert(s.key, data)
}

// Backup stores data in the row <key>.bak.
func (s *SQLite) Backup(data []byte) (string, error) {
	key := s.key + ".bak"
	if err := s.upsert(key, data); err != nil {
		return "", err
	}
	return s.path + "#" + key, nil
}

func (s *SQLite) upsert(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

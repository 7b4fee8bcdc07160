// Package storage provides the blob stores that back a task list.
//
// A backend holds exactly one blob. The task store reads it once on load
// and overwrites it in full after every mutation, so backends never see
// partial updates.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrNotExist reports that a backend has no data yet.
// It matches fs.ErrNotExist as well.
var ErrNotExist = fmt.Errorf("task data does not exist: %w", fs.ErrNotExist)

// Backend reads and writes the serialized task list.
type Backend interface {
	// Read returns the stored blob, or an error matching ErrNotExist
	// when nothing has been written yet.
	Read() ([]byte, error)
	// Write replaces the stored blob.
	Write(data []byte) error
	// Location describes where the blob lives, for logs and messages.
	Location() string
}

// ErrBackupUnsupported is returned by Backup for backends that cannot keep
// a side copy.
var ErrBackupUnsupported = errors.New("backend does not support backups")

// Backuper is implemented by backends that can keep a copy of a blob next
// to the live one.
type Backuper interface {
	// Backup stores data beside the live blob, replacing any earlier
	// backup, and returns where it went.
	Backup(data []byte) (string, error)
}

// Backup saves data beside the live blob of b.
func Backup(b Backend, data []byte) (string, error) {
	bk, ok := b.(Backuper)
	if !ok {
		return "", ErrBackupUnsupported
	}
	return bk.Backup(data)
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// ParseKind validates a backend name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFile:
		return KindFile, nil
	case KindSQLite, "sqlite3":
		return KindSQLite, nil
	case KindMemory:
		return KindMemory, nil
	default:
		return "", fmt.Errorf("unknown storage %q, must be one of: file, sqlite, memory", s)
	}
}

// Open returns the backend for kind. dataFile is the JSON file path for the
// file backend and the row key for sqlite; dbFile is the SQLite database.
// Callers should close the result with Close.
func Open(kind Kind, dataFile, dbFile string) (Backend, error) {
	switch kind {
	case KindFile, "":
		if dataFile == "" {
			return nil, errors.New("data file path is empty")
		}
		return NewFile(dataFile), nil
	case KindSQLite:
		if dbFile == "" {
			return nil, errors.New("database file path is empty")
		}
		return OpenSQLite(dbFile, filepath.Base(dataFile))
	case KindMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}

// Close releases backend resources if the backend holds any.
func Close(b Backend) error {
	if c, ok := b.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

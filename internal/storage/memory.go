package storage

import "sync"

// Memory keeps the blob in process memory. It is used by tests and by the
// "memory" storage kind for throwaway sessions.
type Memory struct {
	mu     sync.Mutex
	data   []byte
	stored bool

	// Writes counts successful writes.
	Writes int
	// FailWrites, when set, is returned by Write and nothing is stored.
	FailWrites error

	// Backups holds every blob passed to Backup, oldest first.
	Backups [][]byte
	// FailBackups, when set, is returned by Backup.
	FailBackups error
}

// NewMemory returns a memory backend. A nil data slice means nothing has
// been stored yet.
func NewMemory(data []byte) *Memory {
	m := &Memory{}
	if data != nil {
		m.data = append([]byte(nil), data...)
		m.stored = true
	}
	return m
}

// Location returns a fixed description.
func (m *Memory) Location() string {
	return "memory"
}

// Read returns a copy of the stored blob.
func (m *Memory) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stored {
		return nil, ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

// Write stores a copy of data.
func (m *Memory) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data = append([]byte(nil), data...)
	m.stored = true
	m.Writes++
	return nil
}

// Bytes returns the stored blob, or nil when nothing was written.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stored {
		return nil
	}
	return append([]byte(nil), m.data...)
}

// Backup records a copy of data.
func (m *Memory) Backup(data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailBackups != nil {
		return "", m.FailBackups
	}
	m.Backups = append(m.Backups, append([]byte(nil), data...))
	return "memory.bak", nil
}

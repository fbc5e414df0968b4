package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// PrefStore is a string-keyed preference contract. The plugin layer builds
// its key namespaces (plugin_pref_<key>, plugin_enabled_<id>) on top of it.
type PrefStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// SQLitePrefStore implements PrefStore backed by SQLite.
type SQLitePrefStore struct {
	db *DB
}

// NewSQLitePrefStore creates a preference store using the given database.
func NewSQLitePrefStore(db *DB) *SQLitePrefStore {
	return &SQLitePrefStore{db: db}
}

// Get returns the value for a key and whether it was present.
func (s *SQLitePrefStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.sql.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes a key/value pair, replacing any existing value.
func (s *SQLitePrefStore) Set(key, value string) error {
	_, err := s.db.sql.Exec(
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Unknown keys are a no-op.
func (s *SQLitePrefStore) Delete(key string) error {
	if _, err := s.db.sql.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting preference %q: %w", key, err)
	}
	return nil
}

// MemoryPrefStore implements PrefStore in memory, for tests and the
// memory backend.
type MemoryPrefStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryPrefStore creates an empty in-memory preference store.
func NewMemoryPrefStore() *MemoryPrefStore {
	return &MemoryPrefStore{data: make(map[string]string)}
}

// Get returns the value for a key and whether it was present.
func (s *MemoryPrefStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set writes a key/value pair.
func (s *MemoryPrefStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes a key.
func (s *MemoryPrefStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

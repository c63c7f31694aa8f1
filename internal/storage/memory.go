package storage

import (
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
)

// MemoryRepository is an in-memory Repository used in tests.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string][]byte

	// FailWrites makes every Set return an error, for exercising the
	// best-effort persistence paths.
	FailWrites bool
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string][]byte),
	}
}

// Get reads the record stored under key into out.
func (m *MemoryRepository) Get(key string, out interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, found := m.records[key]
	if !found {
		return false, nil
	}

	err := json.Unmarshal(data, out)
	if err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	return true, nil
}

// Set replaces the record stored under key.
func (m *MemoryRepository) Set(key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return fmt.Errorf("write %s: storage unavailable", key)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	m.records[key] = data
	return nil
}

// Delete removes the record stored under key.
func (m *MemoryRepository) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}

// Close is a no-op for the in-memory repository.
func (m *MemoryRepository) Close() error {
	return nil
}

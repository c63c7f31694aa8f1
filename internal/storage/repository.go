package storage

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Fixed keys for the persisted records. One JSON blob per logical record.
const (
	KeyPublishedTrades = "published_trades"
	KeyForecastCache   = "forecast_cache"
)

// Repository is a typed key-value store for the planner's persisted
// records. The medium is swappable: the service uses the file-backed
// implementation, tests use the in-memory one.
type Repository interface {
	// Get reads the record stored under key into out.
	// Returns (false, nil) when the key has never been written.
	Get(key string, out interface{}) (bool, error)

	// Set replaces the record stored under key. Whole-record semantics:
	// there is no partial patch at this layer.
	Set(key string, value interface{}) error

	// Delete removes the record stored under key. Deleting an absent key
	// is not an error.
	Delete(key string) error

	// Close releases any resources held by the repository.
	Close() error
}

// CacheEntry wraps a cached payload with its write timestamp so readers
// can apply a TTL. Durable preference records are stored flat, without
// this envelope.
type CacheEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// WriteCache stores value under key wrapped in a CacheEntry envelope.
func WriteCache(repo Repository, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache payload: %w", err)
	}

	entry := CacheEntry{
		Timestamp: time.Now(),
		Data:      data,
	}

	err = repo.Set(key, entry)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

// ReadCache reads the CacheEntry under key into out if the entry exists
// and is younger than ttl. Returns (false, nil) on miss or expiry.
func ReadCache(repo Repository, key string, ttl time.Duration, out interface{}) (bool, error) {
	var entry CacheEntry
	found, err := repo.Get(key, &entry)
	if err != nil {
		return false, fmt.Errorf("read cache entry: %w", err)
	}
	if !found {
		return false, nil
	}

	if time.Since(entry.Timestamp) > ttl {
		return false, nil
	}

	err = json.Unmarshal(entry.Data, out)
	if err != nil {
		return false, fmt.Errorf("unmarshal cache payload: %w", err)
	}

	return true, nil
}

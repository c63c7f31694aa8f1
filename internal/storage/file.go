package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// FileRepository stores each key as a JSON file under a state directory.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated record behind.
type FileRepository struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewFileRepository creates the state directory if needed and returns a
// repository rooted there.
func NewFileRepository(dir string, logger *zap.Logger) (*FileRepository, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	logger.Info("file-repository-opened", zap.String("dir", dir))

	return &FileRepository{
		dir:    dir,
		logger: logger,
	}, nil
}

func (f *FileRepository) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the record stored under key into out.
func (f *FileRepository) Get(key string, out interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	return true, nil
}

// Set replaces the record stored under key.
func (f *FileRepository) Set(key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	tmp := f.path(key) + ".tmp"
	err = os.WriteFile(tmp, data, 0o644)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	err = os.Rename(tmp, f.path(key))
	if err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}

	f.logger.Debug("record-persisted",
		zap.String("key", key),
		zap.Int("bytes", len(data)))

	return nil
}

// Delete removes the record stored under key.
func (f *FileRepository) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Close is a no-op for the file repository.
func (f *FileRepository) Close() error {
	return nil
}

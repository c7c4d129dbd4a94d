package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/introspection"
)

// FileStore keeps the key-value pairs in a single JSON object file.
// Every read goes to disk so that writes from other processes are visible.
type FileStore struct {
	Path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created lazily on
// the first write.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{Path: filepath.Clean(path), logger: logger}
}

// load reads the file. A missing file is an empty store; a corrupted file is
// treated as empty too and overwritten by the next write.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		s.logger.Warn("session file is corrupted, ignoring it", "path", s.Path, "error", err)
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return s.persist(data)
}

// Snapshot returns every stored pair.
func (s *FileStore) Snapshot() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		s.logger.Error("session read failed", "key", key, "error", err)
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *FileStore) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := values[k]; ok {
			delete(values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(values)
}

// FileStoreState is the introspection view of a FileStore.
type FileStoreState struct {
	Path string `json:"path"`
	Keys int    `json:"keys"`
}

// State implements introspection.Introspectable.
func (s *FileStore) State() any {
	values, _ := s.Snapshot()
	return FileStoreState{Path: s.Path, Keys: len(values)}
}

// ComponentType implements introspection.Component.
func (s *FileStore) ComponentType() string {
	return "file-store"
}

var _ Store = (*FileStore)(nil)
var _ introspection.Introspectable = (*FileStore)(nil)
var _ introspection.Component = (*FileStore)(nil)

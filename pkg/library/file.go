package library

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/labelpress/labelpress/pkg/errors"
)

const fileName = "library.json"

// FileStore persists the library as a JSON array in a single file. Writes
// go through a temp file and rename, so a crash never leaves a half-written
// library. A missing or corrupt file reads as empty.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed library under dataDir. If dataDir is
// empty, defaults to ~/.local/share/labelpress.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "resolving home dir")
		}
		dataDir = filepath.Join(home, ".local", "share", "labelpress")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating data dir")
	}
	return &FileStore{path: filepath.Join(dataDir, fileName)}, nil
}

// Path returns the library file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(), nil
}

func (s *FileStore) Add(ctx context.Context, items ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(merge(s.read(), items))
}

func (s *FileStore) Remove(ctx context.Context, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, found := remove(s.read(), item)
	if !found {
		return ErrNotFound
	}
	return s.write(next)
}

func (s *FileStore) Replace(ctx context.Context, items []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(normalize(items))
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// read loads the current items. Any read or parse failure counts as an
// empty library; the next write repairs the file.
func (s *FileStore) read() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

func (s *FileStore) write(items []string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding library")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing library")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "writing library")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "writing library")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "replacing library file")
	}
	return nil
}

var _ Store = (*FileStore)(nil)

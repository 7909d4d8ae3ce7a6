package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
)

// FileStore keeps each key as one JSON document inside a directory. Writes
// go through a temp file plus rename so a crash mid-write never leaves a
// half-written collection behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the collection stored under key. A missing or malformed file
// yields an empty collection.
func (s *FileStore) Load(key string) ([]report.Report, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", s.path(key), err)
	}
	reports, err := decode(data)
	if err != nil {
		return nil, nil
	}
	return reports, nil
}

// Save writes the full collection under key.
func (s *FileStore) Save(key string, reports []report.Report) error {
	data, err := encode(reports)
	if err != nil {
		return fmt.Errorf("store: encode collection: %w", err)
	}
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: replace %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; the file store holds no open handles.
func (s *FileStore) Close() error { return nil }

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
)

// SQLiteStore persists each key as a single row holding the serialized
// collection. The payload format is the same JSON the file store writes.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and ensures
// the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	schema := `
CREATE TABLE IF NOT EXISTS collections (
    key        TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the collection stored under key. A missing row or malformed
// payload yields an empty collection.
func (s *SQLiteStore) Load(key string) ([]report.Report, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM collections WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", key, err)
	}
	reports, err := decode(payload)
	if err != nil {
		return nil, nil
	}
	return reports, nil
}

// Save replaces the payload stored under key with the full collection.
func (s *SQLiteStore) Save(key string, reports []report.Report) error {
	payload, err := encode(reports)
	if err != nil {
		return fmt.Errorf("store: encode collection: %w", err)
	}
	_, err = s.db.Exec(`
INSERT INTO collections (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		key, payload)
	if err != nil {
		return fmt.Errorf("store: save %q: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

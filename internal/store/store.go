// internal/store/store.go
//
// Durable storage for the report collection. The whole collection is
// serialized under a single fixed key on every write; there is no
// incremental format. Two drivers exist: a SQLite key/payload table (the
// default) and a plain JSON file.

package store

import "github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"

// Key is the namespace the report collection is persisted under. It matches
// the storage key the application has always used.
const Key = "8d-reports"

// Store persists report collections. Load returns an empty collection when
// nothing is stored under the key or the stored payload is malformed;
// corrupt data is never fatal. Save replaces the stored payload wholesale.
type Store interface {
	Load(key string) ([]report.Report, error)
	Save(key string, reports []report.Report) error
	Close() error
}

package backend

import (
	"context"

	"trashday/internal/dataset"
	"trashday/internal/storage"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is a ready dataset backend. Importer and Versions are nil
// for read-only backends; Store is set only for the SQLite backend.
type BackendResult struct {
	Type     BackendType
	Loader   dataset.Loader
	Importer dataset.Importer
	Versions VersionReader
	Store    StoreInspector
	Cleanup  CleanupFunc
}

// VersionReader reports the latest stored dataset version.
type VersionReader interface {
	CurrentVersion(ctx context.Context) (int, error)
}

// StoreInspector reports what a persistent store currently holds.
type StoreInspector interface {
	Count(ctx context.Context) (int, error)
	Versions(ctx context.Context, limit int) ([]storage.DatasetVersion, error)
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// csv, and the seed file for memory
	DatasetPath string

	// sqlite
	SQLiteDBPath string

	// sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

package dataset

import (
	"context"

	"trashday/internal/core"
)

// Ports for dataset sources.
type (
	// Loader produces the full dataset for one session.
	Loader interface {
		Load(ctx context.Context) (*core.Dataset, error)
	}

	// Importer replaces the stored records and returns the new dataset version.
	Importer interface {
		ReplaceAll(ctx context.Context, records []core.Record) (version int, err error)
	}

	// Named reports a human readable source name used in logs and errors.
	Named interface {
		Name() string
	}
)

// NameOf returns the source name of l, or fallback when l is not Named.
func NameOf(l any, fallback string) string {
	if n, ok := l.(Named); ok {
		return n.Name()
	}
	return fallback
}

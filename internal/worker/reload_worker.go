package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trashday/internal/amqp"
	"trashday/internal/core"
)

// Reloader drops any cached dataset and loads it again.
type Reloader interface {
	Reload(ctx context.Context) (*core.Dataset, error)
}

// VersionReader reports the latest stored dataset version.
type VersionReader interface {
	CurrentVersion(ctx context.Context) (int, error)
}

// ReloadWorker keeps the served dataset in step with imports. It reacts to
// dataset update messages and, when a version reader is available, polls
// the store as a backup for lost messages.
type ReloadWorker struct {
	reloader Reloader
	versions VersionReader

	mu          sync.Mutex
	lastVersion int
}

// NewReloadWorker creates a worker. versions may be nil for backends
// without stored versions.
func NewReloadWorker(reloader Reloader, versions VersionReader) *ReloadWorker {
	return &ReloadWorker{
		reloader: reloader,
		versions: versions,
	}
}

// HandleDatasetUpdated reloads the dataset for a newer version. Versions
// at or below the last applied one are acknowledged without reloading.
func (w *ReloadWorker) HandleDatasetUpdated(ctx context.Context, msg *amqp.DatasetUpdatedMessage) error {
	slog.InfoContext(ctx, "Processing dataset update message",
		"source", msg.Source,
		"version", msg.Version,
		"records", msg.Records)

	if last := w.LastVersion(); msg.Version <= last {
		slog.InfoContext(ctx, "Dataset version already applied, skipping",
			"version", msg.Version,
			"last_version", last)
		return nil
	}

	return w.reload(ctx, msg.Version)
}

// StartupCheck records the stored version and warms the dataset.
func (w *ReloadWorker) StartupCheck(ctx context.Context) error {
	version := 0
	if w.versions != nil {
		v, err := w.versions.CurrentVersion(ctx)
		if err != nil {
			return fmt.Errorf("read current version: %w", err)
		}
		version = v
	}
	if err := w.reload(ctx, version); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Startup dataset check completed", "version", version)
	return nil
}

// CheckVersion reloads when the store holds a newer version than the last
// one applied. It is the backup path for missed messages.
func (w *ReloadWorker) CheckVersion(ctx context.Context) error {
	if w.versions == nil {
		return nil
	}
	current, err := w.versions.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("read current version: %w", err)
	}
	if last := w.LastVersion(); current <= last {
		return nil
	}
	slog.InfoContext(ctx, "Newer dataset version found in store", "version", current)
	return w.reload(ctx, current)
}

// Run polls the store every interval until ctx is cancelled.
func (w *ReloadWorker) Run(ctx context.Context, interval time.Duration) {
	if w.versions == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.CheckVersion(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic version check failed", "error", err)
			}
		}
	}
}

// LastVersion returns the last dataset version applied.
func (w *ReloadWorker) LastVersion() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastVersion
}

func (w *ReloadWorker) reload(ctx context.Context, version int) error {
	start := time.Now()
	ds, err := w.reloader.Reload(ctx)
	if err != nil {
		return fmt.Errorf("reload dataset: %w", err)
	}

	w.mu.Lock()
	if version > w.lastVersion {
		w.lastVersion = version
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "Dataset reloaded",
		"version", version,
		"source", ds.Source(),
		"rows", ds.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

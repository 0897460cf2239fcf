package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"trashday/internal/cache"
	"trashday/internal/core"
	"trashday/internal/dataset"
	"trashday/internal/metrics"
)

const datasetCacheKey = "dataset"

// DatasetSource hands out the current dataset.
type DatasetSource interface {
	Dataset(ctx context.Context) (*core.Dataset, error)
}

// DatasetProvider loads the dataset at most once per TTL and shares it
// between concurrent requests. Datasets are immutable, so callers may keep
// the returned pointer for the rest of their request.
type DatasetProvider struct {
	loader     dataset.Loader
	backend    string
	cache      *cache.LRUCache[*core.Dataset]
	group      singleflight.Group
	generation atomic.Uint64
}

var _ DatasetSource = (*DatasetProvider)(nil)

func NewDatasetProvider(loader dataset.Loader, backend string, ttl time.Duration) *DatasetProvider {
	return &DatasetProvider{
		loader:  loader,
		backend: backend,
		cache:   cache.NewLRUCache[*core.Dataset](1, ttl),
	}
}

// Dataset returns the cached dataset or loads it. Load failures are
// returned as LoadError and never cached.
func (p *DatasetProvider) Dataset(ctx context.Context) (*core.Dataset, error) {
	if ds, ok := p.cache.Get(datasetCacheKey); ok {
		metrics.RecordCacheLookup(true)
		return ds, nil
	}
	metrics.RecordCacheLookup(false)

	gen := p.generation.Load()
	v, err, shared := p.group.Do(datasetCacheKey, func() (any, error) {
		return p.load(context.WithoutCancel(ctx), gen)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.DebugContext(ctx, "Dataset load shared with concurrent request", "component", "dataset", "backend", p.backend)
	}
	return v.(*core.Dataset), nil
}

func (p *DatasetProvider) load(ctx context.Context, gen uint64) (*core.Dataset, error) {
	name := dataset.NameOf(p.loader, p.backend)
	start := time.Now()
	ds, err := p.loader.Load(ctx)
	metrics.RecordDatasetLoad(p.backend, ds.Len(), time.Since(start), err)
	if err != nil {
		slog.ErrorContext(ctx, "Dataset load failed",
			"component", "dataset",
			"backend", p.backend,
			"source", name,
			"error", err)
		return nil, core.NewLoadError(name, err)
	}

	// An Invalidate during the load means this result may already be stale.
	if p.generation.Load() == gen {
		p.cache.Set(datasetCacheKey, ds)
	}

	slog.InfoContext(ctx, "Dataset loaded",
		"component", "dataset",
		"backend", p.backend,
		"source", ds.Source(),
		"rows", ds.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return ds, nil
}

// Invalidate drops the cached dataset so the next request reloads it.
func (p *DatasetProvider) Invalidate() {
	p.generation.Add(1)
	p.cache.Delete(datasetCacheKey)
	p.group.Forget(datasetCacheKey)
}

// Reload invalidates and loads again, reporting any load failure.
func (p *DatasetProvider) Reload(ctx context.Context) (*core.Dataset, error) {
	p.Invalidate()
	return p.Dataset(ctx)
}

// Cache exposes the underlying cache for periodic cleanup.
func (p *DatasetProvider) Cache() cache.Cleaner {
	return p.cache
}

// Backend names the configured backend.
func (p *DatasetProvider) Backend() string {
	return p.backend
}

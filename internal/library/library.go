package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"reels-server/internal/catalog"
	"reels-server/internal/logging"
	"reels-server/internal/mediatypes"
	"reels-server/internal/metrics"
)

// ErrNotFound indicates no catalog entry exists with the requested id.
var ErrNotFound = errors.New("no catalog entry with that id")

// Library owns the live catalog for one root directory. The catalog is
// read-mostly: readers load the current pointer and work against that
// immutable snapshot, while Reindex builds a replacement off to the side
// and publishes it with a single atomic swap. In-flight readers holding
// the previous snapshot are unaffected.
type Library struct {
	root      string
	cachePath string
	builder   *catalog.Builder

	current atomic.Pointer[catalog.Catalog]

	// rebuildMu serializes rebuilds; readers never take it.
	rebuildMu sync.Mutex
}

// Open resolves the root, then initializes the library from the sidecar
// cache when it is valid for that root, or from a fresh build otherwise.
// A missing or non-directory root fails with catalog.ErrRootNotFound.
func Open(ctx context.Context, root string, types *mediatypes.Registry) (*Library, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", catalog.ErrRootNotFound, absRoot)
		}
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", catalog.ErrRootNotFound, absRoot)
	}

	lib := &Library{
		root:      absRoot,
		cachePath: catalog.CachePath(absRoot),
		builder:   catalog.NewBuilder(absRoot, types),
	}

	if cat, err := catalog.LoadCache(lib.cachePath, absRoot); err == nil {
		lib.current.Store(cat)
		metrics.CacheLoadsTotal.WithLabelValues("hit").Inc()
		logging.Info("Catalog loaded from cache: %d entries (built %s)",
			len(cat.Entries), cat.BuiltAt.Format(time.RFC3339))
		return lib, nil
	} else if errors.Is(err, catalog.ErrCacheInvalid) {
		metrics.CacheLoadsTotal.WithLabelValues("invalid").Inc()
		logging.Warn("Ignoring sidecar cache: %v", err)
	} else {
		metrics.CacheLoadsTotal.WithLabelValues("miss").Inc()
		logging.Debug("No usable sidecar cache (%v), building", err)
	}

	if _, err := lib.Reindex(ctx); err != nil {
		return nil, err
	}
	return lib, nil
}

// Reindex rebuilds the catalog synchronously, publishes it atomically, and
// then overwrites the sidecar cache. Concurrent Reindex calls are
// serialized; the caller blocks until the rebuild and cache write finish.
// A failed cache write is logged and counted but does not fail the reindex.
func (l *Library) Reindex(ctx context.Context) (*catalog.Catalog, error) {
	l.rebuildMu.Lock()
	defer l.rebuildMu.Unlock()

	start := time.Now()
	metrics.CatalogBuildsTotal.Inc()

	cat, err := l.builder.Build(ctx)
	if err != nil {
		metrics.CatalogBuildErrors.Inc()
		return nil, err
	}

	l.current.Store(cat)

	metrics.CatalogBuildDuration.Observe(time.Since(start).Seconds())
	metrics.CatalogLastBuildTimestamp.Set(float64(cat.BuiltAt.Unix()))
	metrics.CatalogEntries.Set(float64(len(cat.Entries)))
	metrics.CatalogFolders.Set(float64(len(cat.Folders)))

	if err := catalog.SaveCache(cat, l.cachePath); err != nil {
		metrics.CacheSaveErrors.Inc()
		logging.Warn("Failed to save sidecar cache: %v", err)
	}

	return cat, nil
}

// Current returns the live catalog snapshot. The returned value is
// immutable; callers may hold it across the duration of a request even if
// a reindex publishes a replacement meanwhile.
func (l *Library) Current() *catalog.Catalog {
	return l.current.Load()
}

// FindByID returns the entry with the given id from the current snapshot.
func (l *Library) FindByID(id string) (catalog.Entry, error) {
	for _, e := range l.Current().Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return catalog.Entry{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Root returns the absolute root directory the library serves.
func (l *Library) Root() string {
	return l.root
}

// CachePath returns the sidecar cache location.
func (l *Library) CachePath() string {
	return l.cachePath
}

// GetStats implements metrics.StatsProvider.
func (l *Library) GetStats() metrics.Stats {
	cat := l.Current()
	if cat == nil {
		return metrics.Stats{}
	}
	return metrics.Stats{
		TotalEntries: len(cat.Entries),
		TotalFolders: len(cat.Folders),
		BuiltAt:      cat.BuiltAt,
	}
}

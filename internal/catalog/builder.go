package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"reels-server/internal/logging"
	"reels-server/internal/mediatypes"
)

// ErrRootNotFound indicates the catalog root does not exist or is not a
// directory. Fatal at startup, recoverable on an explicit reindex request.
var ErrRootNotFound = errors.New("root directory not found")

// WalkerConfig configures the directory walk performed by a Builder.
type WalkerConfig struct {
	// NumWorkers is the number of parallel stat/convert workers.
	// A value <= 1 selects the sequential walk.
	NumWorkers int
	// ChannelBuffer is the size of the jobs/results channel buffers.
	ChannelBuffer int
}

// DefaultWalkerConfig returns the default walker configuration. Three
// workers is safe on NFS while still helping on local disks; INDEX_WORKERS
// overrides it.
func DefaultWalkerConfig() WalkerConfig {
	numWorkers := 3
	if override := os.Getenv("INDEX_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			numWorkers = count
		}
	}
	return WalkerConfig{
		NumWorkers:    numWorkers,
		ChannelBuffer: 256,
	}
}

// Builder walks a root directory and produces Catalog values.
type Builder struct {
	root   string
	types  *mediatypes.Registry
	config WalkerConfig
}

// NewBuilder creates a Builder for the given root. The root should already
// be an absolute path; Build verifies that it exists.
func NewBuilder(root string, types *mediatypes.Registry) *Builder {
	return &Builder{
		root:   root,
		types:  types,
		config: DefaultWalkerConfig(),
	}
}

// SetWalkerConfig overrides the walker configuration.
func (b *Builder) SetWalkerConfig(config WalkerConfig) {
	b.config = config
}

// Build walks the root and returns a freshly constructed Catalog. Unreadable
// files and directories are skipped with a warning; only a missing root or a
// canceled context aborts the build. Entries are ordered newest-modified
// first, with ties keeping directory traversal order.
func (b *Builder) Build(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	info, err := os.Stat(b.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, b.root)
		}
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, b.root)
	}

	var entries []Entry
	if b.config.NumWorkers > 1 {
		entries, err = b.walkParallel(ctx)
	} else {
		entries, err = b.walkSequential(ctx)
	}
	if err != nil {
		return nil, err
	}

	// Stable sort keeps traversal order for equal timestamps.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})

	folderSet := map[string]bool{"": true}
	for _, e := range entries {
		folderSet[e.Folder] = true
	}
	folders := make([]string, 0, len(folderSet))
	for f := range folderSet {
		folders = append(folders, f)
	}
	SortFolders(folders)

	logging.Info("Catalog built: %d entries, %d folders in %v",
		len(entries), len(folders), time.Since(start))

	return &Catalog{
		BuiltAt: time.Now(),
		Root:    b.root,
		Entries: entries,
		Folders: folders,
	}, nil
}

// walkSequential visits every file under the root in a single goroutine.
func (b *Builder) walkSequential(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logging.Warn("Error accessing path %s: %v", p, err)
			return nil // skip, keep walking
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(b.root, p)
		if err != nil {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", p, err)
			return nil
		}

		if entry, ok := b.makeEntry(relPath, info); ok {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	return entries, nil
}

// makeEntry converts a walked file into a catalog Entry. Non-video files and
// irregular files are rejected.
func (b *Builder) makeEntry(relPath string, info fs.FileInfo) (Entry, bool) {
	if !info.Mode().IsRegular() {
		return Entry{}, false
	}
	if !b.types.IsVideo(info.Name()) {
		return Entry{}, false
	}

	rel := NormalizePath(filepath.ToSlash(relPath))

	return Entry{
		ID:       ComputeID(rel, info.ModTime(), info.Size()),
		RelPath:  rel,
		FileName: path.Base(rel),
		Folder:   ParentFolder(rel),
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}, true
}

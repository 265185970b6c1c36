package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CacheFileName is the sidecar file written inside the root directory.
// The name never carries a video extension, so the cache can never index
// itself.
const CacheFileName = ".reels_index.json"

// ErrCacheInvalid indicates the sidecar cache exists but cannot be trusted:
// unparseable content, or a stored root that does not match the root being
// served. Callers recover by rebuilding; the condition is never surfaced to
// clients.
var ErrCacheInvalid = errors.New("catalog cache invalid")

// CachePath returns the conventional sidecar location for a root.
func CachePath(root string) string {
	return filepath.Join(root, CacheFileName)
}

// LoadCache reads and validates a sidecar cache. The stored root must equal
// the root being served; a catalog for the wrong root is never partially
// trusted. Unknown JSON fields are tolerated.
func LoadCache(path, root string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheInvalid, err)
	}

	if cat.Root != root {
		return nil, fmt.Errorf("%w: cached root %q does not match %q",
			ErrCacheInvalid, cat.Root, root)
	}
	if cat.Entries == nil {
		return nil, fmt.Errorf("%w: no items", ErrCacheInvalid)
	}

	return &cat, nil
}

// SaveCache writes the catalog to the sidecar path as indented JSON.
// Failures are returned so the caller can log them, but a failed save never
// prevents serving the in-memory catalog.
func SaveCache(cat *Catalog, path string) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

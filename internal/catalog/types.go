package catalog

import (
	"crypto/sha1" //nolint:gosec // SHA-1 derives stable item ids, not security material
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Entry is one indexed video file. Entries are immutable once built; a
// rebuild produces new Entry values rather than mutating old ones.
//
// JSON field names match the sidecar cache layout, so a cache written by an
// older deployment loads unchanged.
type Entry struct {
	// ID is a stable identifier derived from (RelPath, ModTime, Size).
	// See ComputeID for the exact formula.
	ID string `json:"id"`

	// RelPath is the slash-normalized path relative to the catalog root.
	// It never contains ".." segments or a leading slash.
	RelPath string `json:"relpath"`

	// FileName is the final path component of RelPath.
	FileName string `json:"filename"`

	// Folder is the slash-normalized parent directory relative to the
	// root. The empty string denotes the root itself.
	Folder string `json:"folder"`

	// ModTime is the file's modification time at index time.
	ModTime time.Time `json:"mtime"`

	// Size is the file size in bytes at index time.
	Size int64 `json:"size"`
}

// Catalog is the in-memory snapshot of all indexed videos for one root.
// A Catalog is never mutated after construction; rebuilds replace it
// wholesale via an atomic pointer swap in the library package.
type Catalog struct {
	BuiltAt time.Time `json:"built_at"`
	Root    string    `json:"root"`
	Entries []Entry   `json:"items"`

	// Folders contains every distinct Folder value observed, always
	// including "", ordered by (depth, case-insensitive name).
	Folders []string `json:"folders"`
}

// ComputeID returns the stable identifier for a catalog entry: the first 16
// hex characters of SHA-1 over relPath, the decimal Unix seconds of modTime,
// and the decimal size, concatenated in that order.
//
// The formula is frozen: ids are persisted in sidecar caches and embedded in
// client stream URLs, so any change invalidates both. It is deliberately not
// a content hash - a file whose bytes change while its size and mtime stay
// equal keeps its id. That limitation is inherited and documented, not a bug.
func ComputeID(relPath string, modTime time.Time, size int64) string {
	h := sha1.New() //nolint:gosec // stable id derivation, not security
	h.Write([]byte(relPath))
	h.Write([]byte(strconv.FormatInt(modTime.Unix(), 10)))
	h.Write([]byte(strconv.FormatInt(size, 10)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// NormalizePath converts backslashes to slashes, collapses runs of slashes,
// and strips any leading slash. It is applied to every relative path and
// folder value before it enters the catalog or is compared against it.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return strings.TrimPrefix(path, "/")
}

// ParentFolder derives the Folder value for a normalized relative path.
// A file directly under the root has folder "".
func ParentFolder(relPath string) string {
	idx := strings.LastIndex(relPath, "/")
	if idx < 0 {
		return ""
	}
	return relPath[:idx]
}

// SortFolders orders folder names by depth (number of slashes), then
// case-insensitively. This puts the root first and groups shallow folders
// ahead of their descendants for display.
func SortFolders(folders []string) {
	sort.Slice(folders, func(i, j int) bool {
		di := strings.Count(folders[i], "/")
		dj := strings.Count(folders[j], "/")
		if di != dj {
			return di < dj
		}
		return strings.ToLower(folders[i]) < strings.ToLower(folders[j])
	})
}

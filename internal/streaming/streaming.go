package streaming

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"reels-server/internal/catalog"
	"reels-server/internal/logging"
	"reels-server/internal/metrics"
)

// ResolveUnderRoot maps a slash-normalized relative path to an absolute
// on-disk path, with symlinks resolved, and verifies the result still lives
// under the canonical root. Anything that escapes the root - ".." segments,
// symlinks pointing outside, absolute-path tricks - resolves to ErrNotFound,
// as does a path that no longer exists or is not a regular file.
func ResolveUnderRoot(root, relPath string) (string, error) {
	rel := catalog.NormalizePath(relPath)
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}

	canonRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root: %w", err)
	}

	target := filepath.Join(canonRoot, filepath.FromSlash(rel))
	canonTarget, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
	}

	if canonTarget != canonRoot &&
		!strings.HasPrefix(canonTarget, canonRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s escapes root", ErrNotFound, rel)
	}

	info, err := os.Stat(canonTarget)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
	}

	return canonTarget, nil
}

// ServeFileRange serves file bytes honoring the Range grammar of ParseRange.
//
// Without a Range header the full file is served with conditional-caching
// semantics. A malformed Range header also gets the full file (leniency for
// players that send odd headers, matching the indexer's historical
// behavior). A valid range gets a 206 with Content-Range and an exact
// Content-Length; an unsatisfiable one gets a 416 without touching the file.
func ServeFileRange(w http.ResponseWriter, r *http.Request, path, contentType string) {
	info, err := os.Stat(path)
	if err != nil {
		metrics.StreamRequestsTotal.WithLabelValues("not_found").Inc()
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	size := info.Size()

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		metrics.StreamRequestsTotal.WithLabelValues("full").Inc()
		http.ServeFile(w, r, path)
		return
	}

	br, err := ParseRange(rangeHeader, size)
	switch {
	case err == nil:
		// fall through to the range response below

	case errors.Is(err, ErrMalformedRange):
		logging.Debug("Malformed range %q, serving full file", rangeHeader)
		metrics.StreamRequestsTotal.WithLabelValues("full").Inc()
		serveFull(w, r, path, contentType, size)
		return

	default: // ErrRangeNotSatisfiable
		metrics.StreamRequestsTotal.WithLabelValues("unsatisfiable").Inc()
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Requested range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		metrics.StreamRequestsTotal.WithLabelValues("not_found").Inc()
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	if _, err := f.Seek(br.Start, io.SeekStart); err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(br.Length(), 10))
	w.WriteHeader(http.StatusPartialContent)

	metrics.StreamRequestsTotal.WithLabelValues("range").Inc()

	if r.Method == http.MethodHead {
		return
	}

	written, err := io.CopyN(w, f, br.Length())
	metrics.StreamBytesTotal.Add(float64(written))
	if err != nil {
		// Almost always the player seeking away mid-read.
		logging.Debug("Range copy ended early after %d bytes: %v", written, err)
	}
}

// serveFull writes the whole file as a 200 response. Used for the malformed
// range fallback, where http.ServeFile cannot be used because it would
// reject the bad header itself.
func serveFull(w http.ResponseWriter, r *http.Request, path, contentType string, size int64) {
	f, err := os.Open(path)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Accept-Ranges", "bytes")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	written, err := io.Copy(w, f)
	metrics.StreamBytesTotal.Add(float64(written))
	if err != nil {
		logging.Debug("Full copy ended early after %d bytes: %v", written, err)
	}
}

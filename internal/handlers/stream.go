package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"reels-server/internal/library"
	"reels-server/internal/logging"
	"reels-server/internal/metrics"
	"reels-server/internal/streaming"
)

// StreamVideo streams a catalog entry by id with byte-range support.
// An unknown id, or an entry whose file has vanished or escaped the root
// since indexing, is a plain 404.
func (h *Handlers) StreamVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entry, err := h.library.FindByID(id)
	if err != nil {
		if !errors.Is(err, library.ErrNotFound) {
			logging.Error("Lookup failed for id %q: %v", id, err)
		}
		metrics.StreamRequestsTotal.WithLabelValues("not_found").Inc()
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	path, err := streaming.ResolveUnderRoot(h.library.Root(), entry.RelPath)
	if err != nil {
		logging.Warn("Entry %s no longer resolves under root: %v", id, err)
		metrics.StreamRequestsTotal.WithLabelValues("not_found").Inc()
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	streaming.ServeFileRange(w, r, path, h.types.MimeType(entry.FileName))
}

// GetFile serves a file by its path relative to the root. The path goes
// through the same normalization and containment checks as streamed entries;
// the stdlib file server handles range and conditional requests from there.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	relPath := mux.Vars(r)["path"]

	path, err := streaming.ResolveUnderRoot(h.library.Root(), relPath)
	if err != nil {
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, path)
}

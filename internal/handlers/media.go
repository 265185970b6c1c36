package handlers

import (
	"net/http"

	"reels-server/internal/logging"
)

// GetFolders returns every distinct folder in the current catalog, root
// first, ordered by depth then name.
func (h *Handlers) GetFolders(w http.ResponseWriter, _ *http.Request) {
	cat := h.library.Current()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"folders": cat.Folders,
	})
}

// Reindex rebuilds the catalog synchronously and reports the new size.
// The request blocks until the walk completes and the new snapshot is live;
// concurrent requests keep serving the previous snapshot meanwhile.
func (h *Handlers) Reindex(w http.ResponseWriter, r *http.Request) {
	logging.Info("Reindex requested by %s", r.RemoteAddr)

	cat, err := h.library.Reindex(r.Context())
	if err != nil {
		logging.Error("Reindex failed: %v", err)
		writeJSONError(w, "reindex failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"ok":    true,
		"total": len(cat.Entries),
	})
}

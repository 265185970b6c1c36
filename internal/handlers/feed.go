package handlers

import (
	"net/http"
	"strconv"
	"time"

	"reels-server/internal/catalog"
	"reels-server/internal/metrics"
	"reels-server/internal/search"
)

// FeedItem is one entry of a feed page, with the ready-to-use stream URL.
type FeedItem struct {
	ID       string `json:"id"`
	FileName string `json:"filename"`
	Folder   string `json:"folder"`
	RelPath  string `json:"relpath"`
	URL      string `json:"url"`
	MTime    int64  `json:"mtime"`
	Size     int64  `json:"size"`
}

// FeedResponse is the paginated feed payload. Total is the full match
// count before pagination, so clients can detect the end of results.
type FeedResponse struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Items  []FeedItem `json:"items"`
}

// SuggestItem is one search suggestion. It omits size and mtime; the
// suggest dropdown only needs identity and display fields.
type SuggestItem struct {
	ID       string `json:"id"`
	FileName string `json:"filename"`
	Folder   string `json:"folder"`
	RelPath  string `json:"relpath"`
}

// SuggestResponse is the suggestion payload.
type SuggestResponse struct {
	Total int           `json:"total"`
	Items []SuggestItem `json:"items"`
}

// parsePagination reads offset and limit query parameters with the given
// defaults. Unparseable values are a client error, reported as ok=false;
// out-of-range values are clamped later during paging, not rejected.
func parsePagination(r *http.Request, defaultLimit int) (offset, limit int, ok bool) {
	offset, limit = 0, defaultLimit

	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		offset = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		limit = n
	}
	return offset, limit, true
}

// GetFeed returns a ranked, paginated slice of the catalog.
//
// Query parameters: q (ranked search), folder (subtree scope), starts_with
// (filename prefix), offset, limit. All are optional; with no parameters the
// feed is the whole catalog, newest first.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := parsePagination(r, defaultFeedLimit)
	if !ok {
		writeJSONError(w, "bad offset/limit", http.StatusBadRequest)
		return
	}

	query := r.URL.Query().Get("q")
	folder := r.URL.Query().Get("folder")
	prefix := r.URL.Query().Get("starts_with")

	start := time.Now()
	cat := h.library.Current()
	matched := search.Filter(cat.Entries, query, folder, prefix)
	page := search.Page(matched, offset, limit, maxFeedLimit)

	metrics.SearchQueriesTotal.WithLabelValues("feed").Inc()
	metrics.SearchDuration.WithLabelValues("feed").Observe(time.Since(start).Seconds())
	metrics.SearchResultsReturned.WithLabelValues("feed").Observe(float64(page.Total))

	items := make([]FeedItem, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, feedItem(e))
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, FeedResponse{
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
		Items:  items,
	})
}

// GetSuggest returns the top-ranked matches for typeahead. It accepts the
// same filtering parameters as the feed minus offset; suggestions always
// start from the best match.
func (h *Handlers) GetSuggest(w http.ResponseWriter, r *http.Request) {
	_, limit, ok := parsePagination(r, defaultSuggestLimit)
	if !ok {
		writeJSONError(w, "bad offset/limit", http.StatusBadRequest)
		return
	}

	query := r.URL.Query().Get("q")
	folder := r.URL.Query().Get("folder")
	prefix := r.URL.Query().Get("starts_with")

	start := time.Now()
	cat := h.library.Current()
	matched := search.Filter(cat.Entries, query, folder, prefix)
	page := search.Page(matched, 0, limit, maxSuggestLimit)

	metrics.SearchQueriesTotal.WithLabelValues("suggest").Inc()
	metrics.SearchDuration.WithLabelValues("suggest").Observe(time.Since(start).Seconds())
	metrics.SearchResultsReturned.WithLabelValues("suggest").Observe(float64(page.Total))

	items := make([]SuggestItem, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, SuggestItem{
			ID:       e.ID,
			FileName: e.FileName,
			Folder:   e.Folder,
			RelPath:  e.RelPath,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, SuggestResponse{
		Total: page.Total,
		Items: items,
	})
}

func feedItem(e catalog.Entry) FeedItem {
	return FeedItem{
		ID:       e.ID,
		FileName: e.FileName,
		Folder:   e.Folder,
		RelPath:  e.RelPath,
		URL:      "/v/" + e.ID,
		MTime:    e.ModTime.Unix(),
		Size:     e.Size,
	}
}

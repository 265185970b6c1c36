package search

import "reels-server/internal/catalog"

// PageResult is one bounded window over a filtered entry list. Total is the
// full filtered count, not the slice length, so callers can detect the end
// of results.
type PageResult struct {
	Total  int
	Offset int
	Limit  int
	Items  []catalog.Entry
}

// Page slices entries into the window [offset, offset+limit). The offset is
// clamped to >= 0 and the limit to [1, maxLimit]. An out-of-range offset
// yields an empty slice with a valid Total; there are no error cases.
func Page(entries []catalog.Entry, offset, limit, maxLimit int) PageResult {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	total := len(entries)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return PageResult{
		Total:  total,
		Offset: offset,
		Limit:  limit,
		Items:  entries[start:end],
	}
}

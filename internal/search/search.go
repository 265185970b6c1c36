package search

import (
	"sort"
	"strings"
	"unicode"

	"reels-server/internal/catalog"
)

// Scoring tiers. The constants and formulas are a compatibility contract:
// clients depend on the resulting order, and ids aside they are the only
// observable behavior of ranking. Do not tune them.
const (
	scoreExactName = 1000
	scoreNameBase  = 800
	scorePathBase  = 500
	scoreTokenName = 120
	scoreTokenPath = 60
)

// Score ranks a single entry against a query. Matching is case-insensitive.
//
// Tiers, highest first:
//   - query equals the file name: 1000
//   - query is a substring of the file name: 800 minus the length
//     difference, so near-full-name matches rank higher
//   - query is a substring of the relative path: 500 minus the length
//     difference
//   - otherwise the query is split on whitespace, "_", "-" and "." and each
//     token scores 120 if it occurs in the file name, else 60 if it occurs
//     in the relative path
//
// A zero score means no match.
func Score(query, fileName, relPath string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	f := strings.ToLower(fileName)
	r := strings.ToLower(relPath)

	if q == f {
		return scoreExactName
	}
	if strings.Contains(f, q) {
		return scoreNameBase - (len(f) - len(q))
	}
	if strings.Contains(r, q) {
		return scorePathBase - (len(r) - len(q))
	}

	score := 0
	for _, token := range splitTokens(q) {
		switch {
		case strings.Contains(f, token):
			score += scoreTokenName
		case strings.Contains(r, token):
			score += scoreTokenPath
		}
	}
	return score
}

// splitTokens splits a query on whitespace, underscore, hyphen and period.
func splitTokens(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-' || r == '.'
	})
}

// Filter applies folder scoping, a filename prefix filter, and query
// ranking to a catalog's entries, in that order.
//
// A non-empty folderScope keeps entries whose folder equals the scope or
// lives in its subtree. A non-empty prefix keeps entries whose file name
// starts with it, case-insensitively. An empty query returns the filtered
// entries in catalog order; otherwise entries are ranked by Score with
// zero-score entries dropped and ties keeping catalog order.
func Filter(entries []catalog.Entry, query, folderScope, prefix string) []catalog.Entry {
	folderScope = catalog.NormalizePath(folderScope)
	if folderScope != "" {
		scoped := make([]catalog.Entry, 0, len(entries))
		subtree := folderScope + "/"
		for _, e := range entries {
			if e.Folder == folderScope || strings.HasPrefix(e.Folder, subtree) {
				scoped = append(scoped, e)
			}
		}
		entries = scoped
	}

	if sw := strings.ToLower(strings.TrimSpace(prefix)); sw != "" {
		prefixed := make([]catalog.Entry, 0, len(entries))
		for _, e := range entries {
			if strings.HasPrefix(strings.ToLower(e.FileName), sw) {
				prefixed = append(prefixed, e)
			}
		}
		entries = prefixed
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	type scored struct {
		entry catalog.Entry
		score int
	}
	ranked := make([]scored, 0, len(entries))
	for _, e := range entries {
		if s := Score(query, e.FileName, e.RelPath); s > 0 {
			ranked = append(ranked, scored{entry: e, score: s})
		}
	}

	// Stable sort keeps catalog order (newest first) for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]catalog.Entry, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.entry)
	}
	return out
}

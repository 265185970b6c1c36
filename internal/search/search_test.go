package search

import (
	"testing"
	"time"

	"reels-server/internal/catalog"
)

func entry(relPath string, age time.Duration) catalog.Entry {
	mtime := time.Now().Add(-age)
	return catalog.Entry{
		ID:       catalog.ComputeID(relPath, mtime, 100),
		RelPath:  relPath,
		FileName: lastSegment(relPath),
		Folder:   catalog.ParentFolder(relPath),
		ModTime:  mtime,
		Size:     100,
	}
}

func lastSegment(relPath string) string {
	for i := len(relPath) - 1; i >= 0; i-- {
		if relPath[i] == '/' {
			return relPath[i+1:]
		}
	}
	return relPath
}

func TestScoreExactName(t *testing.T) {
	got := Score("vacation.mp4", "vacation.mp4", "trips/vacation.mp4")
	if got != 1000 {
		t.Errorf("Expected score 1000 for exact name match, got %d", got)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	got := Score("VACATION.MP4", "vacation.mp4", "trips/vacation.mp4")
	if got != 1000 {
		t.Errorf("Expected score 1000 for case-insensitive exact match, got %d", got)
	}
}

func TestScoreNameSubstring(t *testing.T) {
	// 800 - (len("vacation.mp4") - len("vacation")) = 800 - 4 = 796
	got := Score("vacation", "vacation.mp4", "trips/vacation.mp4")
	if got != 796 {
		t.Errorf("Expected score 796 for name substring, got %d", got)
	}
}

func TestScorePathSubstring(t *testing.T) {
	// Not in the file name, so path tier:
	// 500 - (len("trips/vacation.mp4") - len("trips")) = 500 - 13 = 487
	got := Score("trips", "vacation.mp4", "trips/vacation.mp4")
	if got != 487 {
		t.Errorf("Expected score 487 for path substring, got %d", got)
	}
}

func TestScoreTokens(t *testing.T) {
	// Neither token set matches contiguously; "beach" hits the name (120)
	// and "trips" hits the path (60)
	got := Score("beach trips", "beach_day.mp4", "trips/beach_day.mp4")
	if got != 180 {
		t.Errorf("Expected token score 180, got %d", got)
	}
}

func TestScoreTokenSeparators(t *testing.T) {
	// Tokens split on underscore, hyphen and period as well as spaces
	got := Score("beach_day", "beach.mp4", "trips/beach.mp4")
	// "beach day" as a whole is not a substring; tokens: "beach" in name
	// (120), "day" nowhere (0)
	if got != 120 {
		t.Errorf("Expected token score 120, got %d", got)
	}
}

func TestScoreNoMatch(t *testing.T) {
	got := Score("xyz", "vacation.mp4", "trips/vacation.mp4")
	if got != 0 {
		t.Errorf("Expected score 0 for no match, got %d", got)
	}
}

func TestScoreEmptyQuery(t *testing.T) {
	if got := Score("", "vacation.mp4", "trips/vacation.mp4"); got != 0 {
		t.Errorf("Expected score 0 for empty query, got %d", got)
	}
	if got := Score("   ", "vacation.mp4", "trips/vacation.mp4"); got != 0 {
		t.Errorf("Expected score 0 for whitespace query, got %d", got)
	}
}

func TestScoreTiersOrdered(t *testing.T) {
	// The tiers must strictly dominate each other for a common query
	exact := Score("beach.mp4", "beach.mp4", "beach.mp4")
	nameSub := Score("beach", "beach.mp4", "beach.mp4")
	pathSub := Score("clips", "beach.mp4", "clips/beach.mp4")
	tokens := Score("beach clips", "beach_day_very_long_name.mp4", "somewhere/else/beach_day_very_long_name.mp4")

	if !(exact > nameSub && nameSub > pathSub && pathSub > tokens) {
		t.Errorf("Expected tier ordering exact > name > path > tokens, got %d, %d, %d, %d",
			exact, nameSub, pathSub, tokens)
	}
}

func TestFilterRankingLadder(t *testing.T) {
	entries := []catalog.Entry{
		entry("my_vacation_photos.mp4", 1*time.Minute),
		entry("vacation_trip.mp4", 2*time.Minute),
		entry("vacation.mp4", 3*time.Minute),
	}

	got := Filter(entries, "vacation", "", "")

	if len(got) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(got))
	}
	// The closest-length name match wins, then longer names in order
	expected := []string{"vacation.mp4", "vacation_trip.mp4", "my_vacation_photos.mp4"}
	for i, rel := range expected {
		if got[i].RelPath != rel {
			t.Errorf("Expected rank %d to be %q, got %q", i, rel, got[i].RelPath)
		}
	}
}

func TestFilterEmptyQueryKeepsCatalogOrder(t *testing.T) {
	entries := []catalog.Entry{
		entry("a.mp4", 1*time.Minute),
		entry("b.mp4", 2*time.Minute),
		entry("c.mp4", 3*time.Minute),
	}

	got := Filter(entries, "", "", "")

	if len(got) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(got))
	}
	for i := range entries {
		if got[i].RelPath != entries[i].RelPath {
			t.Errorf("Expected entry %d to be %q, got %q", i, entries[i].RelPath, got[i].RelPath)
		}
	}
}

func TestFilterRanksByScore(t *testing.T) {
	entries := []catalog.Entry{
		entry("other/beach_trip_compilation.mp4", 1*time.Minute),
		entry("beach.mp4", 2*time.Minute),
		entry("clips/unrelated.webm", 3*time.Minute),
	}

	got := Filter(entries, "beach.mp4", "", "")

	if len(got) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(got))
	}
	if got[0].RelPath != "beach.mp4" {
		t.Errorf("Expected exact match first, got %q", got[0].RelPath)
	}
	if got[1].RelPath != "other/beach_trip_compilation.mp4" {
		t.Errorf("Expected token match second, got %q", got[1].RelPath)
	}
}

func TestFilterDropsZeroScores(t *testing.T) {
	entries := []catalog.Entry{
		entry("vacation.mp4", 1*time.Minute),
		entry("unrelated.mp4", 2*time.Minute),
	}

	got := Filter(entries, "vacation", "", "")

	if len(got) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(got))
	}
	if got[0].RelPath != "vacation.mp4" {
		t.Errorf("Expected vacation.mp4, got %q", got[0].RelPath)
	}
}

func TestFilterTiesKeepCatalogOrder(t *testing.T) {
	// Identical file names in different folders score identically on a
	// name-substring query; catalog order must hold
	entries := []catalog.Entry{
		entry("a/beach.mp4", 1*time.Minute),
		entry("b/beach.mp4", 2*time.Minute),
		entry("c/beach.mp4", 3*time.Minute),
	}

	got := Filter(entries, "beach", "", "")

	if len(got) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(got))
	}
	expected := []string{"a/beach.mp4", "b/beach.mp4", "c/beach.mp4"}
	for i, rel := range expected {
		if got[i].RelPath != rel {
			t.Errorf("Expected entry %d to be %q, got %q", i, rel, got[i].RelPath)
		}
	}
}

func TestFilterFolderScope(t *testing.T) {
	entries := []catalog.Entry{
		entry("trips/a.mp4", 1*time.Minute),
		entry("trips/2024/b.mp4", 2*time.Minute),
		entry("tripsother/c.mp4", 3*time.Minute),
		entry("d.mp4", 4*time.Minute),
	}

	got := Filter(entries, "", "trips", "")

	if len(got) != 2 {
		t.Fatalf("Expected 2 entries in trips subtree, got %d", len(got))
	}
	if got[0].RelPath != "trips/a.mp4" || got[1].RelPath != "trips/2024/b.mp4" {
		t.Errorf("Unexpected scoped entries: %q, %q", got[0].RelPath, got[1].RelPath)
	}
}

func TestFilterFolderScopeNormalized(t *testing.T) {
	entries := []catalog.Entry{
		entry("trips/a.mp4", 1*time.Minute),
	}

	// Leading slash and backslashes are normalized before matching
	got := Filter(entries, "", "/trips", "")
	if len(got) != 1 {
		t.Errorf("Expected scope /trips to match folder trips, got %d entries", len(got))
	}
}

func TestFilterPrefix(t *testing.T) {
	entries := []catalog.Entry{
		entry("Beach.mp4", 1*time.Minute),
		entry("beachday.mp4", 2*time.Minute),
		entry("sunny_beach.mp4", 3*time.Minute),
	}

	got := Filter(entries, "", "", "bea")

	if len(got) != 2 {
		t.Fatalf("Expected 2 prefix matches, got %d", len(got))
	}
	if got[0].FileName != "Beach.mp4" {
		t.Errorf("Expected case-insensitive prefix match Beach.mp4 first, got %q", got[0].FileName)
	}
}

func TestFilterCombined(t *testing.T) {
	entries := []catalog.Entry{
		entry("trips/beach.mp4", 1*time.Minute),
		entry("trips/city.mp4", 2*time.Minute),
		entry("home/beach.mp4", 3*time.Minute),
	}

	got := Filter(entries, "beach", "trips", "b")

	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}
	if got[0].RelPath != "trips/beach.mp4" {
		t.Errorf("Expected trips/beach.mp4, got %q", got[0].RelPath)
	}
}

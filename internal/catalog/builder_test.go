package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reels-server/internal/mediatypes"
)

// writeVideoTree creates a small directory tree of fake videos with
// staggered mtimes (older the deeper in the list).
func writeVideoTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := []string{
		"newest.mp4",
		"clips/beach.mov",
		"clips/sunset.mp4",
		"clips/deep/cave.webm",
		"notes.txt",
		"clips/readme.md",
	}

	base := time.Now().Add(-time.Hour)
	for i, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte("data-"+f), 0o644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		mtime := base.Add(-time.Duration(i) * time.Minute)
		if err := os.Chtimes(full, mtime, mtime); err != nil {
			t.Fatalf("Failed to set mtime: %v", err)
		}
	}

	return root
}

func newTestBuilder(root string) *Builder {
	b := NewBuilder(root, mediatypes.NewRegistry(nil))
	b.SetWalkerConfig(WalkerConfig{NumWorkers: 1, ChannelBuffer: 16})
	return b
}

func TestBuildFiltersAndOrders(t *testing.T) {
	root := writeVideoTree(t)

	cat, err := newTestBuilder(root).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(cat.Entries) != 4 {
		t.Fatalf("Expected 4 video entries, got %d", len(cat.Entries))
	}

	// Newest first per the staggered mtimes
	expectedOrder := []string{"newest.mp4", "clips/beach.mov", "clips/sunset.mp4", "clips/deep/cave.webm"}
	for i, rel := range expectedOrder {
		if cat.Entries[i].RelPath != rel {
			t.Errorf("Expected entry %d to be %q, got %q", i, rel, cat.Entries[i].RelPath)
		}
	}

	for _, e := range cat.Entries {
		if e.ID == "" || len(e.ID) != 16 {
			t.Errorf("Expected 16-char id for %s, got %q", e.RelPath, e.ID)
		}
		if e.Size == 0 {
			t.Errorf("Expected non-zero size for %s", e.RelPath)
		}
	}

	if cat.Root != root {
		t.Errorf("Expected catalog root %q, got %q", root, cat.Root)
	}
	if cat.BuiltAt.IsZero() {
		t.Error("Expected non-zero BuiltAt")
	}
}

func TestBuildFolderDerivation(t *testing.T) {
	root := writeVideoTree(t)

	cat, err := newTestBuilder(root).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := []string{"", "clips", "clips/deep"}
	if len(cat.Folders) != len(expected) {
		t.Fatalf("Expected %d folders, got %d: %v", len(expected), len(cat.Folders), cat.Folders)
	}
	for i, f := range expected {
		if cat.Folders[i] != f {
			t.Errorf("Expected folders[%d]=%q, got %q", i, f, cat.Folders[i])
		}
	}

	for _, e := range cat.Entries {
		if e.FileName == "newest.mp4" && e.Folder != "" {
			t.Errorf("Expected root folder for newest.mp4, got %q", e.Folder)
		}
		if e.FileName == "cave.webm" && e.Folder != "clips/deep" {
			t.Errorf("Expected folder clips/deep for cave.webm, got %q", e.Folder)
		}
	}
}

func TestBuildEmptyRoot(t *testing.T) {
	root := t.TempDir()

	cat, err := newTestBuilder(root).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(cat.Entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(cat.Entries))
	}
	if len(cat.Folders) != 1 || cat.Folders[0] != "" {
		t.Errorf("Expected folders to contain only the root, got %v", cat.Folders)
	}
}

func TestBuildMissingRoot(t *testing.T) {
	b := newTestBuilder(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := b.Build(context.Background())
	if !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Expected ErrRootNotFound, got %v", err)
	}
}

func TestBuildRootIsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := newTestBuilder(file).Build(context.Background())
	if !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Expected ErrRootNotFound for non-directory root, got %v", err)
	}
}

func TestBuildCanceledContext(t *testing.T) {
	root := writeVideoTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestBuilder(root).Build(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRebuildKeepsIDForSameSizeAndMtime(t *testing.T) {
	// The id is not a content hash: equal (path, size, mtime) means equal
	// id even when the bytes change.
	root := t.TempDir()
	full := filepath.Join(root, "video.mp4")
	mtime := time.Now().Add(-time.Hour).Truncate(time.Second)

	if err := os.WriteFile(full, []byte("aaaa"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Chtimes(full, mtime, mtime); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	first, err := newTestBuilder(root).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := os.WriteFile(full, []byte("bbbb"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite file: %v", err)
	}
	if err := os.Chtimes(full, mtime, mtime); err != nil {
		t.Fatalf("Failed to restore mtime: %v", err)
	}

	second, err := newTestBuilder(root).Build(context.Background())
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if first.Entries[0].ID != second.Entries[0].ID {
		t.Errorf("Expected identical id for same (path, size, mtime), got %q and %q",
			first.Entries[0].ID, second.Entries[0].ID)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	root := writeVideoTree(t)

	seq := NewBuilder(root, mediatypes.NewRegistry(nil))
	seq.SetWalkerConfig(WalkerConfig{NumWorkers: 1, ChannelBuffer: 16})
	seqCat, err := seq.Build(context.Background())
	if err != nil {
		t.Fatalf("Sequential build failed: %v", err)
	}

	par := NewBuilder(root, mediatypes.NewRegistry(nil))
	par.SetWalkerConfig(WalkerConfig{NumWorkers: 4, ChannelBuffer: 16})
	parCat, err := par.Build(context.Background())
	if err != nil {
		t.Fatalf("Parallel build failed: %v", err)
	}

	if len(seqCat.Entries) != len(parCat.Entries) {
		t.Fatalf("Expected %d entries from parallel build, got %d",
			len(seqCat.Entries), len(parCat.Entries))
	}
	for i := range seqCat.Entries {
		if seqCat.Entries[i] != parCat.Entries[i] {
			t.Errorf("Entry %d differs: sequential %+v, parallel %+v",
				i, seqCat.Entries[i], parCat.Entries[i])
		}
	}
}

package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"reels-server/internal/logging"
)

// fileJob is a file handed to a walk worker. seq records the position in
// directory traversal order so the parallel walk stays deterministic.
type fileJob struct {
	seq     int
	relPath string
	info    fs.FileInfo
}

// fileResult is a converted entry coming back from a worker.
type fileResult struct {
	seq   int
	entry Entry
}

// walkParallel fans file conversion out over NumWorkers goroutines. The
// walk itself stays single-threaded (directory enumeration is cheap; stat
// and id hashing are the expensive part), and results are re-sorted by
// enqueue sequence so the output is identical to the sequential walk.
func (b *Builder) walkParallel(ctx context.Context) ([]Entry, error) {
	logging.Debug("Parallel catalog walk with %d workers", b.config.NumWorkers)

	jobs := make(chan fileJob, b.config.ChannelBuffer)
	results := make(chan fileResult, b.config.ChannelBuffer)

	var wg sync.WaitGroup
	var filesSeen, entriesKept atomic.Int64

	for i := 0; i < b.config.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				filesSeen.Add(1)
				if entry, ok := b.makeEntry(job.relPath, job.info); ok {
					entriesKept.Add(1)
					results <- fileResult{seq: job.seq, entry: entry}
				}
			}
		}()
	}

	var collected []fileResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			collected = append(collected, r)
		}
	}()

	walkErr := b.enqueue(ctx, jobs)

	close(jobs)
	wg.Wait()
	close(results)
	<-done

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].seq < collected[j].seq
	})

	entries := make([]Entry, 0, len(collected))
	for _, r := range collected {
		entries = append(entries, r.entry)
	}

	logging.Debug("Parallel walk complete: %d files seen, %d entries kept",
		filesSeen.Load(), entriesKept.Load())

	return entries, nil
}

// enqueue walks the tree and feeds file jobs to the workers. Unreadable
// paths are skipped, never fatal.
func (b *Builder) enqueue(ctx context.Context, jobs chan<- fileJob) error {
	seq := 0

	err := filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logging.Warn("Error accessing path %s: %v", p, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(b.root, p)
		if err != nil {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", p, err)
			return nil
		}

		jobs <- fileJob{seq: seq, relPath: relPath, info: info}
		seq++
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk error: %w", err)
	}
	return nil
}

package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/lumipallolabs/reporter/internal/logging"
	"github.com/lumipallolabs/reporter/internal/model"
)

// Walker implements parallel directory enumeration
type Walker struct {
	workers  int
	filter   *Filter
	progress Progress
}

// NewWalker creates a new parallel walker. A nil filter skips hidden entries
// and the default package patterns.
func NewWalker(workers int, filter *Filter) *Walker {
	if workers < 1 {
		workers = fastwalk.DefaultNumWorkers()
	}
	if filter == nil {
		filter, _ = NewFilter(nil, nil)
	}
	return &Walker{
		workers: workers,
		filter:  filter,
	}
}

// Progress returns the counters of the last scan
func (w *Walker) Progress() Progress {
	return Progress{
		FilesFound:  atomic.LoadInt64(&w.progress.FilesFound),
		DirsScanned: atomic.LoadInt64(&w.progress.DirsScanned),
		Skipped:     atomic.LoadInt64(&w.progress.Skipped),
	}
}

// Scan enumerates regular files below root using fastwalk
func (w *Walker) Scan(ctx context.Context, root string) ([]model.FileIdentity, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := checkRoot(absRoot); err != nil {
		return nil, err
	}

	w.progress = Progress{}

	// Walk callbacks run on many goroutines; a single collector owns the slice
	entryChan := make(chan model.FileIdentity, 1024)
	var entries []model.FileIdentity
	var entriesWg sync.WaitGroup

	entriesWg.Add(1)
	go func() {
		defer entriesWg.Done()
		for e := range entryChan {
			entries = append(entries, e)
		}
	}()

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: w.workers,
	}

	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == absRoot {
			// Failing to list the root is fatal; anything below it is not
			return err
		}

		if err != nil {
			logging.Scanner.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			atomic.AddInt64(&w.progress.Skipped, 1)
			return nil
		}

		if w.skip(path, d) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, ok := w.relative(absRoot, path)
		if !ok {
			return nil
		}
		if w.filter.IsExcluded(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			atomic.AddInt64(&w.progress.DirsScanned, 1)
			return nil
		}

		// Symlinks, devices and sockets are not tracked
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Scanner.Warn().Err(err).Str("path", path).Msg("failed to read attributes")
			atomic.AddInt64(&w.progress.Skipped, 1)
			return nil
		}

		atomic.AddInt64(&w.progress.FilesFound, 1)
		entryChan <- model.FileIdentity{
			Path:    rel,
			ModTime: info.ModTime().UnixNano(),
			Size:    info.Size(),
		}
		return nil
	})

	close(entryChan)
	entriesWg.Wait()

	if walkErr != nil {
		return nil, fmt.Errorf("enumerate %s: %w", absRoot, walkErr)
	}

	logging.Scanner.Debug().
		Str("root", absRoot).
		Int64("files", w.progress.FilesFound).
		Int64("dirs", w.progress.DirsScanned).
		Int64("skipped", w.progress.Skipped).
		Msg("enumeration complete")

	return entries, nil
}

// relative returns path relative to root with slash separators. Failures
// are logged and counted as skipped.
func (w *Walker) relative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		logging.Scanner.Warn().Err(err).Str("path", path).Msg("skipping entry outside root")
		atomic.AddInt64(&w.progress.Skipped, 1)
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// skip reports whether an entry is hidden or a package directory
func (w *Walker) skip(path string, d fs.DirEntry) bool {
	name := d.Name()
	if IsHiddenName(name) || isHiddenEntry(path, d) {
		return true
	}
	return d.IsDir() && w.filter.IsPackage(name)
}

// checkRoot verifies root can be opened as a directory
func checkRoot(root string) error {
	f, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("open root: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrRootNotDir)
	}
	return nil
}

// Ensure Walker implements Scanner
var _ Scanner = (*Walker)(nil)

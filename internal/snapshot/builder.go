// Package snapshot builds snapshots of directory trees and compares them.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/lumipallolabs/reporter/internal/cache"
	"github.com/lumipallolabs/reporter/internal/hasher"
	"github.com/lumipallolabs/reporter/internal/logging"
	"github.com/lumipallolabs/reporter/internal/model"
	"github.com/lumipallolabs/reporter/internal/scanner"
	"golang.org/x/sync/errgroup"
)

// ErrDigest marks failures to read file content for hashing
var ErrDigest = errors.New("digest failed")

// DigestError records which file could not be hashed
type DigestError struct {
	Path string
	Err  error
}

func (e *DigestError) Error() string {
	return fmt.Sprintf("digest %s: %v", e.Path, e.Err)
}

func (e *DigestError) Unwrap() []error {
	return []error{ErrDigest, e.Err}
}

// Progress reports how many files of a build have a resolved digest
type Progress struct {
	Root      string
	Completed int64
	Total     int64
}

// Fraction returns completion in the range [0, 1]
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// Options configures a Builder
type Options struct {
	// Concurrency caps in-flight digest resolutions. Zero selects GOMAXPROCS*4.
	Concurrency int

	// SkipUnreadable omits files that cannot be hashed instead of failing
	// the build.
	SkipUnreadable bool

	// OnProgress is called after each file is resolved. Calls are serialized.
	OnProgress func(Progress)
}

// Result is the outcome of a build
type Result struct {
	Snapshot *model.Snapshot
	Hashed   int64
	Reused   int64
	Skipped  []*DigestError
}

// Builder resolves a digest for every file a scanner finds
type Builder struct {
	scanner  scanner.Scanner
	digester hasher.Digester
	opts     Options
}

// NewBuilder creates a builder
func NewBuilder(s scanner.Scanner, d hasher.Digester, opts Options) *Builder {
	if opts.Concurrency < 1 {
		opts.Concurrency = runtime.GOMAXPROCS(0) * 4
	}
	return &Builder{
		scanner:  s,
		digester: d,
		opts:     opts,
	}
}

// resolved is one file's outcome sent to the collector
type resolved struct {
	item model.Item
	err  *DigestError
}

// Build scans root and resolves digests concurrently, consulting c before
// hashing. The first digest failure cancels outstanding work and fails the
// build unless SkipUnreadable is set.
func (b *Builder) Build(ctx context.Context, root string, c *cache.Cache) (*Result, error) {
	ids, err := b.scanner.Scan(ctx, root)
	if err != nil {
		return nil, err
	}

	total := int64(len(ids))
	result := &Result{}

	// Single collector owns the item slice and serializes progress callbacks
	resultCh := make(chan resolved, b.opts.Concurrency)
	items := make([]model.Item, 0, len(ids))
	var collectorWg sync.WaitGroup

	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		var completed int64
		for r := range resultCh {
			completed++
			if r.err != nil {
				result.Skipped = append(result.Skipped, r.err)
			} else {
				items = append(items, r.item)
			}
			if b.opts.OnProgress != nil {
				b.opts.OnProgress(Progress{Root: root, Completed: completed, Total: total})
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	var hashed, reused int64
	for _, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			digest, hit := c.Lookup(id)
			if hit {
				atomic.AddInt64(&reused, 1)
			} else {
				d, err := b.digester.Digest(gctx, filepath.Join(root, filepath.FromSlash(id.Path)))
				if err != nil {
					derr := &DigestError{Path: id.Path, Err: err}
					if !b.opts.SkipUnreadable || gctx.Err() != nil {
						return derr
					}
					logging.Log.Warn().Err(err).Str("root", root).Str("path", id.Path).Msg("skipping unreadable file")
					resultCh <- resolved{err: derr}
					return nil
				}
				atomic.AddInt64(&hashed, 1)
				digest = d
			}
			resultCh <- resolved{item: model.NewItem(id, digest)}
			return nil
		})
	}

	waitErr := g.Wait()
	close(resultCh)
	collectorWg.Wait()

	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Snapshot = model.NewSnapshot(root, items)
	result.Hashed = hashed
	result.Reused = reused

	logging.Log.Debug().
		Str("root", root).
		Int("files", result.Snapshot.Len()).
		Int64("hashed", hashed).
		Int64("reused", reused).
		Int("skipped", len(result.Skipped)).
		Msg("snapshot built")

	return result, nil
}

// Package core runs the index, save, compare cycle over the configured roots.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lumipallolabs/reporter/internal/cache"
	"github.com/lumipallolabs/reporter/internal/config"
	"github.com/lumipallolabs/reporter/internal/hasher"
	"github.com/lumipallolabs/reporter/internal/logging"
	"github.com/lumipallolabs/reporter/internal/model"
	"github.com/lumipallolabs/reporter/internal/report"
	"github.com/lumipallolabs/reporter/internal/scanner"
	"github.com/lumipallolabs/reporter/internal/snapshot"
	"github.com/lumipallolabs/reporter/internal/state"
	"github.com/lumipallolabs/reporter/internal/stats"
)

// Options configures a Controller
type Options struct {
	// DryRun computes the report without saving state or stats
	DryRun bool

	// Digester overrides the MD5 hasher
	Digester hasher.Digester

	// Stats receives a record of each successful run
	Stats *stats.Manager
}

// Controller manages a reporting run without UI dependencies
type Controller struct {
	mu  sync.RWMutex
	run RunState

	cfg      *config.Config
	store    state.Store
	digester hasher.Digester
	stats    *stats.Manager
	dryRun   bool
}

// NewController creates a controller for the configuration and state store
func NewController(cfg *config.Config, store state.Store, opts Options) *Controller {
	digester := opts.Digester
	if digester == nil {
		digester = hasher.New()
	}
	return &Controller{
		cfg:      cfg,
		store:    store,
		digester: digester,
		stats:    opts.Stats,
		dryRun:   opts.DryRun,
	}
}

// State returns a copy of the current run state
func (c *Controller) State() RunState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run
}

// Start begins a run and returns its event stream. The channel closes after
// RunCompletedEvent; callers must drain it.
func (c *Controller) Start(ctx context.Context) <-chan Event {
	eventCh := make(chan Event, 100)
	go func() {
		defer close(eventCh)
		r, failed, err := c.execute(ctx, eventCh)
		eventCh <- RunCompletedEvent{Report: r, Failed: failed, Err: err}
	}()
	return eventCh
}

// Run executes a run to completion, discarding intermediate events
func (c *Controller) Run(ctx context.Context) (*report.Report, error) {
	var done RunCompletedEvent
	for event := range c.Start(ctx) {
		if e, ok := event.(RunCompletedEvent); ok {
			done = e
		}
	}
	return done.Report, done.Err
}

func (c *Controller) setPhase(phase RunPhase, eventCh chan<- Event) {
	c.mu.Lock()
	c.run.Phase = phase
	c.mu.Unlock()
	eventCh <- PhaseChangedEvent{Phase: phase}
}

// indexed is a root's new snapshot alongside the one it replaces
type indexed struct {
	path     string
	previous *model.Snapshot
	current  *model.Snapshot
}

// execute loads the previous state, indexes every root, saves the new state
// and compares each root against its previous snapshot
func (c *Controller) execute(ctx context.Context, eventCh chan<- Event) (*report.Report, []string, error) {
	runID := uuid.NewString()

	c.mu.Lock()
	c.run = RunState{
		RunID:     runID,
		StartTime: time.Now(),
	}
	c.mu.Unlock()

	folders, err := c.cfg.Roots()
	if err != nil {
		return nil, nil, err
	}
	roots := make([]string, len(folders))
	for i, f := range folders {
		roots[i] = f.Path
	}
	eventCh <- RunStartedEvent{RunID: runID, Roots: roots}
	logging.Log.Info().Str("run", runID).Int("folders", len(folders)).Msg("run started")

	c.setPhase(PhaseLoading, eventCh)
	previous, err := c.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load state: %w", err)
	}

	c.setPhase(PhaseIndexing, eventCh)
	next := model.NewState()
	var (
		results        []indexed
		failed         []string
		hashed, reused int64
	)
	for i, folder := range folders {
		prev, _ := previous.Snapshot(folder.Path)

		c.mu.Lock()
		c.run.Folder = folder.Path
		c.run.Progress = snapshot.Progress{Root: folder.Path}
		c.mu.Unlock()

		eventCh <- FolderStartedEvent{Path: folder.Path, Index: i, Count: len(folders)}
		logging.Log.Info().Str("folder", folder.Path).Msg("indexing")

		res, err := c.index(ctx, folder, prev, eventCh)
		if err != nil {
			if !c.cfg.IsolateRoots || ctx.Err() != nil {
				return nil, nil, fmt.Errorf("index %s: %w", folder.Path, err)
			}
			logging.Log.Error().Err(err).Str("folder", folder.Path).Msg("indexing failed, keeping previous snapshot")
			if prev != nil {
				next.Set(prev)
			}
			failed = append(failed, folder.Path)
			eventCh <- FolderFailedEvent{Path: folder.Path, Err: err}
			continue
		}

		next.Set(res.Snapshot)
		results = append(results, indexed{path: folder.Path, previous: prev, current: res.Snapshot})
		hashed += res.Hashed
		reused += res.Reused

		c.mu.Lock()
		c.run.Hashed = hashed
		c.run.Reused = reused
		c.mu.Unlock()

		eventCh <- FolderCompletedEvent{
			Path:    folder.Path,
			Files:   res.Snapshot.Len(),
			Hashed:  res.Hashed,
			Reused:  res.Reused,
			Skipped: len(res.Skipped),
		}
	}

	if len(results) == 0 && len(failed) > 0 {
		return nil, failed, errors.New("no folder could be indexed")
	}

	c.setPhase(PhaseSaving, eventCh)
	if c.dryRun {
		logging.Log.Info().Msg("dry run, state not saved")
	} else if err := c.store.Save(ctx, next); err != nil {
		return nil, failed, fmt.Errorf("save state: %w", err)
	}

	c.setPhase(PhaseComparing, eventCh)
	changed := make([]report.Folder, 0, len(results))
	for _, res := range results {
		changes := snapshot.Diff(res.previous, res.current)
		logging.Log.Debug().
			Str("folder", res.path).
			Int("additions", len(changes.Additions())).
			Int("deletions", len(changes.Deletions())).
			Int("modifications", len(changes.Modifications())).
			Msg("compared")
		changed = append(changed, report.NewFolder(res.path, changes))
	}
	r := report.New(runID, changed)
	r.DetectTypes()

	if c.stats != nil && !c.dryRun {
		additions, deletions, modifications := r.Totals()
		c.stats.Record(stats.Run{
			ID:            runID,
			Time:          r.Generated,
			Additions:     additions,
			Deletions:     deletions,
			Modifications: modifications,
			Hashed:        int(hashed),
			Reused:        int(reused),
			Failed:        len(failed) > 0,
		})
		if err := c.stats.Close(); err != nil {
			logging.Log.Warn().Err(err).Msg("failed to save stats")
		}
	}

	c.setPhase(PhaseComplete, eventCh)
	logging.Log.Info().
		Str("run", runID).
		Int("changes", countChanges(r)).
		Dur("elapsed", c.State().Elapsed()).
		Msg("run complete")

	return r, failed, nil
}

// index builds a new snapshot of one root, reusing digests from prev
func (c *Controller) index(ctx context.Context, folder config.Folder, prev *model.Snapshot, eventCh chan<- Event) (*snapshot.Result, error) {
	filter, err := scanner.NewFilter(folder.Policy.Packages, folder.Policy.Exclude)
	if err != nil {
		return nil, err
	}

	builder := snapshot.NewBuilder(
		scanner.NewWalker(0, filter),
		c.digester,
		snapshot.Options{
			Concurrency:    c.cfg.Workers(),
			SkipUnreadable: c.cfg.SkipUnreadable,
			OnProgress: func(p snapshot.Progress) {
				c.mu.Lock()
				c.run.Progress = p
				c.mu.Unlock()

				select {
				case eventCh <- ProgressEvent{Progress: p}:
				default:
					// Channel full, drop event
				}
			},
		},
	)
	return builder.Build(ctx, folder.Path, cache.FromSnapshot(prev))
}

func countChanges(r *report.Report) int {
	n := 0
	for _, f := range r.Folders {
		n += f.Count()
	}
	return n
}

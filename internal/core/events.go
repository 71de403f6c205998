package core

import (
	"github.com/lumipallolabs/reporter/internal/report"
	"github.com/lumipallolabs/reporter/internal/snapshot"
)

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// RunStartedEvent is emitted when a run begins
type RunStartedEvent struct {
	RunID string
	Roots []string
}

func (RunStartedEvent) isEvent() {}

// PhaseChangedEvent is emitted when the run phase changes
type PhaseChangedEvent struct {
	Phase RunPhase
}

func (PhaseChangedEvent) isEvent() {}

// FolderStartedEvent is emitted when a root starts indexing
type FolderStartedEvent struct {
	Path  string
	Index int
	Count int
}

func (FolderStartedEvent) isEvent() {}

// ProgressEvent is emitted as digests resolve. Progress events are dropped
// when the consumer falls behind.
type ProgressEvent struct {
	Progress snapshot.Progress
}

func (ProgressEvent) isEvent() {}

// FolderCompletedEvent is emitted when a root has a new snapshot
type FolderCompletedEvent struct {
	Path    string
	Files   int
	Hashed  int64
	Reused  int64
	Skipped int
}

func (FolderCompletedEvent) isEvent() {}

// FolderFailedEvent is emitted when a root could not be indexed and the run
// continues without it
type FolderFailedEvent struct {
	Path string
	Err  error
}

func (FolderFailedEvent) isEvent() {}

// RunCompletedEvent is the last event of a run
type RunCompletedEvent struct {
	Report *report.Report
	Failed []string
	Err    error
}

func (RunCompletedEvent) isEvent() {}

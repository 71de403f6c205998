package core

import (
	"time"

	"github.com/lumipallolabs/reporter/internal/snapshot"
)

// RunPhase represents the current phase of a run
type RunPhase int

const (
	PhaseIdle RunPhase = iota
	PhaseLoading
	PhaseIndexing
	PhaseSaving
	PhaseComparing
	PhaseComplete
)

// String returns a human-readable phase name
func (p RunPhase) String() string {
	switch p {
	case PhaseLoading:
		return "Loading state"
	case PhaseIndexing:
		return "Indexing"
	case PhaseSaving:
		return "Saving state"
	case PhaseComparing:
		return "Comparing"
	case PhaseComplete:
		return "Complete"
	default:
		return ""
	}
}

// RunState holds the current run state
type RunState struct {
	RunID     string
	Phase     RunPhase
	StartTime time.Time
	Folder    string
	Progress  snapshot.Progress
	Hashed    int64
	Reused    int64
}

// IsRunning returns true between the start of a run and its completion
func (s RunState) IsRunning() bool {
	return s.Phase != PhaseIdle && s.Phase != PhaseComplete
}

// Elapsed returns time since the run started
func (s RunState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime).Truncate(time.Second)
}

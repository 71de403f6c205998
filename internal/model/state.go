package model

import "sort"

// State is the cross-run baseline: the latest snapshot of every root
type State struct {
	Snapshots map[string]*Snapshot
}

// NewState creates an empty state
func NewState() *State {
	return &State{Snapshots: make(map[string]*Snapshot)}
}

// Snapshot returns the snapshot recorded for root
func (s *State) Snapshot(root string) (*Snapshot, bool) {
	if s == nil || s.Snapshots == nil {
		return nil, false
	}
	snap, ok := s.Snapshots[root]
	return snap, ok
}

// Set records the snapshot for its root
func (s *State) Set(snap *Snapshot) {
	if s.Snapshots == nil {
		s.Snapshots = make(map[string]*Snapshot)
	}
	s.Snapshots[snap.Root()] = snap
}

// Roots returns the recorded roots in sorted order
func (s *State) Roots() []string {
	if s == nil {
		return nil
	}
	roots := make([]string, 0, len(s.Snapshots))
	for root := range s.Snapshots {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

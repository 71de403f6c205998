package model

import "sort"

// ChangeKind classifies a difference between two snapshots
type ChangeKind int

const (
	Addition ChangeKind = iota
	Deletion
	Modification
)

// String returns a human-readable kind name
func (k ChangeKind) String() string {
	switch k {
	case Addition:
		return "addition"
	case Deletion:
		return "deletion"
	case Modification:
		return "modification"
	default:
		return "unknown"
	}
}

// Change is one classified difference for a single path. Destination is set
// only for modifications and holds the new-state item.
type Change struct {
	Kind        ChangeKind
	Source      Item
	Destination *Item
}

// NewAddition records an item that only exists in the new snapshot
func NewAddition(item Item) Change {
	return Change{Kind: Addition, Source: item}
}

// NewDeletion records an item that only exists in the old snapshot
func NewDeletion(item Item) Change {
	return Change{Kind: Deletion, Source: item}
}

// NewModification records an item whose metadata or content changed in place
func NewModification(before, after Item) Change {
	return Change{Kind: Modification, Source: before, Destination: &after}
}

func (c Change) IsAddition() bool     { return c.Kind == Addition }
func (c Change) IsDeletion() bool     { return c.Kind == Deletion }
func (c Change) IsModification() bool { return c.Kind == Modification }

// Path returns the source path the change is keyed by
func (c Change) Path() string {
	return c.Source.Path
}

// Equal reports structural equality, comparing destinations by value
func (c Change) Equal(o Change) bool {
	if c.Kind != o.Kind || c.Source != o.Source {
		return false
	}
	if c.Destination == nil || o.Destination == nil {
		return c.Destination == nil && o.Destination == nil
	}
	return *c.Destination == *o.Destination
}

// SizeDelta returns the size difference of a modification, 0 otherwise
func (c Change) SizeDelta() int64 {
	if c.Destination == nil {
		return 0
	}
	return c.Destination.Size - c.Source.Size
}

// Changes is an ordered list of changes sorted by source path
type Changes []Change

// NewChanges sorts changes by source path and returns them
func NewChanges(changes []Change) Changes {
	sorted := make(Changes, len(changes))
	copy(sorted, changes)
	cmp := NewPathComparator()
	sort.SliceStable(sorted, func(i, j int) bool {
		return cmp.Compare(sorted[i].Source.Path, sorted[j].Source.Path) < 0
	})
	return sorted
}

// IsEmpty reports whether there are no changes
func (c Changes) IsEmpty() bool {
	return len(c) == 0
}

// Additions returns the addition changes in order
func (c Changes) Additions() Changes { return c.filter(Addition) }

// Deletions returns the deletion changes in order
func (c Changes) Deletions() Changes { return c.filter(Deletion) }

// Modifications returns the modification changes in order
func (c Changes) Modifications() Changes { return c.filter(Modification) }

func (c Changes) filter(kind ChangeKind) Changes {
	var out Changes
	for _, change := range c {
		if change.Kind == kind {
			out = append(out, change)
		}
	}
	return out
}

// Equal compares two change lists element by element
func (c Changes) Equal(o Changes) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if !c[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

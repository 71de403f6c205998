package model

import (
	"fmt"
	"sort"
)

// Snapshot is the immutable record of a root's files at one point in time
type Snapshot struct {
	root  string
	items map[string]Item
}

// NewSnapshot creates a snapshot of root. Paths are unique within a snapshot;
// if items repeat a path the last one wins.
func NewSnapshot(root string, items []Item) *Snapshot {
	m := make(map[string]Item, len(items))
	for _, item := range items {
		m[item.Path] = item
	}
	return &Snapshot{root: root, items: m}
}

// EmptySnapshot returns a snapshot of root with no items
func EmptySnapshot(root string) *Snapshot {
	return NewSnapshot(root, nil)
}

// Root returns the root path the snapshot was taken of
func (s *Snapshot) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// Len returns the number of items
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Lookup returns the item recorded at path
func (s *Snapshot) Lookup(path string) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	item, ok := s.items[path]
	return item, ok
}

// Items returns a copy of the items ordered by path
func (s *Snapshot) Items() []Item {
	if s == nil {
		return nil
	}
	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})
	return items
}

// TotalSize returns the summed size of all items
func (s *Snapshot) TotalSize() int64 {
	if s == nil {
		return 0
	}
	var total int64
	for _, item := range s.items {
		total += item.Size
	}
	return total
}

// String implements fmt.Stringer
func (s *Snapshot) String() string {
	if n := s.Len(); n != 1 {
		return fmt.Sprintf("%d files", n)
	}
	return "1 file"
}

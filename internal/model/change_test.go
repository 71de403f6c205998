package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangesSortedByPath(t *testing.T) {
	changes := NewChanges([]Change{
		NewAddition(Item{Path: "b.txt"}),
		NewDeletion(Item{Path: "a.txt"}),
		NewModification(Item{Path: "c.txt", Size: 1}, Item{Path: "c.txt", Size: 2}),
	})

	require.Len(t, changes, 3)
	assert.Equal(t, "a.txt", changes[0].Path())
	assert.Equal(t, "b.txt", changes[1].Path())
	assert.Equal(t, "c.txt", changes[2].Path())

	assert.Len(t, changes.Additions(), 1)
	assert.Len(t, changes.Deletions(), 1)
	assert.Len(t, changes.Modifications(), 1)
}

func TestChangesNumericOrdering(t *testing.T) {
	changes := NewChanges([]Change{
		NewAddition(Item{Path: "file10.txt"}),
		NewAddition(Item{Path: "file2.txt"}),
		NewAddition(Item{Path: "file1.txt"}),
	})

	var paths []string
	for _, c := range changes {
		paths = append(paths, c.Path())
	}
	assert.Equal(t, []string{"file1.txt", "file2.txt", "file10.txt"}, paths)
}

func TestPathComparatorIsTotal(t *testing.T) {
	cmp := NewPathComparator()

	assert.Equal(t, 0, cmp.Compare("a.txt", "a.txt"))
	assert.NotEqual(t, 0, cmp.Compare("a.txt", "A.txt"))
	assert.Equal(t, -cmp.Compare("a.txt", "A.txt"), cmp.Compare("A.txt", "a.txt"))
}

func TestChangeEqual(t *testing.T) {
	a := NewModification(Item{Path: "x", Size: 1}, Item{Path: "x", Size: 2})
	b := NewModification(Item{Path: "x", Size: 1}, Item{Path: "x", Size: 2})
	c := NewModification(Item{Path: "x", Size: 1}, Item{Path: "x", Size: 3})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewAddition(Item{Path: "x", Size: 1})))
	assert.Equal(t, int64(1), a.SizeDelta())

	add := NewAddition(Item{Path: "x"})
	assert.Nil(t, add.Destination)
	assert.True(t, add.IsAddition())
	assert.NotNil(t, a.Destination)
	assert.True(t, a.IsModification())
}

func TestChangesIsEmpty(t *testing.T) {
	assert.True(t, NewChanges(nil).IsEmpty())
	assert.False(t, NewChanges([]Change{NewDeletion(Item{Path: "a"})}).IsEmpty())
}

package snapshot

import (
	"crypto/md5"
	"fmt"
	"testing"

	"github.com/lumipallolabs/reporter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/home/user/Files"

var (
	d1 = model.NewDigest(md5.Sum([]byte("Hello")))
	d2 = model.NewDigest(md5.Sum([]byte("Goodbye")))
)

func snap(items ...model.Item) *model.Snapshot {
	return model.NewSnapshot(root, items)
}

func TestDiffEmptySnapshots(t *testing.T) {
	changes := Diff(snap(), snap())
	assert.True(t, changes.IsEmpty())
}

func TestDiffSingleAddition(t *testing.T) {
	item := model.Item{Path: "a.txt", ModTime: 0, Size: 5, Digest: d1}

	changes := Diff(snap(), snap(item))
	assert.True(t, changes.Equal(model.Changes{model.NewAddition(item)}))
}

func TestDiffSingleDeletion(t *testing.T) {
	item := model.Item{Path: "a.txt", ModTime: 0, Size: 5, Digest: d1}

	changes := Diff(snap(item), snap())
	assert.True(t, changes.Equal(model.Changes{model.NewDeletion(item)}))
}

func TestDiffSingleModification(t *testing.T) {
	before := model.Item{Path: "a.txt", ModTime: 0, Size: 5, Digest: d1}
	after := model.Item{Path: "a.txt", ModTime: 0, Size: 9, Digest: d2}

	changes := Diff(snap(before), snap(after))
	require.Len(t, changes, 1)
	assert.Equal(t, model.Modification, changes[0].Kind)
	assert.Equal(t, before, changes[0].Source)
	require.NotNil(t, changes[0].Destination)
	assert.Equal(t, after, *changes[0].Destination)
}

func TestDiffUnchanged(t *testing.T) {
	item := model.Item{Path: "a.txt", ModTime: 0, Size: 5, Digest: d1}

	changes := Diff(snap(item), snap(item))
	assert.True(t, changes.IsEmpty())
}

func TestDiffAdditionAndDeletionSorted(t *testing.T) {
	a := model.Item{Path: "a.txt", Size: 1, Digest: d1}
	b := model.Item{Path: "b.txt", Size: 1, Digest: d1}

	changes := Diff(snap(a), snap(b))
	assert.True(t, changes.Equal(model.Changes{
		model.NewDeletion(a),
		model.NewAddition(b),
	}))
}

func TestDiffModificationPrecedence(t *testing.T) {
	base := model.Item{Path: "p", ModTime: 1, Size: 1, Digest: d1}

	variants := []model.Item{
		{Path: "p", ModTime: 2, Size: 1, Digest: d1},
		{Path: "p", ModTime: 1, Size: 2, Digest: d1},
		{Path: "p", ModTime: 1, Size: 1, Digest: d2},
		{Path: "p", ModTime: 1, Size: 1},
	}
	for i, v := range variants {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			changes := Diff(snap(base), snap(v))
			require.Len(t, changes, 1)
			assert.True(t, changes[0].IsModification())
		})
	}
}

func TestDiffComplementLaw(t *testing.T) {
	var oldItems, newItems []model.Item
	for i := 0; i < 20; i++ {
		oldItems = append(oldItems, model.Item{Path: fmt.Sprintf("old/%d", i), Size: int64(i)})
		newItems = append(newItems, model.Item{Path: fmt.Sprintf("new/%d", i), Size: int64(i)})
	}

	changes := Diff(snap(oldItems...), snap(newItems...))

	assert.Len(t, changes.Additions(), len(newItems))
	assert.Len(t, changes.Deletions(), len(oldItems))
	assert.Empty(t, changes.Modifications())
	for _, c := range changes.Additions() {
		_, ok := snap(newItems...).Lookup(c.Path())
		assert.True(t, ok)
	}
	for _, c := range changes.Deletions() {
		_, ok := snap(oldItems...).Lookup(c.Path())
		assert.True(t, ok)
	}
}

func TestDiffIdempotentAndStable(t *testing.T) {
	var items []model.Item
	for i := 0; i < 50; i++ {
		items = append(items, model.Item{Path: fmt.Sprintf("dir%d/file%d.txt", i%5, i), Size: int64(i), Digest: d1})
	}
	s := snap(items...)
	assert.True(t, Diff(s, s).IsEmpty())

	other := snap(items[10:]...)
	first := Diff(other, s)
	second := Diff(other, s)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.Negative(t, model.NewPathComparator().Compare(first[i-1].Path(), first[i].Path()))
	}
}

func TestDiffNilSnapshots(t *testing.T) {
	item := model.Item{Path: "a.txt"}

	assert.True(t, Diff(nil, nil).IsEmpty())
	assert.Len(t, Diff(nil, snap(item)).Additions(), 1)
	assert.Len(t, Diff(snap(item), nil).Deletions(), 1)
}

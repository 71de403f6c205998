package state

import (
	"context"
	"crypto/md5"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lumipallolabs/reporter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *model.State {
	state := model.NewState()
	state.Set(model.NewSnapshot("/data/photos", []model.Item{
		{Path: "a.jpg", ModTime: 1700000000123456789, Size: 2048, Digest: model.NewDigest(md5.Sum([]byte("a")))},
		{Path: "nested/b.jpg", ModTime: 42, Size: 0},
	}))
	state.Set(model.EmptySnapshot("/data/empty"))
	return state
}

func assertStatesEqual(t *testing.T, want, got *model.State) {
	t.Helper()
	require.Equal(t, want.Roots(), got.Roots())
	for _, root := range want.Roots() {
		w, _ := want.Snapshot(root)
		g, ok := got.Snapshot(root)
		require.True(t, ok, "missing root %s", root)
		assert.Equal(t, root, g.Root())
		assert.Equal(t, w.Items(), g.Items())
	}
}

func TestStoresRoundTrip(t *testing.T) {
	for _, format := range []string{FormatGob, FormatSQLite} {
		t.Run(format, func(t *testing.T) {
			store, err := Open(filepath.Join(t.TempDir(), "state", "snapshot"), format)
			require.NoError(t, err)

			ctx := context.Background()
			want := sampleState()
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assertStatesEqual(t, want, got)

			// Absent digests stay absent
			snap, _ := got.Snapshot("/data/photos")
			item, _ := snap.Lookup("nested/b.jpg")
			assert.False(t, item.Digest.Valid)
		})
	}
}

func TestStoresOverwrite(t *testing.T) {
	for _, format := range []string{FormatGob, FormatSQLite} {
		t.Run(format, func(t *testing.T) {
			store, err := Open(filepath.Join(t.TempDir(), "snapshot"), format)
			require.NoError(t, err)

			ctx := context.Background()
			require.NoError(t, store.Save(ctx, sampleState()))

			next := model.NewState()
			next.Set(model.NewSnapshot("/other", []model.Item{{Path: "x", Size: 1}}))
			require.NoError(t, store.Save(ctx, next))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assertStatesEqual(t, next, got)
		})
	}
}

func TestStoresMissingFileIsEmpty(t *testing.T) {
	for _, format := range []string{FormatGob, FormatSQLite} {
		t.Run(format, func(t *testing.T) {
			store, err := Open(filepath.Join(t.TempDir(), "missing"), format)
			require.NoError(t, err)

			got, err := store.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got.Roots())
		})
	}
}

func TestStoresLoadUnreachablePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("path errors differ on windows")
	}

	// A regular file in place of the parent directory
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	path := filepath.Join(blocker, "state")

	for _, format := range []string{FormatGob, FormatSQLite} {
		t.Run(format, func(t *testing.T) {
			store, err := Open(path, format)
			require.NoError(t, err)

			got, err := store.Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, got)
			assert.False(t, errors.Is(err, os.ErrNotExist))
		})
	}

	_, err := NewSQLiteStore(path).Load(context.Background())
	assert.ErrorContains(t, err, "stat state")
}

func TestOpenPicksBackend(t *testing.T) {
	s, err := Open("/tmp/state.db", "")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)

	s, err = Open("/tmp/snapshot", "")
	require.NoError(t, err)
	assert.IsType(t, &GobStore{}, s)
	assert.Equal(t, "/tmp/snapshot", s.Path())

	_, err = Open("/tmp/snapshot", "xml")
	var formatErr *UnknownFormatError
	assert.ErrorAs(t, err, &formatErr)
}

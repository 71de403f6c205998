package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/lumipallolabs/reporter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func paths(ids []model.FileIdentity) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Path)
	}
	sort.Strings(out)
	return out
}

func TestWalkerScan(t *testing.T) {
	tmp := t.TempDir()

	writeFile(t, tmp, "file1.txt", "hello")
	writeFile(t, tmp, "subdir/file2.txt", "world!")
	writeFile(t, tmp, "subdir/deeper/file3.txt", "")

	w := NewWalker(4, nil)
	ids, err := w.Scan(context.Background(), tmp)
	require.NoError(t, err)

	assert.Equal(t, []string{"file1.txt", "subdir/deeper/file3.txt", "subdir/file2.txt"}, paths(ids))

	for _, id := range ids {
		if id.Path == "subdir/file2.txt" {
			assert.Equal(t, int64(6), id.Size)
			assert.NotZero(t, id.ModTime)
		}
	}

	progress := w.Progress()
	assert.Equal(t, int64(3), progress.FilesFound)
	assert.Equal(t, int64(2), progress.DirsScanned)
}

func TestWalkerSkipsHiddenAndPackages(t *testing.T) {
	tmp := t.TempDir()

	writeFile(t, tmp, "visible.txt", "a")
	writeFile(t, tmp, ".hidden", "b")
	writeFile(t, tmp, ".git/config", "c")
	writeFile(t, tmp, "Photos.photoslibrary/database/db.sqlite", "d")
	writeFile(t, tmp, "Tool.APP/Contents/Info.plist", "e")
	writeFile(t, tmp, "docs/readme.md", "f")

	ids, err := NewWalker(2, nil).Scan(context.Background(), tmp)
	require.NoError(t, err)

	assert.Equal(t, []string{"docs/readme.md", "visible.txt"}, paths(ids))
}

func TestWalkerExcludes(t *testing.T) {
	tmp := t.TempDir()

	writeFile(t, tmp, "keep.txt", "a")
	writeFile(t, tmp, "drop.tmp", "b")
	writeFile(t, tmp, "nested/drop.tmp", "c")
	writeFile(t, tmp, "cache/blob", "d")

	filter, err := NewFilter(nil, []string{"*.tmp", "cache/*"})
	require.NoError(t, err)

	ids, err := NewWalker(2, filter).Scan(context.Background(), tmp)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.txt"}, paths(ids))
}

func TestWalkerExcludesDirectories(t *testing.T) {
	tmp := t.TempDir()

	writeFile(t, tmp, "src/main.go", "a")
	writeFile(t, tmp, "node_modules/pkg/index.js", "b")
	writeFile(t, tmp, "src/node_modules/dep.js", "c")

	filter, err := NewFilter(nil, []string{"node_modules"})
	require.NoError(t, err)

	ids, err := NewWalker(2, filter).Scan(context.Background(), tmp)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main.go"}, paths(ids))
}

func TestWalkerSkipsSymlinks(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "target.txt", "a")
	if err := os.Symlink(filepath.Join(tmp, "target.txt"), filepath.Join(tmp, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	ids, err := NewWalker(2, nil).Scan(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, []string{"target.txt"}, paths(ids))
}

func TestWalkerSkipsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits do not restrict listing on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can list any directory")
	}

	tmp := t.TempDir()
	writeFile(t, tmp, "visible.txt", "a")
	writeFile(t, tmp, "open/inner.txt", "b")
	writeFile(t, tmp, "locked/secret.txt", "c")

	locked := filepath.Join(tmp, "locked")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	w := NewWalker(2, nil)
	ids, err := w.Scan(context.Background(), tmp)
	require.NoError(t, err)

	assert.Equal(t, []string{"open/inner.txt", "visible.txt"}, paths(ids))
	assert.Equal(t, int64(1), w.Progress().Skipped)
	assert.Equal(t, int64(2), w.Progress().FilesFound)
}

func TestWalkerRelativeFailure(t *testing.T) {
	w := NewWalker(1, nil)

	rel, ok := w.relative(filepath.Join(string(filepath.Separator), "root"), "relative")
	assert.False(t, ok)
	assert.Empty(t, rel)
	assert.Equal(t, int64(1), w.Progress().Skipped)

	rel, ok = w.relative(filepath.Join(string(filepath.Separator), "root"), filepath.Join(string(filepath.Separator), "root", "a", "b.txt"))
	assert.True(t, ok)
	assert.Equal(t, "a/b.txt", rel)
	assert.Equal(t, int64(1), w.Progress().Skipped)
}

func TestWalkerRootErrors(t *testing.T) {
	tmp := t.TempDir()

	_, err := NewWalker(2, nil).Scan(context.Background(), filepath.Join(tmp, "missing"))
	assert.Error(t, err)

	writeFile(t, tmp, "file.txt", "x")
	_, err = NewWalker(2, nil).Scan(context.Background(), filepath.Join(tmp, "file.txt"))
	assert.True(t, errors.Is(err, ErrRootNotDir))
}

func TestWalkerEmptyRoot(t *testing.T) {
	ids, err := NewWalker(2, nil).Scan(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFilterPatterns(t *testing.T) {
	_, err := NewFilter([]string{"[unterminated"}, nil)
	assert.Error(t, err)

	f, err := NewFilter([]string{"*.bundle"}, []string{"build/**"})
	require.NoError(t, err)

	assert.True(t, f.IsPackage("Thing.bundle"))
	assert.False(t, f.IsPackage("Thing.app"))
	assert.True(t, f.IsExcluded("build/out/a.o"))
	assert.False(t, f.IsExcluded("src/build.go"))
}

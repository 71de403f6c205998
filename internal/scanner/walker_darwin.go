//go:build darwin

package scanner

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// isHiddenEntry reports whether the Finder hidden flag is set on the entry
func isHiddenEntry(path string, d fs.DirEntry) bool {
	var stat unix.Stat_t
	if err := unix.Lstat(path, &stat); err != nil {
		return false
	}
	return stat.Flags&unix.UF_HIDDEN != 0
}

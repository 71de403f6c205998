//go:build !darwin && !windows

package scanner

import "io/fs"

// isHiddenEntry is false everywhere the dot-file convention is the only marker
func isHiddenEntry(path string, d fs.DirEntry) bool {
	return false
}

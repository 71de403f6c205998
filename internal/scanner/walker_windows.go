//go:build windows

package scanner

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/windows"
)

// isHiddenEntry reports whether the hidden attribute is set on the entry
func isHiddenEntry(path string, d fs.DirEntry) bool {
	info, err := d.Info()
	if err != nil {
		return false
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	return attrs.FileAttributes&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

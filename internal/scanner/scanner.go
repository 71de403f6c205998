package scanner

import (
	"context"
	"errors"

	"github.com/lumipallolabs/reporter/internal/model"
)

var (
	// ErrRootNotDir is returned when the root exists but is not a directory
	ErrRootNotDir = errors.New("root is not a directory")
)

// Progress reports enumeration progress
type Progress struct {
	FilesFound  int64
	DirsScanned int64
	Skipped     int64
}

// Scanner defines the interface for directory enumeration
type Scanner interface {
	// Scan enumerates the regular files below root. It fails only when root
	// cannot be opened for enumeration; unreadable entries are logged and skipped.
	Scan(ctx context.Context, root string) ([]model.FileIdentity, error)
}

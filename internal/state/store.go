// Package state persists the cross-run baseline of snapshots.
package state

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lumipallolabs/reporter/internal/model"
)

// Backend formats accepted by Open
const (
	FormatGob    = "gob"
	FormatSQLite = "sqlite"
)

// Store loads and saves the snapshot baseline. A missing store loads as an
// empty state.
type Store interface {
	Load(ctx context.Context) (*model.State, error)
	Save(ctx context.Context, state *model.State) error
	Path() string
}

// Open returns the store for path. An empty format picks sqlite for .db and
// .sqlite files and gob otherwise.
func Open(path, format string) (Store, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			format = FormatSQLite
		default:
			format = FormatGob
		}
	}

	switch format {
	case FormatGob:
		return NewGobStore(path), nil
	case FormatSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, &UnknownFormatError{Format: format}
	}
}

// UnknownFormatError is returned by Open for unsupported formats
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown state format %q", e.Format)
}

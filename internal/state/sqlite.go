package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumipallolabs/reporter/internal/model"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	root TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS items (
	root   TEXT NOT NULL REFERENCES snapshots(root) ON DELETE CASCADE,
	path   TEXT NOT NULL,
	mtime  INTEGER NOT NULL,
	size   INTEGER NOT NULL,
	digest BLOB,
	PRIMARY KEY (root, path)
);
`

// SQLiteStore keeps the state in a SQLite database, one row per item
type SQLiteStore struct {
	path string
}

// NewSQLiteStore creates a store backed by the database at path
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// Load reads every snapshot, returning an empty state when the database does
// not exist yet
func (s *SQLiteStore) Load(ctx context.Context) (*model.State, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewState(), nil
		}
		return nil, fmt.Errorf("stat state: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	roots, err := db.QueryContext(ctx, `SELECT root FROM snapshots ORDER BY root`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	items := make(map[string][]model.Item)
	for roots.Next() {
		var root string
		if err := roots.Scan(&root); err != nil {
			roots.Close()
			return nil, err
		}
		items[root] = nil
	}
	roots.Close()
	if err := roots.Err(); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT root, path, mtime, size, digest FROM items`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			root   string
			item   model.Item
			digest []byte
		)
		if err := rows.Scan(&root, &item.Path, &item.ModTime, &item.Size, &digest); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Digest = model.DigestFromBytes(digest)
		items[root] = append(items[root], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	state := model.NewState()
	for root, list := range items {
		state.Set(model.NewSnapshot(root, list))
	}
	return state, nil
}

// Save replaces the stored state in a single transaction
func (s *SQLiteStore) Save(ctx context.Context, state *model.State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	insertSnapshot, err := tx.PrepareContext(ctx, `INSERT INTO snapshots (root) VALUES (?)`)
	if err != nil {
		return err
	}
	defer insertSnapshot.Close()

	insertItem, err := tx.PrepareContext(ctx, `INSERT INTO items (root, path, mtime, size, digest) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertItem.Close()

	for _, root := range state.Roots() {
		if _, err := insertSnapshot.ExecContext(ctx, root); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", root, err)
		}
		snap, _ := state.Snapshot(root)
		for _, item := range snap.Items() {
			var digest any
			if item.Digest.Valid {
				digest = item.Digest.Bytes()
			}
			if _, err := insertItem.ExecContext(ctx, root, item.Path, item.ModTime, item.Size, digest); err != nil {
				return fmt.Errorf("insert item %s: %w", item.Path, err)
			}
		}
	}

	return tx.Commit()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

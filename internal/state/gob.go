package state

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/lumipallolabs/reporter/internal/model"
)

// stateVersion is bumped when the record layout changes
const stateVersion = 1

// Records mirror the model with exported fields for gob
type stateRecord struct {
	Version   int
	Snapshots []snapshotRecord
}

type snapshotRecord struct {
	Root  string
	Items []itemRecord
}

type itemRecord struct {
	Path    string
	ModTime int64
	Size    int64
	Digest  []byte // nil when absent
}

// GobStore keeps the state as a gzip compressed gob file
type GobStore struct {
	path string
}

// NewGobStore creates a store backed by the file at path
func NewGobStore(path string) *GobStore {
	return &GobStore{path: path}
}

// Path returns the backing file
func (s *GobStore) Path() string {
	return s.path
}

// Save writes the state to a temporary file and renames it into place
func (s *GobStore) Save(ctx context.Context, state *model.State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	tmpPath := file.Name()
	defer os.Remove(tmpPath)

	gzWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzWriter)
	if err := encoder.Encode(toRecord(state)); err != nil {
		file.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		file.Close()
		return fmt.Errorf("compress: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Load reads the state, returning an empty state when the file is missing
func (s *GobStore) Load(ctx context.Context) (*model.State, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gzReader.Close()

	var rec stateRecord
	decoder := gob.NewDecoder(gzReader)
	if err := decoder.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if rec.Version != stateVersion {
		return nil, fmt.Errorf("unsupported state version %d", rec.Version)
	}

	return fromRecord(rec), nil
}

func toRecord(state *model.State) stateRecord {
	rec := stateRecord{Version: stateVersion}
	for _, root := range state.Roots() {
		snap, _ := state.Snapshot(root)
		sr := snapshotRecord{Root: root}
		for _, item := range snap.Items() {
			sr.Items = append(sr.Items, itemRecord{
				Path:    item.Path,
				ModTime: item.ModTime,
				Size:    item.Size,
				Digest:  item.Digest.Bytes(),
			})
		}
		rec.Snapshots = append(rec.Snapshots, sr)
	}
	return rec
}

func fromRecord(rec stateRecord) *model.State {
	state := model.NewState()
	for _, sr := range rec.Snapshots {
		items := make([]model.Item, 0, len(sr.Items))
		for _, ir := range sr.Items {
			items = append(items, model.Item{
				Path:    ir.Path,
				ModTime: ir.ModTime,
				Size:    ir.Size,
				Digest:  model.DigestFromBytes(ir.Digest),
			})
		}
		state.Set(model.NewSnapshot(sr.Root, items))
	}
	return state
}

// Ensure GobStore implements Store
var _ Store = (*GobStore)(nil)

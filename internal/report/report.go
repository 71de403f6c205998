// Package report turns per-folder changes into text, HTML and terminal output.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/lumipallolabs/reporter/internal/model"
)

// Entry is the presentation form of a single change
type Entry struct {
	Kind        model.ChangeKind
	Path        string
	Destination string // new-state path of a modification
	Detail      string
	MIME        string

	IsAddition     bool
	IsDeletion     bool
	IsModification bool
}

// Symbol returns the one-character marker used in text output
func (e Entry) Symbol() string {
	switch e.Kind {
	case model.Addition:
		return "+"
	case model.Modification:
		return "~"
	default:
		return "-"
	}
}

// Class returns the CSS class used in HTML output
func (e Entry) Class() string {
	return e.Kind.String()
}

// Folder holds the changes of one root
type Folder struct {
	Name    string
	Path    string
	Changes model.Changes
	Entries []Entry
}

// NewFolder prepares a folder's changes for presentation
func NewFolder(path string, changes model.Changes) Folder {
	f := Folder{
		Name:    filepath.Base(path),
		Path:    path,
		Changes: changes,
		Entries: make([]Entry, 0, len(changes)),
	}
	for _, c := range changes {
		f.Entries = append(f.Entries, newEntry(c))
	}
	return f
}

func newEntry(c model.Change) Entry {
	e := Entry{
		Kind:           c.Kind,
		Path:           c.Source.Path,
		IsAddition:     c.IsAddition(),
		IsDeletion:     c.IsDeletion(),
		IsModification: c.IsModification(),
	}
	switch c.Kind {
	case model.Modification:
		e.Destination = c.Destination.Path
		e.Detail = formatDelta(c.SizeDelta())
	default:
		e.Detail = humanize.Bytes(uint64(c.Source.Size))
	}
	return e
}

func formatDelta(delta int64) string {
	switch {
	case delta > 0:
		return "+" + humanize.Bytes(uint64(delta))
	case delta < 0:
		return "-" + humanize.Bytes(uint64(-delta))
	default:
		return "same size"
	}
}

// Count returns the number of changes in the folder
func (f Folder) Count() int {
	return len(f.Changes)
}

// Summary returns "1 change" or "N changes"
func (f Folder) Summary() string {
	if n := f.Count(); n != 1 {
		return fmt.Sprintf("%d changes", n)
	}
	return "1 change"
}

// Report is the batch of folder changes produced by one run
type Report struct {
	Folders   []Folder
	RunID     string
	Generated time.Time
}

// New creates a report with folders ordered by path
func New(runID string, folders []Folder) *Report {
	sorted := make([]Folder, len(folders))
	copy(sorted, folders)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return &Report{
		Folders:   sorted,
		RunID:     runID,
		Generated: time.Now(),
	}
}

// IsEmpty reports whether no folder has changes
func (r *Report) IsEmpty() bool {
	for _, f := range r.Folders {
		if !f.Changes.IsEmpty() {
			return false
		}
	}
	return true
}

// Changed returns only the folders with changes
func (r *Report) Changed() []Folder {
	var out []Folder
	for _, f := range r.Folders {
		if !f.Changes.IsEmpty() {
			out = append(out, f)
		}
	}
	return out
}

// Totals returns addition, deletion and modification counts across folders
func (r *Report) Totals() (additions, deletions, modifications int) {
	for _, f := range r.Folders {
		for _, c := range f.Changes {
			switch c.Kind {
			case model.Addition:
				additions++
			case model.Deletion:
				deletions++
			case model.Modification:
				modifications++
			}
		}
	}
	return additions, deletions, modifications
}

// DetectTypes fills in the MIME type of added and modified files that can
// still be read. Unreadable files are left blank.
func (r *Report) DetectTypes() {
	for i := range r.Folders {
		folder := &r.Folders[i]
		for j := range folder.Entries {
			entry := &folder.Entries[j]
			if entry.IsDeletion {
				continue
			}
			mtype, err := mimetype.DetectFile(filepath.Join(folder.Path, filepath.FromSlash(entry.Path)))
			if err != nil {
				continue
			}
			entry.MIME = mtype.String()
		}
	}
}

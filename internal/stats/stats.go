// Package stats keeps lifetime run statistics next to the saved state.
package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the stats file written beside the state file
const FileName = "stats.json"

// Stats holds persistent statistics
type Stats struct {
	Runs          int       `json:"runs"`
	LastRunID     string    `json:"last_run_id,omitempty"`
	LastRun       time.Time `json:"last_run,omitempty"`
	Additions     int       `json:"additions"`
	Deletions     int       `json:"deletions"`
	Modifications int       `json:"modifications"`
	Hashed        int       `json:"hashed"`
	Reused        int       `json:"reused"`
	Failures      int       `json:"failures"`
}

// Run is the outcome of one run
type Run struct {
	ID            string
	Time          time.Time
	Additions     int
	Deletions     int
	Modifications int
	Hashed        int
	Reused        int
	Failed        bool
}

// Manager handles loading and saving stats
type Manager struct {
	path  string
	stats Stats
	mu    sync.RWMutex
	dirty bool
}

// NewManager creates a stats manager for the given file
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// PathFor returns the stats path for a state file
func PathFor(statePath string) string {
	return filepath.Join(filepath.Dir(statePath), FileName)
}

// Load loads stats from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No stats file yet, start fresh
			m.stats = Stats{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.stats)
}

// Save saves stats to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked saves stats without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.stats, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

// Stats returns a copy of the current statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Record adds a run to the lifetime counters
func (m *Manager) Record(run Run) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Runs++
	m.stats.LastRunID = run.ID
	m.stats.LastRun = run.Time
	m.stats.Additions += run.Additions
	m.stats.Deletions += run.Deletions
	m.stats.Modifications += run.Modifications
	m.stats.Hashed += run.Hashed
	m.stats.Reused += run.Reused
	if run.Failed {
		m.stats.Failures++
	}
	m.dirty = true
}

// Close writes pending changes
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}

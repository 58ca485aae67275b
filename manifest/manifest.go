// Package manifest implements an atomic, append-only run catalog: a
// lightweight history of completed clustering runs recorded to local disk
// without a database, one JSON file per run plus a CURRENT pointer file.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hupe1980/gdbscan/internal/fs"
)

const (
	ManifestFileName = "MANIFEST"
	CurrentFileName  = "CURRENT"
	CurrentVersion   = 1
)

// Entry describes a single completed run.
type Entry struct {
	Version     int       `json:"version"`
	ID          uint64    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	N           int       `json:"n"`
	Epsilon     float64   `json:"epsilon"`
	MinPts      int       `json:"min_pts"`
	Encoding    string    `json:"encoding"`
	NumWorkers  int       `json:"num_workers"`
	Edges       int       `json:"edges"`
	Clusters    int       `json:"clusters"`
	CoreCount   int       `json:"core_count"`
	BorderCount int       `json:"border_count"`
	NoiseCount  int       `json:"noise_count"`
	Duration    string    `json:"duration"`
	SnapshotKey string    `json:"snapshot_key,omitempty"` // blob key in the snapshot store, if archived
}

// Store manages the run-catalog directory and atomic updates.
type Store struct {
	fs  fs.FileSystem
	dir string
	mu  sync.Mutex
}

// NewStore creates a new catalog store rooted at dir.
func NewStore(fsys fs.FileSystem, dir string) *Store {
	if fsys == nil {
		fsys = fs.Default
	}
	return &Store{fs: fsys, dir: dir}
}

// Current returns the most recently recorded run entry, or an Entry with
// only Version set if no run has been recorded yet.
func (s *Store) Current() (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	readFile := func(path string) ([]byte, error) {
		f, err := s.fs.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	currentPath := filepath.Join(s.dir, CurrentFileName)
	content, err := readFile(currentPath)
	if os.IsNotExist(err) {
		return Entry{Version: CurrentVersion}, nil
	}
	if err != nil {
		return Entry{}, err
	}

	entryPath := filepath.Join(s.dir, string(content))
	data, err := readFile(entryPath)
	if err != nil {
		return Entry{}, err
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, err
	}
	if e.Version != CurrentVersion {
		return Entry{}, fmt.Errorf("unsupported manifest entry version: %d (expected %d)", e.Version, CurrentVersion)
	}
	return e, nil
}

// Append atomically records a new run entry and advances the CURRENT
// pointer. The entry's ID is assigned as the prior entry's ID + 1.
func (s *Store) Append(e Entry) error {
	prev, err := s.Current()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.Version = CurrentVersion
	e.ID = prev.ID + 1

	filename := fmt.Sprintf("%s-%06d.json", ManifestFileName, e.ID)
	path := filepath.Join(s.dir, filename)

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	f, err := s.fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		s.fs.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		s.fs.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return err
	}

	if err := s.fs.Rename(tmpPath, path); err != nil {
		s.fs.Remove(tmpPath)
		return err
	}
	if err := s.syncDir(s.dir); err != nil {
		return err
	}

	currentTmp := filepath.Join(s.dir, CurrentFileName+".tmp")
	cf, err := s.fs.OpenFile(currentTmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := cf.Write([]byte(filename)); err != nil {
		cf.Close()
		s.fs.Remove(currentTmp)
		return err
	}
	if err := cf.Sync(); err != nil {
		cf.Close()
		s.fs.Remove(currentTmp)
		return err
	}
	if err := cf.Close(); err != nil {
		s.fs.Remove(currentTmp)
		return err
	}

	if err := s.fs.Rename(currentTmp, filepath.Join(s.dir, CurrentFileName)); err != nil {
		s.fs.Remove(currentTmp)
		return err
	}
	return s.syncDir(s.dir)
}

func (s *Store) syncDir(dir string) error {
	f, err := s.fs.OpenFile(dir, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

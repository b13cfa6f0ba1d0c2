package progress

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store loads and saves progress.
type Store interface {
	Load() (Progress, error)
	Save(Progress) error
}

// MemoryStore keeps progress in memory.
type MemoryStore struct {
	saved *Progress
	saves int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the last saved progress, or fresh progress.
func (m *MemoryStore) Load() (Progress, error) {
	if m.saved == nil {
		return New(), nil
	}
	return m.saved.Clone(), nil
}

// Save stores a copy of p.
func (m *MemoryStore) Save(p Progress) error {
	c := p.Clone()
	m.saved = &c
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int { return m.saves }

// FileStore keeps progress in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Load reads the progress file. A missing file yields fresh progress.
func (f *FileStore) Load() (Progress, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("reading progress file: %w", err)
	}

	p := New()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Progress{}, fmt.Errorf("parsing progress file: %w", err)
	}
	if p.LevelStars == nil {
		p.LevelStars = make(map[int]int)
	}
	p.HighestLevel = max(p.HighestLevel, 1)
	return p, nil
}

// Save writes the progress file, replacing it atomically.
func (f *FileStore) Save(p Progress) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling progress: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating progress dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing progress file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing progress file: %w", err)
	}
	return nil
}

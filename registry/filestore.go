package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"attendance-server-go/models"
)

// FileStore persists the registry snapshot as one JSON file, rewritten
// in full on every save. A missing file means a fresh install and loads
// as an empty snapshot.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads and decodes the snapshot file.
func (s *FileStore) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptySnapshot(), nil
		}
		return Snapshot{}, fmt.Errorf("failed to read registry file %s: %w", s.Path, err)
	}

	snap := emptySnapshot()
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode registry file %s: %w", s.Path, err)
	}
	if snap.Subjects == nil {
		snap.Subjects = make(map[string][]string)
	}
	if snap.Students == nil {
		snap.Students = make(map[string][]models.Student)
	}
	return snap, nil
}

// Save encodes the snapshot and replaces the file.
func (s *FileStore) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry snapshot: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file %s: %w", s.Path, err)
	}
	return nil
}

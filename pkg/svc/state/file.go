package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// stateDir is the directory under the user's home where installation state is stored.
	stateDir = ".kagenti"
	// installationsSubDir holds per-installation state directories.
	installationsSubDir = "installations"
	// stateFileName is the file containing the recorded component versions.
	stateFileName = "state.json"
	// dirPermissions is the permission mode for state directories.
	dirPermissions = 0o700
	// filePermissions is the permission mode for state files.
	filePermissions = 0o600
)

// ComponentRecord is the persisted state of one component.
type ComponentRecord struct {
	Version     string    `json:"version"`
	InstalledAt time.Time `json:"installedAt"`
}

// fileState is the on-disk layout of state.json.
type fileState struct {
	Components map[string]ComponentRecord `json:"components"`
}

// FileStore keeps installed versions in a JSON file. It records what this tool
// installed; it does not look at the cluster.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var (
	_ ReadWriter = (*FileStore)(nil)
	_ Remover    = (*FileStore)(nil)
)

// InstallationStatePath returns the state file path for an installation name.
func InstallationStatePath(installationName string) (string, error) {
	if installationName == "" ||
		strings.Contains(installationName, "/") ||
		strings.Contains(installationName, "\\") ||
		strings.Contains(installationName, "..") {
		return "", ErrInvalidInstallationName
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, stateDir, installationsSubDir, installationName, stateFileName), nil
}

// NewFileStore opens the store of an installation under the user's home directory.
func NewFileStore(installationName string) (*FileStore, error) {
	path, err := InstallationStatePath(installationName)
	if err != nil {
		return nil, err
	}

	return NewFileStoreAt(path), nil
}

// NewFileStoreAt opens a store at an explicit path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the location of the state file.
func (s *FileStore) Path() string {
	return s.path
}

// InstalledVersion implements Reader. A missing state file means nothing is installed.
func (s *FileStore) InstalledVersion(_ context.Context, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if errors.Is(err, ErrStateNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	record, ok := current.Components[name]

	return record.Version, ok, nil
}

// RecordInstalled implements Writer.
func (s *FileStore) RecordInstalled(_ context.Context, name, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil && !errors.Is(err, ErrStateNotFound) {
		return err
	}

	if current.Components == nil {
		current.Components = make(map[string]ComponentRecord)
	}

	current.Components[name] = ComponentRecord{Version: version, InstalledAt: s.now().UTC()}

	return s.save(current)
}

// RemoveInstalled implements Remover. Removing from a missing state is a no-op.
func (s *FileStore) RemoveInstalled(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil
		}

		return err
	}

	if _, ok := current.Components[name]; !ok {
		return nil
	}

	delete(current.Components, name)

	return s.save(current)
}

// Records returns every recorded component.
func (s *FileStore) Records() (map[string]ComponentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return nil, err
	}

	return current.Components, nil
}

// Delete removes the state file. A missing file is not an error.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete installation state: %w", err)
	}

	return nil
}

func (s *FileStore) load() (fileState, error) {
	var current fileState

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return current, ErrStateNotFound
		}

		return current, fmt.Errorf("failed to read installation state: %w", err)
	}

	err = json.Unmarshal(data, &current)
	if err != nil {
		return current, fmt.Errorf("failed to unmarshal installation state: %w", err)
	}

	return current, nil
}

func (s *FileStore) save(current fileState) error {
	dir := filepath.Dir(s.path)

	err := os.MkdirAll(dir, dirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal installation state: %w", err)
	}

	err = os.WriteFile(s.path, data, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write installation state: %w", err)
	}

	return nil
}

package state

import (
	"context"
	"maps"
	"sync"
)

// Memory is an in-process state store.
type Memory struct {
	mu       sync.RWMutex
	versions map[string]string
}

var (
	_ ReadWriter = (*Memory)(nil)
	_ Remover    = (*Memory)(nil)
)

// NewMemory creates a store pre-populated with name → version entries.
func NewMemory(initial map[string]string) *Memory {
	versions := make(map[string]string, len(initial))
	maps.Copy(versions, initial)

	return &Memory{versions: versions}
}

// InstalledVersion implements Reader.
func (m *Memory) InstalledVersion(_ context.Context, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	version, ok := m.versions[name]

	return version, ok, nil
}

// RecordInstalled implements Writer.
func (m *Memory) RecordInstalled(_ context.Context, name, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.versions[name] = version

	return nil
}

// Remove forgets a component, as if it was uninstalled outside the installer.
func (m *Memory) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.versions, name)
}

// RemoveInstalled implements Remover.
func (m *Memory) RemoveInstalled(_ context.Context, name string) error {
	m.Remove(name)

	return nil
}

// Snapshot returns a copy of every recorded version.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.versions)
}

package state

import (
	"context"
	"errors"
)

var (
	// ErrStateNotFound is returned when no saved state exists for an installation.
	ErrStateNotFound = errors.New("installation state not found")
	// ErrInvalidInstallationName is returned when a name contains path traversal characters.
	ErrInvalidInstallationName = errors.New(
		"invalid installation name: must not contain path separators or '..'",
	)
)

// Reader reports the installed version of a component.
// present is false when the component is not installed; version may be empty for
// a component that is installed without a known version.
type Reader interface {
	InstalledVersion(ctx context.Context, name string) (version string, present bool, err error)
}

// Writer records that a component converged to a version.
type Writer interface {
	RecordInstalled(ctx context.Context, name, version string) error
}

// Remover forgets a component after it was uninstalled.
type Remover interface {
	RemoveInstalled(ctx context.Context, name string) error
}

// ReadWriter is a Reader that can also record installs.
type ReadWriter interface {
	Reader
	Writer
}

package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPlanning is the root of every error that prevents a plan from being built.
	ErrPlanning = errors.New("planning failed")
	// ErrUnknownDependency is returned when a component depends on an unregistered name.
	ErrUnknownDependency = fmt.Errorf("%w: unknown dependency", ErrPlanning)
	// ErrStateQuery is returned when the installed version of a component cannot be read.
	ErrStateQuery = fmt.Errorf("%w: cluster state query failed", ErrPlanning)
	// ErrRegistryRequired is returned when no registry is passed.
	ErrRegistryRequired = fmt.Errorf("%w: registry is required", ErrPlanning)
	// ErrStateRequired is returned when no state reader is passed.
	ErrStateRequired = fmt.Errorf("%w: state reader is required", ErrPlanning)
)

// CycleError reports a dependency cycle. Cycle lists the components along the
// cycle with the first one repeated at the end.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: dependency cycle %s", ErrPlanning, strings.Join(e.Cycle, " -> "))
}

// Unwrap makes CycleError match ErrPlanning.
func (e *CycleError) Unwrap() error {
	return ErrPlanning
}

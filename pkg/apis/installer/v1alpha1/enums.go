package v1alpha1

import (
	"fmt"
	"slices"
	"strings"
)

// EnumValuer is implemented by string-based enum types to provide their valid values.
// The schema generator uses this interface to discover enum constraints.
type EnumValuer interface {
	// ValidValues returns all valid string values for this enum type.
	ValidValues() []string
}

// --- Execution Mode ---

// ExecutionMode selects how plan actions are scheduled.
type ExecutionMode string

const (
	// ExecutionModeSequential runs actions one at a time in plan order.
	ExecutionModeSequential ExecutionMode = "Sequential"
	// ExecutionModeParallel runs actions of one topological level concurrently.
	ExecutionModeParallel ExecutionMode = "Parallel"
)

// Set for ExecutionMode (pflag.Value interface).
func (m *ExecutionMode) Set(value string) error {
	for _, mode := range ValidExecutionModes() {
		if strings.EqualFold(value, string(mode)) {
			*m = mode

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidExecutionMode,
		value,
		ExecutionModeSequential,
		ExecutionModeParallel,
	)
}

// String returns the string representation of the ExecutionMode.
func (m *ExecutionMode) String() string {
	return string(*m)
}

// Type returns the type of the ExecutionMode.
func (m *ExecutionMode) Type() string {
	return "ExecutionMode"
}

// Default returns the default value for ExecutionMode (Sequential).
func (m *ExecutionMode) Default() any {
	return ExecutionModeSequential
}

// ValidValues returns all valid ExecutionMode values as strings.
func (m *ExecutionMode) ValidValues() []string {
	return []string{string(ExecutionModeSequential), string(ExecutionModeParallel)}
}

// --- Backoff Strategy ---

// BackoffStrategy selects how the delay between retries grows.
type BackoffStrategy string

const (
	// BackoffConstant waits the configured backoff before every retry.
	BackoffConstant BackoffStrategy = "Constant"
	// BackoffExponential doubles the backoff on every retry up to a cap.
	BackoffExponential BackoffStrategy = "Exponential"
)

// Set for BackoffStrategy (pflag.Value interface).
func (b *BackoffStrategy) Set(value string) error {
	for _, strategy := range ValidBackoffStrategies() {
		if strings.EqualFold(value, string(strategy)) {
			*b = strategy

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidBackoffStrategy,
		value,
		BackoffConstant,
		BackoffExponential,
	)
}

// String returns the string representation of the BackoffStrategy.
func (b *BackoffStrategy) String() string {
	return string(*b)
}

// Type returns the type of the BackoffStrategy.
func (b *BackoffStrategy) Type() string {
	return "BackoffStrategy"
}

// Default returns the default value for BackoffStrategy (Constant).
func (b *BackoffStrategy) Default() any {
	return BackoffConstant
}

// ValidValues returns all valid BackoffStrategy values as strings.
func (b *BackoffStrategy) ValidValues() []string {
	return []string{string(BackoffConstant), string(BackoffExponential)}
}

// --- State Backend ---

// StateBackend selects where installed component versions are read from.
type StateBackend string

const (
	// StateBackendHelm queries release versions through `helm list`.
	StateBackendHelm StateBackend = "Helm"
	// StateBackendSecrets reads Helm release secrets through the Kubernetes API.
	StateBackendSecrets StateBackend = "Secrets"
	// StateBackendFile reads and records versions in a local state file.
	StateBackendFile StateBackend = "File"
)

// Set for StateBackend (pflag.Value interface).
func (s *StateBackend) Set(value string) error {
	for _, backend := range ValidStateBackends() {
		if strings.EqualFold(value, string(backend)) {
			*s = backend

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s, %s)",
		ErrInvalidStateBackend,
		value,
		StateBackendHelm,
		StateBackendSecrets,
		StateBackendFile,
	)
}

// IsValid checks if the state backend value is supported.
func (s *StateBackend) IsValid() bool {
	return slices.Contains(ValidStateBackends(), *s)
}

// String returns the string representation of the StateBackend.
func (s *StateBackend) String() string {
	return string(*s)
}

// Type returns the type of the StateBackend.
func (s *StateBackend) Type() string {
	return "StateBackend"
}

// Default returns the default value for StateBackend (Helm).
func (s *StateBackend) Default() any {
	return StateBackendHelm
}

// ValidValues returns all valid StateBackend values as strings.
func (s *StateBackend) ValidValues() []string {
	return []string{
		string(StateBackendHelm),
		string(StateBackendSecrets),
		string(StateBackendFile),
	}
}

// ValidExecutionModes returns supported execution modes.
func ValidExecutionModes() []ExecutionMode {
	return []ExecutionMode{ExecutionModeSequential, ExecutionModeParallel}
}

// ValidBackoffStrategies returns supported backoff strategies.
func ValidBackoffStrategies() []BackoffStrategy {
	return []BackoffStrategy{BackoffConstant, BackoffExponential}
}

// ValidStateBackends returns supported state backends.
func ValidStateBackends() []StateBackend {
	return []StateBackend{StateBackendHelm, StateBackendSecrets, StateBackendFile}
}

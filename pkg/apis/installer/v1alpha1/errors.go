package v1alpha1

import "errors"

// ErrInvalidExecutionMode is returned when an invalid execution mode is specified.
var ErrInvalidExecutionMode = errors.New("invalid execution mode")

// ErrInvalidBackoffStrategy is returned when an invalid backoff strategy is specified.
var ErrInvalidBackoffStrategy = errors.New("invalid backoff strategy")

// ErrInvalidStateBackend is returned when an invalid state backend is specified.
var ErrInvalidStateBackend = errors.New("invalid state backend")

// ErrInvalidComponentName is returned when a component name is not a DNS-1123 label.
var ErrInvalidComponentName = errors.New("invalid component name")

// ErrInvalidNamespace is returned when a namespace is not a DNS-1123 label.
var ErrInvalidNamespace = errors.New("invalid namespace")

// ErrReferenceRequired is returned when a component has no chart reference.
var ErrReferenceRequired = errors.New("component reference is required")

// ErrSelfDependency is returned when a component lists itself as a dependency.
var ErrSelfDependency = errors.New("component depends on itself")

// ErrNegativeRetries is returned when max retries is below zero.
var ErrNegativeRetries = errors.New("max retries must not be negative")

// ErrNegativeBackoff is returned when the retry backoff is below zero.
var ErrNegativeBackoff = errors.New("retry backoff must not be negative")

// ErrInvalidAPIVersion is returned when the resource does not declare installer.kagenti.io/v1alpha1.
var ErrInvalidAPIVersion = errors.New("invalid apiVersion")

// ErrInvalidKind is returned when the resource kind is not Installation.
var ErrInvalidKind = errors.New("invalid kind")

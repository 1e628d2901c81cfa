package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/kagenti/kagenti-installer/pkg/client/netretry"
)

var (
	// ErrNegativeRetries is returned when MaxRetries < 0.
	ErrNegativeRetries = errors.New("maxRetries must not be negative")
	// ErrNegativeBackoff is returned when a backoff duration is negative.
	ErrNegativeBackoff = errors.New("retry backoff must not be negative")
)

// DefaultMaxBackoff caps exponential backoff when Options.MaxBackoff is zero.
const DefaultMaxBackoff = 2 * time.Minute

// Options control one run.
type Options struct {
	// ContinueOnError keeps executing after a terminal failure; dependents of the
	// failed component are skipped.
	ContinueOnError bool
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// RetryBackoff is the delay before the first retry.
	RetryBackoff time.Duration
	// Backoff selects a constant or doubling delay between retries.
	Backoff v1alpha1.BackoffStrategy
	// MaxBackoff caps the exponential delay.
	MaxBackoff time.Duration
	// Parallel executes independent actions of a topological level concurrently.
	Parallel bool
	// MaxConcurrency bounds parallel execution; <= 0 uses the executor default.
	MaxConcurrency int
}

// OptionsFromExecution maps the execution section of an installation onto run options.
func OptionsFromExecution(execution v1alpha1.Execution) Options {
	return Options{
		ContinueOnError: execution.ContinueOnError,
		MaxRetries:      execution.MaxRetries,
		RetryBackoff:    execution.RetryBackoff.Duration,
		Backoff:         execution.Backoff,
		MaxBackoff:      0,
		Parallel:        execution.Mode == v1alpha1.ExecutionModeParallel,
		MaxConcurrency:  execution.MaxConcurrency,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.MaxRetries < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeRetries, o.MaxRetries)
	}

	if o.RetryBackoff < 0 || o.MaxBackoff < 0 {
		return ErrNegativeBackoff
	}

	return nil
}

// delay returns the wait before retry number attempt (1-based).
func (o Options) delay(attempt int) time.Duration {
	if o.Backoff != v1alpha1.BackoffExponential {
		return o.RetryBackoff
	}

	maxBackoff := o.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = DefaultMaxBackoff
	}

	return netretry.ExponentialDelay(attempt, o.RetryBackoff, maxBackoff)
}

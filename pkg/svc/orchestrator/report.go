package orchestrator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/svc/planner"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	// ErrRunFailed is returned by Report.Err when at least one action failed.
	ErrRunFailed = errors.New("installation run failed")
	// ErrDependencyUnresolved is the skip reason of a component whose dependency
	// did not converge.
	ErrDependencyUnresolved = errors.New("dependency did not converge")
	// ErrAborted is the skip reason of actions left unexecuted after a failure.
	ErrAborted = errors.New("run aborted after an earlier failure")
)

// Result is the outcome of one action.
type Result struct {
	Component string            `json:"component"`
	Namespace string            `json:"namespace"`
	Operation planner.Operation `json:"operation"`
	Args      []string          `json:"args,omitempty"`
	Status    Status            `json:"status"`
	ExitCode  int               `json:"exitCode"`
	// Diagnostic is the output captured from the last attempt.
	Diagnostic string `json:"diagnostic,omitempty"`
	Error      string `json:"error,omitempty"`
	Attempts   int    `json:"attempts"`
	// Duration is rendered as a Go duration string ("1.5s").
	Duration metav1.Duration `json:"duration"`

	err error
}

// Err returns the failure or skip reason, nil for succeeded and converged actions.
func (r Result) Err() error {
	return r.err
}

func (r *Result) setErr(err error) {
	r.err = err
	if err != nil {
		r.Error = err.Error()
	}
}

// Report is the ordered outcome of a run; Results follow plan order.
type Report struct {
	Results    []Result  `json:"results"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed returns the failed results.
func (r *Report) Failed() []Result {
	var failed []Result

	for _, result := range r.Results {
		if result.Status == StatusFailed {
			failed = append(failed, result)
		}
	}

	return failed
}

// Succeeded reports whether no action failed.
func (r *Report) Succeeded() bool {
	return len(r.Failed()) == 0
}

// Counts returns the number of results per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, 3)

	for _, result := range r.Results {
		counts[result.Status]++
	}

	return counts
}

// Result returns the result of a component.
func (r *Report) Result(component string) (Result, bool) {
	for _, result := range r.Results {
		if result.Component == component {
			return result, true
		}
	}

	return Result{}, false
}

// Err returns ErrRunFailed naming the failed components, joined with their causes.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}

	names := make([]string, 0, len(failed))
	causes := make([]error, 0, len(failed))

	for _, result := range failed {
		names = append(names, result.Component)

		if result.err != nil {
			causes = append(causes, fmt.Errorf("%s: %w", result.Component, result.err))
		}
	}

	if len(causes) == 0 {
		return fmt.Errorf("%w: %s", ErrRunFailed, strings.Join(names, ", "))
	}

	return fmt.Errorf("%w: %s: %w", ErrRunFailed, strings.Join(names, ", "), errors.Join(causes...))
}

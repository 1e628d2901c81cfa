package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/utils/logger"
	"github.com/sirupsen/logrus"
)

// waitDelay bounds how long Run waits for output pipes after the process was killed.
const waitDelay = 5 * time.Second

var (
	// ErrExecution is returned when the executable cannot be located or spawned.
	// The process never ran, so retrying is pointless.
	ErrExecution = errors.New("command could not be executed")
	// ErrTimeout is returned when the process exceeded the runner timeout.
	ErrTimeout = errors.New("command timed out")
	// ErrNonZeroExit classifies a process that ran and reported failure.
	ErrNonZeroExit = errors.New("command exited with non-zero status")
	// ErrEmptyCommand is returned when argv has no executable.
	ErrEmptyCommand = errors.New("command is empty")
)

// CommandResult captures the outcome of one external process.
// Stdout and Stderr contain the complete output, including output produced
// before a failure or timeout.
type CommandResult struct {
	Argv        []string      `json:"argv"`
	Description string        `json:"description,omitempty"`
	ExitCode    int           `json:"exitCode"`
	Stdout      string        `json:"stdout,omitempty"`
	Stderr      string        `json:"stderr,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Succeeded reports whether the process exited with status 0.
func (r CommandResult) Succeeded() bool {
	return r.ExitCode == 0
}

// Err classifies a non-zero exit as ErrNonZeroExit carrying the captured stderr.
// It returns nil for a successful process.
func (r CommandResult) Err() error {
	if r.Succeeded() {
		return nil
	}

	detail := strings.TrimSpace(r.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(r.Stdout)
	}

	if detail == "" {
		return fmt.Errorf("%w: exit code %d", ErrNonZeroExit, r.ExitCode)
	}

	return fmt.Errorf("%w: exit code %d: %s", ErrNonZeroExit, r.ExitCode, detail)
}

// CommandRunner executes external commands while capturing their output.
//
// Run returns an error only when the process could not be started (ErrExecution),
// exceeded its deadline (ErrTimeout) or the context was cancelled. A process that
// ran and exited non-zero is reported through CommandResult.ExitCode with a nil error.
//
//go:generate mockery --name=CommandRunner --output=. --filename=mocks.go
type CommandRunner interface {
	Run(ctx context.Context, argv []string, description string) (CommandResult, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	timeout time.Duration
	stdout  io.Writer
	stderr  io.Writer
	logger  logrus.FieldLogger
}

var _ CommandRunner = (*ExecRunner)(nil)

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithTimeout bounds every invocation. Zero leaves only the caller's context deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = timeout
	}
}

// WithOutput mirrors process output to the writers in real time while still capturing it.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *ExecRunner) {
		if log != nil {
			r.logger = log
		}
	}
}

// NewExecRunner creates a runner. Output is captured only unless WithOutput is given.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		timeout: 0,
		stdout:  io.Discard,
		stderr:  io.Discard,
		logger:  logger.Discard(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.stdout == nil {
		r.stdout = io.Discard
	}

	if r.stderr == nil {
		r.stderr = io.Discard
	}

	return r
}

// Run spawns argv[0] with the remaining arguments and blocks until it exits,
// the runner timeout expires or ctx is cancelled.
func (r *ExecRunner) Run(
	ctx context.Context,
	argv []string,
	description string,
) (CommandResult, error) {
	result := CommandResult{
		Argv:        append([]string(nil), argv...),
		Description: description,
		ExitCode:    -1,
	}

	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return result, fmt.Errorf("%w: %w", ErrExecution, ErrEmptyCommand)
	}

	binary, lookErr := exec.LookPath(argv[0])
	if lookErr != nil {
		return result, fmt.Errorf("%w: %s: %w", ErrExecution, argv[0], lookErr)
	}

	runCtx := ctx

	if r.timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var outBuf, errBuf bytes.Buffer

	//nolint:gosec // argv is built by the typed argument builders, not a shell
	cmd := exec.CommandContext(runCtx, binary, argv[1:]...)
	cmd.Stdout = io.MultiWriter(&outBuf, r.stdout)
	cmd.Stderr = io.MultiWriter(&errBuf, r.stderr)
	cmd.WaitDelay = waitDelay

	entry := r.logger.WithFields(logrus.Fields{
		"command":     strings.Join(argv, " "),
		"description": description,
	})
	entry.Debug("running command")

	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = outBuf.String()
	result.Stderr = errBuf.String()

	if runErr == nil {
		result.ExitCode = 0
		entry.WithField("duration", result.Duration).Debug("command succeeded")

		return result, nil
	}

	// The parent context takes precedence: a caller cancellation is not a timeout
	// of this invocation.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s: %w", description, ctxErr)
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		entry.WithField("timeout", r.timeout).Debug("command timed out")

		return result, fmt.Errorf("%w after %s: %s", ErrTimeout, r.timeout, description)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		entry.WithField("exitCode", result.ExitCode).Debug("command failed")

		return result, nil
	}

	return result, fmt.Errorf("%w: %s: %w", ErrExecution, argv[0], runErr)
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/cmd/parallel"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/svc/planner"
	"github.com/kagenti/kagenti-installer/pkg/svc/state"
	"github.com/kagenti/kagenti-installer/pkg/utils/logger"
	"github.com/kagenti/kagenti-installer/pkg/utils/notify"
	"github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ErrPlanRequired is returned when Run is called without a plan.
var ErrPlanRequired = errors.New("plan is required")

// Orchestrator drives plans. It keeps no per-run state and may run several plans.
type Orchestrator struct {
	runner   runner.CommandRunner
	planner  *planner.Planner
	state    state.Reader
	logger   logrus.FieldLogger
	progress io.Writer
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the diagnostic logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithProgress sets where user-facing progress lines are written.
func WithProgress(writer io.Writer) Option {
	return func(o *Orchestrator) {
		if writer != nil {
			o.progress = writer
		}
	}
}

// New creates an orchestrator. The planner re-resolves actions from fresh state
// before execution and before each retry; reader is that state.
func New(
	commandRunner runner.CommandRunner,
	plnr *planner.Planner,
	reader state.Reader,
	opts ...Option,
) *Orchestrator {
	orch := &Orchestrator{
		runner:   commandRunner,
		planner:  plnr,
		state:    reader,
		logger:   logger.Discard(),
		progress: io.Discard,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(orch)
	}

	return orch
}

// Run executes plan. The returned error covers invalid input only; execution
// failures are reported per action in the Report (see Report.Err).
func (o *Orchestrator) Run(ctx context.Context, plan *planner.Plan, opts Options) (*Report, error) {
	if plan == nil {
		return nil, ErrPlanRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, err
	}

	exec := newExecution(o, plan, opts)
	report := &Report{StartedAt: o.now()}

	if opts.Parallel && len(plan.Levels) > 0 {
		exec.runLevels(ctx)
	} else {
		for idx := range plan.Actions {
			exec.step(ctx, idx)
		}
	}

	exec.finalize(ctx)

	report.Results = exec.results
	report.FinishedAt = o.now()

	o.logger.WithFields(logrus.Fields{
		"succeeded": report.Counts()[StatusSucceeded],
		"failed":    report.Counts()[StatusFailed],
		"skipped":   report.Counts()[StatusSkipped],
	}).Info("run finished")

	return report, nil
}

// execution is the mutable state of one Run.
type execution struct {
	*Orchestrator

	plan     *planner.Plan
	opts     Options
	results  []Result
	index    map[string]int
	progress io.Writer
	aborted  atomic.Bool

	mu        sync.RWMutex
	satisfied map[string]bool
}

func newExecution(o *Orchestrator, plan *planner.Plan, opts Options) *execution {
	exec := &execution{
		Orchestrator: o,
		plan:         plan,
		opts:         opts,
		results:      make([]Result, len(plan.Actions)),
		index:        make(map[string]int, len(plan.Actions)),
		progress:     o.progress,
		satisfied:    make(map[string]bool, len(plan.Actions)),
	}

	if opts.Parallel {
		exec.progress = parallel.NewSyncWriter(o.progress)
	}

	for idx, action := range plan.Actions {
		exec.index[action.Name()] = idx
		exec.results[idx] = Result{
			Component: action.Name(),
			Namespace: action.Spec.Namespace,
			Operation: action.Operation,
			Args:      action.Args,
			Status:    StatusPending,
		}
	}

	return exec
}

// runLevels executes one topological level at a time, the actions of a level concurrently.
func (e *execution) runLevels(ctx context.Context) {
	executor := parallel.NewExecutor(int64(e.opts.MaxConcurrency))

	for _, level := range e.plan.Levels {
		tasks := make([]parallel.Task, 0, len(level))

		for _, idx := range level {
			tasks = append(tasks, func(ctx context.Context) error {
				e.step(ctx, idx)

				return nil
			})
		}

		err := executor.ExecuteAll(ctx, tasks...)
		if err != nil {
			e.logger.WithError(err).Debug("level did not start every action")
		}
	}
}

// step runs the gate checks of one action and executes it.
func (e *execution) step(ctx context.Context, idx int) {
	err := ctx.Err()
	if err != nil {
		e.skip(idx, err, false)

		return
	}

	if e.aborted.Load() {
		e.skip(idx, ErrAborted, false)

		return
	}

	dep, ok := e.dependenciesConverged(e.plan.Actions[idx])
	if !ok {
		e.skip(idx, fmt.Errorf("%w: %s", ErrDependencyUnresolved, dep), false)

		return
	}

	e.execute(ctx, idx)
}

// dependenciesConverged returns the first dependency in the plan that did not
// succeed or skip as converged. Dependencies outside the plan are not checked.
func (e *execution) dependenciesConverged(action planner.Action) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, dep := range action.Spec.DependsOn {
		if _, inPlan := e.index[dep]; !inPlan {
			continue
		}

		if !e.satisfied[dep] {
			return dep, false
		}
	}

	return "", true
}

func (e *execution) execute(ctx context.Context, idx int) {
	result := &e.results[idx]
	action := e.plan.Actions[idx]
	log := e.logger.WithField("component", action.Name())
	start := e.now()

	defer func() { result.Duration = metav1.Duration{Duration: e.now().Sub(start)} }()

	if action.Operation == planner.OperationSkip {
		notify.Infof(e.progress, "%s is up to date (%s)", action.Name(), versionLabel(action.InstalledVersion))
		e.skip(idx, nil, true)

		return
	}

	e.mustTransition(result, StatusRunning)

	action, converged, err := e.refresh(ctx, action, log)
	if err != nil {
		e.fail(idx, err)

		return
	}

	if converged {
		notify.Infof(e.progress, "%s is already converged (%s)", action.Name(), versionLabel(action.InstalledVersion))
		result.Operation = planner.OperationSkip
		result.Args = nil
		e.mustTransition(result, StatusSkipped)
		e.markSatisfied(action.Name())

		return
	}

	for attempt := 1; ; attempt++ {
		result.Attempts = attempt
		result.Operation = action.Operation
		result.Args = action.Args

		notify.Activityf(e.progress, "%s %s (attempt %d/%d)",
			presentParticiple(action.Operation), action.Name(), attempt, e.opts.MaxRetries+1)

		cmdResult, runErr := e.runner.Run(ctx, action.Args, string(action.Operation)+" "+action.Name())
		result.ExitCode = cmdResult.ExitCode
		result.Diagnostic = diagnostic(cmdResult)

		log.WithFields(logrus.Fields{
			"attempt":  attempt,
			"exitCode": cmdResult.ExitCode,
		}).Debug("command finished")

		switch {
		case runErr == nil && cmdResult.Succeeded():
			e.succeed(ctx, idx, action, start)

			return
		case runErr != nil && ctx.Err() != nil:
			e.fail(idx, fmt.Errorf("%s interrupted: %w", action.Name(), ctx.Err()))

			return
		case runErr != nil && !errors.Is(runErr, runner.ErrTimeout):
			e.fail(idx, runErr)

			return
		}

		failure := runErr
		if failure == nil {
			failure = cmdResult.Err()
		}

		if attempt > e.opts.MaxRetries {
			e.fail(idx, failure)

			return
		}

		delay := e.opts.delay(attempt)
		notify.Warningf(e.progress, "%s failed, retrying in %s: %v", action.Name(), delay, failure)
		log.WithError(failure).WithField("attempt", attempt).Warn("transient failure, retrying")

		err = sleep(ctx, delay)
		if err != nil {
			e.fail(idx, fmt.Errorf("%s interrupted: %w", action.Name(), err))

			return
		}

		action, converged, err = e.refresh(ctx, action, log)
		if err != nil {
			e.fail(idx, err)

			return
		}

		if converged {
			log.Info("component converged while waiting to retry")
			e.succeed(ctx, idx, action, start)

			return
		}
	}
}

// refresh re-reads the installed version and re-derives the action. A failing
// state query keeps the current action.
func (e *execution) refresh(
	ctx context.Context,
	action planner.Action,
	log logrus.FieldLogger,
) (planner.Action, bool, error) {
	version, present, err := e.state.InstalledVersion(ctx, action.Name())
	if err != nil {
		log.WithError(err).Warn("state query failed, keeping planned action")

		return action, false, nil
	}

	fresh, err := e.planner.Resolve(action.Spec, version, present)
	if err != nil {
		return action, false, err
	}

	return fresh, fresh.Operation == planner.OperationSkip, nil
}

func (e *execution) succeed(ctx context.Context, idx int, action planner.Action, start time.Time) {
	result := &e.results[idx]
	e.mustTransition(result, StatusSucceeded)
	e.markSatisfied(action.Name())

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "%s %s",
		Args:    []any{action.Name(), pastParticiple(action.Operation)},
		Elapsed: e.now().Sub(start),
		Writer:  e.progress,
	})

	writer, ok := e.state.(state.Writer)
	if !ok {
		return
	}

	err := writer.RecordInstalled(ctx, action.Name(), action.Spec.Version)
	if err != nil {
		e.logger.WithError(err).WithField("component", action.Name()).Warn("failed to record installed version")
	}
}

func (e *execution) fail(idx int, err error) {
	result := &e.results[idx]
	e.mustTransition(result, StatusFailed)
	result.setErr(err)

	if !e.opts.ContinueOnError {
		e.aborted.Store(true)
	}

	notify.Errorf(e.progress, "%s failed: %v", result.Component, err)
	e.logger.WithError(err).WithFields(logrus.Fields{
		"component": result.Component,
		"attempts":  result.Attempts,
		"exitCode":  result.ExitCode,
	}).Error("action failed")
}

// skip finishes a pending action without running it. Converged skips satisfy
// their dependents.
func (e *execution) skip(idx int, reason error, converged bool) {
	result := &e.results[idx]
	e.mustTransition(result, StatusSkipped)
	result.setErr(reason)

	if converged {
		e.markSatisfied(result.Component)

		return
	}

	notify.Warningf(e.progress, "%s skipped: %v", result.Component, reason)
}

// finalize skips actions that never started, which happens when the context
// ended before a parallel level could schedule them.
func (e *execution) finalize(ctx context.Context) {
	for idx := range e.results {
		if e.results[idx].Status != StatusPending {
			continue
		}

		reason := ctx.Err()
		if reason == nil {
			reason = ErrAborted
		}

		e.skip(idx, reason, false)
	}
}

func (e *execution) markSatisfied(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.satisfied[name] = true
}

// mustTransition applies a transition that the control flow guarantees is valid.
func (e *execution) mustTransition(result *Result, next Status) {
	err := result.transition(next)
	if err != nil {
		e.logger.WithError(err).Error("unexpected action state")
		result.Status = next
	}
}

// sleep waits for delay or until ctx is done.
func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("retry wait: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func diagnostic(result runner.CommandResult) string {
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" && !result.Succeeded() {
		detail = strings.TrimSpace(result.Stdout)
	}

	return detail
}

func versionLabel(version string) string {
	if version == "" {
		return "unversioned"
	}

	return version
}

func presentParticiple(op planner.Operation) string {
	switch op {
	case planner.OperationUpgrade:
		return "upgrading"
	case planner.OperationSkip:
		return "checking"
	case planner.OperationInstall:
		return "installing"
	default:
		return string(op)
	}
}

func pastParticiple(op planner.Operation) string {
	switch op {
	case planner.OperationUpgrade:
		return "upgraded"
	case planner.OperationSkip:
		return "unchanged"
	case planner.OperationInstall:
		return "installed"
	default:
		return string(op)
	}
}

// Package orchestrator executes a plan through a CommandRunner and reports the
// terminal state of every action.
//
// Each action moves pending → running → succeeded | failed | skipped. Transient
// failures (non-zero exit, runner timeout) are retried with backoff; before every
// retry the cluster state is queried again so that a component converged by
// someone else is not re-applied. A failure aborts the rest of the run unless
// ContinueOnError is set, in which case only its dependents are skipped.
package orchestrator

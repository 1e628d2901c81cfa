// Package runner executes external package-manager commands.
//
// The runner distinguishes three failure classes: a command that could not be
// started (ErrExecution), a command that exceeded its deadline (ErrTimeout) and a
// command that ran but exited non-zero, which is returned as a result rather than
// an error so callers can decide whether to retry.
package runner

// Package notify prints user-facing progress lines prefixed with a symbol and
// colored by message type (✗ error, ⚠ warning, ► activity, ✔ success, ℹ info).
//
// Diagnostic logging goes through logrus; notify is for the human following a run.
package notify

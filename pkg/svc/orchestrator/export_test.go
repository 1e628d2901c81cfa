package orchestrator

import "time"

// DelayFor exposes the retry delay computation for tests.
func DelayFor(opts Options, attempt int) time.Duration {
	return opts.delay(attempt)
}

// Package parallel runs tasks concurrently with bounded parallelism.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// minConcurrency is the minimum number of concurrent tasks.
	minConcurrency = 2
	// maxConcurrencyCap keeps concurrent helm invocations from flooding the API server
	// and the chart registries.
	maxConcurrencyCap = 4
)

// DefaultMaxConcurrency returns the default concurrency derived from the CPU count.
func DefaultMaxConcurrency() int64 {
	numCPU := int64(runtime.NumCPU())

	return min(max(numCPU, minConcurrency), maxConcurrencyCap)
}

// Executor runs tasks with at most maxConcurrency of them in flight.
type Executor struct {
	maxConcurrency int64
}

// NewExecutor creates an executor. If maxConcurrency <= 0, DefaultMaxConcurrency() is used.
func NewExecutor(maxConcurrency int64) *Executor {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency()
	}

	return &Executor{maxConcurrency: maxConcurrency}
}

// Task is a unit of work run by the executor.
type Task func(ctx context.Context) error

// ExecuteAll runs every task to completion even when some fail, and returns the
// joined errors. Tasks that could not start because ctx ended report ctx's error.
func (executor *Executor) ExecuteAll(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(executor.maxConcurrency)
	errs := make([]error, len(tasks))

	var group errgroup.Group

	for idx, task := range tasks {
		group.Go(func() error {
			acquireErr := sem.Acquire(ctx, 1)
			if acquireErr != nil {
				errs[idx] = fmt.Errorf("acquire semaphore: %w", acquireErr)

				return nil
			}

			defer sem.Release(1)

			errs[idx] = task(ctx)

			return nil
		})
	}

	_ = group.Wait()

	return errors.Join(errs...)
}

// SyncWriter serializes writes from multiple goroutines.
type SyncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewSyncWriter wraps writer.
func NewSyncWriter(writer io.Writer) *SyncWriter {
	return &SyncWriter{writer: writer}
}

// Write writes data to the underlying writer under the lock.
func (syncWriter *SyncWriter) Write(data []byte) (int, error) {
	syncWriter.mu.Lock()
	defer syncWriter.mu.Unlock()

	written, writeErr := syncWriter.writer.Write(data)
	if writeErr != nil {
		return written, fmt.Errorf("sync write: %w", writeErr)
	}

	return written, nil
}

// Results collects values and errors from parallel tasks.
type Results[T any] struct {
	mu     sync.Mutex
	values []T
	errors []error
}

// NewResults creates an empty collector.
func NewResults[T any]() *Results[T] {
	return &Results[T]{}
}

// Add appends a value.
func (results *Results[T]) Add(value T) {
	results.mu.Lock()
	defer results.mu.Unlock()

	results.values = append(results.values, value)
}

// AddError appends an error.
func (results *Results[T]) AddError(err error) {
	results.mu.Lock()
	defer results.mu.Unlock()

	results.errors = append(results.errors, err)
}

// Values returns a copy of the collected values, in completion order.
func (results *Results[T]) Values() []T {
	results.mu.Lock()
	defer results.mu.Unlock()

	return append([]T(nil), results.values...)
}

// Err joins every collected error; nil when there are none.
func (results *Results[T]) Err() error {
	results.mu.Lock()
	defer results.mu.Unlock()

	return errors.Join(results.errors...)
}

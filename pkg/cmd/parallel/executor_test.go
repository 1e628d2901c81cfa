package parallel_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/cmd/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errInstall = errors.New("install failed")
	errUpgrade = errors.New("upgrade failed")
)

func TestDefaultMaxConcurrency(t *testing.T) {
	t.Parallel()

	maxConcurrency := parallel.DefaultMaxConcurrency()
	assert.GreaterOrEqual(t, maxConcurrency, int64(2))
	assert.LessOrEqual(t, maxConcurrency, int64(4))
}

func TestNewExecutor_DefaultBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   int64
	}{
		{name: "zero", in: 0},
		{name: "negative", in: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			peak := runConcurrent(t, parallel.NewExecutor(tt.in), 8)

			assert.LessOrEqual(t, int64(peak), parallel.DefaultMaxConcurrency())
		})
	}
}

func TestExecutor_ExecuteAll_NoTasks(t *testing.T) {
	t.Parallel()

	require.NoError(t, parallel.NewExecutor(4).ExecuteAll(context.Background()))
}

func TestExecutor_ExecuteAll_RunsEveryTask(t *testing.T) {
	t.Parallel()

	var counter atomic.Int32

	err := parallel.NewExecutor(1).ExecuteAll(context.Background(),
		func(_ context.Context) error {
			counter.Add(1)

			return errInstall
		},
		func(_ context.Context) error {
			counter.Add(1)

			return nil
		},
		func(_ context.Context) error {
			counter.Add(1)

			return errUpgrade
		},
	)

	require.ErrorIs(t, err, errInstall)
	require.ErrorIs(t, err, errUpgrade)
	assert.Equal(t, int32(3), counter.Load())
}

func TestExecutor_ExecuteAll_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool

	err := parallel.NewExecutor(2).ExecuteAll(ctx, func(_ context.Context) error {
		ran.Store(true)

		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

// runConcurrent runs count sleeping tasks and returns the peak number in flight.
func runConcurrent(t *testing.T, executor *parallel.Executor, count int) int32 {
	t.Helper()

	var (
		maxConcurrent atomic.Int32
		current       atomic.Int32
	)

	tasks := make([]parallel.Task, count)
	for taskIdx := range tasks {
		tasks[taskIdx] = func(_ context.Context) error {
			currentValue := current.Add(1)

			for {
				oldValue := maxConcurrent.Load()
				if currentValue <= oldValue || maxConcurrent.CompareAndSwap(oldValue, currentValue) {
					break
				}
			}

			time.Sleep(10 * time.Millisecond)
			current.Add(-1)

			return nil
		}
	}

	require.NoError(t, executor.ExecuteAll(context.Background(), tasks...))

	return maxConcurrent.Load()
}

func TestExecutor_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	peak := runConcurrent(t, parallel.NewExecutor(2), 8)

	assert.LessOrEqual(t, peak, int32(2))
	assert.Positive(t, peak)
}

func TestSyncWriter_ThreadSafe(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer

	syncWriter := parallel.NewSyncWriter(&buffer)

	tasks := make([]parallel.Task, 10)
	for taskIdx := range tasks {
		tasks[taskIdx] = func(_ context.Context) error {
			_, err := syncWriter.Write([]byte("x"))

			return err
		}
	}

	err := parallel.NewExecutor(4).ExecuteAll(context.Background(), tasks...)

	require.NoError(t, err)
	assert.Equal(t, 10, buffer.Len())
}

func TestResults(t *testing.T) {
	t.Parallel()

	results := parallel.NewResults[string]()
	results.Add("cert-manager")
	results.AddError(errInstall)
	results.Add("operator")

	assert.ElementsMatch(t, []string{"cert-manager", "operator"}, results.Values())
	require.ErrorIs(t, results.Err(), errInstall)

	assert.NoError(t, parallel.NewResults[int]().Err())
}

package di_test

import (
	"errors"
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/di"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errHandler = errors.New("handler error")
	errModule  = errors.New("module error")
)

// releaseCache stands in for a service that holds resources until the injector shuts down.
type releaseCache struct {
	closed bool
}

func (c *releaseCache) Shutdown() error {
	c.closed = true

	return nil
}

func recordingModule(order *[]string, name string) di.Module {
	return func(di.Injector) error {
		*order = append(*order, name)

		return nil
	}
}

func TestRuntime_Invoke_ModuleOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  []string
		extra []string
		want  []string
	}{
		{name: "no modules", want: []string{"handler"}},
		{name: "base only", base: []string{"logger", "runner"}, want: []string{"logger", "runner", "handler"}},
		{name: "extra only", extra: []string{"command"}, want: []string{"command", "handler"}},
		{
			name:  "base before extra",
			base:  []string{"logger", "runner"},
			extra: []string{"command", "factory"},
			want:  []string{"logger", "runner", "command", "factory", "handler"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var order []string

			base := make([]di.Module, 0, len(tt.base))
			for _, name := range tt.base {
				base = append(base, recordingModule(&order, name))
			}

			extra := make([]di.Module, 0, len(tt.extra))
			for _, name := range tt.extra {
				extra = append(extra, recordingModule(&order, name))
			}

			err := di.New(base...).Invoke(func(di.Injector) error {
				order = append(order, "handler")

				return nil
			}, extra...)

			require.NoError(t, err)
			assert.Equal(t, tt.want, order)
		})
	}
}

func TestRuntime_Invoke_SkipsNilModules(t *testing.T) {
	t.Parallel()

	var order []string

	rt := di.New(nil, recordingModule(&order, "logger"), nil)

	err := rt.Invoke(func(di.Injector) error {
		order = append(order, "handler")

		return nil
	}, nil, recordingModule(&order, "command"))

	require.NoError(t, err)
	assert.Equal(t, []string{"logger", "command", "handler"}, order)
}

func TestRuntime_Invoke_ModuleErrorStopsInvocation(t *testing.T) {
	t.Parallel()

	var order []string

	failing := func(di.Injector) error { return errModule }

	rt := di.New(recordingModule(&order, "logger"), failing, recordingModule(&order, "runner"))

	err := rt.Invoke(func(di.Injector) error {
		order = append(order, "handler")

		return nil
	}, recordingModule(&order, "command"))

	require.ErrorIs(t, err, errModule)
	assert.Equal(t, []string{"logger"}, order)
}

func TestRuntime_Invoke_ReturnsHandlerError(t *testing.T) {
	t.Parallel()

	err := di.New().Invoke(func(di.Injector) error { return errHandler })

	require.ErrorIs(t, err, errHandler)
}

func TestRuntime_Invoke_ShutsDownInjector(t *testing.T) {
	t.Parallel()

	cache := &releaseCache{}

	rt := di.New(func(i di.Injector) error {
		do.Provide(i, func(di.Injector) (*releaseCache, error) { return cache, nil })

		return nil
	})

	err := rt.Invoke(func(i di.Injector) error {
		resolved, err := do.Invoke[*releaseCache](i)
		if err != nil {
			return err
		}

		assert.False(t, resolved.closed, "service must stay open while the handler runs")

		return nil
	})

	require.NoError(t, err)
	assert.True(t, cache.closed)
}

func TestRuntime_Invoke_FreshInjectorPerCall(t *testing.T) {
	t.Parallel()

	builds := 0

	rt := di.New(func(i di.Injector) error {
		do.Provide(i, func(di.Injector) (*releaseCache, error) {
			builds++

			return &releaseCache{}, nil
		})

		return nil
	})

	resolve := func(i di.Injector) error {
		_, err := do.Invoke[*releaseCache](i)

		return err
	}

	require.NoError(t, rt.Invoke(resolve))
	require.NoError(t, rt.Invoke(resolve))
	assert.Equal(t, 2, builds)
}

func TestRuntime_Invoke_ExtraModulesDoNotLeak(t *testing.T) {
	t.Parallel()

	rt := di.New()

	err := rt.Invoke(func(di.Injector) error { return nil }, func(i di.Injector) error {
		do.ProvideValue(i, &releaseCache{})

		return nil
	})
	require.NoError(t, err)

	err = rt.Invoke(func(i di.Injector) error {
		_, invokeErr := do.Invoke[*releaseCache](i)

		return invokeErr
	})

	require.Error(t, err)
}

func TestRunEWithRuntime_RegistersCommand(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "apply"}

	var resolved *cobra.Command

	runE := di.RunEWithRuntime(di.New(), func(_ *cobra.Command, injector di.Injector) error {
		var err error

		resolved, err = do.Invoke[*cobra.Command](injector)

		return err
	})

	require.NoError(t, runE(cmd, []string{"ignored"}))
	assert.Same(t, cmd, resolved)
}

func TestRunEWithRuntime_ProvidersSeeCommand(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "status"}

	var seen string

	module := func(i di.Injector) error {
		do.Provide(i, func(i di.Injector) (*releaseCache, error) {
			current, err := do.Invoke[*cobra.Command](i)
			if err != nil {
				return nil, err
			}

			seen = current.Name()

			return &releaseCache{}, nil
		})

		return nil
	}

	runE := di.RunEWithRuntime(di.New(module), func(_ *cobra.Command, injector di.Injector) error {
		_, err := do.Invoke[*releaseCache](injector)

		return err
	})

	require.NoError(t, runE(cmd, nil))
	assert.Equal(t, "status", seen)
}

func TestRunEWithRuntime_ReturnsHandlerError(t *testing.T) {
	t.Parallel()

	runE := di.RunEWithRuntime(di.New(), func(*cobra.Command, di.Injector) error {
		return errHandler
	})

	require.ErrorIs(t, runE(&cobra.Command{Use: "plan"}, nil), errHandler)
}

package v1alpha1_test

import (
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionMode_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    v1alpha1.ExecutionMode
		wantErr bool
	}{
		{name: "exact", input: "Parallel", want: v1alpha1.ExecutionModeParallel},
		{name: "case insensitive", input: "sequential", want: v1alpha1.ExecutionModeSequential},
		{name: "invalid", input: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var mode v1alpha1.ExecutionMode

			err := mode.Set(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, v1alpha1.ErrInvalidExecutionMode)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestBackoffStrategy_SetInvalid(t *testing.T) {
	t.Parallel()

	var strategy v1alpha1.BackoffStrategy

	err := strategy.Set("linear")

	require.ErrorIs(t, err, v1alpha1.ErrInvalidBackoffStrategy)
	assert.Contains(t, err.Error(), "Constant, Exponential")
}

func TestStateBackend_SetAndValid(t *testing.T) {
	t.Parallel()

	var backend v1alpha1.StateBackend

	require.NoError(t, backend.Set("secrets"))
	assert.Equal(t, v1alpha1.StateBackendSecrets, backend)
	assert.True(t, backend.IsValid())
	assert.Equal(t, "StateBackend", backend.Type())
}

func TestEnumDefaults(t *testing.T) {
	t.Parallel()

	var (
		mode     v1alpha1.ExecutionMode
		strategy v1alpha1.BackoffStrategy
		backend  v1alpha1.StateBackend
	)

	assert.Equal(t, v1alpha1.ExecutionModeSequential, mode.Default())
	assert.Equal(t, v1alpha1.BackoffConstant, strategy.Default())
	assert.Equal(t, v1alpha1.StateBackendHelm, backend.Default())
	assert.Len(t, backend.ValidValues(), 3)
}

package configmanager

import (
	"reflect"
	"testing"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestSetFieldValueFromFlag(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewInstallation()

	require.NoError(t, setFieldValueFromFlag(&cfg.Spec.Execution.Backoff, "exponential"))
	require.NoError(t, setFieldValueFromFlag(&cfg.Spec.Connection.Context, "kind-dev"))
	require.NoError(t, setFieldValueFromFlag(&cfg.Spec.Connection.Timeout, "90s"))
	require.NoError(t, setFieldValueFromFlag(&cfg.Spec.Execution.ContinueOnError, "true"))
	require.NoError(t, setFieldValueFromFlag(&cfg.Spec.Execution.MaxConcurrency, "3"))

	assert.Equal(t, v1alpha1.BackoffExponential, cfg.Spec.Execution.Backoff)
	assert.Equal(t, "kind-dev", cfg.Spec.Connection.Context)
	assert.Equal(t, 90*time.Second, cfg.Spec.Connection.Timeout.Duration)
	assert.True(t, cfg.Spec.Execution.ContinueOnError)
	assert.Equal(t, 3, cfg.Spec.Execution.MaxConcurrency)

	require.Error(t, setFieldValueFromFlag(&cfg.Spec.Execution.MaxRetries, "many"))
	require.Error(t, setFieldValueFromFlag(&cfg.Spec.Connection.Timeout, "soon"))
	require.Error(t, setFieldValueFromFlag(&cfg.Spec.Execution.ContinueOnError, "maybe"))
}

func TestSetFieldValue(t *testing.T) {
	t.Parallel()

	var (
		mode     v1alpha1.ExecutionMode
		name     string
		duration metav1.Duration
		retries  int
	)

	setFieldValue(&mode, "Parallel")
	setFieldValue(&name, "kagenti")
	setFieldValue(&duration, 2*time.Second)
	setFieldValue(&retries, 4)
	setFieldValue(&name, 7)

	assert.Equal(t, v1alpha1.ExecutionModeParallel, mode)
	assert.Equal(t, "kagenti", name)
	assert.Equal(t, 2*time.Second, duration.Duration)
	assert.Equal(t, 4, retries)
}

func TestMetav1DurationDecodeHook(t *testing.T) {
	t.Parallel()

	hook := metav1DurationDecodeHook()
	target := reflect.TypeFor[metav1.Duration]()

	decoded, err := hook(nil, target, "1m30s")
	require.NoError(t, err)
	assert.Equal(t, metav1.Duration{Duration: 90 * time.Second}, decoded)

	empty, err := hook(nil, target, "")
	require.NoError(t, err)
	assert.Equal(t, metav1.Duration{}, empty)

	_, err = hook(nil, target, "later")
	require.Error(t, err)

	passthrough, err := hook(nil, reflect.TypeFor[string](), "1m")
	require.NoError(t, err)
	assert.Equal(t, "1m", passthrough)
}

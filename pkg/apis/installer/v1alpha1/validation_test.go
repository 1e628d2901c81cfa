package v1alpha1_test

import (
	"testing"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func validComponent() v1alpha1.ComponentSpec {
	return v1alpha1.ComponentSpec{
		Name:      "operator",
		Namespace: "kagenti-system",
		Reference: "oci://ghcr.io/kagenti/kagenti-operator/kagenti-platform-operator-chart",
		Version:   "v1.0",
	}
}

func TestValidateComponentSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(spec *v1alpha1.ComponentSpec)
		wantErr error
	}{
		{name: "valid", mutate: func(*v1alpha1.ComponentSpec) {}},
		{
			name:    "uppercase name",
			mutate:  func(spec *v1alpha1.ComponentSpec) { spec.Name = "Operator" },
			wantErr: v1alpha1.ErrInvalidComponentName,
		},
		{
			name:    "empty namespace",
			mutate:  func(spec *v1alpha1.ComponentSpec) { spec.Namespace = "" },
			wantErr: v1alpha1.ErrInvalidNamespace,
		},
		{
			name:    "missing reference",
			mutate:  func(spec *v1alpha1.ComponentSpec) { spec.Reference = "  " },
			wantErr: v1alpha1.ErrReferenceRequired,
		},
		{
			name:    "self dependency",
			mutate:  func(spec *v1alpha1.ComponentSpec) { spec.DependsOn = []string{"operator"} },
			wantErr: v1alpha1.ErrSelfDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := validComponent()
			tt.mutate(&spec)

			err := v1alpha1.ValidateComponentSpec(spec)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInstallationValidate_JoinsErrors(t *testing.T) {
	t.Parallel()

	installation := v1alpha1.NewInstallation()
	installation.Spec.Execution.MaxRetries = -1
	installation.Spec.Execution.RetryBackoff = metav1.Duration{Duration: -time.Second}
	installation.Spec.Execution.Mode = "Sideways"

	err := installation.Validate()

	require.ErrorIs(t, err, v1alpha1.ErrNegativeRetries)
	require.ErrorIs(t, err, v1alpha1.ErrNegativeBackoff)
	require.ErrorIs(t, err, v1alpha1.ErrInvalidExecutionMode)
}

func TestInstallationValidate_DisabledTargetSkipsNamespace(t *testing.T) {
	t.Parallel()

	disabled := false
	installation := v1alpha1.NewInstallation()
	installation.Spec.Targets.CertManager = v1alpha1.Target{Enabled: &disabled}

	require.NoError(t, installation.Validate())
}

func TestComponentSpec_DeepCopy(t *testing.T) {
	t.Parallel()

	original := validComponent()
	original.ExtraArgs = []string{"--debug"}
	original.SetValues = map[string]string{"a": "1"}

	clone := original.DeepCopy()
	clone.ExtraArgs[0] = "--dry-run"
	clone.SetValues["a"] = "2"

	assert.Equal(t, "--debug", original.ExtraArgs[0])
	assert.Equal(t, "1", original.SetValues["a"])
}

func TestComponentSpec_Defaults(t *testing.T) {
	t.Parallel()

	spec := validComponent()
	assert.Equal(t, "operator", spec.Release())
	assert.True(t, spec.ShouldCreateNamespace())

	no := false
	spec.CreateNamespace = &no
	spec.ReleaseName = "kagenti-platform-operator"

	assert.Equal(t, "kagenti-platform-operator", spec.Release())
	assert.False(t, spec.ShouldCreateNamespace())
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	installation := &v1alpha1.Installation{}
	installation.ApplyDefaults()

	assert.Equal(t, v1alpha1.Kind, installation.Kind)
	assert.Equal(t, v1alpha1.DefaultHelmBinary, installation.Spec.Connection.HelmBinary)
	assert.Equal(t, v1alpha1.DefaultOperatorNamespace, installation.Spec.Targets.Operator.Namespace)
	assert.Equal(t, v1alpha1.StateBackendHelm, installation.Spec.Execution.StateBackend)
	require.NoError(t, installation.Validate())
}

func TestInstallationValidate_TypeMeta(t *testing.T) {
	t.Parallel()

	installation := v1alpha1.NewInstallation()
	installation.APIVersion = "example.io/v1"
	installation.Kind = ""

	err := installation.Validate()

	require.ErrorIs(t, err, v1alpha1.ErrInvalidAPIVersion)
	require.ErrorIs(t, err, v1alpha1.ErrInvalidKind)
}

package helm_test

import (
	"testing"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/client/helm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operatorChartSpec() *helm.ChartSpec {
	return &helm.ChartSpec{
		ReleaseName:     "kagenti-platform-operator",
		ChartRef:        "oci://ghcr.io/kagenti/kagenti-operator/kagenti-platform-operator-chart",
		Namespace:       "kagenti-system",
		Version:         "0.2.0",
		CreateNamespace: true,
	}
}

func TestUpgradeInstallArgs_PlatformOperator(t *testing.T) {
	t.Parallel()

	args, err := helm.UpgradeInstallArgs(helm.Connection{Binary: "helm"}, operatorChartSpec())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"helm",
		"upgrade",
		"--install",
		"kagenti-platform-operator",
		"oci://ghcr.io/kagenti/kagenti-operator/kagenti-platform-operator-chart",
		"--namespace",
		"kagenti-system",
		"--create-namespace",
		"--version",
		"0.2.0",
	}, args)
}

func TestUpgradeInstallArgs_AllFlags(t *testing.T) {
	t.Parallel()

	spec := &helm.ChartSpec{
		ReleaseName: "cert-manager",
		ChartRef:    "cert-manager",
		Namespace:   "cert-manager",
		Version:     "v1.17.2",
		RepoURL:     "https://charts.jetstack.io",
		Atomic:      true,
		Wait:        true,
		Timeout:     2 * time.Minute,
		ValueFiles:  []string{"values.yaml"},
		SetValues:   map[string]string{"installCRDs": "true", "b": "2"},
		ExtraArgs:   []string{"--debug"},
	}

	conn := helm.Connection{Binary: "/usr/local/bin/helm", Kubeconfig: "/tmp/kc", KubeContext: "kind-dev"}

	args, err := helm.UpgradeInstallArgs(conn, spec)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"/usr/local/bin/helm", "upgrade", "--install", "cert-manager", "cert-manager",
		"--namespace", "cert-manager",
		"--version", "v1.17.2",
		"--repo", "https://charts.jetstack.io",
		"--kubeconfig", "/tmp/kc",
		"--kube-context", "kind-dev",
		"--atomic",
		"--wait",
		"--timeout", "2m0s",
		"--values", "values.yaml",
		"--set", "b=2",
		"--set", "installCRDs=true",
		"--debug",
	}, args)
}

func TestUpgradeInstallArgs_ReturnsFreshSlice(t *testing.T) {
	t.Parallel()

	spec := operatorChartSpec()
	spec.ExtraArgs = []string{"--debug"}

	args, err := helm.UpgradeInstallArgs(helm.Connection{Binary: "helm"}, spec)
	require.NoError(t, err)

	args[len(args)-1] = "--dry-run"

	assert.Equal(t, "--debug", spec.ExtraArgs[0])
}

func TestUpgradeInstallArgs_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		conn    helm.Connection
		mutate  func(spec *helm.ChartSpec)
		wantErr error
	}{
		{
			name:    "missing binary",
			conn:    helm.Connection{},
			mutate:  func(*helm.ChartSpec) {},
			wantErr: helm.ErrBinaryRequired,
		},
		{
			name:    "missing release",
			conn:    helm.Connection{Binary: "helm"},
			mutate:  func(spec *helm.ChartSpec) { spec.ReleaseName = "" },
			wantErr: helm.ErrReleaseNameRequired,
		},
		{
			name:    "missing chart",
			conn:    helm.Connection{Binary: "helm"},
			mutate:  func(spec *helm.ChartSpec) { spec.ChartRef = "" },
			wantErr: helm.ErrChartRefRequired,
		},
		{
			name:    "missing namespace",
			conn:    helm.Connection{Binary: "helm"},
			mutate:  func(spec *helm.ChartSpec) { spec.Namespace = " " },
			wantErr: helm.ErrNamespaceRequired,
		},
		{
			name:    "bad set key",
			conn:    helm.Connection{Binary: "helm"},
			mutate:  func(spec *helm.ChartSpec) { spec.SetValues = map[string]string{"a=b": "c"} },
			wantErr: helm.ErrInvalidArgument,
		},
		{
			name:    "empty extra arg",
			conn:    helm.Connection{Binary: "helm"},
			mutate:  func(spec *helm.ChartSpec) { spec.ExtraArgs = []string{""} },
			wantErr: helm.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := operatorChartSpec()
			tt.mutate(spec)

			_, err := helm.UpgradeInstallArgs(tt.conn, spec)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpgradeInstallArgs_NilSpec(t *testing.T) {
	t.Parallel()

	_, err := helm.UpgradeInstallArgs(helm.Connection{Binary: "helm"}, nil)

	require.ErrorIs(t, err, helm.ErrChartSpecRequired)
}

func TestListArgs(t *testing.T) {
	t.Parallel()

	args, err := helm.ListArgs(helm.Connection{Binary: "helm", KubeContext: "dev"})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"helm", "list", "--all-namespaces", "--max", "0", "--output", "json", "--kube-context", "dev",
	}, args)
}

func TestUninstallArgs(t *testing.T) {
	t.Parallel()

	args, err := helm.UninstallArgs(
		helm.Connection{Binary: "helm", Kubeconfig: "/tmp/kubeconfig"},
		"cert-manager",
		"cert-manager",
	)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"helm", "uninstall", "cert-manager", "--namespace", "cert-manager",
		"--kubeconfig", "/tmp/kubeconfig",
	}, args)

	_, err = helm.UninstallArgs(helm.Connection{Binary: "helm"}, "", "ns")
	require.ErrorIs(t, err, helm.ErrReleaseNameRequired)

	_, err = helm.UninstallArgs(helm.Connection{Binary: "helm"}, "rel", "")
	require.ErrorIs(t, err, helm.ErrNamespaceRequired)
}

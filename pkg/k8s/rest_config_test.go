package k8s_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/k8s"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoContextKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://kind.local:6443
  name: kind
- cluster:
    server: https://staging.example.com:6443
  name: staging
contexts:
- context:
    cluster: kind
    user: kind-admin
  name: kind-kagenti
- context:
    cluster: staging
    user: staging-admin
  name: staging
current-context: kind-kagenti
users:
- name: kind-admin
  user:
    token: kind-token
- name: staging-admin
  user:
    token: staging-token
`

func writeKubeconfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kubeconfig")

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func TestBuildRESTConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		context  string
		wantHost string
		wantErr  bool
	}{
		{name: "current context", wantHost: "https://kind.local:6443"},
		{name: "explicit context", context: "staging", wantHost: "https://staging.example.com:6443"},
		{name: "unknown context", context: "prod", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeKubeconfig(t, twoContextKubeconfig)

			config, err := k8s.BuildRESTConfig(path, tt.context)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to load kubeconfig")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, config.Host)
		})
	}
}

func TestBuildRESTConfig_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := k8s.BuildRESTConfig(filepath.Join(t.TempDir(), "absent"), "")

	require.ErrorIs(t, err, k8s.ErrKubeconfigNotFound)
}

func TestBuildRESTConfig_InvalidContent(t *testing.T) {
	t.Parallel()

	path := writeKubeconfig(t, "this is not valid yaml {{{")

	_, err := k8s.BuildRESTConfig(path, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load kubeconfig")
}

func TestNewClientset(t *testing.T) {
	t.Parallel()

	clientset, err := k8s.NewClientset(writeKubeconfig(t, twoContextKubeconfig), "")

	require.NoError(t, err)
	assert.NotNil(t, clientset)

	_, err = k8s.NewClientset(filepath.Join(t.TempDir(), "absent"), "")
	require.ErrorIs(t, err, k8s.ErrKubeconfigNotFound)
	assert.Contains(t, err.Error(), "failed to build rest config")
}

package helm

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	// ErrReleaseNameRequired is returned when a chart spec has no release name.
	ErrReleaseNameRequired = errors.New("helm: release name is required")
	// ErrChartRefRequired is returned when a chart spec has no chart reference.
	ErrChartRefRequired = errors.New("helm: chart reference is required")
	// ErrNamespaceRequired is returned when a chart spec has no namespace.
	ErrNamespaceRequired = errors.New("helm: namespace is required")
	// ErrChartSpecRequired is returned when a nil chart spec is passed.
	ErrChartSpecRequired = errors.New("helm: chart spec is required")
	// ErrBinaryRequired is returned when no helm executable is configured.
	ErrBinaryRequired = errors.New("helm: binary is required")
	// ErrInvalidArgument is returned for empty extra arguments or malformed values.
	ErrInvalidArgument = errors.New("helm: invalid argument")
)

// ChartSpec describes one release to install or upgrade.
type ChartSpec struct {
	ReleaseName string
	ChartRef    string
	Namespace   string
	Version     string
	RepoURL     string

	CreateNamespace bool
	Atomic          bool
	Wait            bool
	Timeout         time.Duration

	ValueFiles []string
	SetValues  map[string]string
	ExtraArgs  []string
}

// Connection holds the flags shared by every helm invocation.
type Connection struct {
	Binary      string
	Kubeconfig  string
	KubeContext string
}

// args returns the connection flags, empty values omitted.
func (c Connection) args() []string {
	var args []string

	if c.Kubeconfig != "" {
		args = append(args, "--kubeconfig", c.Kubeconfig)
	}

	if c.KubeContext != "" {
		args = append(args, "--kube-context", c.KubeContext)
	}

	return args
}

// Validate checks the spec for the fields helm requires.
func (s *ChartSpec) Validate() error {
	if s == nil {
		return ErrChartSpecRequired
	}

	if strings.TrimSpace(s.ReleaseName) == "" {
		return ErrReleaseNameRequired
	}

	if strings.TrimSpace(s.ChartRef) == "" {
		return fmt.Errorf("%w: release %s", ErrChartRefRequired, s.ReleaseName)
	}

	if strings.TrimSpace(s.Namespace) == "" {
		return fmt.Errorf("%w: release %s", ErrNamespaceRequired, s.ReleaseName)
	}

	for key := range s.SetValues {
		if key == "" || strings.ContainsAny(key, "=,") {
			return fmt.Errorf("%w: set value key %q", ErrInvalidArgument, key)
		}
	}

	for _, arg := range s.ExtraArgs {
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("%w: empty extra argument for release %s", ErrInvalidArgument, s.ReleaseName)
		}
	}

	return nil
}

// UpgradeInstallArgs builds the argv of an idempotent install:
//
//	helm upgrade --install <release> <chart> --namespace <ns> [flags...] [extra args...]
//
// The result is a fresh slice; --set values are emitted in key order so that
// the same spec always yields the same argv.
func UpgradeInstallArgs(conn Connection, spec *ChartSpec) ([]string, error) {
	if strings.TrimSpace(conn.Binary) == "" {
		return nil, ErrBinaryRequired
	}

	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args := []string{
		conn.Binary,
		"upgrade",
		"--install",
		spec.ReleaseName,
		spec.ChartRef,
		"--namespace",
		spec.Namespace,
	}

	if spec.CreateNamespace {
		args = append(args, "--create-namespace")
	}

	if spec.Version != "" {
		args = append(args, "--version", spec.Version)
	}

	if spec.RepoURL != "" {
		args = append(args, "--repo", spec.RepoURL)
	}

	args = append(args, conn.args()...)

	if spec.Atomic {
		args = append(args, "--atomic")
	}

	if spec.Wait {
		args = append(args, "--wait")
	}

	if spec.Timeout > 0 {
		args = append(args, "--timeout", spec.Timeout.String())
	}

	for _, file := range spec.ValueFiles {
		args = append(args, "--values", file)
	}

	keys := make([]string, 0, len(spec.SetValues))
	for key := range spec.SetValues {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		args = append(args, "--set", key+"="+spec.SetValues[key])
	}

	args = append(args, spec.ExtraArgs...)

	return slices.Clip(args), nil
}

// ListArgs builds the argv listing every release in JSON. helm caps the listing at
// 256 releases unless --max is 0.
func ListArgs(conn Connection) ([]string, error) {
	if strings.TrimSpace(conn.Binary) == "" {
		return nil, ErrBinaryRequired
	}

	args := []string{conn.Binary, "list", "--all-namespaces", "--max", "0", "--output", "json"}
	args = append(args, conn.args()...)

	return args, nil
}

// UninstallArgs builds the argv removing a release.
func UninstallArgs(conn Connection, releaseName, namespace string) ([]string, error) {
	if strings.TrimSpace(conn.Binary) == "" {
		return nil, ErrBinaryRequired
	}

	if strings.TrimSpace(releaseName) == "" {
		return nil, ErrReleaseNameRequired
	}

	if strings.TrimSpace(namespace) == "" {
		return nil, fmt.Errorf("%w: release %s", ErrNamespaceRequired, releaseName)
	}

	args := []string{conn.Binary, "uninstall", releaseName, "--namespace", namespace}
	args = append(args, conn.args()...)

	return args, nil
}

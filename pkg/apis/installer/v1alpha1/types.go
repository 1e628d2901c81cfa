package v1alpha1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	// Group is the API group for kagenti installations.
	Group = "installer.kagenti.io"
	// Version is the API version for kagenti installations.
	Version = "v1alpha1"
	// Kind is the kind for kagenti installations.
	Kind = "Installation"
	// APIVersion is the full API version for kagenti installations.
	APIVersion = Group + "/" + Version
)

// --- Core Types ---

// Installation describes the set of components to converge on a cluster and how to
// drive the package manager while doing so.
type Installation struct {
	metav1.TypeMeta `json:",inline" mapstructure:",squash"`

	Spec Spec `json:"spec,omitzero" mapstructure:"spec,omitempty"`
}

// Spec defines the desired state of an installation.
type Spec struct {
	Name       string          `json:"name,omitzero"       jsonschema:"description=Installation name used for local state files"` //nolint:lll
	Connection Connection      `json:"connection,omitzero"`
	Targets    Targets         `json:"targets,omitzero"`
	Components []ComponentSpec `json:"components,omitzero"`
	Execution  Execution       `json:"execution,omitzero"`
}

// Connection defines how the package manager reaches the cluster.
type Connection struct {
	Kubeconfig string          `json:"kubeconfig,omitzero"`
	Context    string          `json:"context,omitzero"`
	HelmBinary string          `json:"helmBinary,omitzero" default:"helm"`
	Timeout    metav1.Duration `json:"timeout,omitzero"`
}

// Target is the configuration surface of one logical deployment target.
type Target struct {
	Enabled    *bool  `json:"enabled,omitzero"`
	Namespace  string `json:"namespace,omitzero"`
	VersionTag string `json:"versionTag,omitzero"`
}

// IsEnabled reports whether the target should be installed. Targets default to enabled.
func (t Target) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

// Targets groups the built-in deployment targets.
type Targets struct {
	Operator    Target `json:"operator,omitzero"`
	CertManager Target `json:"certManager,omitzero"`
}

// ComponentSpec is the static descriptor of one installable unit.
type ComponentSpec struct {
	Name            string            `json:"name"`
	Namespace       string            `json:"namespace"`
	Reference       string            `json:"reference"                 jsonschema:"description=Chart reference (oci://..., repo/chart or a local path)"` //nolint:lll
	Version         string            `json:"version,omitzero"`
	ReleaseName     string            `json:"releaseName,omitzero"`
	RepoURL         string            `json:"repoURL,omitzero"`
	CreateNamespace *bool             `json:"createNamespace,omitzero"`
	DependsOn       []string          `json:"dependsOn,omitzero"`
	ValueFiles      []string          `json:"valueFiles,omitzero"`
	SetValues       map[string]string `json:"setValues,omitzero"`
	ExtraArgs       []string          `json:"extraArgs,omitzero"`
}

// Release returns the Helm release name of the component, defaulting to its name.
func (c ComponentSpec) Release() string {
	if c.ReleaseName != "" {
		return c.ReleaseName
	}

	return c.Name
}

// ShouldCreateNamespace reports whether the namespace is created on install. Defaults to true.
func (c ComponentSpec) ShouldCreateNamespace() bool {
	return c.CreateNamespace == nil || *c.CreateNamespace
}

// DeepCopy returns a copy of the spec that shares no slices or maps with the receiver.
func (c ComponentSpec) DeepCopy() ComponentSpec {
	out := c

	if c.CreateNamespace != nil {
		createNamespace := *c.CreateNamespace
		out.CreateNamespace = &createNamespace
	}

	out.DependsOn = cloneStrings(c.DependsOn)
	out.ValueFiles = cloneStrings(c.ValueFiles)
	out.ExtraArgs = cloneStrings(c.ExtraArgs)

	if c.SetValues != nil {
		out.SetValues = make(map[string]string, len(c.SetValues))
		for key, value := range c.SetValues {
			out.SetValues[key] = value
		}
	}

	return out
}

// Execution configures how an apply run drives the plan.
type Execution struct {
	Mode            ExecutionMode   `json:"mode,omitzero"`
	ContinueOnError bool            `json:"continueOnError,omitzero"`
	MaxRetries      int             `json:"maxRetries,omitzero"`
	RetryBackoff    metav1.Duration `json:"retryBackoff,omitzero"`
	Backoff         BackoffStrategy `json:"backoff,omitzero"`
	MaxConcurrency  int             `json:"maxConcurrency,omitzero"`
	StateBackend    StateBackend    `json:"stateBackend,omitzero"`
	// Wait passes --wait so that an action only succeeds once its resources are ready.
	Wait bool `json:"wait,omitzero"`
	// Atomic passes --atomic so that helm rolls a failed install back itself.
	Atomic bool `json:"atomic,omitzero"`
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}

	out := make([]string, len(values))
	copy(out, values)

	return out
}

package configmanager

import (
	"time"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// FieldSelector defines a field and its metadata for configuration management.
type FieldSelector[T any] struct {
	Selector     func(*T) any // Function that returns a pointer to the field
	Flag         string       // CLI flag name, also used to derive the KAGENTI_* variable
	Key          string       // Viper key of the field in kagenti.yaml
	Description  string       // Human-readable description for CLI flags
	DefaultValue any          // Default value for the field
}

// DefaultNameFieldSelector selects the installation name used for local state.
func DefaultNameFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Name },
		Flag:         "name",
		Key:          "spec.name",
		Description:  "Installation name used for local state",
		DefaultValue: v1alpha1.DefaultInstallationName,
	}
}

// DefaultKubeconfigFieldSelector selects the kubeconfig path passed to helm.
func DefaultKubeconfigFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:    func(c *v1alpha1.Installation) any { return &c.Spec.Connection.Kubeconfig },
		Flag:        "kubeconfig",
		Key:         "spec.connection.kubeconfig",
		Description: "Path to the kubeconfig file (defaults to the standard loading rules)",
	}
}

// DefaultContextFieldSelector selects the kubeconfig context.
func DefaultContextFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:    func(c *v1alpha1.Installation) any { return &c.Spec.Connection.Context },
		Flag:        "context",
		Key:         "spec.connection.context",
		Description: "Kubernetes context of the target cluster",
	}
}

// DefaultHelmBinaryFieldSelector selects the helm executable.
func DefaultHelmBinaryFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Connection.HelmBinary },
		Flag:         "helm-binary",
		Key:          "spec.connection.helmBinary",
		Description:  "Helm executable name or path",
		DefaultValue: v1alpha1.DefaultHelmBinary,
	}
}

// DefaultTimeoutFieldSelector selects the per-chart install timeout.
func DefaultTimeoutFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:    func(c *v1alpha1.Installation) any { return &c.Spec.Connection.Timeout },
		Flag:        "timeout",
		Key:         "spec.connection.timeout",
		Description: "Timeout of a single chart install (5m when unset)",
	}
}

// DefaultOperatorNamespaceFieldSelector selects the platform operator namespace.
func DefaultOperatorNamespaceFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Targets.Operator.Namespace },
		Flag:         "operator-namespace",
		Key:          "spec.targets.operator.namespace",
		Description:  "Namespace of the platform operator",
		DefaultValue: v1alpha1.DefaultOperatorNamespace,
	}
}

// DefaultOperatorVersionFieldSelector selects the platform operator chart version.
func DefaultOperatorVersionFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:    func(c *v1alpha1.Installation) any { return &c.Spec.Targets.Operator.VersionTag },
		Flag:        "operator-version",
		Key:         "spec.targets.operator.versionTag",
		Description: "Platform operator chart version (latest when unset)",
	}
}

// DefaultCertManagerNamespaceFieldSelector selects the cert-manager namespace.
func DefaultCertManagerNamespaceFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Targets.CertManager.Namespace },
		Flag:         "cert-manager-namespace",
		Key:          "spec.targets.certManager.namespace",
		Description:  "Namespace of cert-manager",
		DefaultValue: v1alpha1.DefaultCertManagerNamespace,
	}
}

// DefaultCertManagerVersionFieldSelector selects the cert-manager chart version.
func DefaultCertManagerVersionFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Targets.CertManager.VersionTag },
		Flag:         "cert-manager-version",
		Key:          "spec.targets.certManager.versionTag",
		Description:  "cert-manager chart version",
		DefaultValue: v1alpha1.DefaultCertManagerVersion,
	}
}

// DefaultModeFieldSelector selects sequential or parallel execution.
func DefaultModeFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.Mode },
		Flag:         "mode",
		Key:          "spec.execution.mode",
		Description:  "Execution mode (Sequential runs one action at a time, Parallel runs each dependency level concurrently)",
		DefaultValue: v1alpha1.ExecutionModeSequential,
	}
}

// DefaultContinueOnErrorFieldSelector selects whether later actions run after a failure.
func DefaultContinueOnErrorFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.ContinueOnError },
		Flag:         "continue-on-error",
		Key:          "spec.execution.continueOnError",
		Description:  "Keep running independent actions after a failure",
		DefaultValue: false,
	}
}

// DefaultMaxRetriesFieldSelector selects the retry budget of one action.
func DefaultMaxRetriesFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.MaxRetries },
		Flag:         "max-retries",
		Key:          "spec.execution.maxRetries",
		Description:  "Retries of an action after a non-zero exit or timeout",
		DefaultValue: 0,
	}
}

// DefaultRetryBackoffFieldSelector selects the base delay between retries.
func DefaultRetryBackoffFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.RetryBackoff },
		Flag:         "retry-backoff",
		Key:          "spec.execution.retryBackoff",
		Description:  "Delay before a retry",
		DefaultValue: metav1.Duration{Duration: v1alpha1.DefaultRetryBackoff},
	}
}

// DefaultBackoffFieldSelector selects how the retry delay grows.
func DefaultBackoffFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.Backoff },
		Flag:         "backoff",
		Key:          "spec.execution.backoff",
		Description:  "Backoff strategy between retries",
		DefaultValue: v1alpha1.BackoffConstant,
	}
}

// DefaultMaxConcurrencyFieldSelector selects the parallel width of one level.
func DefaultMaxConcurrencyFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.MaxConcurrency },
		Flag:         "max-concurrency",
		Key:          "spec.execution.maxConcurrency",
		Description:  "Concurrent actions in parallel mode (0 picks a CPU based default)",
		DefaultValue: 0,
	}
}

// DefaultStateBackendFieldSelector selects where installed versions are read from.
func DefaultStateBackendFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.StateBackend },
		Flag:         "state-backend",
		Key:          "spec.execution.stateBackend",
		Description:  "Installed-version source (Helm lists releases, Secrets reads release secrets, File uses local state)",
		DefaultValue: v1alpha1.StateBackendHelm,
	}
}

// DefaultWaitFieldSelector selects whether helm waits for resources to become ready.
func DefaultWaitFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.Wait },
		Flag:         "wait",
		Key:          "spec.execution.wait",
		Description:  "Wait until the resources of a component are ready",
		DefaultValue: false,
	}
}

// DefaultAtomicFieldSelector selects whether helm rolls back a failed install.
func DefaultAtomicFieldSelector() FieldSelector[v1alpha1.Installation] {
	return FieldSelector[v1alpha1.Installation]{
		Selector:     func(c *v1alpha1.Installation) any { return &c.Spec.Execution.Atomic },
		Flag:         "atomic",
		Key:          "spec.execution.atomic",
		Description:  "Let helm roll back a failed install or upgrade",
		DefaultValue: false,
	}
}

// ConnectionFieldSelectors returns the selectors every cluster-facing command binds.
func ConnectionFieldSelectors() []FieldSelector[v1alpha1.Installation] {
	return []FieldSelector[v1alpha1.Installation]{
		DefaultNameFieldSelector(),
		DefaultKubeconfigFieldSelector(),
		DefaultContextFieldSelector(),
		DefaultHelmBinaryFieldSelector(),
		DefaultStateBackendFieldSelector(),
	}
}

// TargetFieldSelectors returns the selectors of the built-in deployment targets.
func TargetFieldSelectors() []FieldSelector[v1alpha1.Installation] {
	return []FieldSelector[v1alpha1.Installation]{
		DefaultOperatorNamespaceFieldSelector(),
		DefaultOperatorVersionFieldSelector(),
		DefaultCertManagerNamespaceFieldSelector(),
		DefaultCertManagerVersionFieldSelector(),
	}
}

// ExecutionFieldSelectors returns the selectors that tune an apply run.
func ExecutionFieldSelectors() []FieldSelector[v1alpha1.Installation] {
	return []FieldSelector[v1alpha1.Installation]{
		DefaultTimeoutFieldSelector(),
		DefaultWaitFieldSelector(),
		DefaultAtomicFieldSelector(),
		DefaultModeFieldSelector(),
		DefaultContinueOnErrorFieldSelector(),
		DefaultMaxRetriesFieldSelector(),
		DefaultRetryBackoffFieldSelector(),
		DefaultBackoffFieldSelector(),
		DefaultMaxConcurrencyFieldSelector(),
	}
}

// durationDefault is used for metav1.Duration defaults given as time.Duration.
func durationDefault(value any) (metav1.Duration, bool) {
	switch typed := value.(type) {
	case metav1.Duration:
		return typed, true
	case time.Duration:
		return metav1.Duration{Duration: typed}, true
	default:
		return metav1.Duration{}, false
	}
}

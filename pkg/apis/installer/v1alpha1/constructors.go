package v1alpha1

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// DefaultHelmBinary is the package-manager executable resolved from PATH.
	DefaultHelmBinary = "helm"
	// DefaultOperatorNamespace is the namespace the platform operator is installed into.
	DefaultOperatorNamespace = "kagenti-system"
	// DefaultCertManagerNamespace is the namespace cert-manager is installed into.
	DefaultCertManagerNamespace = "cert-manager"
	// DefaultCertManagerVersion is the pinned cert-manager chart version.
	DefaultCertManagerVersion = "v1.17.2"
	// DefaultRetryBackoff is the delay between retries when none is configured.
	DefaultRetryBackoff = 5 * time.Second
	// DefaultInstallationName names the local state of an installation.
	DefaultInstallationName = "kagenti"
)

// NewInstallation creates a new Installation with defaults applied.
func NewInstallation() *Installation {
	return &Installation{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: APIVersion,
		},
		Spec: NewSpec(),
	}
}

// NewSpec creates a new Spec with default values.
func NewSpec() Spec {
	return Spec{
		Name:       DefaultInstallationName,
		Connection: NewConnection(),
		Targets:    NewTargets(),
		Components: nil,
		Execution:  NewExecution(),
	}
}

// NewConnection creates a new Connection with default values.
func NewConnection() Connection {
	return Connection{
		Kubeconfig: "",
		Context:    "",
		HelmBinary: DefaultHelmBinary,
		Timeout:    metav1.Duration{Duration: 0},
	}
}

// NewTargets creates the built-in targets with default namespaces and versions.
func NewTargets() Targets {
	return Targets{
		Operator: Target{
			Enabled:    nil,
			Namespace:  DefaultOperatorNamespace,
			VersionTag: "",
		},
		CertManager: Target{
			Enabled:    nil,
			Namespace:  DefaultCertManagerNamespace,
			VersionTag: DefaultCertManagerVersion,
		},
	}
}

// NewExecution creates a new Execution with default values.
func NewExecution() Execution {
	return Execution{
		Mode:            ExecutionModeSequential,
		ContinueOnError: false,
		MaxRetries:      0,
		RetryBackoff:    metav1.Duration{Duration: DefaultRetryBackoff},
		Backoff:         BackoffConstant,
		MaxConcurrency:  0,
		StateBackend:    StateBackendHelm,
		Wait:            false,
		Atomic:          false,
	}
}

// ApplyDefaults fills zero values that have a non-zero default.
func (i *Installation) ApplyDefaults() {
	if i.Kind == "" {
		i.Kind = Kind
	}

	if i.APIVersion == "" {
		i.APIVersion = APIVersion
	}

	spec := &i.Spec
	if spec.Name == "" {
		spec.Name = DefaultInstallationName
	}

	if spec.Connection.HelmBinary == "" {
		spec.Connection.HelmBinary = DefaultHelmBinary
	}

	if spec.Targets.Operator.Namespace == "" {
		spec.Targets.Operator.Namespace = DefaultOperatorNamespace
	}

	if spec.Targets.CertManager.Namespace == "" {
		spec.Targets.CertManager.Namespace = DefaultCertManagerNamespace
	}

	if spec.Targets.CertManager.VersionTag == "" {
		spec.Targets.CertManager.VersionTag = DefaultCertManagerVersion
	}

	if spec.Execution.Mode == "" {
		spec.Execution.Mode = ExecutionModeSequential
	}

	if spec.Execution.Backoff == "" {
		spec.Execution.Backoff = BackoffConstant
	}

	if spec.Execution.StateBackend == "" {
		spec.Execution.StateBackend = StateBackendHelm
	}
}

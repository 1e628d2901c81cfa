// Package certmanagerinstaller describes the cert-manager component, which issues
// the webhook certificates the platform operator relies on.
package certmanagerinstaller

import "github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"

const (
	// Name is the component and release name.
	Name = "cert-manager"
	// RepoURL is the jetstack chart repository.
	RepoURL = "https://charts.jetstack.io"
	// ChartName is the chart within RepoURL.
	ChartName = "cert-manager"
)

// Spec returns the cert-manager component for target.
func Spec(target v1alpha1.Target) v1alpha1.ComponentSpec {
	namespace := target.Namespace
	if namespace == "" {
		namespace = v1alpha1.DefaultCertManagerNamespace
	}

	version := target.VersionTag
	if version == "" {
		version = v1alpha1.DefaultCertManagerVersion
	}

	return v1alpha1.ComponentSpec{
		Name:      Name,
		Namespace: namespace,
		Reference: ChartName,
		Version:   version,
		RepoURL:   RepoURL,
		SetValues: map[string]string{
			"crds.enabled":            "true",
			"startupapicheck.timeout": "5m",
		},
	}
}

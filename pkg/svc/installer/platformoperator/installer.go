// Package platformoperatorinstaller describes the kagenti platform operator component.
package platformoperatorinstaller

import (
	"slices"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
)

const (
	// Name is the component name.
	Name = "kagenti-platform-operator"
	// ReleaseName is the Helm release of the operator.
	ReleaseName = "kagenti-platform-operator"
	// ChartRef is the OCI reference of the operator chart.
	ChartRef = "oci://ghcr.io/kagenti/kagenti-operator/kagenti-platform-operator-chart"
)

// Spec returns the operator component for target. An empty version tag installs
// the latest chart and accepts whatever version is already installed.
func Spec(target v1alpha1.Target, dependsOn ...string) v1alpha1.ComponentSpec {
	namespace := target.Namespace
	if namespace == "" {
		namespace = v1alpha1.DefaultOperatorNamespace
	}

	return v1alpha1.ComponentSpec{
		Name:        Name,
		Namespace:   namespace,
		Reference:   ChartRef,
		Version:     target.VersionTag,
		ReleaseName: ReleaseName,
		DependsOn:   slices.Clone(dependsOn),
	}
}

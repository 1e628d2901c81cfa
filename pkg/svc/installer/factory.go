package installer

import (
	"fmt"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	certmanagerinstaller "github.com/kagenti/kagenti-installer/pkg/svc/installer/certmanager"
	platformoperatorinstaller "github.com/kagenti/kagenti-installer/pkg/svc/installer/platformoperator"
	"github.com/kagenti/kagenti-installer/pkg/svc/registry"
)

// Factory builds component registries from installation configs.
type Factory struct{}

// NewFactory creates a catalog factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Components returns the component specs of cfg in registration order: enabled
// built-in targets first, then user components as declared.
func (f *Factory) Components(cfg *v1alpha1.Installation) []v1alpha1.ComponentSpec {
	if cfg == nil {
		return nil
	}

	targets := cfg.Spec.Targets
	components := make([]v1alpha1.ComponentSpec, 0, len(cfg.Spec.Components)+2)

	var operatorDeps []string

	if targets.CertManager.IsEnabled() {
		components = append(components, certmanagerinstaller.Spec(targets.CertManager))
		operatorDeps = append(operatorDeps, certmanagerinstaller.Name)
	}

	if targets.Operator.IsEnabled() {
		components = append(components, platformoperatorinstaller.Spec(targets.Operator, operatorDeps...))
	}

	for _, component := range cfg.Spec.Components {
		components = append(components, component.DeepCopy())
	}

	return components
}

// Registry registers the components of cfg.
func (f *Factory) Registry(cfg *v1alpha1.Installation) (*registry.Registry, error) {
	reg, err := registry.FromSpecs(f.Components(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build component registry: %w", err)
	}

	return reg, nil
}

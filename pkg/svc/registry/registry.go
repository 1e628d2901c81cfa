// Package registry holds the ordered set of components an installation manages.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
)

var (
	// ErrDuplicateName is returned when a component name is registered twice.
	ErrDuplicateName = errors.New("component already registered")
	// ErrComponentNotFound is returned when a lookup names an unregistered component.
	ErrComponentNotFound = errors.New("component not found")
)

// Registry is an ordered collection of component specs keyed by unique name.
// It owns copies of the registered specs; accessors hand out copies as well, so
// registered specs are immutable for the lifetime of the registry.
type Registry struct {
	specs []v1alpha1.ComponentSpec
	index map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// FromSpecs creates a registry and registers the specs in order.
func FromSpecs(specs ...v1alpha1.ComponentSpec) (*Registry, error) {
	reg := New()

	for _, spec := range specs {
		err := reg.Register(spec)
		if err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register validates and adds a component. Dependencies are not required to be
// registered yet; unresolved names are reported by the planner.
func (r *Registry) Register(spec v1alpha1.ComponentSpec) error {
	err := v1alpha1.ValidateComponentSpec(spec)
	if err != nil {
		return fmt.Errorf("register component: %w", err)
	}

	if _, exists := r.index[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, spec.Name)
	}

	r.index[spec.Name] = len(r.specs)
	r.specs = append(r.specs, spec.DeepCopy())

	return nil
}

// Get returns a copy of the named component.
func (r *Registry) Get(name string) (v1alpha1.ComponentSpec, bool) {
	idx, ok := r.index[name]
	if !ok {
		return v1alpha1.ComponentSpec{}, false
	}

	return r.specs[idx].DeepCopy(), true
}

// Index returns the registration position of the named component.
func (r *Registry) Index(name string) (int, bool) {
	idx, ok := r.index[name]

	return idx, ok
}

// All returns copies of every component in registration order.
func (r *Registry) All() []v1alpha1.ComponentSpec {
	out := make([]v1alpha1.ComponentSpec, 0, len(r.specs))
	for _, spec := range r.specs {
		out = append(out, spec.DeepCopy())
	}

	return out
}

// Names returns the component names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		names = append(names, spec.Name)
	}

	return names
}

// DependenciesOf returns the sorted, de-duplicated dependency names of a component.
func (r *Registry) DependenciesOf(name string) ([]string, error) {
	idx, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}

	deps := slices.Clone(r.specs[idx].DependsOn)
	slices.Sort(deps)

	return slices.Compact(deps), nil
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.specs)
}

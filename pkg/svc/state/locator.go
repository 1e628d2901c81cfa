package state

import "github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"

// releaseRef locates the Helm release backing a component.
type releaseRef struct {
	release   string
	namespace string
}

// releaseLocator maps component names to Helm releases.
type releaseLocator map[string]releaseRef

func newReleaseLocator(components []v1alpha1.ComponentSpec) releaseLocator {
	locator := make(releaseLocator, len(components))

	for _, component := range components {
		locator[component.Name] = releaseRef{
			release:   component.Release(),
			namespace: component.Namespace,
		}
	}

	return locator
}

// lookup returns the release of a component. Unknown components are looked up
// by name in every namespace.
func (l releaseLocator) lookup(name string) releaseRef {
	ref, ok := l[name]
	if !ok {
		return releaseRef{release: name}
	}

	return ref
}

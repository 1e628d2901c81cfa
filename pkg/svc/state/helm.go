package state

import (
	"context"
	"fmt"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/kagenti/kagenti-installer/pkg/client/helm"
)

// statusDeployed is the helm status of a release that finished installing.
const statusDeployed = "deployed"

// ReleaseLister lists the Helm releases of a cluster.
type ReleaseLister interface {
	ListReleases(ctx context.Context) ([]helm.ReleaseInfo, error)
}

// HelmReleases reads installed versions from `helm list`.
//
// Only deployed releases count as present: a failed or pending release is
// reported absent so that it gets installed again.
type HelmReleases struct {
	lister  ReleaseLister
	locator releaseLocator
}

var _ Reader = (*HelmReleases)(nil)

// NewHelmReleases creates a reader resolving component names through components.
func NewHelmReleases(lister ReleaseLister, components []v1alpha1.ComponentSpec) *HelmReleases {
	return &HelmReleases{lister: lister, locator: newReleaseLocator(components)}
}

// InstalledVersion implements Reader.
func (h *HelmReleases) InstalledVersion(ctx context.Context, name string) (string, bool, error) {
	releases, err := h.lister.ListReleases(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to query state of %s: %w", name, err)
	}

	ref := h.locator.lookup(name)

	for _, release := range releases {
		if release.Name != ref.release {
			continue
		}

		if ref.namespace != "" && release.Namespace != ref.namespace {
			continue
		}

		if release.Status != statusDeployed {
			continue
		}

		return release.ChartVersion(), true, nil
	}

	return "", false, nil
}

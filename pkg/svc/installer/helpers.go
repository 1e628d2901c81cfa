package installer

import (
	"time"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
)

// DefaultInstallTimeout is the per-chart helm --timeout when none is configured.
const DefaultInstallTimeout = 5 * time.Minute

// GetInstallTimeout returns the configured connection timeout, or
// DefaultInstallTimeout when unset. Returns DefaultInstallTimeout if cfg is nil.
func GetInstallTimeout(cfg *v1alpha1.Installation) time.Duration {
	if cfg == nil {
		return DefaultInstallTimeout
	}

	if cfg.Spec.Connection.Timeout.Duration > 0 {
		return cfg.Spec.Connection.Timeout.Duration
	}

	return DefaultInstallTimeout
}

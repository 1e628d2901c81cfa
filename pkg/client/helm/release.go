package helm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ReleaseInfo is one entry of `helm list --output json`.
type ReleaseInfo struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	Revision   string `json:"revision"`
	Updated    string `json:"updated"`
	Status     string `json:"status"`
	Chart      string `json:"chart"`
	AppVersion string `json:"app_version"`
}

// ChartVersion returns the chart version encoded in the chart column.
func (r ReleaseInfo) ChartVersion() string {
	return ChartVersion(r.Chart)
}

// ParseReleaseList decodes the JSON output of `helm list`.
// Helm prints nothing at all when there are no releases in some versions.
func ParseReleaseList(data []byte) ([]ReleaseInfo, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	var releases []ReleaseInfo

	err := json.Unmarshal([]byte(trimmed), &releases)
	if err != nil {
		return nil, fmt.Errorf("failed to parse helm release list: %w", err)
	}

	return releases, nil
}

// ChartVersion splits a "<chart-name>-<version>" string and returns the version.
// Chart names may contain dashes and numeric segments ("redis-7-cluster"), and versions
// may carry pre-release suffixes, so the first dash followed by a full X.Y.Z version
// (optionally prefixed with "v") wins. Returns "" when none is found.
func ChartVersion(chart string) string {
	for idx := 0; idx < len(chart); idx++ {
		if chart[idx] != '-' {
			continue
		}

		candidate := chart[idx+1:]

		_, err := semver.StrictNewVersion(strings.TrimPrefix(candidate, "v"))
		if err == nil {
			return candidate
		}
	}

	return ""
}

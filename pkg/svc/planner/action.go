package planner

import (
	"github.com/Masterminds/semver/v3"
	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
)

// Operation is the kind of change an action applies.
type Operation string

const (
	// OperationInstall installs a component that is absent.
	OperationInstall Operation = "install"
	// OperationUpgrade moves an installed component to another version.
	OperationUpgrade Operation = "upgrade"
	// OperationSkip leaves a converged component untouched.
	OperationSkip Operation = "skip"
)

// Action is one planned step. Args is the full argv of the package-manager
// invocation and is empty for skip actions.
type Action struct {
	Spec             v1alpha1.ComponentSpec `json:"spec"`
	Operation        Operation              `json:"operation"`
	Args             []string               `json:"args,omitempty"`
	Installed        bool                   `json:"installed"`
	InstalledVersion string                 `json:"installedVersion,omitempty"`
}

// Name returns the component name of the action.
func (a Action) Name() string {
	return a.Spec.Name
}

// Plan is the ordered result of planning.
type Plan struct {
	// Actions in execution order; a dependency always precedes its dependents.
	Actions []Action `json:"actions"`
	// Levels groups indices into Actions; members of a level share no dependency edge
	// and every dependency of a member sits in an earlier level.
	Levels [][]int `json:"levels"`
}

// Len returns the number of actions.
func (p *Plan) Len() int {
	return len(p.Actions)
}

// Index returns the position of a component in Actions.
func (p *Plan) Index(name string) (int, bool) {
	for idx, action := range p.Actions {
		if action.Name() == name {
			return idx, true
		}
	}

	return -1, false
}

// Counts returns the number of actions per operation.
func (p *Plan) Counts() map[Operation]int {
	counts := make(map[Operation]int, 3)

	for _, action := range p.Actions {
		counts[action.Operation]++
	}

	return counts
}

// Converged reports whether an installed component already satisfies its spec.
// A spec without a version accepts any installed version.
func Converged(spec v1alpha1.ComponentSpec, installedVersion string, present bool) bool {
	if !present {
		return false
	}

	if spec.Version == "" {
		return true
	}

	return VersionsEqual(spec.Version, installedVersion)
}

// VersionsEqual compares two versions semantically when both parse as semver
// ("v1.2" equals "1.2.0"), and as plain strings otherwise.
func VersionsEqual(left, right string) bool {
	leftVersion, leftErr := semver.NewVersion(left)
	rightVersion, rightErr := semver.NewVersion(right)

	if leftErr == nil && rightErr == nil {
		return leftVersion.Equal(rightVersion)
	}

	return left == right
}

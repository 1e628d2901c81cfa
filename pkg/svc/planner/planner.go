package planner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/kagenti/kagenti-installer/pkg/client/helm"
	"github.com/kagenti/kagenti-installer/pkg/svc/registry"
	"github.com/kagenti/kagenti-installer/pkg/svc/state"
)

// Config carries everything the planner needs to render package-manager arguments.
type Config struct {
	Connection helm.Connection
	// Timeout is passed to helm as --timeout; 0 leaves helm's default.
	Timeout time.Duration
	Atomic  bool
	Wait    bool
}

// Planner builds plans. It holds no mutable state and is safe for concurrent use.
type Planner struct {
	cfg Config
}

// New creates a planner.
func New(cfg Config) *Planner {
	if cfg.Connection.Binary == "" {
		cfg.Connection.Binary = v1alpha1.DefaultHelmBinary
	}

	return &Planner{cfg: cfg}
}

// Config returns the configuration of the planner.
func (p *Planner) Config() Config {
	return p.cfg
}

// Plan orders the registered components and decides, from the installed versions
// reported by reader, what each one needs. Every component yields exactly one action.
func (p *Planner) Plan(ctx context.Context, reg *registry.Registry, reader state.Reader) (*Plan, error) {
	if reg == nil {
		return nil, ErrRegistryRequired
	}

	if reader == nil {
		return nil, ErrStateRequired
	}

	specs := reg.All()

	order, levels, err := sortTopologically(specs, reg)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Actions: make([]Action, 0, len(order)),
		Levels:  nil,
	}

	position := make([]int, len(specs))

	for _, specIdx := range order {
		spec := specs[specIdx]

		version, present, queryErr := reader.InstalledVersion(ctx, spec.Name)
		if queryErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrStateQuery, spec.Name, queryErr)
		}

		action, resolveErr := p.Resolve(spec, version, present)
		if resolveErr != nil {
			return nil, resolveErr
		}

		position[specIdx] = len(plan.Actions)
		plan.Actions = append(plan.Actions, action)
	}

	plan.Levels = make([][]int, 0, len(levels))

	for _, level := range levels {
		indices := make([]int, 0, len(level))
		for _, specIdx := range level {
			indices = append(indices, position[specIdx])
		}

		slices.Sort(indices)
		plan.Levels = append(plan.Levels, indices)
	}

	return plan, nil
}

// Resolve derives the action of one component from its installed version.
func (p *Planner) Resolve(spec v1alpha1.ComponentSpec, installedVersion string, present bool) (Action, error) {
	action := Action{
		Spec:             spec.DeepCopy(),
		Operation:        OperationInstall,
		Args:             nil,
		Installed:        present,
		InstalledVersion: installedVersion,
	}

	switch {
	case Converged(spec, installedVersion, present):
		action.Operation = OperationSkip

		return action, nil
	case present:
		action.Operation = OperationUpgrade
	}

	args, err := helm.UpgradeInstallArgs(p.cfg.Connection, p.chartSpec(spec))
	if err != nil {
		return Action{}, fmt.Errorf("%w: component %s: %w", ErrPlanning, spec.Name, err)
	}

	action.Args = args

	return action, nil
}

func (p *Planner) chartSpec(spec v1alpha1.ComponentSpec) *helm.ChartSpec {
	return &helm.ChartSpec{
		ReleaseName:     spec.Release(),
		ChartRef:        spec.Reference,
		Namespace:       spec.Namespace,
		Version:         spec.Version,
		RepoURL:         spec.RepoURL,
		CreateNamespace: spec.ShouldCreateNamespace(),
		Atomic:          p.cfg.Atomic,
		Wait:            p.cfg.Wait,
		Timeout:         p.cfg.Timeout,
		ValueFiles:      spec.ValueFiles,
		SetValues:       spec.SetValues,
		ExtraArgs:       spec.ExtraArgs,
	}
}

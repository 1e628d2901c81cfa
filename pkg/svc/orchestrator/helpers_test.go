package orchestrator_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/kagenti/kagenti-installer/pkg/client/helm"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/svc/orchestrator"
	"github.com/kagenti/kagenti-installer/pkg/svc/planner"
	"github.com/kagenti/kagenti-installer/pkg/svc/registry"
	"github.com/kagenti/kagenti-installer/pkg/svc/state"
	"github.com/stretchr/testify/require"
)

// respondFunc answers one invocation for a component; attempt is 1-based.
type respondFunc func(ctx context.Context, attempt int) (runner.CommandResult, error)

// fakeRunner succeeds by default and records invocations in order.
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string]respondFunc
	attempts  map[string]int
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: make(map[string]respondFunc),
		attempts:  make(map[string]int),
	}
}

func (f *fakeRunner) on(component string, respond respondFunc) *fakeRunner {
	f.responses[component] = respond

	return f
}

func (f *fakeRunner) Run(ctx context.Context, argv []string, description string) (runner.CommandResult, error) {
	fields := strings.Fields(description)
	component := fields[len(fields)-1]

	f.mu.Lock()
	f.attempts[component]++
	attempt := f.attempts[component]
	f.calls = append(f.calls, component)
	respond := f.responses[component]
	f.mu.Unlock()

	if respond == nil {
		return runner.CommandResult{Argv: argv, Description: description}, nil
	}

	result, err := respond(ctx, attempt)
	result.Argv = argv
	result.Description = description

	return result, err
}

func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func alwaysExit(code int, stderr string) respondFunc {
	return func(context.Context, int) (runner.CommandResult, error) {
		return runner.CommandResult{ExitCode: code, Stderr: stderr}, nil
	}
}

func component(name, version string, deps ...string) v1alpha1.ComponentSpec {
	return v1alpha1.ComponentSpec{
		Name:      name,
		Namespace: "kagenti-system",
		Reference: "oci://ghcr.io/kagenti/charts/" + name,
		Version:   version,
		DependsOn: deps,
	}
}

type harness struct {
	runner  *fakeRunner
	state   *state.Memory
	planner *planner.Planner
	orch    *orchestrator.Orchestrator
	reg     *registry.Registry
}

func newHarness(t *testing.T, specs ...v1alpha1.ComponentSpec) *harness {
	t.Helper()

	reg, err := registry.FromSpecs(specs...)
	require.NoError(t, err)

	fake := newFakeRunner()
	memory := state.NewMemory(nil)
	plnr := planner.New(planner.Config{Connection: helm.Connection{Binary: "helm"}})

	return &harness{
		runner:  fake,
		state:   memory,
		planner: plnr,
		orch:    orchestrator.New(fake, plnr, memory),
		reg:     reg,
	}
}

func (h *harness) plan(t *testing.T) *planner.Plan {
	t.Helper()

	plan, err := h.planner.Plan(context.Background(), h.reg, h.state)
	require.NoError(t, err)

	return plan
}

func (h *harness) run(t *testing.T, plan *planner.Plan, opts orchestrator.Options) *orchestrator.Report {
	t.Helper()

	report, err := h.orch.Run(context.Background(), plan, opts)
	require.NoError(t, err)
	require.Len(t, report.Results, plan.Len())

	return report
}

func statuses(report *orchestrator.Report) []orchestrator.Status {
	out := make([]orchestrator.Status, 0, len(report.Results))
	for _, result := range report.Results {
		out = append(out, result.Status)
	}

	return out
}

func operations(report *orchestrator.Report) []planner.Operation {
	out := make([]planner.Operation, 0, len(report.Results))
	for _, result := range report.Results {
		out = append(out, result.Operation)
	}

	return out
}

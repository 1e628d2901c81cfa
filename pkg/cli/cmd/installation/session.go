package installation

import (
	"fmt"
	"io"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/kagenti/kagenti-installer/pkg/cli/flags"
	"github.com/kagenti/kagenti-installer/pkg/cli/ui"
	"github.com/kagenti/kagenti-installer/pkg/client/helm"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/di"
	configmanager "github.com/kagenti/kagenti-installer/pkg/io/config-manager/kagenti"
	"github.com/kagenti/kagenti-installer/pkg/k8s"
	"github.com/kagenti/kagenti-installer/pkg/svc/installer"
	"github.com/kagenti/kagenti-installer/pkg/svc/planner"
	"github.com/kagenti/kagenti-installer/pkg/svc/registry"
	"github.com/kagenti/kagenti-installer/pkg/svc/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// FieldSelectors returns every installation field exposed as a command flag.
func FieldSelectors() []configmanager.FieldSelector[v1alpha1.Installation] {
	selectors := configmanager.ConnectionFieldSelectors()
	selectors = append(selectors, configmanager.TargetFieldSelectors()...)

	return append(selectors, configmanager.ExecutionFieldSelectors()...)
}

// session holds what one invocation works with: the loaded installation, its
// components and a planner reading from the configured state backend.
type session struct {
	config     *v1alpha1.Installation
	components []v1alpha1.ComponentSpec
	registry   *registry.Registry
	planner    *planner.Planner
	state      state.Reader
	runner     runner.CommandRunner
	log        logrus.FieldLogger
	progress   io.Writer
}

// newSession loads the installation through manager and wires the state backend
// it selects. Notifications go to the diagnostics stream of cmd.
func newSession(
	cmd *cobra.Command,
	injector di.Injector,
	manager *configmanager.ConfigManager,
	log logrus.FieldLogger,
	commandRunner runner.CommandRunner,
) (*session, error) {
	progress := ui.Diagnostics(cmd)

	manager.Writer = progress
	manager.SetConfigFile(flags.ConfigFile(cmd))

	cfg, err := manager.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load installation config: %w", err)
	}

	factory, err := di.ResolveInstallerFactory(injector)
	if err != nil {
		return nil, err
	}

	reg, err := factory.Registry(cfg)
	if err != nil {
		return nil, err
	}

	conn := connection(cfg)
	components := reg.All()

	reader, err := newStateReader(cfg, components, conn, commandRunner, log)
	if err != nil {
		return nil, err
	}

	plnr := planner.New(planner.Config{
		Connection: conn,
		Timeout:    installer.GetInstallTimeout(cfg),
		Atomic:     cfg.Spec.Execution.Atomic,
		Wait:       cfg.Spec.Execution.Wait,
	})

	return &session{
		config:     cfg,
		components: components,
		registry:   reg,
		planner:    plnr,
		state:      reader,
		runner:     commandRunner,
		log:        log.WithField("installation", cfg.Spec.Name),
		progress:   progress,
	}, nil
}

// plan builds the plan of the installation against the current state.
func (s *session) plan(cmd *cobra.Command) (*planner.Plan, error) {
	plan, err := s.planner.Plan(cmd.Context(), s.registry, s.state)
	if err != nil {
		return nil, fmt.Errorf("failed to plan installation %s: %w", s.config.Spec.Name, err)
	}

	return plan, nil
}

func connection(cfg *v1alpha1.Installation) helm.Connection {
	return helm.Connection{
		Binary:      cfg.Spec.Connection.HelmBinary,
		Kubeconfig:  cfg.Spec.Connection.Kubeconfig,
		KubeContext: cfg.Spec.Connection.Context,
	}
}

// newStateReader returns the reader of the configured state backend. Helm is the default.
func newStateReader(
	cfg *v1alpha1.Installation,
	components []v1alpha1.ComponentSpec,
	conn helm.Connection,
	commandRunner runner.CommandRunner,
	log logrus.FieldLogger,
) (state.Reader, error) {
	switch cfg.Spec.Execution.StateBackend {
	case v1alpha1.StateBackendFile:
		store, err := state.NewFileStore(cfg.Spec.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to open state file: %w", err)
		}

		return store, nil
	case v1alpha1.StateBackendSecrets:
		clientset, err := k8s.NewClientset(conn.Kubeconfig, conn.KubeContext)
		if err != nil {
			return nil, err
		}

		return state.NewReleaseSecrets(clientset, components), nil
	default:
		client := helm.NewClient(commandRunner, conn, helm.WithClientLogger(log))

		return state.NewHelmReleases(client, components), nil
	}
}

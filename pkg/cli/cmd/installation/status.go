package installation

import (
	"context"
	"fmt"
	"slices"

	"github.com/kagenti/kagenti-installer/pkg/cli/flags"
	"github.com/kagenti/kagenti-installer/pkg/cmd/parallel"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/di"
	configmanager "github.com/kagenti/kagenti-installer/pkg/io/config-manager/kagenti"
	"github.com/kagenti/kagenti-installer/pkg/io/printer"
	"github.com/kagenti/kagenti-installer/pkg/svc/planner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const statusLongDesc = `Show the installed and desired version of every component.

A component is converged when its release runs the desired version, drifted
when another version is installed and absent when no deployed release exists.`

// NewStatusCmd creates the status command.
func NewStatusCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var format printer.OutputFormat

	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show installed component versions",
		Long:          statusLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	manager := configmanager.NewCommandConfigManager(cmd, FieldSelectors())
	flags.AddOutputFlag(cmd, &format)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithCommandRunner(
		func(cmd *cobra.Command, injector di.Injector, log logrus.FieldLogger, commandRunner runner.CommandRunner) error {
			sess, err := newSession(cmd, injector, manager, log, commandRunner)
			if err != nil {
				return err
			}

			statuses, queryErr := sess.statuses(cmd.Context())

			err = printer.New(cmd.OutOrStdout(), format).Status(statuses)
			if err != nil {
				return fmt.Errorf("failed to print status: %w", err)
			}

			if queryErr != nil {
				return fmt.Errorf("failed to query component state: %w", queryErr)
			}

			return nil
		},
	))

	return cmd
}

// statuses queries the state of every component concurrently. Rows follow
// registration order; a failed query is reported in its row and in the error.
func (s *session) statuses(ctx context.Context) ([]printer.ComponentStatus, error) {
	results := parallel.NewResults[printer.ComponentStatus]()
	tasks := make([]parallel.Task, 0, len(s.components))

	for _, spec := range s.components {
		tasks = append(tasks, func(ctx context.Context) error {
			status := printer.ComponentStatus{
				Component:      spec.Name,
				Namespace:      spec.Namespace,
				Release:        spec.Release(),
				DesiredVersion: spec.Version,
			}

			version, present, err := s.state.InstalledVersion(ctx, spec.Name)
			if err != nil {
				status.Error = err.Error()
				results.AddError(fmt.Errorf("%s: %w", spec.Name, err))
			} else {
				status.InstalledVersion = version
				status.Installed = present
				status.Converged = planner.Converged(spec, version, present)
			}

			results.Add(status)

			return nil
		})
	}

	executor := parallel.NewExecutor(int64(s.config.Spec.Execution.MaxConcurrency))

	err := executor.ExecuteAll(ctx, tasks...)
	if err != nil {
		results.AddError(err)
	}

	statuses := results.Values()
	slices.SortFunc(statuses, func(left, right printer.ComponentStatus) int {
		return s.position(left.Component) - s.position(right.Component)
	})

	return statuses, results.Err()
}

func (s *session) position(name string) int {
	idx, _ := s.registry.Index(name)

	return idx
}

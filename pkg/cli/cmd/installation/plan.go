package installation

import (
	"fmt"

	"github.com/kagenti/kagenti-installer/pkg/cli/flags"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/di"
	configmanager "github.com/kagenti/kagenti-installer/pkg/io/config-manager/kagenti"
	"github.com/kagenti/kagenti-installer/pkg/io/printer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const planLongDesc = `Show what apply would do without changing the cluster.

Every component is listed in execution order with the operation it needs:
install when absent, upgrade when another version is installed, skip when it
already runs the desired version.`

// NewPlanCmd creates the plan command.
func NewPlanCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var format printer.OutputFormat

	cmd := &cobra.Command{
		Use:           "plan",
		Short:         "Show the actions apply would take",
		Long:          planLongDesc,
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

			plan, err := sess.plan(cmd)
			if err != nil {
				return err
			}

			err = printer.New(cmd.OutOrStdout(), format).Plan(plan)
			if err != nil {
				return fmt.Errorf("failed to print plan: %w", err)
			}

			return nil
		},
	))

	return cmd
}

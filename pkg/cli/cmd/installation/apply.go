package installation

import (
	"fmt"

	"github.com/kagenti/kagenti-installer/pkg/cli/flags"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/di"
	configmanager "github.com/kagenti/kagenti-installer/pkg/io/config-manager/kagenti"
	"github.com/kagenti/kagenti-installer/pkg/io/printer"
	"github.com/kagenti/kagenti-installer/pkg/svc/orchestrator"
	"github.com/kagenti/kagenti-installer/pkg/utils/notify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const applyLongDesc = `Install or upgrade every component of an installation.

Components are planned against the configured state backend and executed in
dependency order. Components already at their desired version are skipped, so
applying the same installation twice is safe.

Examples:
  # Apply ./kagenti.yaml
  kagenti-installer apply

  # Apply independent components concurrently and retry transient failures
  kagenti-installer apply --mode Parallel --max-retries 3 --retry-backoff 10s

  # Print the run report as JSON
  kagenti-installer apply -o json`

// NewApplyCmd creates the apply command.
func NewApplyCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var format printer.OutputFormat

	cmd := &cobra.Command{
		Use:           "apply",
		Short:         "Install or upgrade the components of an installation",
		Long:          applyLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	manager := configmanager.NewCommandConfigManager(cmd, FieldSelectors())
	flags.AddOutputFlag(cmd, &format)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithCommandRunner(
		func(cmd *cobra.Command, injector di.Injector, log logrus.FieldLogger, commandRunner runner.CommandRunner) error {
			return HandleApplyRunE(cmd, injector, manager, format, log, commandRunner)
		},
	))

	return cmd
}

// HandleApplyRunE plans the installation, runs the plan and prints the report.
// It returns the run error when any component failed.
func HandleApplyRunE(
	cmd *cobra.Command,
	injector di.Injector,
	manager *configmanager.ConfigManager,
	format printer.OutputFormat,
	log logrus.FieldLogger,
	commandRunner runner.CommandRunner,
) error {
	sess, err := newSession(cmd, injector, manager, log, commandRunner)
	if err != nil {
		return err
	}

	plan, err := sess.plan(cmd)
	if err != nil {
		return err
	}

	notify.Titlef(sess.progress, "🚀", "Apply installation %s...", sess.config.Spec.Name)

	orch := orchestrator.New(
		sess.runner,
		sess.planner,
		sess.state,
		orchestrator.WithLogger(sess.log),
		orchestrator.WithProgress(sess.progress),
	)

	report, err := orch.Run(cmd.Context(), plan, orchestrator.OptionsFromExecution(sess.config.Spec.Execution))
	if err != nil {
		return fmt.Errorf("failed to run installation %s: %w", sess.config.Spec.Name, err)
	}

	err = printer.New(cmd.OutOrStdout(), format).Report(report)
	if err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	runErr := report.Err()
	if runErr != nil {
		return runErr
	}

	counts := report.Counts()

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "installation %s applied (%d succeeded, %d skipped)",
		Args:    []any{sess.config.Spec.Name, counts[orchestrator.StatusSucceeded], counts[orchestrator.StatusSkipped]},
		Elapsed: report.Duration(),
		Writer:  sess.progress,
	})

	return nil
}

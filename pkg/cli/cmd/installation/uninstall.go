package installation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kagenti/kagenti-installer/pkg/cli/flags"
	"github.com/kagenti/kagenti-installer/pkg/cli/ui/confirm"
	"github.com/kagenti/kagenti-installer/pkg/client/helm"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/di"
	configmanager "github.com/kagenti/kagenti-installer/pkg/io/config-manager/kagenti"
	"github.com/kagenti/kagenti-installer/pkg/svc/planner"
	"github.com/kagenti/kagenti-installer/pkg/svc/state"
	"github.com/kagenti/kagenti-installer/pkg/utils/notify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const uninstallLongDesc = `Remove the installed components of an installation.

Releases are removed in reverse dependency order so that dependents go before
the components they rely on. Components that are not installed are left alone.

Examples:
  # Uninstall after confirming the preview
  kagenti-installer uninstall

  # Uninstall without prompting
  kagenti-installer uninstall --yes`

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "uninstall",
		Short:         "Remove the components of an installation",
		Long:          uninstallLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	manager := configmanager.NewCommandConfigManager(cmd, FieldSelectors())
	cmd.Flags().BoolP(flags.YesFlagName, "y", false, "Skip the confirmation prompt")

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithCommandRunner(
		func(cmd *cobra.Command, injector di.Injector, log logrus.FieldLogger, commandRunner runner.CommandRunner) error {
			return HandleUninstallRunE(cmd, injector, manager, log, commandRunner)
		},
	))

	return cmd
}

// HandleUninstallRunE removes every installed component in reverse plan order.
func HandleUninstallRunE(
	cmd *cobra.Command,
	injector di.Injector,
	manager *configmanager.ConfigManager,
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

	installed := installedActions(plan)

	confirm.ShowUninstallPreview(sess.progress, uninstallPreview(sess.config.Spec.Name, installed))

	if len(installed) == 0 {
		notify.Infof(sess.progress, "nothing to uninstall")

		return nil
	}

	if !confirm.ShouldSkipPrompt(flags.IsForced(cmd)) && !confirm.PromptForConfirmation(sess.progress) {
		return confirm.ErrUninstallCancelled
	}

	notify.Titlef(sess.progress, "🗑️", "Uninstall installation %s...", sess.config.Spec.Name)

	var errs []error

	for _, action := range installed {
		err = sess.uninstall(cmd.Context(), action)
		if err == nil {
			continue
		}

		notify.Errorf(sess.progress, "%s", err)
		errs = append(errs, err)

		if !sess.config.Spec.Execution.ContinueOnError {
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to uninstall installation %s: %w", sess.config.Spec.Name, errors.Join(errs...))
	}

	notify.Successf(sess.progress, "installation %s uninstalled", sess.config.Spec.Name)

	return nil
}

// installedActions returns the actions of present components, dependents first.
func installedActions(plan *planner.Plan) []planner.Action {
	installed := make([]planner.Action, 0, plan.Len())

	for _, action := range plan.Actions {
		if action.Installed {
			installed = append(installed, action)
		}
	}

	slices.Reverse(installed)

	return installed
}

func uninstallPreview(name string, actions []planner.Action) *confirm.UninstallPreview {
	preview := &confirm.UninstallPreview{Installation: name}

	for _, action := range actions {
		preview.Releases = append(preview.Releases, confirm.Release{
			Name:      action.Spec.Release(),
			Namespace: action.Spec.Namespace,
			Version:   action.InstalledVersion,
		})
	}

	return preview
}

// uninstall removes the release of one component and forgets it in the state
// when the backend records installs.
func (s *session) uninstall(ctx context.Context, action planner.Action) error {
	argv, err := helm.UninstallArgs(s.planner.Config().Connection, action.Spec.Release(), action.Spec.Namespace)
	if err != nil {
		return fmt.Errorf("%s: %w", action.Name(), err)
	}

	notify.Activityf(s.progress, "uninstalling %s", action.Name())

	result, err := s.runner.Run(ctx, argv, "uninstall "+action.Name())
	if err != nil {
		return fmt.Errorf("%s: %w", action.Name(), err)
	}

	if !result.Succeeded() {
		return fmt.Errorf("%s: %w", action.Name(), result.Err())
	}

	remover, ok := s.state.(state.Remover)
	if ok {
		err = remover.RemoveInstalled(ctx, action.Name())
		if err != nil {
			return fmt.Errorf("%s: failed to update state: %w", action.Name(), err)
		}
	}

	s.log.WithField("component", action.Name()).Info("release uninstalled")
	notify.Successf(s.progress, "%s uninstalled", action.Name())

	return nil
}

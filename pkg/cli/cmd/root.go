package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kagenti/kagenti-installer/pkg/cli/cmd/installation"
	"github.com/kagenti/kagenti-installer/pkg/cli/flags"
	"github.com/kagenti/kagenti-installer/pkg/cli/ui"
	"github.com/kagenti/kagenti-installer/pkg/cli/ui/errorhandler"
	runtime "github.com/kagenti/kagenti-installer/pkg/di"
	"github.com/kagenti/kagenti-installer/pkg/utils/logger"
	"github.com/spf13/cobra"
)

const rootLongDesc = `kagenti-installer installs the Kagenti platform and its companion charts
into a Kubernetes cluster.

An installation is an ordered set of Helm-backed components declared in
kagenti.yaml. Components are installed in dependency order, upgraded when their
version changes and skipped when already converged.`

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(runtime.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime builds the command tree on the given runtime container.
func NewRootCmdWithRuntime(runtimeContainer *runtime.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "kagenti-installer",
		Short:        "Install and upgrade the Kagenti platform components",
		Long:         rootLongDesc,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	persistent := cmd.PersistentFlags()
	persistent.String(flags.ConfigFlagName, "", "Path to the installation file (default: search for kagenti.yaml)")
	persistent.String(runtime.LogLevelFlagName, "warning", "Log level (trace, debug, info, warning, error)")
	persistent.String(
		runtime.LogFormatFlagName,
		logger.FormatText,
		fmt.Sprintf("Log format (%s, %s)", logger.FormatText, logger.FormatJSON),
	)
	persistent.Duration(
		runtime.CommandTimeoutFlagName,
		0,
		"Kill a helm invocation running longer than this (0 disables the limit)",
	)

	cmd.AddCommand(installation.NewApplyCmd(runtimeContainer))
	cmd.AddCommand(installation.NewPlanCmd(runtimeContainer))
	cmd.AddCommand(installation.NewStatusCmd(runtimeContainer))
	cmd.AddCommand(installation.NewUninstallCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and handles errors. Interrupt and
// terminate signals cancel the command's context.
func Execute(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetContext(ui.WithDiagnostics(ctx, cmd.ErrOrStderr()))

	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// handleRootRunE handles the root command.
func handleRootRunE(
	cmd *cobra.Command,
	_ []string,
) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}

package di

import (
	"io"
	"os"
	"time"

	"github.com/kagenti/kagenti-installer/pkg/cli/ui"
	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/svc/installer"
	"github.com/kagenti/kagenti-installer/pkg/utils/logger"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	// LogLevelFlagName is the persistent flag read by the logger provider.
	LogLevelFlagName = "log-level"
	// LogFormatFlagName is the persistent flag selecting text or json logs.
	LogFormatFlagName = "log-format"
	// CommandTimeoutFlagName bounds every helm invocation; 0 disables the bound.
	CommandTimeoutFlagName = "command-timeout"

	defaultLogLevel = "warning"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by root command and tests.
// It registers the logger, the command runner and the component factory.
func NewRuntime() *Runtime {
	return New(
		ProvideLogger,
		ProvideCommandRunner,
		ProvideInstallerFactory,
	)
}

// ProvideLogger registers a logrus logger configured from the running command's
// --log-level and --log-format flags, writing to its diagnostics stream.
func ProvideLogger(i Injector) error {
	do.Provide(i, func(i Injector) (logrus.FieldLogger, error) {
		level, format := defaultLogLevel, logger.FormatText

		var out io.Writer = os.Stderr

		cmd, err := do.Invoke[*cobra.Command](i)
		if err == nil {
			level = stringFlag(cmd, LogLevelFlagName, level)
			format = stringFlag(cmd, LogFormatFlagName, format)
			out = ui.Diagnostics(cmd)
		}

		return logger.New(level, format, out)
	})

	return nil
}

// ProvideCommandRunner registers the os/exec backed command runner.
func ProvideCommandRunner(i Injector) error {
	do.Provide(i, func(i Injector) (runner.CommandRunner, error) {
		log, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}

		opts := []runner.Option{runner.WithLogger(log)}

		cmd, err := do.Invoke[*cobra.Command](i)
		if err == nil {
			flag := cmd.Flags().Lookup(CommandTimeoutFlagName)
			if flag != nil {
				timeout, parseErr := time.ParseDuration(flag.Value.String())
				if parseErr == nil && timeout > 0 {
					opts = append(opts, runner.WithTimeout(timeout))
				}
			}
		}

		return runner.NewExecRunner(opts...), nil
	})

	return nil
}

// ProvideInstallerFactory registers the built-in component catalog.
func ProvideInstallerFactory(i Injector) error {
	do.Provide(i, func(Injector) (*installer.Factory, error) {
		return installer.NewFactory(), nil
	})

	return nil
}

func stringFlag(cmd *cobra.Command, name, fallback string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || flag.Value.String() == "" {
		return fallback
	}

	return flag.Value.String()
}

// CommandRunnerModule registers a fixed command runner in place of ProvideCommandRunner.
func CommandRunnerModule(commandRunner runner.CommandRunner) Module {
	return func(i Injector) error {
		do.ProvideValue(i, commandRunner)

		return nil
	}
}

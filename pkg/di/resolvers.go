package di

import (
	"fmt"

	"github.com/kagenti/kagenti-installer/pkg/cmd/runner"
	"github.com/kagenti/kagenti-installer/pkg/svc/installer"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveLogger retrieves the logger dependency from the injector with consistent error handling.
func ResolveLogger(injector Injector) (logrus.FieldLogger, error) {
	log, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}

	return log, nil
}

// ResolveCommandRunner retrieves the command runner dependency from the injector.
func ResolveCommandRunner(injector Injector) (runner.CommandRunner, error) {
	commandRunner, err := do.Invoke[runner.CommandRunner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve command runner dependency: %w", err)
	}

	return commandRunner, nil
}

// ResolveInstallerFactory retrieves the component factory dependency from the injector.
func ResolveInstallerFactory(injector Injector) (*installer.Factory, error) {
	factory, err := do.Invoke[*installer.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve installer factory dependency: %w", err)
	}

	return factory, nil
}

// Handler decorators.

// WithCommandRunner decorates a handler to automatically resolve the logger and command runner.
func WithCommandRunner(
	handler func(cmd *cobra.Command, injector Injector, log logrus.FieldLogger, cmdRunner runner.CommandRunner) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		log, err := ResolveLogger(injector)
		if err != nil {
			return err
		}

		commandRunner, err := ResolveCommandRunner(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, log, commandRunner)
	}
}

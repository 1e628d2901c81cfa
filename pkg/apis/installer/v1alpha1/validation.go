package v1alpha1

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ValidateComponentSpec checks the static invariants of a single component.
func ValidateComponentSpec(spec ComponentSpec) error {
	if msgs := validation.IsDNS1123Label(spec.Name); len(msgs) > 0 {
		return fmt.Errorf("%w: %q: %s", ErrInvalidComponentName, spec.Name, strings.Join(msgs, "; "))
	}

	if msgs := validation.IsDNS1123Label(spec.Namespace); len(msgs) > 0 {
		return fmt.Errorf(
			"%w: %q for component %s: %s",
			ErrInvalidNamespace, spec.Namespace, spec.Name, strings.Join(msgs, "; "),
		)
	}

	if strings.TrimSpace(spec.Reference) == "" {
		return fmt.Errorf("%w: %s", ErrReferenceRequired, spec.Name)
	}

	if slices.Contains(spec.DependsOn, spec.Name) {
		return fmt.Errorf("%w: %s", ErrSelfDependency, spec.Name)
	}

	return nil
}

// Validate checks the installation for configuration errors and returns all of them joined.
func (i *Installation) Validate() error {
	var errs []error

	if i.APIVersion != APIVersion {
		errs = append(errs, fmt.Errorf("%w: %q (expected %s)", ErrInvalidAPIVersion, i.APIVersion, APIVersion))
	}

	if i.Kind != Kind {
		errs = append(errs, fmt.Errorf("%w: %q (expected %s)", ErrInvalidKind, i.Kind, Kind))
	}

	execution := i.Spec.Execution

	if !slices.Contains(ValidExecutionModes(), execution.Mode) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidExecutionMode, execution.Mode))
	}

	if !slices.Contains(ValidBackoffStrategies(), execution.Backoff) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidBackoffStrategy, execution.Backoff))
	}

	if !execution.StateBackend.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidStateBackend, execution.StateBackend))
	}

	if execution.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrNegativeRetries, execution.MaxRetries))
	}

	if execution.RetryBackoff.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrNegativeBackoff, execution.RetryBackoff.Duration))
	}

	for _, target := range []Target{i.Spec.Targets.Operator, i.Spec.Targets.CertManager} {
		if !target.IsEnabled() {
			continue
		}

		if msgs := validation.IsDNS1123Label(target.Namespace); len(msgs) > 0 {
			errs = append(errs, fmt.Errorf(
				"%w: %q: %s", ErrInvalidNamespace, target.Namespace, strings.Join(msgs, "; "),
			))
		}
	}

	for _, component := range i.Spec.Components {
		err := ValidateComponentSpec(component)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

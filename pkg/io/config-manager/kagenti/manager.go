package configmanager

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/kagenti/kagenti-installer/pkg/fsutil"
	configmanagerinterface "github.com/kagenti/kagenti-installer/pkg/io/config-manager"
	yamlmarshaller "github.com/kagenti/kagenti-installer/pkg/io/marshaller/yaml"
	"github.com/kagenti/kagenti-installer/pkg/utils/envvar"
	"github.com/kagenti/kagenti-installer/pkg/utils/notify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ErrInvalidConfig is returned when the loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigManager implements configuration management for v1alpha1.Installation configurations.
type ConfigManager struct {
	Viper           *viper.Viper
	fieldSelectors  []FieldSelector[v1alpha1.Installation]
	Config          *v1alpha1.Installation
	configLoaded    bool
	configFileFound bool
	Writer          io.Writer
	command         *cobra.Command
	flagValues      *v1alpha1.Installation // flag destinations; read back through pflag on load
}

var _ configmanagerinterface.ConfigManager[v1alpha1.Installation] = (*ConfigManager)(nil)

// NewConfigManager creates a new configuration manager with the specified field selectors.
func NewConfigManager(
	writer io.Writer,
	fieldSelectors ...FieldSelector[v1alpha1.Installation],
) *ConfigManager {
	viperInstance := InitializeViper()

	for _, selector := range fieldSelectors {
		// BindEnv only fails without a key.
		_ = viperInstance.BindEnv(selector.Key, EnvVarName(selector.Flag))
	}

	return &ConfigManager{
		Viper:          viperInstance,
		fieldSelectors: fieldSelectors,
		Config:         v1alpha1.NewInstallation(),
		Writer:         writer,
	}
}

// NewCommandConfigManager constructs a ConfigManager bound to the provided Cobra command.
// It registers a flag per selector and writes notifications to the command's output.
func NewCommandConfigManager(
	cmd *cobra.Command,
	selectors []FieldSelector[v1alpha1.Installation],
) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout(), selectors...)
	manager.command = cmd
	manager.AddFlagsFromFields(cmd)

	return manager
}

// SetConfigFile reads the given file instead of searching for kagenti.yaml.
// A missing explicit file is an error on load, unlike a missing searched one.
func (m *ConfigManager) SetConfigFile(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}

	expanded, err := fsutil.ExpandHomePath(path)
	if err == nil {
		path = expanded
	}

	m.Viper.SetConfigFile(path)
}

// AddFlagsFromFields registers one flag per field selector on cmd. Flags that
// already exist on the command are left alone.
func (m *ConfigManager) AddFlagsFromFields(cmd *cobra.Command) {
	if m.flagValues == nil {
		m.flagValues = v1alpha1.NewInstallation()
	}

	flags := cmd.Flags()

	for _, selector := range m.fieldSelectors {
		if selector.Flag == "" || flags.Lookup(selector.Flag) != nil {
			continue
		}

		fieldPtr := selector.Selector(m.flagValues)
		if isFieldEmpty(fieldPtr) {
			setFieldValue(fieldPtr, selector.DefaultValue)
		}

		addFlag(flags, fieldPtr, selector.Flag, selector.Description)
	}
}

func addFlag(flags *pflag.FlagSet, fieldPtr any, name, usage string) {
	switch ptr := fieldPtr.(type) {
	case pflag.Value:
		flags.Var(ptr, name, usage)
	case *string:
		flags.StringVar(ptr, name, *ptr, usage)
	case *bool:
		flags.BoolVar(ptr, name, *ptr, usage)
	case *int:
		flags.IntVar(ptr, name, *ptr, usage)
	case *metav1.Duration:
		flags.DurationVar(&ptr.Duration, name, ptr.Duration, usage)
	}
}

// Load loads the configuration with the specified options.
// Configuration priority: defaults < config file < environment variables < flags.
func (m *ConfigManager) Load(opts configmanagerinterface.LoadOptions) (*v1alpha1.Installation, error) {
	if !opts.Silent {
		m.notifyLoadingStart()
	}

	if m.configLoaded {
		if !opts.Silent {
			m.notifyConfigReused()
		}

		return m.Config, nil
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	flagOverrides := m.captureChangedFlagValues()

	err := m.unmarshalAndApplyDefaults()
	if err != nil {
		return nil, err
	}

	err = m.applyFlagOverrides(flagOverrides)
	if err != nil {
		return nil, err
	}

	m.expandEnvironment()

	if !opts.SkipValidation {
		err = m.validateConfig()
		if err != nil {
			return nil, err
		}
	}

	if !opts.Silent {
		m.notifyLoadingComplete()
	}

	m.configLoaded = true

	return m.Config, nil
}

// LoadConfig loads the configuration with notifications.
func (m *ConfigManager) LoadConfig() (*v1alpha1.Installation, error) {
	return m.Load(configmanagerinterface.LoadOptions{})
}

// LoadConfigSilent loads the configuration without outputting notifications.
func (m *ConfigManager) LoadConfigSilent() (*v1alpha1.Installation, error) {
	return m.Load(configmanagerinterface.LoadOptions{Silent: true})
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		m.configFileFound = false

		if !silent {
			m.notifyUsingDefaults()
		}

		return nil
	}

	m.configFileFound = true

	if !silent {
		m.notifyConfigFound()
	}

	return nil
}

func (m *ConfigManager) unmarshalAndApplyDefaults() error {
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = decodeHooks()
	}

	// TypeMeta from a config file is validated as written, not defaulted.
	if m.configFileFound {
		m.Config.APIVersion = ""
		m.Config.Kind = ""
	}

	err := m.Viper.Unmarshal(m.Config, decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if m.configFileFound {
		components, err := readComponents(m.Viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		m.Config.Spec.Components = components
	}

	for _, fieldSelector := range m.fieldSelectors {
		fieldPtr := fieldSelector.Selector(m.Config)
		if fieldPtr == nil {
			continue
		}

		if isFieldEmpty(fieldPtr) {
			setFieldValue(fieldPtr, fieldSelector.DefaultValue)

			continue
		}

		normalizeEnum(fieldPtr)
	}

	typeMeta := m.Config.TypeMeta
	m.Config.ApplyDefaults()

	if m.configFileFound {
		m.Config.TypeMeta = typeMeta
	}

	return nil
}

// normalizeEnum re-parses enum values so that "parallel" from a file or
// variable matches the "Parallel" constant. Unknown values are left for validation.
func normalizeEnum(fieldPtr any) {
	value, ok := fieldPtr.(pflag.Value)
	if !ok {
		return
	}

	_ = value.Set(value.String())
}

// readComponents decodes spec.components straight from the file. Viper folds map
// keys to lower case, which would corrupt case-sensitive chart value paths.
func readComponents(path string) ([]v1alpha1.ComponentSpec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the config file viper already read
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var installation v1alpha1.Installation

	err = yamlmarshaller.NewMarshaller[v1alpha1.Installation]().Unmarshal(data, &installation)
	if err != nil {
		return nil, fmt.Errorf("failed to decode components: %w", err)
	}

	return installation.Spec.Components, nil
}

func (m *ConfigManager) captureChangedFlagValues() map[string]string {
	if m.command == nil {
		return nil
	}

	overrides := make(map[string]string)

	m.command.Flags().Visit(func(f *pflag.Flag) {
		overrides[f.Name] = f.Value.String()
	})

	return overrides
}

func (m *ConfigManager) applyFlagOverrides(overrides map[string]string) error {
	if overrides == nil {
		return nil
	}

	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(m.Config)
		if fieldPtr == nil {
			continue
		}

		value, ok := overrides[selector.Flag]
		if !ok {
			continue
		}

		err := setFieldValueFromFlag(fieldPtr, value)
		if err != nil {
			return fmt.Errorf("failed to apply flag override for %s: %w", selector.Flag, err)
		}
	}

	return nil
}

// expandEnvironment resolves ${VAR} placeholders in paths and chart inputs, then
// a leading ~ in file paths.
func (m *ConfigManager) expandEnvironment() {
	spec := &m.Config.Spec
	spec.Connection.Kubeconfig = envvar.Expand(spec.Connection.Kubeconfig)

	kubeconfig, err := fsutil.ExpandHomePath(spec.Connection.Kubeconfig)
	if err == nil {
		spec.Connection.Kubeconfig = kubeconfig
	}

	for idx := range spec.Components {
		component := &spec.Components[idx]
		component.Reference = envvar.Expand(component.Reference)
		component.Version = envvar.Expand(component.Version)
		component.RepoURL = envvar.Expand(component.RepoURL)
		component.ValueFiles = fsutil.ExpandHomePaths(envvar.ExpandSlice(component.ValueFiles))
		component.SetValues = envvar.ExpandMap(component.SetValues)
		component.ExtraArgs = envvar.ExpandSlice(component.ExtraArgs)
	}
}

func (m *ConfigManager) validateConfig() error {
	err := m.Config.Validate()
	if err == nil {
		return nil
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "%s",
		Args:    []any{err.Error()},
		Writer:  m.Writer,
	})

	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

func (m *ConfigManager) notifyLoadingStart() {
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Load config...",
		Emoji:   "⏳",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyConfigReused() {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config already loaded, reusing existing config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyUsingDefaults() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "using default config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyConfigFound() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "'%s' found",
		Args:    []any{m.Viper.ConfigFileUsed()},
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyLoadingComplete() {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config loaded",
		Writer:  m.Writer,
	})
}

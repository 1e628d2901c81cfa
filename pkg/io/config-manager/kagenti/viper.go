package configmanager

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// ConfigName is the base name of the configuration file (kagenti.yaml).
	ConfigName = "kagenti"
	// ConfigType is the format of the configuration file.
	ConfigType = "yaml"
	// EnvPrefix prefixes every environment variable read by the manager.
	EnvPrefix = "KAGENTI"
	// UserConfigDir is searched after the working directory.
	UserConfigDir = "$HOME/.config/kagenti"
)

// InitializeViper creates a Viper instance that looks for kagenti.yaml in the
// working directory and the user config directory and reads KAGENTI_* variables.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(ConfigName)
	viperInstance.SetConfigType(ConfigType)
	viperInstance.AddConfigPath(".")
	viperInstance.AddConfigPath(UserConfigDir)

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viperInstance.AutomaticEnv()

	return viperInstance
}

// EnvVarName returns the environment variable bound to a flag, e.g.
// max-retries -> KAGENTI_MAX_RETRIES.
func EnvVarName(flag string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		metav1DurationDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// metav1DurationDecodeHook decodes "30s" style strings into metav1.Duration.
func metav1DurationDecodeHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeFor[metav1.Duration]()

	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}

		switch value := data.(type) {
		case string:
			if strings.TrimSpace(value) == "" {
				return metav1.Duration{}, nil
			}

			duration, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("parse duration %q: %w", value, err)
			}

			return metav1.Duration{Duration: duration}, nil
		case time.Duration:
			return metav1.Duration{Duration: value}, nil
		default:
			return data, nil
		}
	}
}

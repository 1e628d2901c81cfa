package flags

import (
	"github.com/kagenti/kagenti-installer/pkg/io/printer"
	"github.com/spf13/cobra"
)

const (
	// ConfigFlagName selects an explicit installation file instead of searching for kagenti.yaml.
	ConfigFlagName = "config"
	// OutputFlagName selects how plans, reports and status are printed.
	OutputFlagName = "output"
	// YesFlagName skips interactive confirmation.
	YesFlagName = "yes"
)

// ConfigFile returns the --config value visible to cmd, "" when unset.
func ConfigFile(cmd *cobra.Command) string {
	flag := cmd.Flag(ConfigFlagName)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}

// AddOutputFlag registers --output/-o on cmd, bound to format.
func AddOutputFlag(cmd *cobra.Command, format *printer.OutputFormat) {
	if *format == "" {
		*format = printer.OutputTable
	}

	cmd.Flags().VarP(format, OutputFlagName, "o", "Output format (table, json, yaml)")
}

// IsForced reports whether --yes was given. Commands without the flag are never forced.
func IsForced(cmd *cobra.Command) bool {
	flag := cmd.Flag(YesFlagName)
	if flag == nil {
		return false
	}

	return flag.Value.String() == "true"
}

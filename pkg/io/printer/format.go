package printer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOutputFormat is returned when an unsupported output format is requested.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// OutputFormat selects how plans, reports and status are rendered.
type OutputFormat string

const (
	// OutputTable renders an aligned table.
	OutputTable OutputFormat = "table"
	// OutputJSON renders indented JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML renders YAML.
	OutputYAML OutputFormat = "yaml"
)

// ValidOutputFormats returns the supported output formats.
func ValidOutputFormats() []OutputFormat {
	return []OutputFormat{OutputTable, OutputJSON, OutputYAML}
}

// Set for OutputFormat (pflag.Value interface).
func (f *OutputFormat) Set(value string) error {
	for _, format := range ValidOutputFormats() {
		if strings.EqualFold(value, string(format)) {
			*f = format

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s, %s)",
		ErrInvalidOutputFormat,
		value,
		OutputTable,
		OutputJSON,
		OutputYAML,
	)
}

// String returns the string representation of the OutputFormat.
func (f *OutputFormat) String() string {
	return string(*f)
}

// Type returns the type of the OutputFormat.
func (f *OutputFormat) Type() string {
	return "OutputFormat"
}

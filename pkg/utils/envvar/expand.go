// Package envvar expands ${VAR} placeholders in configuration values.
package envvar

import (
	"os"
	"regexp"
)

// pattern matches ${VAR_NAME} and ${VAR_NAME:-default}.
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Expand replaces placeholders with environment values. An unset or empty
// variable yields its default, or "" when none is given.
func Expand(value string) string {
	return ExpandWith(value, os.LookupEnv)
}

// ExpandWith is Expand with a custom lookup.
func ExpandWith(value string, lookup func(string) (string, bool)) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := pattern.FindStringSubmatch(match)

		resolved, ok := lookup(groups[1])
		if !ok || resolved == "" {
			return groups[2]
		}

		return resolved
	})
}

// ExpandSlice expands every element in place and returns values.
func ExpandSlice(values []string) []string {
	for idx, value := range values {
		values[idx] = Expand(value)
	}

	return values
}

// ExpandMap expands every value in place and returns values.
func ExpandMap(values map[string]string) map[string]string {
	for key, value := range values {
		values[key] = Expand(value)
	}

	return values
}

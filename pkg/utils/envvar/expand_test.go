package envvar_test

import (
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/utils/envvar"
	"github.com/stretchr/testify/assert"
)

func TestExpandWith(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"KUBE_CONTEXT": "kind-kagenti",
		"TAG":          "0.2.0",
		"EMPTY":        "",
	}

	lookup := func(name string) (string, bool) {
		value, ok := env[name]

		return value, ok
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no placeholders", input: "kagenti-system", expected: "kagenti-system"},
		{name: "single placeholder", input: "${KUBE_CONTEXT}", expected: "kind-kagenti"},
		{name: "embedded placeholder", input: "image.tag=${TAG}", expected: "image.tag=0.2.0"},
		{name: "unset without default", input: "x${MISSING}y", expected: "xy"},
		{name: "unset with default", input: "${MISSING:-v1.17.2}", expected: "v1.17.2"},
		{name: "empty uses default", input: "${EMPTY:-fallback}", expected: "fallback"},
		{name: "set ignores default", input: "${TAG:-9.9.9}", expected: "0.2.0"},
		{name: "multiple", input: "${KUBE_CONTEXT}/${TAG}", expected: "kind-kagenti/0.2.0"},
		{name: "bare dollar untouched", input: "$TAG", expected: "$TAG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, envvar.ExpandWith(tt.input, lookup))
		})
	}
}

func TestExpandCollections(t *testing.T) {
	t.Setenv("KAGENTI_TEST_REGISTRY", "ghcr.io/kagenti")

	values := envvar.ExpandSlice([]string{"--set", "registry=${KAGENTI_TEST_REGISTRY}"})
	assert.Equal(t, []string{"--set", "registry=ghcr.io/kagenti"}, values)

	settings := envvar.ExpandMap(map[string]string{"image.registry": "${KAGENTI_TEST_REGISTRY}"})
	assert.Equal(t, map[string]string{"image.registry": "ghcr.io/kagenti"}, settings)
}

package confirm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/cli/ui/confirm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:paralleltest // Subtests share the TTY checker override.
func TestShouldSkipPrompt(t *testing.T) {
	tests := []struct {
		name     string
		force    bool
		isTTY    bool
		expected bool
	}{
		{name: "force on a terminal", force: true, isTTY: true, expected: true},
		{name: "force without terminal", force: true, isTTY: false, expected: true},
		{name: "no terminal", force: false, isTTY: false, expected: true},
		{name: "terminal without force", force: false, isTTY: true, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			restoreTTY := confirm.SetTTYCheckerForTests(func() bool { return testCase.isTTY })
			defer restoreTTY()

			assert.Equal(t, testCase.expected, confirm.ShouldSkipPrompt(testCase.force))
		})
	}
}

//nolint:paralleltest // Subtests share the stdin override.
func TestPromptForConfirmation(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "yes\n", expected: true},
		{input: "YES\n", expected: true},
		{input: "  Yes \n", expected: true},
		{input: "y\n", expected: false},
		{input: "no\n", expected: false},
		{input: "\n", expected: false},
		{input: "", expected: false},
	}

	for _, testCase := range tests {
		t.Run(strings.TrimSpace(testCase.input), func(t *testing.T) {
			restoreStdin := confirm.SetStdinReaderForTests(strings.NewReader(testCase.input))
			defer restoreStdin()

			var out bytes.Buffer

			assert.Equal(t, testCase.expected, confirm.PromptForConfirmation(&out))
			assert.Contains(t, out.String(), `Type "yes" to confirm uninstall`)
		})
	}
}

func TestShowUninstallPreview(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	confirm.ShowUninstallPreview(&out, &confirm.UninstallPreview{
		Installation: "kagenti",
		Releases: []confirm.Release{
			{Name: "kagenti-platform-operator", Namespace: "kagenti-system", Version: "0.2.0"},
			{Name: "cert-manager", Namespace: "cert-manager"},
		},
	})

	text := out.String()
	assert.Contains(t, text, "The following releases will be uninstalled:")
	assert.Contains(t, text, "Installation: kagenti")
	assert.Contains(t, text, "kagenti-platform-operator (namespace kagenti-system, version 0.2.0)")
	assert.Contains(t, text, "cert-manager (namespace cert-manager)")
}

func TestShowUninstallPreview_Empty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	confirm.ShowUninstallPreview(&out, &confirm.UninstallPreview{Installation: "kagenti"})

	assert.Contains(t, out.String(), "Releases: none installed")
}

//nolint:paralleltest // Mutates the TTY checker override.
func TestIsTTY_Override(t *testing.T) {
	restoreTTY := confirm.SetTTYCheckerForTests(func() bool { return true })
	require.True(t, confirm.IsTTY())
	restoreTTY()

	restoreTTY = confirm.SetTTYCheckerForTests(func() bool { return false })
	defer restoreTTY()

	require.False(t, confirm.IsTTY())
}

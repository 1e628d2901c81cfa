package ui_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/cli/ui"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestDiagnostics_FromContext(t *testing.T) {
	t.Parallel()

	var stream, stderr bytes.Buffer

	cmd := &cobra.Command{Use: "apply"}
	cmd.SetErr(&stderr)
	cmd.SetContext(ui.WithDiagnostics(context.Background(), &stream))

	assert.Same(t, &stream, ui.Diagnostics(cmd))
}

func TestDiagnostics_FallsBackToErrorStream(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer

	cmd := &cobra.Command{Use: "apply"}
	cmd.SetErr(&stderr)

	assert.Same(t, &stderr, ui.Diagnostics(cmd))

	cmd.SetContext(ui.WithDiagnostics(context.Background(), nil))
	assert.Same(t, &stderr, ui.Diagnostics(cmd))
}

// Package ui holds terminal helpers shared by the commands.
package ui

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

type diagnosticsKey struct{}

// WithDiagnostics returns a copy of ctx carrying writer as the stream for logs
// and progress output.
//
// The error executor captures the command's error stream while it runs, so
// anything that must reach the terminal during a run is written here instead.
func WithDiagnostics(ctx context.Context, writer io.Writer) context.Context {
	if writer == nil {
		return ctx
	}

	return context.WithValue(ctx, diagnosticsKey{}, writer)
}

// Diagnostics returns the diagnostics stream of cmd: the writer stored in its
// context, or the command's error stream.
func Diagnostics(cmd *cobra.Command) io.Writer {
	ctx := cmd.Context()
	if ctx != nil {
		if writer, ok := ctx.Value(diagnosticsKey{}).(io.Writer); ok {
			return writer
		}
	}

	return cmd.ErrOrStderr()
}

// Package cli provides the command line surface of kagenti-installer.
//
// Subpackages:
//
//   - cli/cmd: the root command and the installation commands
//   - cli/flags: names and readers of shared flags
//   - cli/ui: diagnostics stream, confirmation prompts and error handling
package cli

// Package cmd assembles the kagenti-installer command tree.
package cmd

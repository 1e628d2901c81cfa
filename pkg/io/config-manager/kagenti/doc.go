// Package configmanager loads v1alpha1.Installation configurations from kagenti.yaml,
// KAGENTI_* environment variables and command flags.
//
// This package shares the "configmanager" package name with its parent directory
// (pkg/io/config-manager). Import with an alias for clarity:
//
//	import kagenticonfigmanager "github.com/kagenti/kagenti-installer/pkg/io/config-manager/kagenti"
package configmanager

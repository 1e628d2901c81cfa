// Package utils holds small helpers shared by the installer packages:
//
//   - envvar: ${VAR} expansion in configuration values
//   - logger: logrus construction
//   - notify: colored, symbol-prefixed progress messages
package utils

// Package apis provides API type definitions for kagenti-installer resources.
//
// The types follow Kubernetes API conventions and are serializable to YAML:
//
//   - installer: the Installation resource read from kagenti.yaml
package apis

// Package io provides input and output helpers for installation configuration and reports.
//
// Subpackages:
//   - config-manager: Configuration loading and management
//   - marshaller: Serialization and deserialization
//   - printer: Rendering of plans, reports and status tables
package io

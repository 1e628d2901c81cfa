// Package v1alpha1 contains the configuration types of a kagenti installation: the
// component descriptors, the per-target configuration surface and the execution options.
package v1alpha1

// Package installation provides the commands that plan, apply, inspect and remove
// an installation: an ordered set of Helm-backed components.
package installation

// Package svc provides the service layer of kagenti-installer.
//
// Subpackages:
//   - installer: built-in component catalog (cert-manager, platform operator)
//   - registry: ordered component registry
//   - planner: dependency ordering and install/upgrade/skip decisions
//   - orchestrator: plan execution with retries and a per-action state machine
//   - state: installed-version readers and writers (helm, secrets, file, memory)
package svc

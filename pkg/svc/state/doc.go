// Package state answers "which version of a component is installed?".
//
// Readers back the planner and the orchestrator's re-check before retries. Several
// backends exist: the helm CLI, the Helm release secrets in the cluster, a local
// JSON file and an in-memory map. Backends that can record successful installs
// also implement Writer.
package state

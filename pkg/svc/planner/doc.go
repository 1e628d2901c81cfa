// Package planner turns a component registry and the observed cluster state into
// an ordered list of install, upgrade and skip actions.
//
// Actions are topologically sorted by declared dependencies, ties broken by
// registration order, and grouped into levels whose members share no dependency
// edge. Planning fails before any side effect when a dependency is unknown or the
// graph has a cycle.
package planner

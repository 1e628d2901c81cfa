// Package installer is the component catalog: it turns an Installation into the
// registry the planner works on.
//
// Built-in components live in their own sub-packages (certmanager,
// platformoperator) and are added ahead of user-declared components, so user
// components may depend on them by name.
package installer

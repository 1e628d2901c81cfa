// Package helm builds helm CLI invocations and parses their output.
//
// Charts are installed with `helm upgrade --install`, which is idempotent on the
// helm side; argument lists are assembled by typed builders and validated before
// any process is spawned.
package helm

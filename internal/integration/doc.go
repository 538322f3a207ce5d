// Package integration holds end-to-end tests that run the watcher, the
// reconciler and a gitglob.Client together against the real filesystem.
package integration

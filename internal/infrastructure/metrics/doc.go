// Package metrics exposes expvar-published counters for the session
// controller: advances per node, restarts, exports, and collaborator
// failures. Values are readable through Read for CLI reporting.
package metrics

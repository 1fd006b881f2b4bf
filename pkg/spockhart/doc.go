// Package spockhart provides a minimal public façade for running guided
// sessions without importing internal packages. It re-exports the flow types
// and exposes a Runtime that wires a whiteboard and a download directory to
// each new session.
package spockhart

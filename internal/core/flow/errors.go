// Package flow defines domain-specific errors
package flow

import "errors"

// Domain errors - defined once, used everywhere
var (
	// Graph errors
	ErrEmptyFlow         = errors.New("flow has no nodes")
	ErrInvalidEntryPoint = errors.New("entry point node not found")
	ErrInvalidReveal     = errors.New("reveal node not found or equal to entry point")
	ErrUnreachableNode   = errors.New("node not reachable from entry point")
	ErrCyclicFlow        = errors.New("advance choices form a cycle")
	ErrNoExport          = errors.New("no export choice reachable from reveal node")
	ErrDeadEnd           = errors.New("node neither leads to nor follows the reveal node")

	// Node errors
	ErrInvalidNodeID = errors.New("invalid node ID")
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("duplicate node ID")
	ErrNoChoices     = errors.New("node has no choices")

	// Choice errors
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrTargetNodeNotFound = errors.New("target node not found")
)

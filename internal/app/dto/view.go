// Package dto holds the read models the session controller hands to hosts.
package dto

import (
	"time"

	"github.com/spockhart/spockhart/internal/core/flow"
)

// StepView is everything a host needs to render the current step
type StepView struct {
	SessionID  string       `json:"session_id"`
	NodeID     string       `json:"node_id"`
	Prompt     string       `json:"prompt"`
	Note       string       `json:"note,omitempty"`
	Choices    []ChoiceView `json:"choices"`
	Reflection string       `json:"reflection,omitempty"`
	AtReveal   bool         `json:"at_reveal"`
	Path       []string     `json:"path"`
}

// ChoiceView is one rendered choice
type ChoiceView struct {
	Index  int         `json:"index"`
	Label  string      `json:"label"`
	Action flow.Action `json:"action"`
	Next   string      `json:"next,omitempty"`
}

// SessionSnapshot is a point-in-time copy of the session
type SessionSnapshot struct {
	ID        string    `json:"id"`
	CurrentID string    `json:"current_id"`
	Path      []string  `json:"path"`
	StartedAt time.Time `json:"started_at"`
}

// Depth returns how many steps were taken since the entry node
func (s SessionSnapshot) Depth() int {
	if len(s.Path) == 0 {
		return 0
	}
	return len(s.Path) - 1
}

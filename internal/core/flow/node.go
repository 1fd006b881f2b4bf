// Package flow provides node and choice definitions
package flow

import "fmt"

// Action tells the controller what selecting a choice does
type Action string

const (
	// ActionAdvance moves the session to the choice's Next node
	ActionAdvance Action = "advance"
	// ActionRestart resets the session to the entry node
	ActionRestart Action = "restart"
	// ActionExport snapshots the whiteboard without moving the session
	ActionExport Action = "export"
)

// Valid reports whether a is a known action
func (a Action) Valid() bool {
	switch a {
	case ActionAdvance, ActionRestart, ActionExport:
		return true
	}
	return false
}

// Choice is one selectable answer on a node.
// Only ActionAdvance choices carry a Next node id.
type Choice struct {
	Label  string `json:"label" yaml:"label" validate:"required"`
	Action Action `json:"action,omitempty" yaml:"action,omitempty" validate:"required,oneof=advance restart export"`
	Next   string `json:"next,omitempty" yaml:"next,omitempty" validate:"omitempty,node_id"`
}

// AdvanceTo builds a choice that moves to the node next
func AdvanceTo(label, next string) Choice {
	return Choice{Label: label, Action: ActionAdvance, Next: next}
}

// Restart builds a choice that resets the session
func Restart(label string) Choice {
	return Choice{Label: label, Action: ActionRestart}
}

// Export builds a choice that exports the whiteboard snapshot
func Export(label string) Choice {
	return Choice{Label: label, Action: ActionExport}
}

// Validate ensures choice integrity
func (c Choice) Validate() error {
	if c.Label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidChoice)
	}
	if !c.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q on %q", ErrInvalidChoice, c.Action, c.Label)
	}
	if c.Action == ActionAdvance && c.Next == "" {
		return fmt.Errorf("%w: %q advances nowhere", ErrInvalidChoice, c.Label)
	}
	if c.Action != ActionAdvance && c.Next != "" {
		return fmt.Errorf("%w: %s choice %q must not name a next node", ErrInvalidChoice, c.Action, c.Label)
	}
	return nil
}

// IsAdvance checks if the choice moves the session
func (c Choice) IsAdvance() bool {
	return c.Action == ActionAdvance
}

// Node is one step of the flow
type Node struct {
	ID      string   `json:"id" yaml:"id" validate:"required,node_id"`
	Prompt  string   `json:"prompt" yaml:"prompt" validate:"required"`
	Note    string   `json:"note,omitempty" yaml:"note,omitempty"`
	Sketch  string   `json:"sketch,omitempty" yaml:"sketch,omitempty"`
	Choices []Choice `json:"choices" yaml:"choices" validate:"required,min=1,dive"`
}

// Validate ensures node integrity
func (n Node) Validate() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if len(n.Choices) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChoices, n.ID)
	}
	for _, c := range n.Choices {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	return nil
}

// Label returns the whiteboard label for the node
func (n Node) Label() string {
	if n.Sketch != "" {
		return n.Sketch
	}
	return n.ID
}

// Find returns the first choice whose label, next node id, or action name
// equals key. Labels win over ids and ids win over action names.
func (n Node) Find(key string) (Choice, bool) {
	for _, c := range n.Choices {
		if c.Label == key {
			return c, true
		}
	}
	for _, c := range n.Choices {
		if c.IsAdvance() && c.Next == key {
			return c, true
		}
	}
	for _, c := range n.Choices {
		if !c.IsAdvance() && string(c.Action) == key {
			return c, true
		}
	}
	return Choice{}, false
}

// Has reports whether c is one of the node's choices
func (n Node) Has(c Choice) bool {
	for _, own := range n.Choices {
		if own == c {
			return true
		}
	}
	return false
}

func (n Node) clone() Node {
	out := n
	out.Choices = append([]Choice(nil), n.Choices...)
	return out
}

// Package content holds the built-in starter flow and its reflection texts.
// The graph and the reflection table are kept apart so categories can be
// reworded or added without touching traversal.
package content

import (
	"github.com/spockhart/spockhart/internal/core/flow"
	"github.com/spockhart/spockhart/internal/core/reflection"
)

// Well-known node ids of the starter flow
const (
	Start  = "start"
	Reveal = "reveal"
)

// Categories are the leaf nodes that lead straight into the reveal.
var Categories = []string{
	"handoffs",
	"approvals",
	"rework",
	"manual",
	"inconsistent",
	"ramp",
	"bottleneck",
}

const showPattern = "Show me the pattern"

func leaf(id, prompt, note, sketch string) flow.Node {
	return flow.Node{
		ID:      id,
		Prompt:  prompt,
		Note:    note,
		Sketch:  sketch,
		Choices: []flow.Choice{flow.AdvanceTo(showPattern, Reveal)},
	}
}

// Nodes returns the starter flow definition.
func Nodes() []flow.Node {
	return []flow.Node{
		{
			ID:     Start,
			Prompt: "What brings you here?",
			Note:   "No email. No follow-up. This is just a quick thinking exercise.",
			Choices: []flow.Choice{
				flow.AdvanceTo("Things take too long", "slow"),
				flow.AdvanceTo("Mistakes keep happening", "errors"),
				flow.AdvanceTo("Ownership is unclear", "ownership"),
				flow.AdvanceTo("Growth is breaking us", "growth"),
			},
		},
		{
			ID:     "slow",
			Prompt: "Where does work pile up?",
			Note:   "We’ll sketch what you tell us. You’ll see it organize in real time.",
			Sketch: "Slow flow",
			Choices: []flow.Choice{
				flow.AdvanceTo("Handoffs between people/teams", "handoffs"),
				flow.AdvanceTo("Approvals and waiting", "approvals"),
				flow.AdvanceTo("Rework / unclear requirements", "rework"),
			},
		},
		{
			ID:     "errors",
			Prompt: "When do mistakes usually show up?",
			Note:   "No judgement. This is just pattern-finding.",
			Sketch: "Errors",
			Choices: []flow.Choice{
				flow.AdvanceTo("Manual data entry / copying", "manual"),
				flow.AdvanceTo("Inconsistent process steps", "inconsistent"),
				flow.AdvanceTo("New hires ramp slowly", "ramp"),
			},
		},
		{
			ID:     "ownership",
			Prompt: "What does it feel like day-to-day?",
			Note:   "If you’ve been carrying this, that’s exhausting.",
			Sketch: "Unclear ownership",
			Choices: []flow.Choice{
				flow.AdvanceTo("Too many “who owns this?” moments", "handoffs"),
				flow.AdvanceTo("Decisions get stuck", "approvals"),
				flow.AdvanceTo("Everything routes through one person", "bottleneck"),
			},
		},
		{
			ID:     "growth",
			Prompt: "What’s breaking first as you grow?",
			Note:   "This is common. Systems that worked at 5 people break at 15.",
			Sketch: "Growth pressure",
			Choices: []flow.Choice{
				flow.AdvanceTo("Hiring / onboarding is chaotic", "ramp"),
				flow.AdvanceTo("Customer delivery is inconsistent", "inconsistent"),
				flow.AdvanceTo("Coordination and handoffs", "handoffs"),
			},
		},

		leaf("handoffs", "Got it. Let’s show the handoffs.", "We’ll highlight the friction point.", "Handoffs"),
		leaf("approvals", "Got it. Let’s show the waiting.", "We’ll highlight where time disappears.", "Waiting"),
		leaf("rework", "Got it. Let’s show the rework loop.", "We’ll highlight where clarity breaks.", "Rework loop"),
		leaf("manual", "Got it. Let’s show the manual points.", "We’ll highlight where errors creep in.", "Manual copying"),
		leaf("inconsistent", "Got it. Let’s show inconsistency.", "We’ll highlight where quality drifts.", "Inconsistent quality"),
		leaf("ramp", "Got it. Let’s show ramp time.", "We’ll highlight where knowledge is trapped.", "Ramp / onboarding"),
		leaf("bottleneck", "Got it. Let’s show the bottleneck.", "We’ll highlight where flow depends on one person.", "Single-person bottleneck"),

		{
			ID:     Reveal,
			Prompt: "Here’s the pattern we’re seeing.",
			Note:   "This isn’t a full diagnosis. It’s a clean reflection of what you said.",
			Sketch: "Pattern",
			Choices: []flow.Choice{
				flow.Export("Download this snapshot"),
				flow.Restart("Restart"),
			},
		},
	}
}

// Flow returns the validated starter graph.
func Flow() *flow.Graph {
	return flow.MustNew(Start, Reveal, Nodes())
}

// Fallback is shown when no category can be read from the path.
const Fallback = "You’re seeing friction in flow. That’s usually a system constraint showing up under pressure."

// Texts maps each category to its reflection.
func Texts() map[string]string {
	return map[string]string{
		"handoffs":     "Work is slowing down in handoffs. That’s usually a design issue: unclear ownership + messy interfaces.",
		"approvals":    "Time is disappearing into waiting. That’s usually missing decision rules and lightweight governance.",
		"rework":       "You’ve got a rework loop. That’s usually unclear inputs and a process that can’t catch errors early.",
		"manual":       "Manual copying is creating errors. That’s usually a good automation candidate after the process is clean.",
		"inconsistent": "Quality is drifting. That’s usually missing standards, checks, and feedback loops.",
		"ramp":         "Ramp time is high. That’s usually knowledge trapped in people instead of the system.",
		"bottleneck":   "Flow depends on one person. That’s usually a structure problem, not a motivation problem.",
	}
}

// Reflections returns the starter reflection table.
func Reflections() *reflection.Table {
	return reflection.NewTable(Texts(), Fallback)
}

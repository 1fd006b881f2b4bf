package flowdef

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spockhart/spockhart/internal/content"
	"github.com/spockhart/spockhart/internal/core/flow"
)

func TestMermaid_Starter(t *testing.T) {
	out := Mermaid(content.Flow())

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `start["What brings you here?"]`)
	assert.Contains(t, out, `start -->|"Things take too long"| slow`)
	assert.Contains(t, out, `bottleneck -->|"Show me the pattern"| reveal`)
	assert.Contains(t, out, `reveal -.->|"Download this snapshot"| export_snapshot`)
	assert.Contains(t, out, `reveal -.->|"Restart"| start`)
	assert.Equal(t, 1, strings.Count(out, "export_snapshot(("))
}

func TestMermaid_EscapesQuotes(t *testing.T) {
	g := flow.MustNew("a", "b", []flow.Node{
		{ID: "a", Prompt: `Say "hi"`, Choices: []flow.Choice{flow.AdvanceTo(`go "on"`, "b")}},
		{ID: "b", Prompt: "done", Choices: []flow.Choice{flow.Export("save")}},
	})
	out := Mermaid(g)

	assert.Contains(t, out, `a["Say #quot;hi#quot;"]`)
	assert.Contains(t, out, `a -->|"go #quot;on#quot;"| b`)
	assert.NotContains(t, out, "-.->|\"save\"| a")
}

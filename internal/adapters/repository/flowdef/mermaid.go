package flowdef

import (
	"fmt"
	"strings"

	"github.com/spockhart/spockhart/internal/core/flow"
)

var mermaidText = strings.NewReplacer(`"`, "#quot;", "\n", " ")

// Mermaid renders the graph as a Mermaid flowchart. Advance choices are solid
// edges; restart and export choices are dotted edges to the entry node and to
// a shared export marker.
func Mermaid(g *flow.Graph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", n.ID, mermaidText.Replace(n.Prompt))
	}
	exports := false
	for _, n := range g.Nodes() {
		for _, c := range n.Choices {
			label := mermaidText.Replace(c.Label)
			switch c.Action {
			case flow.ActionAdvance:
				fmt.Fprintf(&b, "  %s -->|\"%s\"| %s\n", n.ID, label, c.Next)
			case flow.ActionRestart:
				fmt.Fprintf(&b, "  %s -.->|\"%s\"| %s\n", n.ID, label, g.Entry())
			case flow.ActionExport:
				exports = true
				fmt.Fprintf(&b, "  %s -.->|\"%s\"| export_snapshot\n", n.ID, label)
			}
		}
	}
	if exports {
		b.WriteString("  export_snapshot((snapshot))\n")
	}
	return b.String()
}

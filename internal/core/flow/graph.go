// Package flow provides the guided flow graph: an immutable set of prompt
// nodes connected by choices, validated once when it is built.
package flow

import "fmt"

// Graph is a validated, read-only flow.
// It is built by New and never mutated afterwards.
type Graph struct {
	entry  string
	reveal string
	order  []string
	nodes  map[string]Node
}

// New builds a Graph and checks every structural invariant up front so that
// lookups during a session cannot fail.
func New(entry, reveal string, nodes []Node) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyFlow
	}
	g := &Graph{
		entry:  entry,
		reveal: reveal,
		order:  make([]string, 0, len(nodes)),
		nodes:  make(map[string]Node, len(nodes)),
	}
	for _, n := range nodes {
		if err := n.Validate(); err != nil {
			return nil, err
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		g.nodes[n.ID] = n.clone()
		g.order = append(g.order, n.ID)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNew is New for statically defined flows; it panics on an invalid flow.
func MustNew(entry, reveal string, nodes []Node) *Graph {
	g, err := New(entry, reveal, nodes)
	if err != nil {
		panic(fmt.Sprintf("flow: %v", err))
	}
	return g
}

// Entry returns the id every session starts at
func (g *Graph) Entry() string { return g.entry }

// Reveal returns the id of the node that shows the reflection
func (g *Graph) Reveal() string { return g.reveal }

// Len returns the number of nodes
func (g *Graph) Len() int { return len(g.order) }

// IDs returns node ids in definition order
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// Nodes returns copies of all nodes in definition order
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].clone())
	}
	return out
}

// Lookup returns a copy of the node with the given id
func (g *Graph) Lookup(id string) (Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n.clone(), nil
}

// Has reports whether id names a node
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) validate() error {
	if !g.Has(g.entry) {
		return fmt.Errorf("%w: %q", ErrInvalidEntryPoint, g.entry)
	}
	if !g.Has(g.reveal) || g.reveal == g.entry {
		return fmt.Errorf("%w: %q", ErrInvalidReveal, g.reveal)
	}
	for _, id := range g.order {
		for _, c := range g.nodes[id].Choices {
			if c.IsAdvance() && !g.Has(c.Next) {
				return fmt.Errorf("%w: %s -> %s", ErrTargetNodeNotFound, id, c.Next)
			}
		}
	}
	if g.hasCycle() {
		return ErrCyclicFlow
	}
	reachable := g.reach(g.entry, g.successors())
	for _, id := range g.order {
		if !reachable[id] {
			return fmt.Errorf("%w: %s", ErrUnreachableNode, id)
		}
	}
	afterReveal := g.reach(g.reveal, g.successors())
	exportable := false
	for id := range afterReveal {
		for _, c := range g.nodes[id].Choices {
			if c.Action == ActionExport {
				exportable = true
			}
		}
	}
	if !exportable {
		return ErrNoExport
	}
	beforeReveal := g.reach(g.reveal, g.predecessors())
	for _, id := range g.order {
		if !beforeReveal[id] && !afterReveal[id] {
			return fmt.Errorf("%w: %s", ErrDeadEnd, id)
		}
	}
	return nil
}

func (g *Graph) successors() map[string][]string {
	adj := make(map[string][]string, len(g.nodes))
	for _, id := range g.order {
		for _, c := range g.nodes[id].Choices {
			if c.IsAdvance() {
				adj[id] = append(adj[id], c.Next)
			}
		}
	}
	return adj
}

func (g *Graph) predecessors() map[string][]string {
	adj := make(map[string][]string, len(g.nodes))
	for from, tos := range g.successors() {
		for _, to := range tos {
			adj[to] = append(adj[to], from)
		}
	}
	return adj
}

// reach returns every node reachable from root, root included.
func (g *Graph) reach(root string, adj map[string][]string) map[string]bool {
	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if !seen[v] {
				seen[v] = true
				queue = append(queue, v)
			}
		}
	}
	return seen
}

// hasCycle detects a cycle among advance choices using DFS with coloring.
func (g *Graph) hasCycle() bool {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting
		black = 2 // visited
	)
	color := make(map[string]int, len(g.nodes))
	adj := g.successors()
	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				return true // back-edge
			}
			if color[v] == white && dfs(v) {
				return true
			}
		}
		color[u] = black
		return false
	}
	for _, id := range g.order {
		if color[id] == white && dfs(id) {
			return true
		}
	}
	return false
}

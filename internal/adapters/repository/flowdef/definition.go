// Package flowdef loads flow definitions from YAML files and writes them back
// out. A definition carries both the graph and its reflection texts; loading
// validates everything up front so a bad file stops the program at startup.
package flowdef

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spockhart/spockhart/internal/content"
	"github.com/spockhart/spockhart/internal/core/flow"
	"github.com/spockhart/spockhart/internal/core/reflection"
	"github.com/spockhart/spockhart/pkg/validation"
)

// StarterName is the name of the built-in flow
const StarterName = "starter"

// ErrUnknownCategory is returned when a reflection names no flow node
var ErrUnknownCategory = errors.New("reflection category is not a node of the flow")

// Definition is the file form of a flow
type Definition struct {
	Name        string            `yaml:"name" validate:"required"`
	Entry       string            `yaml:"entry" validate:"required,node_id"`
	Reveal      string            `yaml:"reveal" validate:"required,node_id"`
	Fallback    string            `yaml:"fallback" validate:"required"`
	Reflections map[string]string `yaml:"reflections" validate:"required,min=1,dive,keys,node_id,endkeys,required"`
	Nodes       []flow.Node       `yaml:"nodes" validate:"required,min=1,dive"`
}

// Validate checks cross-field rules the struct tags cannot express
func (d *Definition) Validate() error {
	ids := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = true
	}
	for category := range d.Reflections {
		if !ids[category] || category == d.Entry || category == d.Reveal {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
		}
	}
	return nil
}

// normalize copies the nodes and fills in the advance action for choices
// written as a bare label/next pair.
func (d *Definition) normalize() {
	nodes := make([]flow.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		n.Choices = append([]flow.Choice(nil), n.Choices...)
		for j := range n.Choices {
			if n.Choices[j].Action == "" && n.Choices[j].Next != "" {
				n.Choices[j].Action = flow.ActionAdvance
			}
		}
		nodes[i] = n
	}
	d.Nodes = nodes
}

// Flow is a loaded, validated definition
type Flow struct {
	Name        string
	Graph       *flow.Graph
	Reflections *reflection.Table
}

// Build validates d and turns it into a Flow
func (d Definition) Build() (*Flow, error) {
	d.normalize()
	if err := validation.Struct(&d); err != nil {
		return nil, fmt.Errorf("flow %q: %w", d.Name, err)
	}
	g, err := flow.New(d.Entry, d.Reveal, d.Nodes)
	if err != nil {
		return nil, fmt.Errorf("flow %q: %w", d.Name, err)
	}
	return &Flow{
		Name:        d.Name,
		Graph:       g,
		Reflections: reflection.NewTable(d.Reflections, d.Fallback),
	}, nil
}

// Parse decodes a YAML definition. Unknown keys are rejected.
func Parse(data []byte) (*Flow, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Definition
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode flow definition: %w", err)
	}
	return d.Build()
}

// Load reads and parses a YAML definition file
func Load(path string) (*Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow definition: %w", err)
	}
	return Parse(data)
}

// Starter returns the built-in flow
func Starter() *Flow {
	return &Flow{
		Name:        StarterName,
		Graph:       content.Flow(),
		Reflections: content.Reflections(),
	}
}

// Open returns the flow at path, or the starter flow when path is empty
func Open(path string) (*Flow, error) {
	if path == "" {
		return Starter(), nil
	}
	return Load(path)
}

// Definition converts f back to its file form
func (f *Flow) Definition() Definition {
	texts := make(map[string]string)
	for _, category := range f.Reflections.Categories() {
		texts[category], _ = f.Reflections.Text(category)
	}
	return Definition{
		Name:        f.Name,
		Entry:       f.Graph.Entry(),
		Reveal:      f.Graph.Reveal(),
		Fallback:    f.Reflections.Fallback(),
		Reflections: texts,
		Nodes:       f.Graph.Nodes(),
	}
}

// Encode renders f as a YAML definition file
func (f *Flow) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f.Definition()); err != nil {
		return nil, fmt.Errorf("encode flow definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode flow definition: %w", err)
	}
	return buf.Bytes(), nil
}

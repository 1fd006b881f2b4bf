// Package reflection maps the category a user ended up in to the text shown
// on the reveal step.
package reflection

import "sort"

// Table is an immutable category -> text mapping with a fallback.
type Table struct {
	texts    map[string]string
	fallback string
}

// NewTable copies texts so later changes to the map do not leak in.
func NewTable(texts map[string]string, fallback string) *Table {
	t := &Table{texts: make(map[string]string, len(texts)), fallback: fallback}
	for k, v := range texts {
		t.texts[k] = v
	}
	return t
}

// Text returns the reflection for one category
func (t *Table) Text(category string) (string, bool) {
	text, ok := t.texts[category]
	return text, ok
}

// Fallback returns the generic reflection
func (t *Table) Fallback() string { return t.fallback }

// Categories returns the known categories sorted by name
func (t *Table) Categories() []string {
	out := make([]string, 0, len(t.texts))
	for k := range t.texts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Category finds the last known category visited before the last occurrence
// of reveal in path. Intermediate non-category steps between the category and
// reveal are skipped.
func (t *Table) Category(path []string, reveal string) (string, bool) {
	end := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == reveal {
			end = i
			break
		}
	}
	for i := end - 1; i >= 0; i-- {
		if _, ok := t.texts[path[i]]; ok {
			return path[i], true
		}
	}
	return "", false
}

// Derive returns the reflection for a path that reached reveal. Any path it
// cannot read a category from yields the fallback.
func (t *Table) Derive(path []string, reveal string) string {
	category, ok := t.Category(path, reveal)
	if !ok {
		return t.fallback
	}
	return t.texts[category]
}

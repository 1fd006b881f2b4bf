package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode_Find(t *testing.T) {
	n := Node{
		ID:     "reveal",
		Prompt: "Done",
		Choices: []Choice{
			AdvanceTo("Tell me more", "more"),
			Export("Download this snapshot"),
			Restart("Restart"),
		},
	}

	tests := []struct {
		key  string
		want Choice
		ok   bool
	}{
		{key: "Tell me more", want: n.Choices[0], ok: true},
		{key: "more", want: n.Choices[0], ok: true},
		{key: "export", want: n.Choices[1], ok: true},
		{key: "Restart", want: n.Choices[2], ok: true},
		{key: "restart", want: n.Choices[2], ok: true},
		{key: "advance", ok: false},
		{key: "nothing", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := n.Find(tt.key)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNode_Label(t *testing.T) {
	assert.Equal(t, "slow", Node{ID: "slow"}.Label())
	assert.Equal(t, "Slow flow", Node{ID: "slow", Sketch: "Slow flow"}.Label())
}

func TestNode_Has(t *testing.T) {
	n := Node{ID: "x", Choices: []Choice{AdvanceTo("Go", "y")}}
	assert.True(t, n.Has(AdvanceTo("Go", "y")))
	assert.False(t, n.Has(AdvanceTo("Go", "z")))
	assert.False(t, n.Has(Restart("Go")))
}

func TestChoice_Validate(t *testing.T) {
	assert.NoError(t, AdvanceTo("Go", "x").Validate())
	assert.NoError(t, Restart("Again").Validate())
	assert.NoError(t, Export("Save").Validate())

	assert.ErrorIs(t, Choice{Action: ActionAdvance, Next: "x"}.Validate(), ErrInvalidChoice)
	assert.ErrorIs(t, Choice{Label: "Go", Action: ActionAdvance}.Validate(), ErrInvalidChoice)
	assert.ErrorIs(t, Choice{Label: "Go", Next: "x"}.Validate(), ErrInvalidChoice)
	assert.ErrorIs(t, Choice{Label: "Save", Action: ActionExport, Next: "x"}.Validate(), ErrInvalidChoice)
}

// Package whiteboard is an in-memory drawing surface for the guided flow.
// It lays out one box per step, keeps a camera viewport around its contents,
// and renders itself to PNG.
package whiteboard

import (
	"context"
	"image/color"
	"sync"

	"github.com/google/uuid"
)

// Kind is the shape type
type Kind string

const (
	// KindRectangle is a labeled box
	KindRectangle Kind = "rectangle"
	// KindArrow is a straight arrow from (X, Y) to (X+End.X, Y+End.Y)
	KindArrow Kind = "arrow"
)

// Point is a 2D offset in board units
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned area in board units
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) pad(p float64) Rect {
	return Rect{X: r.X - p, Y: r.Y - p, W: r.W + 2*p, H: r.H + 2*p}
}

// Shape is one element on the board
type Shape struct {
	ID   string
	Kind Kind
	X, Y float64
	W, H float64
	Text string
	End  Point
}

// Bounds returns the area the shape covers
func (s Shape) Bounds() Rect {
	if s.Kind == KindArrow {
		x0, y0 := min(s.X, s.X+s.End.X), min(s.Y, s.Y+s.End.Y)
		return Rect{X: x0, Y: y0, W: max(abs(s.End.X), 1), H: max(abs(s.End.Y), 1)}
	}
	return Rect{X: s.X, Y: s.Y, W: s.W, H: s.H}
}

// Layout of the opening frame and the step grid.
const (
	frameY       = 120
	frameW       = 280
	frameH       = 90
	gridX        = 140
	gridY        = 280
	gridCols     = 3
	gridStepX    = 320
	gridStepY    = 160
	noteW        = 280
	noteH        = 110
	defaultPad   = 40
	defaultScale = 2
)

// DefaultView is the viewport of an empty board
var DefaultView = Rect{X: 0, Y: 0, W: 960, H: 540}

// Option configures a Board
type Option func(*Board)

// WithLabels sets how node ids become box text
func WithLabels(fn func(nodeID string) string) Option {
	return func(b *Board) {
		if fn != nil {
			b.labels = fn
		}
	}
}

// WithPadding sets the margin kept around shapes by FitView and exports
func WithPadding(p float64) Option {
	return func(b *Board) { b.padding = p }
}

// WithScale sets the export pixel scale
func WithScale(scale int) Option {
	return func(b *Board) {
		if scale > 0 {
			b.scale = scale
		}
	}
}

// WithBackground sets the export background color
func WithBackground(c color.Color) Option {
	return func(b *Board) { b.background = c }
}

// Board is safe for concurrent use.
type Board struct {
	mu     sync.RWMutex
	shapes []Shape
	view   Rect

	labels     func(string) string
	padding    float64
	scale      int
	background color.Color
}

// New creates an empty board
func New(opts ...Option) *Board {
	b := &Board{
		view:       DefaultView,
		labels:     func(id string) string { return id },
		padding:    defaultPad,
		scale:      defaultScale,
		background: color.White,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Annotate draws the step nodeID was entered at. The first step of a path
// draws the fixed reality/desired frame; later steps add one box each on a
// three-column grid indexed by step number.
func (b *Board) Annotate(ctx context.Context, path []string, nodeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(path) <= 2 {
		b.shapes = append(b.shapes, frame()...)
		return nil
	}
	step := len(path) - 1
	b.shapes = append(b.shapes, Shape{
		ID:   newID("note"),
		Kind: KindRectangle,
		X:    float64(gridX + (step%gridCols)*gridStepX),
		Y:    float64(gridY + (step/gridCols)*gridStepY),
		W:    noteW,
		H:    noteH,
		Text: b.labels(nodeID),
	})
	return nil
}

func frame() []Shape {
	return []Shape{
		{ID: newID("box"), Kind: KindRectangle, X: 140, Y: frameY, W: frameW, H: frameH, Text: "Reality\n(what’s happening)"},
		{ID: newID("box"), Kind: KindRectangle, X: 520, Y: frameY, W: frameW, H: frameH, Text: "Desired\n(what you want)"},
		{ID: newID("arrow"), Kind: KindArrow, X: 420, Y: 165, End: Point{X: 100, Y: 0}},
	}
}

// Clear removes every shape
func (b *Board) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shapes = nil
	return nil
}

// FitView moves the viewport to contain every shape plus padding.
// An empty board gets DefaultView.
func (b *Board) FitView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = b.contentArea()
	return nil
}

// Shapes returns a copy of the board contents in drawing order
func (b *Board) Shapes() []Shape {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Shape(nil), b.shapes...)
}

// View returns the current viewport
func (b *Board) View() Rect {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// Len returns the number of shapes
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.shapes)
}

// contentArea must be called with b.mu held.
func (b *Board) contentArea() Rect {
	var area Rect
	for _, s := range b.shapes {
		area = area.union(s.Bounds())
	}
	if area.Empty() {
		return DefaultView
	}
	return area.pad(b.padding)
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

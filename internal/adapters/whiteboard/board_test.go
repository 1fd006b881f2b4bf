package whiteboard

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(id string) string { return strings.ToUpper(id) }

func TestBoard_FirstAnnotateDrawsFrame(t *testing.T) {
	b := New(WithLabels(labels))
	ctx := context.Background()

	require.NoError(t, b.Annotate(ctx, []string{"start", "slow"}, "slow"))

	shapes := b.Shapes()
	require.Len(t, shapes, 3)
	assert.Equal(t, KindRectangle, shapes[0].Kind)
	assert.Contains(t, shapes[0].Text, "Reality")
	assert.Equal(t, KindRectangle, shapes[1].Kind)
	assert.Contains(t, shapes[1].Text, "Desired")
	assert.Equal(t, KindArrow, shapes[2].Kind)
	assert.Equal(t, Point{X: 100, Y: 0}, shapes[2].End)
	for _, s := range shapes {
		assert.NotEmpty(t, s.ID)
	}
}

func TestBoard_StepsLayOnGrid(t *testing.T) {
	b := New(WithLabels(labels))
	ctx := context.Background()
	path := []string{"start", "slow"}
	require.NoError(t, b.Annotate(ctx, path, "slow"))

	tests := []struct {
		node string
		x, y float64
	}{
		{node: "handoffs", x: 780, y: 280},
		{node: "reveal", x: 140, y: 440},
		{node: "extra", x: 460, y: 440},
	}
	for _, tt := range tests {
		path = append(path, tt.node)
		require.NoError(t, b.Annotate(ctx, path, tt.node))

		shapes := b.Shapes()
		last := shapes[len(shapes)-1]
		assert.Equal(t, KindRectangle, last.Kind, tt.node)
		assert.Equal(t, tt.x, last.X, tt.node)
		assert.Equal(t, tt.y, last.Y, tt.node)
		assert.Equal(t, float64(noteW), last.W)
		assert.Equal(t, float64(noteH), last.H)
		assert.Equal(t, strings.ToUpper(tt.node), last.Text)
	}
	assert.Equal(t, 6, b.Len())
}

func TestBoard_ClearAndFitView(t *testing.T) {
	b := New(WithPadding(10))
	ctx := context.Background()

	require.NoError(t, b.FitView(ctx))
	assert.Equal(t, DefaultView, b.View())

	require.NoError(t, b.Annotate(ctx, []string{"start", "slow"}, "slow"))
	require.NoError(t, b.FitView(ctx))
	// frame spans x 140..800, y 120..210
	assert.Equal(t, Rect{X: 130, Y: 110, W: 680, H: 110}, b.View())

	require.NoError(t, b.Clear(ctx))
	assert.Zero(t, b.Len())
	require.NoError(t, b.FitView(ctx))
	assert.Equal(t, DefaultView, b.View())
}

func TestBoard_CanceledContext(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, b.Annotate(ctx, []string{"start", "slow"}, "slow"))
	assert.Error(t, b.Clear(ctx))
	assert.Error(t, b.FitView(ctx))
	_, err := b.ExportImage(ctx)
	assert.Error(t, err)
	assert.Zero(t, b.Len())
}

func TestBoard_ExportImage(t *testing.T) {
	b := New(WithPadding(20), WithScale(2))
	ctx := context.Background()
	require.NoError(t, b.Annotate(ctx, []string{"start", "slow"}, "slow"))
	require.NoError(t, b.Annotate(ctx, []string{"start", "slow", "handoffs"}, "handoffs"))

	data, err := b.ExportImage(ctx)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	// content spans x 140..1060, y 120..390, plus 20 padding on each side
	assert.Equal(t, 960*2, img.Bounds().Dx())
	assert.Equal(t, 310*2, img.Bounds().Dy())
}

func TestBoard_ExportEmpty(t *testing.T) {
	b := New(WithScale(1))

	data, err := b.ExportImage(context.Background())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int(DefaultView.W), img.Bounds().Dx())
	assert.Equal(t, int(DefaultView.H), img.Bounds().Dy())
}

func TestRender_DrawsInkOnBackground(t *testing.T) {
	shapes := []Shape{{Kind: KindRectangle, X: 10, Y: 10, W: 100, H: 50, Text: "Hi"}}
	img := Render(shapes, Rect{X: 0, Y: 0, W: 120, H: 70}, color.White)

	r, g, bl, _ := img.At(10, 10).RGBA()
	assert.Less(t, r+g+bl, uint32(3*0x8000), "border pixel should be inked")

	r, g, bl, _ = img.At(2, 2).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), bl)
}

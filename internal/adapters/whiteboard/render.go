package whiteboard

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var ink = color.RGBA{R: 0x1d, G: 0x1d, B: 0x1f, A: 0xff}

const (
	strokeWidth = 2
	arrowHead   = 12
)

// basicfont only carries ASCII glyphs
var asciiQuotes = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`, "—", "-", "•", "*")

// ExportImage renders every shape on the board, not just the viewport, as a
// PNG at the configured scale.
func (b *Board) ExportImage(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	shapes := append([]Shape(nil), b.shapes...)
	area := b.contentArea()
	scale, bg := b.scale, b.background
	b.mu.RUnlock()

	var out image.Image = Render(shapes, area, bg)
	if scale > 1 {
		src := out.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, src.Dx()*scale, src.Dy()*scale))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), out, src, xdraw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render draws shapes into a new image covering area at scale 1.
func Render(shapes []Shape, area Rect, bg color.Color) *image.RGBA {
	w, h := int(math.Ceil(area.W)), int(math.Ceil(area.H))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for _, s := range shapes {
		x, y := s.X-area.X, s.Y-area.Y
		switch s.Kind {
		case KindRectangle:
			strokeRect(img, int(x), int(y), int(s.W), int(s.H))
			drawLabel(img, s.Text, int(x), int(y), int(s.W), int(s.H))
		case KindArrow:
			drawArrow(img, x, y, x+s.End.X, y+s.End.Y)
		}
	}
	return img
}

func strokeRect(img *image.RGBA, x, y, w, h int) {
	pen := image.NewUniform(ink)
	edges := []image.Rectangle{
		image.Rect(x, y, x+w, y+strokeWidth),
		image.Rect(x, y+h-strokeWidth, x+w, y+h),
		image.Rect(x, y, x+strokeWidth, y+h),
		image.Rect(x+w-strokeWidth, y, x+w, y+h),
	}
	for _, e := range edges {
		draw.Draw(img, e, pen, image.Point{}, draw.Src)
	}
}

func drawArrow(img *image.RGBA, x0, y0, x1, y1 float64) {
	drawLine(img, x0, y0, x1, y1)
	angle := math.Atan2(y1-y0, x1-x0)
	for _, side := range []float64{-math.Pi / 6, math.Pi / 6} {
		hx := x1 - arrowHead*math.Cos(angle+side)
		hy := y1 - arrowHead*math.Sin(angle+side)
		drawLine(img, x1, y1, hx, hy)
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 float64) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px, py := int(math.Round(x0+dx*t)), int(math.Round(y0+dy*t))
		for ox := 0; ox < strokeWidth; ox++ {
			for oy := 0; oy < strokeWidth; oy++ {
				img.Set(px+ox, py+oy, ink)
			}
		}
	}
}

// drawLabel centers each line of text inside the box.
func drawLabel(img *image.RGBA, text string, x, y, w, h int) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineH := metrics.Height.Ceil()
	lines := strings.Split(asciiQuotes.Replace(text), "\n")
	top := y + (h-lineH*len(lines))/2

	d := &font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: face}
	for i, line := range lines {
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P(x+(w-width)/2, top+i*lineH+metrics.Ascent.Ceil())
		d.DrawString(line)
	}
}

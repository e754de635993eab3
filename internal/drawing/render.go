package drawing

import (
	"image/color"
	"math"
)

// Style describes how a line or outline is painted.
type Style struct {
	Color color.NRGBA
	Width float64
	Round bool      // round caps and joins
	Dash  []float64 // nil for a solid line
}

// Painter is the drawing backend a surface renders through. Colours arrive
// with their final alpha already applied.
type Painter interface {
	Fill(c color.NRGBA)
	Line(a, b Point, st Style)
	Polyline(points []Point, st Style)
	Rect(x, y, w, h float64, fill color.NRGBA, st Style)
	Circle(cx, cy, r float64, fill color.NRGBA, st Style)
	Text(x, y float64, s string, c color.NRGBA, size float64)
}

// Scene is everything one render pass paints.
type Scene struct {
	Width, Height float64
	Elements      []Element
	Live          *Stroke // stroke being drawn, painted last
	Preview       *Shape  // dashed outline of a shape being dragged
}

// ShapeKind selects the preview outline.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
)

// Shape is an uncommitted rectangle or circle spanning a drag.
type Shape struct {
	Kind   ShapeKind
	Anchor Point
	Cursor Point
}

// PaintOrder returns the elements in the order they are painted: highlighter
// strokes committed behind first, then everything else, each group keeping
// its document order.
func PaintOrder(elements []Element) []Element {
	out := make([]Element, 0, len(elements))
	for _, el := range elements {
		if s, ok := el.(Stroke); ok && s.IsBehind() {
			out = append(out, el)
		}
	}
	for _, el := range elements {
		if s, ok := el.(Stroke); ok && s.IsBehind() {
			continue
		}
		out = append(out, el)
	}
	return out
}

// Render paints the scene from scratch.
func Render(p Painter, sc Scene) {
	bg, _ := ParseColor(BackgroundColor)
	p.Fill(bg)
	paintGrid(p, sc.Width, sc.Height)

	for _, el := range PaintOrder(sc.Elements) {
		paintElement(p, el)
	}
	if sc.Live != nil && len(sc.Live.Points) > 0 {
		paintStroke(p, *sc.Live)
	}
	if sc.Preview != nil {
		paintPreview(p, *sc.Preview)
	}
}

func paintGrid(p Painter, w, h float64) {
	c, _ := ParseColor(GridColor)
	st := Style{Color: c, Width: GridLineWidth}
	for x := 0.0; x < w; x += GridSpacing {
		p.Line(Point{x, 0}, Point{x, h}, st)
	}
	for y := 0.0; y < h; y += GridSpacing {
		p.Line(Point{0, y}, Point{w, y}, st)
	}
}

func paintElement(p Painter, el Element) {
	switch e := el.(type) {
	case Rectangle:
		c, _ := ParseColor(e.StrokeColor)
		p.Rect(e.X, e.Y, e.Width, e.Height, WithAlpha(c, ShapeTintAlpha), Style{Color: c, Width: ShapeOutlineWidth})
	case Circle:
		c, _ := ParseColor(e.StrokeColor)
		p.Circle(e.CenterX, e.CenterY, e.Radius, WithAlpha(c, ShapeTintAlpha), Style{Color: c, Width: ShapeOutlineWidth})
	case Text:
		if e.Content == "" {
			return
		}
		c, _ := ParseColor(e.Color)
		p.Text(e.X, e.Y, e.Content, c, TextSize)
	case Stroke:
		paintStroke(p, e)
	}
}

// StrokeAlpha is the opacity a stroke of this colour and width paints with.
func StrokeAlpha(hex string, width float64) float64 {
	if width < HighlighterThreshold {
		return 1
	}
	if c, _ := ParseColor(hex); c == mustColor(ShadowColor) {
		return ShadowAlpha
	}
	return HighlighterAlpha
}

func paintStroke(p Painter, s Stroke) {
	if len(s.Points) == 0 {
		return
	}
	c, _ := ParseColor(s.Color)
	p.Polyline(s.Points, Style{
		Color: WithAlpha(c, StrokeAlpha(s.Color, s.LineWidth)),
		Width: s.LineWidth,
		Round: true,
	})
}

func paintPreview(p Painter, sh Shape) {
	c, _ := ParseColor(PreviewColor)
	st := Style{Color: c, Width: PreviewWidth, Dash: PreviewDash}
	switch sh.Kind {
	case ShapeRectangle:
		// The preview follows the drag direction; normalisation happens on commit.
		p.Rect(sh.Anchor.X, sh.Anchor.Y, sh.Cursor.X-sh.Anchor.X, sh.Cursor.Y-sh.Anchor.Y, color.NRGBA{}, st)
	case ShapeCircle:
		p.Circle(sh.Anchor.X, sh.Anchor.Y, Distance(sh.Anchor, sh.Cursor), color.NRGBA{}, st)
	}
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func mustColor(s string) color.NRGBA {
	c, _ := ParseColor(s)
	return c
}

package drawing

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs painter calls as short strings.
type recorder struct {
	calls []string
	lines int
}

func (r *recorder) Fill(c color.NRGBA) { r.calls = append(r.calls, fmt.Sprintf("fill %v", c)) }
func (r *recorder) Line(a, b Point, st Style) { r.lines++ }
func (r *recorder) Polyline(pts []Point, st Style) {
	r.calls = append(r.calls, fmt.Sprintf("poly %d a=%d w=%g round=%t", len(pts), st.Color.A, st.Width, st.Round))
}
func (r *recorder) Rect(x, y, w, h float64, fill color.NRGBA, st Style) {
	r.calls = append(r.calls, fmt.Sprintf("rect %g,%g %gx%g fill=%d dash=%v", x, y, w, h, fill.A, st.Dash))
}
func (r *recorder) Circle(cx, cy, rad float64, fill color.NRGBA, st Style) {
	r.calls = append(r.calls, fmt.Sprintf("circle %g,%g r=%g fill=%d dash=%v", cx, cy, rad, fill.A, st.Dash))
}
func (r *recorder) Text(x, y float64, s string, c color.NRGBA, size float64) {
	r.calls = append(r.calls, fmt.Sprintf("text %q %g", s, size))
}

func TestPaintOrderPutsBehindHighlightsFirst(t *testing.T) {
	pen := Stroke{ID: "a", Kind: KindPen, LineWidth: 3}
	rect := Rectangle{ID: "b"}
	behind1 := Stroke{ID: "c", Kind: KindHighlighter, LineWidth: 15, Layer: LayerBehind}
	onTop := Stroke{ID: "d", Kind: KindHighlighter, LineWidth: 15, Layer: LayerOnTop}
	behind2 := Stroke{ID: "e", Kind: KindHighlighter, LineWidth: 15, Layer: LayerBehind}

	order := PaintOrder([]Element{pen, behind1, rect, onTop, behind2})
	ids := make([]string, len(order))
	for i, el := range order {
		ids[i] = el.ElementID()
	}
	assert.Equal(t, []string{"c", "e", "a", "b", "d"}, ids)
}

func TestRenderCommittedElements(t *testing.T) {
	var r recorder
	Render(&r, Scene{
		Width: 40, Height: 20,
		Elements: []Element{
			Stroke{Points: []Point{{0, 0}, {1, 1}}, Color: "#000000", LineWidth: 3, Kind: KindPen},
			Stroke{Points: []Point{{0, 0}, {1, 1}}, Color: "#ffeb3b", LineWidth: 15, Kind: KindHighlighter},
			Stroke{Points: []Point{{0, 0}, {1, 1}}, Color: ShadowColor, LineWidth: 15, Kind: KindHighlighter},
			Rectangle{X: 1, Y: 2, Width: 3, Height: 4, StrokeColor: ShapeColor},
			Circle{CenterX: 5, CenterY: 6, Radius: 7, StrokeColor: ShapeColor},
			Text{X: 1, Y: 1, Content: "hi", Color: ShapeColor},
			Text{X: 1, Y: 1, Content: "", Color: ShapeColor},
		},
	})

	assert.Equal(t, 2+1, r.lines, "grid lines at x=0,20 and y=0")
	assert.Equal(t, []string{
		"fill {255 255 255 255}",
		"poly 2 a=255 w=3 round=true",
		"poly 2 a=77 w=15 round=true",
		"poly 2 a=51 w=15 round=true",
		"rect 1,2 3x4 fill=32 dash=[]",
		"circle 5,6 r=7 fill=32 dash=[]",
		`text "hi" 16`,
	}, r.calls)
}

func TestRenderPreviewPaintsLast(t *testing.T) {
	var r recorder
	Render(&r, Scene{
		Width: 1, Height: 1,
		Elements: []Element{Rectangle{X: 0, Y: 0, Width: 1, Height: 1, StrokeColor: ShapeColor}},
		Preview:  &Shape{Kind: ShapeCircle, Anchor: Point{100, 100}, Cursor: Point{103, 104}},
	})
	require.NotEmpty(t, r.calls)
	assert.Equal(t, "circle 100,100 r=5 fill=0 dash=[5 5]", r.calls[len(r.calls)-1])
}

func TestRenderLiveStrokeOnTop(t *testing.T) {
	s := NewSurface(Config{Width: 10, Height: 10})
	s.SelectTool(ToolHighlighter)
	s.SetHighlighterLayer(LayerBehind)
	s.PointerDown(Point{0, 0})
	s.PointerMove(Point{5, 5})

	var r recorder
	s.Render(&r)
	assert.Equal(t, "poly 2 a=77 w=15 round=true", r.calls[len(r.calls)-1])
}

func TestStrokeAlpha(t *testing.T) {
	assert.Equal(t, 1.0, StrokeAlpha("#9ca3af", 3))
	assert.Equal(t, ShadowAlpha, StrokeAlpha("#9CA3AF", 15))
	assert.Equal(t, HighlighterAlpha, StrokeAlpha("#ffeb3b", 20))
}

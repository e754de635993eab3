package drawing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drag(s *Surface, pts ...Point) {
	s.PointerDown(pts[0])
	for _, p := range pts[1:] {
		s.PointerMove(p)
	}
	s.PointerUp(pts[len(pts)-1])
}

func TestPenDragAppendsStroke(t *testing.T) {
	s := NewSurface(Config{TaskID: "task1"})
	s.elements = append(s.elements, Rectangle{ID: "1", Width: 5, Height: 5, StrokeColor: ShapeColor})

	drag(s, Point{10, 10}, Point{20, 10}, Point{20, 20})

	els := s.Elements()
	require.Len(t, els, 2)
	st, ok := els[1].(Stroke)
	require.True(t, ok, "last element should be a stroke")
	assert.Equal(t, []Point{{10, 10}, {20, 10}, {20, 20}}, st.Points)
	assert.Equal(t, KindPen, st.Kind)
	assert.Equal(t, PenNormalWidth, st.LineWidth)
	assert.Equal(t, "#000000", st.Color)
	assert.Equal(t, PhaseIdle, s.Interaction().Phase)
	assert.Empty(t, s.Interaction().Live)
}

func TestPenFineWidth(t *testing.T) {
	s := NewSurface(Config{})
	s.SetPenMode(PenFine)
	drag(s, Point{0, 0}, Point{5, 5})

	st := s.Elements()[0].(Stroke)
	assert.Equal(t, PenFineWidth, st.LineWidth)
	assert.Equal(t, 3*PenFineWidth, PenNormal.Width())
}

func TestSinglePointDragCommitsNothing(t *testing.T) {
	s := NewSurface(Config{})
	s.PointerDown(Point{3, 3})
	s.PointerUp(Point{3, 3})
	assert.Zero(t, s.Len())
}

func TestHighlighterLayering(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
		index int
	}{
		{"behind goes first", LayerBehind, 0},
		{"on top goes last", LayerOnTop, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(Config{})
			drag(s, Point{0, 0}, Point{1, 1})
			drag(s, Point{2, 2}, Point{3, 3})

			s.SelectTool(ToolHighlighter)
			s.SetHighlighterLayer(tt.layer)
			drag(s, Point{50, 50}, Point{60, 50})

			els := s.Elements()
			require.Len(t, els, 3)
			st := els[tt.index].(Stroke)
			assert.Equal(t, KindHighlighter, st.Kind)
			assert.Equal(t, HighlighterWidth, st.LineWidth)
			assert.Equal(t, "#ffeb3b", st.Color)
			assert.Equal(t, tt.layer, st.Layer)
		})
	}
}

func TestLayerToggleIsNotRetroactive(t *testing.T) {
	s := NewSurface(Config{})
	s.SelectTool(ToolHighlighter)
	drag(s, Point{0, 0}, Point{10, 0})
	s.SetHighlighterLayer(LayerOnTop)

	st := s.Elements()[0].(Stroke)
	assert.Equal(t, LayerBehind, st.Layer)
}

func TestRectangleNormalisesDragDirection(t *testing.T) {
	s := NewSurface(Config{})
	s.SelectTool(ToolRectangle)
	drag(s, Point{50, 50}, Point{10, 30})

	r := s.Elements()[0].(Rectangle)
	assert.Equal(t, 10.0, r.X)
	assert.Equal(t, 30.0, r.Y)
	assert.Equal(t, 40.0, r.Width)
	assert.Equal(t, 20.0, r.Height)
	assert.Equal(t, ShapeColor, r.StrokeColor)
}

func TestCircleRadiusIsDistance(t *testing.T) {
	s := NewSurface(Config{})
	s.SelectTool(ToolCircle)
	drag(s, Point{100, 100}, Point{103, 104})

	c := s.Elements()[0].(Circle)
	assert.Equal(t, 100.0, c.CenterX)
	assert.Equal(t, 100.0, c.CenterY)
	assert.InDelta(t, 5.0, c.Radius, 1e-9)
}

func TestZeroSizeShapes(t *testing.T) {
	t.Run("kept by default", func(t *testing.T) {
		s := NewSurface(Config{})
		s.SelectTool(ToolRectangle)
		drag(s, Point{5, 5})
		s.SelectTool(ToolCircle)
		drag(s, Point{5, 5})
		require.Equal(t, 2, s.Len())
		assert.Zero(t, s.Elements()[0].(Rectangle).Width)
		assert.Zero(t, s.Elements()[1].(Circle).Radius)
	})
	t.Run("dropped below the configured extent", func(t *testing.T) {
		s := NewSurface(Config{MinShapeExtent: 3})
		s.SelectTool(ToolRectangle)
		drag(s, Point{5, 5}, Point{6, 6})
		drag(s, Point{5, 5}, Point{9, 6})
		require.Equal(t, 1, s.Len())
		assert.Equal(t, 4.0, s.Elements()[0].(Rectangle).Width)
	})
}

func TestEraserRemovesNearbyStrokes(t *testing.T) {
	s := NewSurface(Config{})
	drag(s, Point{0, 0}, Point{10, 0})       // near the eraser path
	drag(s, Point{200, 200}, Point{210, 200}) // far away
	s.SelectTool(ToolRectangle)
	drag(s, Point{0, 0}, Point{30, 30})

	s.SelectTool(ToolEraser)
	s.PointerDown(Point{100, 100})
	assert.Equal(t, 3, s.Len(), "nothing within radius of the down position")
	s.PointerMove(Point{25, 5})
	s.PointerMove(Point{15, 5})
	s.PointerUp(Point{15, 5})

	els := s.Elements()
	require.Len(t, els, 2)
	assert.Equal(t, Point{200, 200}, els[0].(Stroke).Points[0])
	_, isRect := els[1].(Rectangle)
	assert.True(t, isRect, "shapes are never erased")
}

func TestEraserRadiusIsStrict(t *testing.T) {
	s := NewSurface(Config{})
	drag(s, Point{0, 0}, Point{0, 1})
	s.SelectTool(ToolEraser)
	s.PointerDown(Point{20, 0})
	assert.Equal(t, 1, s.Len())
	s.PointerMove(Point{19.9, 0})
	assert.Zero(t, s.Len())
}

func TestTextCompose(t *testing.T) {
	s := NewSurface(Config{})
	s.SelectTool(ToolText)
	drag(s, Point{40, 60}, Point{45, 65})

	at, pending := s.PendingText()
	require.True(t, pending)
	assert.Equal(t, Point{40, 60}, at)
	assert.Zero(t, s.Len())

	assert.True(t, s.ConfirmText("Sprint goal"))
	txt := s.Elements()[0].(Text)
	assert.Equal(t, "Sprint goal", txt.Content)
	assert.Equal(t, 40.0, txt.X)
	assert.Equal(t, 60.0, txt.Y)

	drag(s, Point{1, 1})
	assert.False(t, s.ConfirmText(""))
	drag(s, Point{1, 1})
	s.CancelText()
	assert.Equal(t, 1, s.Len())
	_, pending = s.PendingText()
	assert.False(t, pending)
}

func TestPointerDownAbortsPendingText(t *testing.T) {
	s := NewSurface(Config{})
	s.SelectTool(ToolText)
	drag(s, Point{1, 1})
	s.PointerDown(Point{9, 9})

	assert.Equal(t, PhaseDragging, s.Interaction().Phase)
	assert.Equal(t, Point{9, 9}, s.Interaction().Anchor)
	assert.False(t, s.ConfirmText("late"))
}

func TestSelectToolAbandonsDrag(t *testing.T) {
	s := NewSurface(Config{})
	s.PointerDown(Point{0, 0})
	s.PointerMove(Point{5, 5})
	s.SelectTool(ToolCircle)
	s.PointerUp(Point{9, 9})

	assert.Zero(t, s.Len())
	assert.Equal(t, PhaseIdle, s.Interaction().Phase)
}

func TestSave(t *testing.T) {
	var calls []string
	s := NewSurface(Config{OnSave: func(name, data string) error {
		calls = append(calls, name+"|"+data)
		return nil
	}})
	drag(s, Point{10, 10}, Point{20, 20})

	s.SetName("  ")
	require.ErrorIs(t, s.Save(), ErrNameRequired)
	assert.True(t, s.NameInvalid())
	assert.Empty(t, calls)

	s.SetName("Sprint Plan")
	assert.False(t, s.NameInvalid())
	want, err := s.Serialized()
	require.NoError(t, err)
	require.NoError(t, s.Save())
	require.Equal(t, []string{"Sprint Plan|" + want}, calls)

	assert.ErrorIs(t, s.Save(), ErrSessionClosed)
	assert.ErrorIs(t, s.Cancel(), ErrSessionClosed)
	assert.Len(t, calls, 1)
}

func TestSaveTrimsName(t *testing.T) {
	var got string
	s := NewSurface(Config{OnSave: func(name, _ string) error { got = name; return nil }})
	s.SetName("  Wireframes ")
	require.NoError(t, s.Save())
	assert.Equal(t, "Wireframes", got)
}

func TestFailedSaveKeepsDocument(t *testing.T) {
	attempts := 0
	s := NewSurface(Config{OnSave: func(string, string) error {
		attempts++
		if attempts == 1 {
			return errors.New("network down")
		}
		return nil
	}})
	s.SetName("Retry")
	drag(s, Point{0, 0}, Point{1, 1})

	require.Error(t, s.Save())
	assert.False(t, s.Closed())
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Save())
	assert.True(t, s.Closed())
	assert.Equal(t, 2, attempts)
}

func TestClearAllThenCancel(t *testing.T) {
	saved, cancelled := 0, 0
	s := NewSurface(Config{
		Existing: &Stored{Name: "Board", Data: `[{"id":"1","type":"rectangle","x":1,"y":2,"width":3,"height":4,"color":"#3b82f6"}]`},
		OnSave:   func(string, string) error { saved++; return nil },
		OnCancel: func() { cancelled++ },
	})
	require.Equal(t, 1, s.Len())

	s.ClearAll()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Scene().Elements)

	require.NoError(t, s.Cancel())
	assert.Zero(t, saved)
	assert.Equal(t, 1, cancelled)

	s.PointerDown(Point{0, 0})
	assert.Equal(t, PhaseIdle, s.Interaction().Phase, "closed surfaces ignore input")
}

func TestExistingDocument(t *testing.T) {
	t.Run("corrupt data starts empty", func(t *testing.T) {
		s := NewSurface(Config{Existing: &Stored{Name: "Broken", Data: "{not json"}})
		assert.Equal(t, "Broken", s.Name())
		assert.Zero(t, s.Len())
	})
	t.Run("new ids never reuse loaded ones", func(t *testing.T) {
		future := "99999999999999"
		s := NewSurface(Config{Existing: &Stored{Data: `[{"id":"` + future + `","type":"text","x":0,"y":0,"text":"a","color":"#000"}]`}})
		drag(s, Point{0, 0}, Point{1, 1})
		assert.Equal(t, "100000000000000", s.Elements()[1].ElementID())
	})
}

func TestAdoptName(t *testing.T) {
	s := NewSurface(Config{})
	assert.True(t, s.AdoptName("Late arrival"))
	assert.Equal(t, "Late arrival", s.Name())

	s.SetName("Mine")
	assert.False(t, s.AdoptName("Other"))
	assert.Equal(t, "Mine", s.Name())
}

func TestSceneDuringDrag(t *testing.T) {
	s := NewSurface(Config{})
	s.SelectTool(ToolHighlighter)
	s.SetHighlighterColor(ShadowColor)
	s.PointerDown(Point{0, 0})
	s.PointerMove(Point{4, 0})

	sc := s.Scene()
	require.NotNil(t, sc.Live)
	assert.Equal(t, ShadowColor, sc.Live.Color)
	assert.Equal(t, HighlighterWidth, sc.Live.LineWidth)
	assert.Nil(t, sc.Preview)

	s.SelectTool(ToolRectangle)
	s.PointerDown(Point{10, 10})
	assert.Nil(t, s.Scene().Preview, "no preview before the pointer moves")
	s.PointerMove(Point{30, 40})
	sc = s.Scene()
	require.NotNil(t, sc.Preview)
	assert.Equal(t, Shape{Kind: ShapeRectangle, Anchor: Point{10, 10}, Cursor: Point{30, 40}}, *sc.Preview)
	assert.Zero(t, s.Len())
}

func TestOnChangeFires(t *testing.T) {
	n := 0
	s := NewSurface(Config{OnChange: func() { n++ }})
	drag(s, Point{0, 0}, Point{1, 1})
	assert.Equal(t, 3, n)
}

func TestPrepareThenMarkSaved(t *testing.T) {
	emitted := 0
	s := NewSurface(Config{OnSave: func(string, string) error { emitted++; return nil }})

	_, _, err := s.Prepare()
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.True(t, s.NameInvalid())

	s.SetName("  Board ")
	name, data, err := s.Prepare()
	require.NoError(t, err)
	assert.Equal(t, "Board", name)
	assert.Equal(t, "[]", data)
	assert.False(t, s.Closed())

	require.NoError(t, s.MarkSaved())
	assert.True(t, s.Closed())
	assert.Zero(t, emitted, "Prepare and MarkSaved never call OnSave")
	assert.ErrorIs(t, s.MarkSaved(), ErrSessionClosed)
	_, _, err = s.Prepare()
	assert.ErrorIs(t, err, ErrSessionClosed)
}

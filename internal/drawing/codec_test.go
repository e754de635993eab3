package drawing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleElements() []Element {
	return []Element{
		Stroke{ID: "1700000000001", Points: []Point{{0.1, 0.2}, {10.75, 3.3333333333333335}, {1e-7, 599.999}},
			Color: "#ffeb3b", LineWidth: HighlighterWidth, Kind: KindHighlighter, Layer: LayerBehind},
		Rectangle{ID: "1700000000002", X: 10, Y: 30, Width: 40, Height: 20, StrokeColor: ShapeColor},
		Circle{ID: "1700000000003", CenterX: 100, CenterY: 100, Radius: 5, StrokeColor: ShapeColor},
		Text{ID: "1700000000004", X: 12.5, Y: 80, Content: "Login → Dashboard", Color: ShapeColor},
		Stroke{ID: "1700000000005", Points: []Point{{3, 4}, {5, 6}}, Color: "#000000",
			LineWidth: PenFineWidth, Kind: KindPen, Layer: LayerOnTop},
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleElements()
	data, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeWireShape(t *testing.T) {
	data, err := Encode([]Element{
		Stroke{ID: "7", Points: []Point{{1, 2}, {3, 4}}, Color: "#000000", LineWidth: 3, Kind: KindPen, Layer: LayerOnTop},
		Circle{ID: "8", CenterX: 5, CenterY: 6, Radius: 0, StrokeColor: ShapeColor},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"7","type":"path","x":1,"y":2,"color":"#000000","points":[{"x":1,"y":2},{"x":3,"y":4}],"lineWidth":3,"kind":"pen","layer":"on-top"},
		{"id":"8","type":"circle","x":5,"y":6,"radius":0,"color":"#3b82f6"}
	]`, string(data))
}

func TestEncodeEmpty(t *testing.T) {
	s, err := EncodeString(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}

func TestDecodeLegacyStrokes(t *testing.T) {
	els, err := Decode([]byte(`[
		{"id":"1","type":"path","x":0,"y":0,"color":"#ffeb3b","points":[{"x":0,"y":0},{"x":1,"y":1}],"lineWidth":15},
		{"id":"2","type":"path","x":0,"y":0,"color":"#000000","points":[{"x":0,"y":0},{"x":1,"y":1}],"lineWidth":3},
		{"id":"3","type":"path","x":0,"y":0,"color":"#000000","points":[{"x":0,"y":0},{"x":1,"y":1}]}
	]`))
	require.NoError(t, err)
	require.Len(t, els, 3)

	hl := els[0].(Stroke)
	assert.Equal(t, KindHighlighter, hl.Kind)
	assert.False(t, hl.IsBehind(), "untagged strokes paint in document order")
	assert.Equal(t, KindPen, els[1].(Stroke).Kind)
	assert.Equal(t, 2.0, els[2].(Stroke).LineWidth)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "{oops"},
		{"object instead of array", `{"id":"1"}`},
		{"unknown type", `[{"id":"1","type":"arrow","x":0,"y":0,"color":"#000"}]`},
		{"wrong field type", `[{"id":"1","type":"circle","x":"left","y":0,"color":"#000"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in))
			assert.Error(t, err)
			assert.Empty(t, Load(tt.in))
			assert.NotNil(t, Load(tt.in))
		})
	}
}

func TestLoadEmptyAndNull(t *testing.T) {
	assert.Empty(t, Load(""))
	assert.Empty(t, Load("null"))
	assert.Empty(t, Load("[]"))
}

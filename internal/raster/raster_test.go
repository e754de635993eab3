package raster

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"TaskCanvas/internal/drawing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []drawing.Element {
	return []drawing.Element{
		drawing.Stroke{ID: "1", Points: []drawing.Point{{X: 100, Y: 100}, {X: 300, Y: 120}},
			Color: "#ffeb3b", LineWidth: drawing.HighlighterWidth, Kind: drawing.KindHighlighter, Layer: drawing.LayerBehind},
		drawing.Rectangle{ID: "2", X: 50, Y: 50, Width: 200, Height: 100, StrokeColor: drawing.ShapeColor},
		drawing.Circle{ID: "3", CenterX: 400, CenterY: 300, Radius: 40, StrokeColor: drawing.ShapeColor},
		drawing.Text{ID: "4", X: 60, Y: 200, Content: "checkout", Color: drawing.ShapeColor},
	}
}

func TestRenderSizeAndBackground(t *testing.T) {
	img, err := Render(sample(), drawing.CanvasWidth, drawing.CanvasHeight)
	require.NoError(t, err)

	assert.Equal(t, drawing.CanvasWidth, img.Bounds().Dx())
	assert.Equal(t, drawing.CanvasHeight, img.Bounds().Dy())

	r, g, b, a := img.At(10, 10).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
}

func TestRenderRejectsEmptySize(t *testing.T) {
	_, err := Render(nil, 0, 10)
	assert.Error(t, err)
}

// A freehand highlighter records points a pixel or two apart. Overlapping
// segments must not build up opacity.
func TestFrameHighlighterKeepsReducedOpacity(t *testing.T) {
	var points []drawing.Point
	for x := 100.0; x <= 200; x += 1.5 {
		points = append(points, drawing.Point{X: x, Y: 110})
	}
	sc := drawing.Scene{
		Width: drawing.CanvasWidth, Height: drawing.CanvasHeight,
		Live: &drawing.Stroke{Points: points, Color: "#ffeb3b", LineWidth: drawing.HighlighterWidth, Kind: drawing.KindHighlighter},
	}
	img, err := Frame(sc, drawing.CanvasWidth, drawing.CanvasHeight)
	require.NoError(t, err)

	// #ffeb3b at 0.3 over white leaves blue at about 255 - 196*0.3.
	c := color.NRGBAModel.Convert(img.At(150, 110)).(color.NRGBA)
	assert.InDelta(t, 196, int(c.B), 6)
	assert.Equal(t, uint8(0xff), c.R)
}

func TestFrameScalesToPixels(t *testing.T) {
	sc := drawing.Scene{Width: 100, Height: 50,
		Elements: []drawing.Element{drawing.Rectangle{ID: "1", X: 10, Y: 10, Width: 20, Height: 20, StrokeColor: "#000000"}}}
	img, err := Frame(sc, 200, 100)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())

	// The outline at x=10 lands at pixel 20 once doubled.
	c := color.NRGBAModel.Convert(img.At(20, 40)).(color.NRGBA)
	assert.Less(t, int(c.R), 0x80)

	_, err = Frame(drawing.Scene{}, 10, 10)
	assert.Error(t, err)
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, sample(), 200, 100))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestThumbnail(t *testing.T) {
	url, err := Thumbnail(sample(), drawing.CanvasWidth, drawing.CanvasHeight, 200)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, DataURLPrefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, DataURLPrefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

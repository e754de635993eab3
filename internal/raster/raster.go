// Package raster renders canvas documents to images with the gg software
// rasterizer. It backs PNG export and the thumbnails shown next to a task.
package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"TaskCanvas/internal/drawing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func loadFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Painter draws onto a gg context. The first rendering error is kept and
// later calls become no-ops.
type Painter struct {
	dc   *gg.Context
	face text.Face
	err  error
}

var _ drawing.Painter = (*Painter)(nil)

func NewPainter(dc *gg.Context) (*Painter, error) {
	src, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Painter{dc: dc, face: src.Face(drawing.TextSize)}, nil
}

// Err returns the first error hit while painting.
func (p *Painter) Err() error { return p.err }

func (p *Painter) setColor(c color.NRGBA) {
	p.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func (p *Painter) setStyle(st drawing.Style) {
	p.setColor(st.Color)
	p.dc.SetLineWidth(st.Width)
	if st.Round {
		p.dc.SetLineCap(gg.LineCapRound)
		p.dc.SetLineJoin(gg.LineJoinRound)
	} else {
		p.dc.SetLineCap(gg.LineCapButt)
		p.dc.SetLineJoin(gg.LineJoinMiter)
	}
	if len(st.Dash) > 0 {
		p.dc.SetDash(st.Dash...)
	} else {
		p.dc.ClearDash()
	}
}

func (p *Painter) stroke() {
	if err := p.dc.Stroke(); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Painter) fill() {
	if err := p.dc.Fill(); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Painter) Fill(c color.NRGBA) {
	p.dc.ClearWithColor(gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255))
}

func (p *Painter) Line(a, b drawing.Point, st drawing.Style) {
	if p.err != nil {
		return
	}
	p.setStyle(st)
	p.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	p.stroke()
}

func (p *Painter) Polyline(points []drawing.Point, st drawing.Style) {
	if p.err != nil || len(points) == 0 {
		return
	}
	p.setStyle(st)
	p.dc.MoveTo(points[0].X, points[0].Y)
	for _, pt := range points[1:] {
		p.dc.LineTo(pt.X, pt.Y)
	}
	p.stroke()
}

func (p *Painter) Rect(x, y, w, h float64, fill color.NRGBA, st drawing.Style) {
	if p.err != nil {
		return
	}
	if fill.A > 0 {
		p.setColor(fill)
		p.dc.DrawRectangle(x, y, w, h)
		p.fill()
	}
	p.setStyle(st)
	p.dc.DrawRectangle(x, y, w, h)
	p.stroke()
}

func (p *Painter) Circle(cx, cy, r float64, fill color.NRGBA, st drawing.Style) {
	if p.err != nil || r <= 0 {
		return
	}
	if fill.A > 0 {
		p.setColor(fill)
		p.dc.DrawCircle(cx, cy, r)
		p.fill()
	}
	p.setStyle(st)
	p.dc.DrawCircle(cx, cy, r)
	p.stroke()
}

func (p *Painter) Text(x, y float64, s string, c color.NRGBA, _ float64) {
	if p.err != nil {
		return
	}
	p.dc.SetFont(p.face)
	p.setColor(c)
	p.dc.DrawString(s, x, y)
}

// Render paints the elements on a fresh width x height image.
func Render(elements []drawing.Element, width, height int) (image.Image, error) {
	dc, err := draw(elements, width, height, 1)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// Frame renders a live scene, including the stroke or shape preview in
// progress, scaled to fill width x height pixels.
func Frame(sc drawing.Scene, width, height int) (image.Image, error) {
	if sc.Width <= 0 || sc.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %gx%g", sc.Width, sc.Height)
	}
	scale := math.Min(float64(width)/sc.Width, float64(height)/sc.Height)
	dc, err := drawScene(sc, width, height, scale)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// draw returns a context holding the rendered canvas; the caller closes it.
func draw(elements []drawing.Element, width, height int, scale float64) (*gg.Context, error) {
	return drawScene(drawing.Scene{
		Width:    float64(width) / scale,
		Height:   float64(height) / scale,
		Elements: elements,
	}, width, height, scale)
}

func drawScene(sc drawing.Scene, width, height int, scale float64) (*gg.Context, error) {
	if width <= 0 || height <= 0 || scale <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	p, err := NewPainter(dc)
	if err != nil {
		dc.Close()
		return nil, err
	}
	dc.Scale(scale, scale)
	drawing.Render(p, sc)
	if err := p.Err(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("render canvas: %w", err)
	}
	return dc, nil
}

// EncodePNG writes the rendered canvas as PNG.
func EncodePNG(w io.Writer, elements []drawing.Element, width, height int) error {
	dc, err := draw(elements, width, height, 1)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// Thumbnail renders a canvas of canvasW x canvasH scaled down to at most
// maxWidth pixels wide and returns it as a PNG data URL.
func Thumbnail(elements []drawing.Element, canvasW, canvasH, maxWidth int) (string, error) {
	if canvasW <= 0 || canvasH <= 0 || maxWidth <= 0 {
		return "", fmt.Errorf("invalid thumbnail size")
	}
	scale := math.Min(1, float64(maxWidth)/float64(canvasW))
	w := int(math.Max(1, math.Round(float64(canvasW)*scale)))
	h := int(math.Max(1, math.Round(float64(canvasH)*scale)))

	dc, err := draw(elements, w, h, scale)
	if err != nil {
		return "", err
	}
	defer dc.Close()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DataURLPrefix starts every thumbnail returned by Thumbnail.
const DataURLPrefix = "data:image/png;base64,"

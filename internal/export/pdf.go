package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"TaskCanvas/internal/drawing"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin  = 10.0 // mm
	titleHeight = 10.0 // mm
	titleSize   = 14.0 // pt
	mmPerPt     = 25.4 / 72
)

// WritePDF lays the document out on one landscape A4 page: the canvas name
// as a title and the drawing scaled to fit below it.
func WritePDF(w io.Writer, doc drawing.Document, width, height float64) error {
	pdf := build(doc, width, height)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// SavePDF writes the document to a file at path.
func SavePDF(path string, doc drawing.Document, width, height float64) error {
	pdf := build(doc, width, height)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("save pdf %s: %w", path, err)
	}
	return nil
}

func build(doc drawing.Document, width, height float64) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(doc.Name, true)
	pdf.SetCreator("TaskCanvas", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(pageMargin, pageMargin+titleSize*mmPerPt, tr(doc.Name))

	// Elements may have been drawn past the canvas edge; keep them on the page.
	area := drawing.Area{Width: width, Height: height}.Union(drawing.Bounds(doc.Elements))
	top := pageMargin + titleHeight
	availW := pageW - 2*pageMargin
	availH := pageH - top - pageMargin
	scale := math.Min(availW/area.Width, availH/area.Height)

	p := &pdfPainter{
		pdf:   pdf,
		tr:    tr,
		scale: scale,
		dx:    pageMargin - area.X*scale,
		dy:    top - area.Y*scale,
		page:  drawing.Area{X: pageMargin, Y: top, Width: area.Width * scale, Height: area.Height * scale},
	}
	drawing.Render(p, drawing.Scene{Width: width, Height: height, Elements: doc.Elements})
	return pdf
}

// pdfPainter maps canvas pixels onto the page.
type pdfPainter struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	scale  float64
	dx, dy float64
	page   drawing.Area
}

func (p *pdfPainter) x(v float64) float64 { return p.dx + v*p.scale }
func (p *pdfPainter) y(v float64) float64 { return p.dy + v*p.scale }

func (p *pdfPainter) setStroke(st drawing.Style) {
	p.pdf.SetDrawColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	p.pdf.SetAlpha(float64(st.Color.A)/255, "Normal")
	p.pdf.SetLineWidth(st.Width * p.scale)
	if st.Round {
		p.pdf.SetLineCapStyle("round")
		p.pdf.SetLineJoinStyle("round")
	} else {
		p.pdf.SetLineCapStyle("butt")
		p.pdf.SetLineJoinStyle("miter")
	}
	dash := make([]float64, len(st.Dash))
	for i, d := range st.Dash {
		dash[i] = d * p.scale
	}
	p.pdf.SetDashPattern(dash, 0)
}

func (p *pdfPainter) setFill(c color.NRGBA) {
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (p *pdfPainter) Fill(c color.NRGBA) {
	p.setFill(c)
	p.pdf.Rect(p.page.X, p.page.Y, p.page.Width, p.page.Height, "F")
}

func (p *pdfPainter) Line(a, b drawing.Point, st drawing.Style) {
	p.setStroke(st)
	p.pdf.Line(p.x(a.X), p.y(a.Y), p.x(b.X), p.y(b.Y))
}

func (p *pdfPainter) Polyline(points []drawing.Point, st drawing.Style) {
	if len(points) == 0 {
		return
	}
	p.setStroke(st)
	p.pdf.MoveTo(p.x(points[0].X), p.y(points[0].Y))
	for _, pt := range points[1:] {
		p.pdf.LineTo(p.x(pt.X), p.y(pt.Y))
	}
	p.pdf.DrawPath("D")
}

func (p *pdfPainter) Rect(x, y, w, h float64, fill color.NRGBA, st drawing.Style) {
	if fill.A > 0 {
		p.setFill(fill)
		p.pdf.Rect(p.x(x), p.y(y), w*p.scale, h*p.scale, "F")
	}
	p.setStroke(st)
	p.pdf.Rect(p.x(x), p.y(y), w*p.scale, h*p.scale, "D")
}

func (p *pdfPainter) Circle(cx, cy, r float64, fill color.NRGBA, st drawing.Style) {
	if r <= 0 {
		return
	}
	if fill.A > 0 {
		p.setFill(fill)
		p.pdf.Circle(p.x(cx), p.y(cy), r*p.scale, "F")
	}
	p.setStroke(st)
	p.pdf.Circle(p.x(cx), p.y(cy), r*p.scale, "D")
}

func (p *pdfPainter) Text(x, y float64, s string, c color.NRGBA, size float64) {
	p.pdf.SetAlpha(float64(c.A)/255, "Normal")
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetFont("Helvetica", "", size*p.scale/mmPerPt)
	p.pdf.Text(p.x(x), p.y(y), p.tr(s))
}

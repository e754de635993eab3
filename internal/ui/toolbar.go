package ui

import (
	"image/color"

	"TaskCanvas/internal/drawing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	swatchBorder   = color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
	swatchSelected = color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	Selected bool
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(color.Transparent)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 2
	r := &swatchRenderer{swatch: s, rect: rect, border: border}
	r.Refresh()
	return r
}

type swatchRenderer struct {
	swatch *colorSwatch
	rect   *canvas.Rectangle
	border *canvas.Rectangle
}

func (r *swatchRenderer) Layout(size fyne.Size) {
	r.rect.Resize(size)
	r.border.Resize(size)
}

func (r *swatchRenderer) MinSize() fyne.Size { return r.rect.MinSize() }

func (r *swatchRenderer) Refresh() {
	r.rect.FillColor, _ = drawing.ParseColor(r.swatch.Hex)
	r.rect.Refresh()
	r.border.StrokeColor = swatchBorder
	if r.swatch.Selected {
		r.border.StrokeColor = swatchSelected
	}
	r.border.Refresh()
}

func (r *swatchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.rect, r.border}
}

func (r *swatchRenderer) Destroy() {}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// Toolbar holds the tool buttons and the per-tool options.
type Toolbar struct {
	surface *drawing.Surface
	window  fyne.Window

	tools       map[drawing.Tool]*widget.Button
	penOptions  *fyne.Container
	hlOptions   *fyne.Container
	penMode     *widget.RadioGroup
	penColor    *colorSwatch
	layer       *widget.RadioGroup
	hlSwatches  []*colorSwatch
	clearButton *widget.Button

	content fyne.CanvasObject
}

var (
	toolLabels = map[drawing.Tool]string{
		drawing.ToolPen:         "Pen",
		drawing.ToolHighlighter: "Highlighter",
		drawing.ToolEraser:      "Eraser",
		drawing.ToolRectangle:   "Rectangle",
		drawing.ToolCircle:      "Circle",
		drawing.ToolText:        "Text",
	}
	penModeLabels = map[drawing.PenMode]string{drawing.PenFine: "Fine", drawing.PenNormal: "Normal"}
	layerLabels   = map[drawing.Layer]string{drawing.LayerBehind: "Behind", drawing.LayerOnTop: "On Top"}
)

func toolIcon(t drawing.Tool) fyne.Resource {
	switch t {
	case drawing.ToolPen:
		return theme.DocumentCreateIcon()
	case drawing.ToolHighlighter:
		return theme.ColorPaletteIcon()
	case drawing.ToolEraser:
		return theme.ContentClearIcon()
	case drawing.ToolRectangle:
		return theme.CheckButtonIcon()
	case drawing.ToolCircle:
		return theme.RadioButtonIcon()
	}
	return theme.DocumentIcon()
}

func NewToolbar(s *drawing.Surface, w fyne.Window) *Toolbar {
	tb := &Toolbar{surface: s, window: w, tools: make(map[drawing.Tool]*widget.Button)}

	drawTools := container.NewHBox()
	shapeTools := container.NewHBox()
	for _, tool := range drawing.Tools() {
		b := widget.NewButtonWithIcon(toolLabels[tool], toolIcon(tool), func() { s.SelectTool(tool) })
		tb.tools[tool] = b
		switch tool {
		case drawing.ToolPen, drawing.ToolHighlighter, drawing.ToolEraser:
			drawTools.Add(b)
		default:
			shapeTools.Add(b)
		}
	}

	// --- Pen options ---
	tb.penMode = widget.NewRadioGroup([]string{"Fine", "Normal"}, func(v string) {
		for m, label := range penModeLabels {
			if label == v && s.Tools().PenMode != m {
				s.SetPenMode(m)
			}
		}
	})
	tb.penMode.Horizontal = true
	tb.penMode.Required = true
	tb.penColor = newColorSwatch(s.Tools().PenColor, func(string) { tb.pickPenColor() })
	tb.penOptions = container.NewHBox(tb.penMode, tb.penColor)

	// --- Highlighter options ---
	tb.layer = widget.NewRadioGroup([]string{"Behind", "On Top"}, func(v string) {
		for l, label := range layerLabels {
			if label == v && s.Tools().HighlighterLayer != l {
				s.SetHighlighterLayer(l)
			}
		}
	})
	tb.layer.Horizontal = true
	tb.layer.Required = true
	palette := container.NewHBox()
	for _, nc := range drawing.HighlighterPalette {
		sw := newColorSwatch(nc.Hex, s.SetHighlighterColor)
		tb.hlSwatches = append(tb.hlSwatches, sw)
		palette.Add(sw)
	}
	tb.hlOptions = container.NewHBox(widget.NewLabel("Layer:"), tb.layer, palette)

	tb.clearButton = widget.NewButtonWithIcon("Clear All", theme.DeleteIcon(), s.ClearAll)

	tb.content = container.NewHBox(
		drawTools,
		widget.NewSeparator(),
		shapeTools,
		widget.NewSeparator(),
		tb.penOptions,
		tb.hlOptions,
		layout.NewSpacer(),
		tb.clearButton,
	)
	tb.Update()
	return tb
}

func (tb *Toolbar) Content() fyne.CanvasObject { return tb.content }

func (tb *Toolbar) pickPenColor() {
	if tb.window == nil {
		return
	}
	picker := dialog.NewColorPicker("Pen color", "", func(c color.Color) {
		tb.surface.SetPenColor(drawing.HexColor(c))
	}, tb.window)
	picker.Advanced = true
	picker.Show()
}

// Update mirrors the surface's tool state into the widgets.
func (tb *Toolbar) Update() {
	ts := tb.surface.Tools()
	for tool, b := range tb.tools {
		imp := widget.MediumImportance
		if tool == ts.Selected {
			imp = widget.HighImportance
		}
		if b.Importance != imp {
			b.Importance = imp
			b.Refresh()
		}
	}

	if ts.Selected == drawing.ToolPen {
		tb.penOptions.Show()
	} else {
		tb.penOptions.Hide()
	}
	if ts.Selected == drawing.ToolHighlighter {
		tb.hlOptions.Show()
	} else {
		tb.hlOptions.Hide()
	}

	if label := penModeLabels[ts.PenMode]; tb.penMode.Selected != label {
		tb.penMode.SetSelected(label)
	}
	if tb.penColor.Hex != ts.PenColor {
		tb.penColor.Hex = ts.PenColor
		tb.penColor.Refresh()
	}
	if label := layerLabels[ts.HighlighterLayer]; tb.layer.Selected != label {
		tb.layer.SetSelected(label)
	}
	for _, sw := range tb.hlSwatches {
		selected := sw.Hex == ts.HighlighterColor
		if sw.Selected != selected {
			sw.Selected = selected
			sw.Refresh()
		}
	}
}

// SetEnabled turns all controls on or off.
func (tb *Toolbar) SetEnabled(enabled bool) {
	for _, b := range tb.tools {
		setEnabled(b, enabled)
	}
	setEnabled(tb.clearButton, enabled)
	setEnabled(tb.penMode, enabled)
	setEnabled(tb.layer, enabled)
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

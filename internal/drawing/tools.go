package drawing

import "fmt"

const (
	CanvasWidth  = 800
	CanvasHeight = 600

	BackgroundColor = "#ffffff"
	GridColor       = "#e5e5e5"
	GridSpacing     = 20.0
	GridLineWidth   = 0.5

	PenFineWidth   = 1.0
	PenNormalWidth = 3 * PenFineWidth

	HighlighterWidth     = 15.0
	HighlighterThreshold = 15.0
	HighlighterAlpha     = 0.3
	ShadowAlpha          = 0.2
	ShadowColor          = "#9ca3af"

	ShapeColor        = "#3b82f6"
	ShapeTintAlpha    = float64(0x20) / 0xff
	ShapeOutlineWidth = 2.0

	TextSize = 16.0

	EraserRadius = 20.0

	PreviewColor = "#3b82f6"
	PreviewWidth = 2.0
)

// PreviewDash is the on/off pattern of an in-progress shape outline.
var PreviewDash = []float64{5, 5}

type Tool int

const (
	ToolPen Tool = iota
	ToolHighlighter
	ToolEraser
	ToolRectangle
	ToolCircle
	ToolText
)

var toolNames = [...]string{"pen", "highlighter", "eraser", "rectangle", "circle", "text"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolPen, ToolHighlighter, ToolEraser, ToolRectangle, ToolCircle, ToolText}
}

func (t Tool) draws() bool { return t == ToolPen || t == ToolHighlighter }

type PenMode int

const (
	PenNormal PenMode = iota
	PenFine
)

func (m PenMode) String() string {
	if m == PenFine {
		return "fine"
	}
	return "normal"
}

// Width is the line width the preset produces.
func (m PenMode) Width() float64 {
	if m == PenFine {
		return PenFineWidth
	}
	return PenNormalWidth
}

// NamedColor is a palette entry.
type NamedColor struct {
	Name  string
	Hex   string
	Usage string
}

// HighlighterPalette is the fixed set of highlighter colours.
var HighlighterPalette = []NamedColor{
	{Name: "Yellow", Hex: "#ffeb3b", Usage: "Highlight"},
	{Name: "Green", Hex: "#4ade80", Usage: "Approved"},
	{Name: "Red", Hex: "#f87171", Usage: "Issues"},
	{Name: "Blue", Hex: "#60a5fa", Usage: "Information"},
	{Name: "Grey", Hex: ShadowColor, Usage: "Shadow/Depth"},
	{Name: "Purple", Hex: "#c084fc", Usage: "Special"},
}

// ToolState is the tool configuration owned by one surface.
type ToolState struct {
	Selected         Tool
	PenColor         string
	PenMode          PenMode
	HighlighterColor string
	HighlighterLayer Layer
}

// DefaultToolState returns the configuration a freshly mounted surface starts with.
func DefaultToolState() ToolState {
	return ToolState{
		Selected:         ToolPen,
		PenColor:         "#000000",
		PenMode:          PenNormal,
		HighlighterColor: HighlighterPalette[0].Hex,
		HighlighterLayer: LayerBehind,
	}
}

// activeStroke returns colour, width and kind of the stroke the selected tool draws.
func (ts ToolState) activeStroke() (string, float64, StrokeKind) {
	if ts.Selected == ToolHighlighter {
		return ts.HighlighterColor, HighlighterWidth, KindHighlighter
	}
	return ts.PenColor, ts.PenMode.Width(), KindPen
}

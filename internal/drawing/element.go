package drawing

// Point is a canvas coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ElementType is the wire tag of a drawing element.
type ElementType string

const (
	TypeRectangle ElementType = "rectangle"
	TypeCircle    ElementType = "circle"
	TypeText      ElementType = "text"
	TypeStroke    ElementType = "path"
)

// StrokeKind tells pen ink from highlighter marks.
type StrokeKind string

const (
	KindPen         StrokeKind = "pen"
	KindHighlighter StrokeKind = "highlighter"
)

// Layer is the placement a highlighter stroke was committed with.
type Layer string

const (
	LayerOnTop  Layer = "on-top"
	LayerBehind Layer = "behind"
)

// Element is one of Rectangle, Circle, Text or Stroke.
type Element interface {
	ElementID() string
	Type() ElementType
	isElement()
}

type Rectangle struct {
	ID          string
	X, Y        float64 // top-left
	Width       float64
	Height      float64
	StrokeColor string
}

type Circle struct {
	ID          string
	CenterX     float64
	CenterY     float64
	Radius      float64
	StrokeColor string
}

type Text struct {
	ID      string
	X, Y    float64 // baseline anchor
	Content string
	Color   string
}

// Stroke is a freehand polyline drawn with the pen or the highlighter.
type Stroke struct {
	ID        string
	Points    []Point
	Color     string
	LineWidth float64
	Kind      StrokeKind
	Layer     Layer
}

func (r Rectangle) ElementID() string { return r.ID }
func (c Circle) ElementID() string    { return c.ID }
func (t Text) ElementID() string      { return t.ID }
func (s Stroke) ElementID() string    { return s.ID }

func (Rectangle) Type() ElementType { return TypeRectangle }
func (Circle) Type() ElementType    { return TypeCircle }
func (Text) Type() ElementType      { return TypeText }
func (Stroke) Type() ElementType    { return TypeStroke }

func (Rectangle) isElement() {}
func (Circle) isElement()    {}
func (Text) isElement()      {}
func (Stroke) isElement()    {}

// IsBehind reports whether the stroke paints underneath every other element.
func (s Stroke) IsBehind() bool {
	return s.Kind == KindHighlighter && s.Layer == LayerBehind
}

// nearPoint reports whether any point of the stroke lies strictly within radius of p.
func (s Stroke) nearPoint(p Point, radius float64) bool {
	r2 := radius * radius
	for _, q := range s.Points {
		dx, dy := q.X-p.X, q.Y-p.Y
		if dx*dx+dy*dy < r2 {
			return true
		}
	}
	return false
}

// Document is a named, ordered element list.
type Document struct {
	Name     string
	Elements []Element
}

// Clone returns a copy whose element slice and stroke points are not shared.
func Clone(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, el := range elements {
		if s, ok := el.(Stroke); ok {
			s.Points = append([]Point(nil), s.Points...)
			el = s
		}
		out[i] = el
	}
	return out
}

package drawing

import (
	"encoding/json"
	"fmt"
	"log"
)

// wireElement is the JSON shape shared with the web client. Strokes keep the
// legacy x/y (first point) so older readers still place them.
type wireElement struct {
	ID        string      `json:"id"`
	Type      ElementType `json:"type"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     *float64    `json:"width,omitempty"`
	Height    *float64    `json:"height,omitempty"`
	Radius    *float64    `json:"radius,omitempty"`
	Text      *string     `json:"text,omitempty"`
	Color     string      `json:"color"`
	Points    []Point     `json:"points,omitempty"`
	LineWidth *float64    `json:"lineWidth,omitempty"`
	Kind      StrokeKind  `json:"kind,omitempty"`
	Layer     Layer       `json:"layer,omitempty"`
}

const legacyLineWidth = 2.0

func f64(v float64) *float64 { return &v }

func toWire(el Element) (wireElement, error) {
	switch e := el.(type) {
	case Rectangle:
		return wireElement{ID: e.ID, Type: TypeRectangle, X: e.X, Y: e.Y,
			Width: f64(e.Width), Height: f64(e.Height), Color: e.StrokeColor}, nil
	case Circle:
		return wireElement{ID: e.ID, Type: TypeCircle, X: e.CenterX, Y: e.CenterY,
			Radius: f64(e.Radius), Color: e.StrokeColor}, nil
	case Text:
		content := e.Content
		return wireElement{ID: e.ID, Type: TypeText, X: e.X, Y: e.Y, Text: &content, Color: e.Color}, nil
	case Stroke:
		w := wireElement{ID: e.ID, Type: TypeStroke, Color: e.Color, Points: e.Points,
			LineWidth: f64(e.LineWidth), Kind: e.Kind, Layer: e.Layer}
		if len(e.Points) > 0 {
			w.X, w.Y = e.Points[0].X, e.Points[0].Y
		}
		return w, nil
	default:
		return wireElement{}, fmt.Errorf("unsupported element %T", el)
	}
}

func fromWire(w wireElement) (Element, error) {
	deref := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return *p
	}
	switch w.Type {
	case TypeRectangle:
		return Rectangle{ID: w.ID, X: w.X, Y: w.Y, Width: deref(w.Width, 0), Height: deref(w.Height, 0), StrokeColor: w.Color}, nil
	case TypeCircle:
		return Circle{ID: w.ID, CenterX: w.X, CenterY: w.Y, Radius: deref(w.Radius, 0), StrokeColor: w.Color}, nil
	case TypeText:
		t := Text{ID: w.ID, X: w.X, Y: w.Y, Color: w.Color}
		if w.Text != nil {
			t.Content = *w.Text
		}
		return t, nil
	case TypeStroke:
		s := Stroke{ID: w.ID, Points: w.Points, Color: w.Color,
			LineWidth: deref(w.LineWidth, legacyLineWidth), Kind: w.Kind, Layer: w.Layer}
		if s.Kind == "" {
			// Documents written before strokes were tagged only carry the width.
			s.Kind = KindPen
			if s.LineWidth >= HighlighterThreshold {
				s.Kind = KindHighlighter
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown element type %q (id %q)", w.Type, w.ID)
	}
}

// Encode serializes the elements in document order.
func Encode(elements []Element) ([]byte, error) {
	wire := make([]wireElement, 0, len(elements))
	for _, el := range elements {
		w, err := toWire(el)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

// EncodeString is Encode for callers that pass documents around as strings.
func EncodeString(elements []Element) (string, error) {
	data, err := Encode(elements)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a serialized element list, rejecting malformed JSON and
// unknown element types.
func Decode(data []byte) ([]Element, error) {
	var wire []wireElement
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	elements := make([]Element, 0, len(wire))
	for _, w := range wire {
		el, err := fromWire(w)
		if err != nil {
			return nil, fmt.Errorf("decode elements: %w", err)
		}
		elements = append(elements, el)
	}
	return elements, nil
}

// Load is the permissive form of Decode: anything unreadable becomes an
// empty list.
func Load(data string) []Element {
	if data == "" {
		return []Element{}
	}
	elements, err := Decode([]byte(data))
	if err != nil {
		log.Printf("[CANVAS] Ignoring unreadable canvas data: %v", err)
		return []Element{}
	}
	return elements
}

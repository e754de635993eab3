package drawing

import (
	"fmt"
	"log"
	"math"
	"strings"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseTextPending
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseTextPending:
		return "text-pending"
	default:
		return "idle"
	}
}

// Interaction is the transient pointer state. It is reset after every
// pointer-up except when a text element is waiting for its content.
type Interaction struct {
	Phase  Phase
	Tool   Tool // tool the interaction started with
	Anchor Point
	Cursor Point
	Moved  bool
	Live   []Point
}

// Stored is a previously saved canvas as the host hands it over.
type Stored struct {
	Name string
	Data string
}

// Config wires a surface to its host.
type Config struct {
	TaskID   string
	Existing *Stored

	// OnSave receives the trimmed name and the serialized elements. A non-nil
	// error keeps the session open so Save can be called again.
	OnSave   func(name, data string) error
	OnCancel func()
	// OnChange is called after anything visible changed.
	OnChange func()

	Width, Height float64
	// MinShapeExtent drops rectangles and circles smaller than this many
	// pixels. Zero keeps every shape, including zero-size ones.
	MinShapeExtent float64
}

// Surface is the canvas editing state machine. It is not safe for concurrent
// use; drive it from the UI goroutine.
type Surface struct {
	cfg         Config
	name        string
	nameEdited  bool
	nameInvalid bool
	elements    []Element
	tools       ToolState
	ia          Interaction
	ids         *IDSource
	closed      bool
}

func NewSurface(cfg Config) *Surface {
	if cfg.Width <= 0 {
		cfg.Width = CanvasWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = CanvasHeight
	}
	s := &Surface{
		cfg:      cfg,
		elements: []Element{},
		tools:    DefaultToolState(),
		ids:      NewIDSource(),
	}
	if cfg.Existing != nil {
		s.name = cfg.Existing.Name
		s.elements = Load(cfg.Existing.Data)
		for _, el := range s.elements {
			s.ids.Observe(el.ElementID())
		}
	}
	return s
}

func (s *Surface) TaskID() string { return s.cfg.TaskID }

func (s *Surface) Name() string { return s.name }

// SetName records a rename typed by the user.
func (s *Surface) SetName(name string) {
	s.name = name
	s.nameEdited = true
	if strings.TrimSpace(name) != "" {
		s.nameInvalid = false
	}
	s.changed()
}

// AdoptName applies a name that arrived after mount, unless the user has
// already started editing the field.
func (s *Surface) AdoptName(name string) bool {
	if s.nameEdited || name == "" || name == s.name {
		return false
	}
	s.name = name
	s.changed()
	return true
}

// NameInvalid reports whether the last Save was refused for a blank name.
func (s *Surface) NameInvalid() bool { return s.nameInvalid }

func (s *Surface) Tools() ToolState { return s.tools }

func (s *Surface) Interaction() Interaction {
	ia := s.ia
	ia.Live = append([]Point(nil), s.ia.Live...)
	return ia
}

// Elements returns a copy of the document in document order.
func (s *Surface) Elements() []Element { return Clone(s.elements) }

func (s *Surface) Len() int { return len(s.elements) }

func (s *Surface) Closed() bool { return s.closed }

// SelectTool switches tools. A drag in progress is abandoned and pending
// text is discarded.
func (s *Surface) SelectTool(t Tool) {
	if s.ia.Phase != PhaseIdle {
		s.reset()
	}
	s.tools.Selected = t
	s.changed()
}

func (s *Surface) SetPenColor(c string) {
	s.tools.PenColor = c
	s.changed()
}

func (s *Surface) SetPenMode(m PenMode) {
	s.tools.PenMode = m
	s.changed()
}

func (s *Surface) SetHighlighterColor(c string) {
	s.tools.HighlighterColor = c
	s.changed()
}

// SetHighlighterLayer only affects strokes committed afterwards.
func (s *Surface) SetHighlighterLayer(l Layer) {
	s.tools.HighlighterLayer = l
	s.changed()
}

// PointerDown starts an interaction with the selected tool.
func (s *Surface) PointerDown(p Point) {
	if s.closed {
		return
	}
	if s.ia.Phase == PhaseTextPending {
		s.reset()
	}
	tool := s.tools.Selected
	s.ia = Interaction{Phase: PhaseDragging, Tool: tool, Anchor: p, Cursor: p}
	switch {
	case tool.draws():
		s.ia.Live = []Point{p}
	case tool == ToolEraser:
		s.eraseAt(p)
	}
	s.changed()
}

// PointerMove extends the live stroke, keeps erasing or updates the shape preview.
func (s *Surface) PointerMove(p Point) {
	if s.closed || s.ia.Phase != PhaseDragging {
		return
	}
	s.ia.Cursor = p
	s.ia.Moved = true
	switch {
	case s.ia.Tool.draws():
		s.ia.Live = append(s.ia.Live, p)
	case s.ia.Tool == ToolEraser:
		s.eraseAt(p)
	}
	s.changed()
}

// PointerUp commits whatever the interaction produced.
func (s *Surface) PointerUp(p Point) {
	if s.closed || s.ia.Phase != PhaseDragging {
		return
	}
	a := s.ia.Anchor
	switch s.ia.Tool {
	case ToolPen, ToolHighlighter:
		if len(s.ia.Live) >= 2 {
			s.commitStroke(s.ia.Live)
		}
	case ToolRectangle:
		r := Rectangle{
			X: math.Min(a.X, p.X), Y: math.Min(a.Y, p.Y),
			Width: math.Abs(p.X - a.X), Height: math.Abs(p.Y - a.Y),
			StrokeColor: ShapeColor,
		}
		if s.keepShape(math.Max(r.Width, r.Height)) {
			r.ID = s.ids.Next()
			s.elements = append(s.elements, r)
		}
	case ToolCircle:
		c := Circle{CenterX: a.X, CenterY: a.Y, Radius: Distance(a, p), StrokeColor: ShapeColor}
		if s.keepShape(c.Radius) {
			c.ID = s.ids.Next()
			s.elements = append(s.elements, c)
		}
	case ToolText:
		s.ia = Interaction{Phase: PhaseTextPending, Tool: ToolText, Anchor: a, Cursor: a}
		s.changed()
		return
	}
	s.reset()
	s.changed()
}

// PendingText reports where a text element is waiting for its content.
func (s *Surface) PendingText() (Point, bool) {
	return s.ia.Anchor, s.ia.Phase == PhaseTextPending
}

// ConfirmText commits the pending text element. Empty content commits nothing.
func (s *Surface) ConfirmText(content string) bool {
	if s.closed || s.ia.Phase != PhaseTextPending {
		return false
	}
	a := s.ia.Anchor
	s.reset()
	committed := false
	if content != "" {
		s.elements = append(s.elements, Text{ID: s.ids.Next(), X: a.X, Y: a.Y, Content: content, Color: ShapeColor})
		committed = true
	}
	s.changed()
	return committed
}

func (s *Surface) CancelText() {
	if s.ia.Phase != PhaseTextPending {
		return
	}
	s.reset()
	s.changed()
}

// ClearAll empties the document. Only Cancel undoes it.
func (s *Surface) ClearAll() {
	if s.closed {
		return
	}
	s.elements = []Element{}
	s.changed()
}

// Serialized is the current document in wire form.
func (s *Surface) Serialized() (string, error) {
	return EncodeString(s.elements)
}

// Prepare validates the name and serializes the document without emitting
// it. Hosts that store the result themselves call MarkSaved afterwards.
func (s *Surface) Prepare() (name, data string, err error) {
	if s.closed {
		return "", "", ErrSessionClosed
	}
	name = strings.TrimSpace(s.name)
	if name == "" {
		s.nameInvalid = true
		s.changed()
		return "", "", ErrNameRequired
	}
	data, err = s.Serialized()
	if err != nil {
		return "", "", fmt.Errorf("save canvas: %w", err)
	}
	return name, data, nil
}

// MarkSaved ends the session after the host stored what Prepare returned.
func (s *Surface) MarkSaved() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	s.reset()
	return nil
}

// Save emits the trimmed name and serialized elements through OnSave and
// closes the session. A blank name or a failing OnSave keeps it open.
func (s *Surface) Save() error {
	name, data, err := s.Prepare()
	if err != nil {
		return err
	}
	log.Printf("[CANVAS] Saving canvas %q with %d elements", name, len(s.elements))
	if s.cfg.OnSave != nil {
		if err := s.cfg.OnSave(name, data); err != nil {
			log.Printf("[CANVAS] Save of %q failed, keeping edits: %v", name, err)
			return fmt.Errorf("save canvas: %w", err)
		}
	}
	return s.MarkSaved()
}

// Cancel ends the session without emitting any data.
func (s *Surface) Cancel() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	s.reset()
	if s.cfg.OnCancel != nil {
		s.cfg.OnCancel()
	}
	return nil
}

// Scene describes the current frame: committed elements plus the live
// stroke or the dashed shape preview.
func (s *Surface) Scene() Scene {
	sc := Scene{Width: s.cfg.Width, Height: s.cfg.Height, Elements: s.elements}
	if s.ia.Phase != PhaseDragging {
		return sc
	}
	switch s.ia.Tool {
	case ToolPen, ToolHighlighter:
		c, w, kind := s.tools.activeStroke()
		sc.Live = &Stroke{Points: s.ia.Live, Color: c, LineWidth: w, Kind: kind}
	case ToolRectangle:
		if s.ia.Moved {
			sc.Preview = &Shape{Kind: ShapeRectangle, Anchor: s.ia.Anchor, Cursor: s.ia.Cursor}
		}
	case ToolCircle:
		if s.ia.Moved {
			sc.Preview = &Shape{Kind: ShapeCircle, Anchor: s.ia.Anchor, Cursor: s.ia.Cursor}
		}
	}
	return sc
}

func (s *Surface) Render(p Painter) {
	Render(p, s.Scene())
}

func (s *Surface) commitStroke(points []Point) {
	c, w, kind := s.tools.activeStroke()
	st := Stroke{
		ID:        s.ids.Next(),
		Points:    append([]Point(nil), points...),
		Color:     c,
		LineWidth: w,
		Kind:      kind,
		Layer:     LayerOnTop,
	}
	if kind == KindHighlighter && s.tools.HighlighterLayer == LayerBehind {
		st.Layer = LayerBehind
		s.elements = append([]Element{st}, s.elements...)
		return
	}
	s.elements = append(s.elements, st)
}

func (s *Surface) keepShape(extent float64) bool {
	return s.cfg.MinShapeExtent <= 0 || extent >= s.cfg.MinShapeExtent
}

func (s *Surface) eraseAt(p Point) {
	kept := s.elements[:0:0]
	for _, el := range s.elements {
		if st, ok := el.(Stroke); ok && st.nearPoint(p, EraserRadius) {
			continue
		}
		kept = append(kept, el)
	}
	if len(kept) != len(s.elements) {
		log.Printf("[CANVAS] Eraser removed %d strokes", len(s.elements)-len(kept))
		s.elements = kept
	}
}

func (s *Surface) reset() {
	s.ia = Interaction{}
}

func (s *Surface) changed() {
	if s.cfg.OnChange != nil {
		s.cfg.OnChange()
	}
}

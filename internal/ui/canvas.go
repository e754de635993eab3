package ui

import (
	"image"
	"log"
	"sync"

	"TaskCanvas/internal/drawing"
	"TaskCanvas/internal/raster"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CanvasWidget shows a surface and feeds it mouse input. It has the fixed
// size of the canvas; positions map one to one onto canvas pixels.
type CanvasWidget struct {
	widget.BaseWidget
	surface *drawing.Surface
	size    fyne.Size
	lastPos fyne.Position
	locked  bool
}

var _ fyne.Widget = (*CanvasWidget)(nil)
var _ fyne.Draggable = (*CanvasWidget)(nil)
var _ desktop.Mouseable = (*CanvasWidget)(nil)

func NewCanvasWidget(s *drawing.Surface, width, height float32) *CanvasWidget {
	c := &CanvasWidget{surface: s, size: fyne.NewSize(width, height)}
	c.ExtendBaseWidget(c)
	return c
}

// SetLocked ignores input while a save is in flight.
func (c *CanvasWidget) SetLocked(locked bool) { c.locked = locked }

func point(p fyne.Position) drawing.Point {
	return drawing.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (c *CanvasWidget) MouseDown(e *desktop.MouseEvent) {
	if c.locked || e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.lastPos = e.Position
	c.surface.PointerDown(point(e.Position))
}

func (c *CanvasWidget) MouseUp(e *desktop.MouseEvent) {
	if c.locked || e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.lastPos = e.Position
	c.surface.PointerUp(point(e.Position))
}

func (c *CanvasWidget) Dragged(e *fyne.DragEvent) {
	if c.locked {
		return
	}
	c.lastPos = e.Position
	c.surface.PointerMove(point(e.Position))
}

// DragEnd finishes a drag released outside the widget, where no MouseUp
// arrives. After a MouseUp the surface is idle and this does nothing.
func (c *CanvasWidget) DragEnd() {
	if c.locked {
		return
	}
	c.surface.PointerUp(point(c.lastPos))
}

func (c *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &canvasRenderer{board: c}
	r.raster = canvas.NewRaster(r.frame)
	r.raster.Resize(c.size)
	r.snapshot()
	return r
}

// canvasRenderer draws the surface through the raster painter into a
// single image, so translucent strokes blend once per pixel.
type canvasRenderer struct {
	board  *CanvasWidget
	raster *canvas.Raster

	mu    sync.Mutex
	scene drawing.Scene
}

// snapshot copies the current scene on the UI goroutine; frame may run
// on the render thread.
func (r *canvasRenderer) snapshot() {
	sc := r.board.surface.Scene()
	sc.Elements = append([]drawing.Element(nil), sc.Elements...)
	if sc.Live != nil {
		live := *sc.Live
		live.Points = append([]drawing.Point(nil), live.Points...)
		sc.Live = &live
	}
	r.mu.Lock()
	r.scene = sc
	r.mu.Unlock()
}

func (r *canvasRenderer) frame(w, h int) image.Image {
	r.mu.Lock()
	sc := r.scene
	r.mu.Unlock()
	img, err := raster.Frame(sc, w, h)
	if err != nil {
		log.Printf("[CANVAS] Render failed: %v", err)
		return image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	return img
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.raster} }

func (r *canvasRenderer) Refresh() {
	r.snapshot()
	r.raster.Refresh()
}

func (r *canvasRenderer) Layout(size fyne.Size) { r.raster.Resize(size) }
func (r *canvasRenderer) MinSize() fyne.Size    { return r.board.size }
func (r *canvasRenderer) Destroy()              {}

func (c *CanvasWidget) MouseIn(*desktop.MouseEvent)    {}
func (c *CanvasWidget) MouseOut()                      {}
func (c *CanvasWidget) MouseMoved(*desktop.MouseEvent) {}

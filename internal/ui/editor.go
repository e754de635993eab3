package ui

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	
	"TaskCanvas/internal/drawing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var hintColor = color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}

// Options configures an editor for one canvas of a task.
type Options struct {
	TaskID   string
	Existing *drawing.Stored

	Width, Height  float64
	MinShapeExtent float64

	// OnSave stores the canvas. It runs off the UI goroutine and may block.
	OnSave func(name, data string) error
	// OnClose runs on the UI goroutine once the session ended.
	OnClose func(saved bool)
}

// Editor is the canvas editing view: header with name and actions, toolbar,
// canvas, text compose bar and status line.
type Editor struct {
	surface *drawing.Surface
	window  fyne.Window
	opts    Options

	board     *CanvasWidget
	toolbar   *Toolbar
	nameEntry *widget.Entry
	nameHint  *canvas.Text
	saveBtn   *widget.Button
	cancelBtn *widget.Button
	compose   *fyne.Container
	textEntry *widget.Entry
	status    *widget.Label
	content   fyne.CanvasObject

	saving bool
	// run starts background work; do hands results back to the UI goroutine.
	run func(func())
	do  func(func())
}

func NewEditor(w fyne.Window, opts Options) *Editor {
	e := &Editor{
		window: w,
		opts:   opts,
		run:    func(f func()) { go f() },
		do:     fyne.Do,
	}
	e.surface = drawing.NewSurface(drawing.Config{
		TaskID:         opts.TaskID,
		Existing:       opts.Existing,
		OnCancel:       func() { e.close(false) },
		OnChange:       e.refresh,
		Width:          opts.Width,
		Height:         opts.Height,
		MinShapeExtent: opts.MinShapeExtent,
	})
	sc := e.surface.Scene()
	e.board = NewCanvasWidget(e.surface, float32(sc.Width), float32(sc.Height))
	e.toolbar = NewToolbar(e.surface, w)

	// --- Header ---
	e.nameEntry = widget.NewEntry()
	e.nameEntry.SetPlaceHolder("Canvas name")
	e.nameEntry.SetText(e.surface.Name())
	e.nameEntry.OnChanged = e.surface.SetName
	e.nameEntry.OnSubmitted = func(string) { e.Save() }
	e.nameHint = canvas.NewText("Please enter a canvas name", hintColor)
	e.nameHint.TextSize = theme.CaptionTextSize()
	e.nameHint.Hide()
	e.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), e.Save)
	e.saveBtn.Importance = widget.HighImportance
	e.cancelBtn = widget.NewButtonWithIcon("", theme.CancelIcon(), e.Cancel)

	header := container.NewBorder(nil, nil,
		widget.NewIcon(theme.ColorPaletteIcon()),
		container.NewHBox(e.saveBtn, e.cancelBtn),
		container.NewVBox(e.nameEntry, e.nameHint),
	)

	// --- Text compose bar ---
	e.textEntry = widget.NewEntry()
	e.textEntry.SetPlaceHolder("Enter text")
	e.textEntry.OnSubmitted = func(string) { e.confirmText() }
	e.compose = container.NewBorder(nil, nil, widget.NewLabel("Text:"),
		container.NewHBox(
			widget.NewButtonWithIcon("", theme.ConfirmIcon(), e.confirmText),
			widget.NewButtonWithIcon("", theme.CancelIcon(), e.surface.CancelText),
		),
		e.textEntry,
	)
	e.compose.Hide()

	e.status = widget.NewLabel("")
	e.status.TextStyle = fyne.TextStyle{Monospace: true}

	board := container.NewScroll(container.NewCenter(container.NewPadded(e.board)))
	e.content = container.NewBorder(
		container.NewVBox(header, widget.NewSeparator(), e.toolbar.Content(), widget.NewSeparator()),
		container.NewVBox(e.compose, widget.NewSeparator(), container.NewHBox(e.status, layout.NewSpacer())),
		nil, nil,
		board,
	)
	e.refresh()
	return e
}

func (e *Editor) Content() fyne.CanvasObject { return e.content }

func (e *Editor) Surface() *drawing.Surface { return e.surface }

// StatusText is the line shown under the canvas.
func (e *Editor) StatusText() string {
	return statusText(e.surface.Tools(), e.surface.Len())
}

func statusText(ts drawing.ToolState, n int) string {
	s := fmt.Sprintf("Tool: %s | Elements: %d", ts.Selected, n)
	if ts.Selected == drawing.ToolHighlighter {
		s += fmt.Sprintf(" | Mode: %s", ts.HighlighterLayer)
	}
	return s
}

// refresh brings every widget in line with the surface.
func (e *Editor) refresh() {
	if e.status == nil {
		return
	}
	e.board.Refresh()
	e.toolbar.Update()
	e.status.SetText(e.StatusText())

	if e.surface.NameInvalid() {
		e.nameHint.Show()
	} else {
		e.nameHint.Hide()
	}

	if _, pending := e.surface.PendingText(); pending {
		if !e.compose.Visible() {
			e.textEntry.SetText("")
			e.compose.Show()
			if c := e.canvasOf(); c != nil {
				c.Focus(e.textEntry)
			}
		}
	} else if e.compose.Visible() {
		e.compose.Hide()
	}
}

func (e *Editor) canvasOf() fyne.Canvas {
	if e.window == nil {
		return nil
	}
	return e.window.Canvas()
}

func (e *Editor) confirmText() {
	e.surface.ConfirmText(e.textEntry.Text)
}

// Save validates and serializes on the UI goroutine, then runs OnSave in
// the background. Input is locked until the result is back.
func (e *Editor) Save() {
	if e.saving || e.surface.Closed() {
		return
	}
	name, data, err := e.surface.Prepare()
	if errors.Is(err, drawing.ErrNameRequired) {
		if c := e.canvasOf(); c != nil {
			c.Focus(e.nameEntry)
		}
		return
	}
	if err != nil {
		log.Printf("[CANVAS] Cannot save: %v", err)
		return
	}

	log.Printf("[CANVAS] Saving canvas %q with %d elements", name, e.surface.Len())
	e.setSaving(true)
	onSave := e.opts.OnSave
	e.run(func() {
		var err error
		if onSave != nil {
			err = onSave(name, data)
		}
		e.do(func() { e.saved(err) })
	})
}

func (e *Editor) saved(err error) {
	e.setSaving(false)
	if err != nil {
		log.Printf("[CANVAS] Save failed, keeping edits: %v", err)
		if e.window != nil {
			dialog.ShowError(err, e.window)
		}
		e.refresh()
		return
	}
	if err := e.surface.MarkSaved(); err != nil {
		log.Printf("[CANVAS] Canvas already closed: %v", err)
		return
	}
	e.close(true)
}

func (e *Editor) setSaving(saving bool) {
	e.saving = saving
	e.board.SetLocked(saving)
	e.toolbar.SetEnabled(!saving)
	setEnabled(e.saveBtn, !saving)
	setEnabled(e.cancelBtn, !saving)
	setEnabled(e.nameEntry, !saving)
	if saving {
		e.status.SetText("Saving…")
	}
}

func (e *Editor) Cancel() {
	if e.saving {
		return
	}
	e.surface.Cancel()
}

func (e *Editor) close(saved bool) {
	if e.opts.OnClose != nil {
		e.opts.OnClose(saved)
	}
}

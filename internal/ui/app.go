package ui

import (
	"fmt"
	"log"

	"TaskCanvas/internal/drawing"
	"TaskCanvas/internal/export"
	"TaskCanvas/internal/raster"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const AppID = "io.taskcanvas.editor"

// RunApp opens the editor window and blocks until it is closed.
func RunApp(title string, opts Options) {
	myApp := app.NewWithID(AppID)
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(fyne.NewSize(1024, 820))

	onClose := opts.OnClose
	opts.OnClose = func(saved bool) {
		if onClose != nil {
			onClose(saved)
		}
		myWindow.Close()
	}
	ed := NewEditor(myWindow, opts)

	myWindow.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Save", ed.Save),
			fyne.NewMenuItem("Export PDF…", func() { ed.exportDialog("pdf") }),
			fyne.NewMenuItem("Export PNG…", func() { ed.exportDialog("png") }),
		),
	))
	myWindow.SetCloseIntercept(func() {
		if ed.Surface().Closed() {
			myWindow.Close()
			return
		}
		ed.Cancel()
	})
	myWindow.SetContent(ed.Content())
	myWindow.ShowAndRun()
}

// Document is the canvas as currently edited.
func (e *Editor) Document() drawing.Document {
	return drawing.Document{Name: e.surface.Name(), Elements: e.surface.Elements()}
}

func (e *Editor) exportDialog(format string) {
	if e.window == nil {
		return
	}
	doc := e.Document()
	sc := e.surface.Scene()
	save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.window)
			return
		}
		if w == nil {
			return
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Printf("[CANVAS] Error closing export: %v", err)
			}
		}()
		if err := writeExport(w, format, doc, sc.Width, sc.Height); err != nil {
			dialog.ShowError(err, e.window)
			return
		}
		log.Printf("[CANVAS] Exported %d elements to %s", len(doc.Elements), w.URI())
	}, e.window)
	save.SetFileName(exportName(doc.Name, format))
	save.Show()
}

func writeExport(w fyne.URIWriteCloser, format string, doc drawing.Document, width, height float64) error {
	switch format {
	case "pdf":
		return export.WritePDF(w, doc, width, height)
	case "png":
		return raster.EncodePNG(w, doc.Elements, int(width), int(height))
	}
	return fmt.Errorf("unknown export format %q", format)
}

func exportName(name, format string) string {
	if name == "" {
		name = "canvas"
	}
	return name + "." + format
}

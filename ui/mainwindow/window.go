// Package mainwindow assembles the editor window: map view, menus, status
// bar and keyboard wiring.
package mainwindow

import (
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"tilemapper/internal/app"
	"tilemapper/internal/history"
	"tilemapper/internal/tilemap"
	"tilemapper/internal/tool"
	"tilemapper/ui/canvas"
	"tilemapper/ui/prefs"
)

// MainWindow is the top-level editor window.
type MainWindow struct {
	win  fyne.Window
	doc  *tilemap.Document
	tool *tool.SelectionTool
	view *canvas.MapView

	preferences *prefs.Preferences
	status      *widget.Label
	reloader    *app.HotReloader
	log         zerolog.Logger
}

// New builds the window around an existing document, scene and tool.
func New(fyneApp fyne.App, doc *tilemap.Document, scene *tilemap.Scene, selectionTool *tool.SelectionTool, preferences *prefs.Preferences, log zerolog.Logger) *MainWindow {
	w := &MainWindow{
		win:         fyneApp.NewWindow("Tilemapper"),
		doc:         doc,
		tool:        selectionTool,
		preferences: preferences,
		status:      widget.NewLabel(""),
		log:         log.With().Str("component", "mainwindow").Logger(),
	}

	w.view = canvas.NewMapView(doc, scene, selectionTool)
	w.view.SetZoom(preferences.Zoom)
	w.view.OnZoomChange(func(zoom float64) {
		w.preferences.Zoom = zoom
		w.updateStatus()
	})

	doc.On(tilemap.EventSelectionChanged, func(any) { w.updateStatus() })
	doc.On(tilemap.EventObjectsChanged, func(any) { w.updateStatus() })

	w.win.SetMainMenu(w.buildMenu())
	w.win.SetContent(container.NewBorder(nil, w.status, nil, nil, w.view.Container()))
	w.win.Resize(fyne.NewSize(float32(preferences.WindowWidth), float32(preferences.WindowHeight)))

	w.wireKeyboard()
	w.startHotReload()

	w.win.SetCloseIntercept(func() {
		size := w.win.Canvas().Size()
		w.preferences.WindowWidth = int(size.Width)
		w.preferences.WindowHeight = int(size.Height)
		if err := w.preferences.Save(); err != nil {
			w.log.Warn().Err(err).Msg("saving preferences")
		}
		w.win.Close()
	})

	w.updateStatus()
	return w
}

// ShowAndRun displays the window and enters the Fyne main loop.
func (w *MainWindow) ShowAndRun() {
	w.win.ShowAndRun()
}

func (w *MainWindow) buildMenu() *fyne.MainMenu {
	undoItem := fyne.NewMenuItem("Undo", w.undo)
	redoItem := fyne.NewMenuItem("Redo", w.redo)
	deleteItem := fyne.NewMenuItem("Delete", w.deleteSelection)

	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), deleteItem)

	zoomIn := fyne.NewMenuItem("Zoom In", w.view.ZoomIn)
	zoomOut := fyne.NewMenuItem("Zoom Out", w.view.ZoomOut)
	zoomReset := fyne.NewMenuItem("Reset Zoom", func() { w.view.SetZoom(1.0) })
	viewMenu := fyne.NewMenu("View", zoomIn, zoomOut, zoomReset)

	resizeMode := fyne.NewMenuItem("Resize Mode", func() {
		w.tool.SetMode(tool.ResizeMode)
		w.view.Refresh()
		w.updateStatus()
	})
	rotateMode := fyne.NewMenuItem("Rotate Mode", func() {
		w.tool.SetMode(tool.RotateMode)
		w.view.Refresh()
		w.updateStatus()
	})

	snapGrid := fyne.NewMenuItem("Snap to Grid", nil)
	snapGrid.Checked = w.preferences.SnapToGrid
	snapGrid.Action = func() {
		w.preferences.SnapToGrid = !w.preferences.SnapToGrid
		snapGrid.Checked = w.preferences.SnapToGrid
		w.applySnapPrefs()
	}

	snapFine := fyne.NewMenuItem("Snap to Fine Grid", nil)
	snapFine.Checked = w.preferences.SnapToFineGrid
	snapFine.Action = func() {
		w.preferences.SnapToFineGrid = !w.preferences.SnapToFineGrid
		snapFine.Checked = w.preferences.SnapToFineGrid
		w.applySnapPrefs()
	}

	objectMenu := fyne.NewMenu("Object", resizeMode, rotateMode, fyne.NewMenuItemSeparator(), snapGrid, snapFine)

	return fyne.NewMainMenu(editMenu, viewMenu, objectMenu)
}

func (w *MainWindow) applySnapPrefs() {
	cfg := w.tool.SnapConfig()
	cfg.SnapToGrid = w.preferences.SnapToGrid
	cfg.SnapToFineGrid = w.preferences.SnapToFineGrid
	cfg.GridFine = w.preferences.GridFine
	w.tool.SetSnapConfig(cfg)
}

func (w *MainWindow) undo() {
	if err := w.doc.History.Undo(); err != nil {
		if !errors.Is(err, history.ErrNothingToUndo) {
			w.log.Warn().Err(err).Msg("undo failed")
		}
		return
	}
	w.view.Refresh()
	w.updateStatus()
}

func (w *MainWindow) redo() {
	if err := w.doc.History.Redo(); err != nil {
		if !errors.Is(err, history.ErrNothingToRedo) {
			w.log.Warn().Err(err).Msg("redo failed")
		}
		return
	}
	w.view.Refresh()
	w.updateStatus()
}

func (w *MainWindow) deleteSelection() {
	selection := w.doc.Selection()
	if len(selection) == 0 {
		return
	}

	cmd := tilemap.NewRemoveObjectsCommand(w.doc, selection)
	if err := cmd.Do(); err != nil {
		w.log.Warn().Err(err).Msg("delete failed")
		return
	}
	w.doc.History.Push(cmd)
	w.view.Refresh()
	w.updateStatus()
}

// wireKeyboard routes key events to the map view. Fyne reports modifier
// keys as ordinary key presses, which the view tracks itself.
func (w *MainWindow) wireKeyboard() {
	deskCanvas, ok := w.win.Canvas().(desktop.Canvas)
	if !ok {
		return
	}

	deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		if w.view.HandleKeyDown(ev) {
			w.updateStatus()
		}
	})
	deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		w.view.HandleKeyUp(ev)
	})
}

func (w *MainWindow) startHotReload() {
	w.reloader = app.NewHotReloader(2 * time.Second)
	if w.reloader == nil {
		return
	}

	w.reloader.OnNewBinary(func() {
		dialog.ShowConfirm("New build detected",
			"A newer binary is available. Restart now?",
			func(restart bool) {
				if restart {
					if err := w.reloader.Restart(); err != nil {
						w.log.Error().Err(err).Msg("restart failed")
					}
				} else {
					w.reloader.ResetBaseline()
					w.reloader.Start()
				}
			}, w.win)
	})
	w.reloader.Start()
}

func (w *MainWindow) updateStatus() {
	mode := "Resize"
	if w.tool.Mode() == tool.RotateMode {
		mode = "Rotate"
	}

	text := fmt.Sprintf("Mode: %s | Selected: %d | Zoom: %.0f%%",
		mode, w.doc.SelectedCount(), w.view.Zoom()*100)
	if name := w.doc.History.UndoName(); name != "" {
		text += " | Undo: " + name
	}
	w.status.SetText(text)
}

// Tilemapper is a 2D tile-map editor focused on object layers: select, move,
// rotate and resize map objects with handles drawn over the map canvas.
package main

import (
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"tilemapper/internal/app"
	"tilemapper/internal/render"
	"tilemapper/internal/snap"
	"tilemapper/internal/tilemap"
	"tilemapper/internal/tool"
	"tilemapper/internal/version"
	"tilemapper/pkg/geometry"
	"tilemapper/ui/mainwindow"
	"tilemapper/ui/prefs"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	log.Info().
		Str("version", version.Version).
		Str("commit", version.GitCommit).
		Msg("starting tilemapper")

	preferences := prefs.Load()

	m := tilemap.NewMap(tilemap.Orthogonal, 40, 30, 32, 32)
	doc := tilemap.NewDocument(m, newRenderer(m), log)
	seedObjects(doc)

	scene := tilemap.NewScene(m, doc.Renderer)

	cfg := tool.DefaultConfig()
	cfg.Snap = snap.Config{
		SnapToGrid:     preferences.SnapToGrid,
		SnapToFineGrid: preferences.SnapToFineGrid,
		GridFine:       preferences.GridFine,
	}
	selectionTool := tool.NewSelectionTool(doc, scene, cfg, log)
	selectionTool.Activate()

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.EditorTheme{})

	window := mainwindow.New(fyneApp, doc, scene, selectionTool, preferences, log)
	window.ShowAndRun()

	selectionTool.Deactivate()
}

func newRenderer(m *tilemap.Map) render.Renderer {
	if m.Orientation == tilemap.Isometric {
		return render.NewIsometric(float64(m.TileWidth), float64(m.TileHeight), m.Height)
	}
	return render.NewOrthogonal(float64(m.TileWidth), float64(m.TileHeight))
}

// seedObjects populates a fresh map with a few objects so there is something
// to select right away.
func seedObjects(doc *tilemap.Document) {
	layer := doc.Map.Layers[0]

	doc.AddObject(layer, &tilemap.MapObject{
		Name:     "spawn",
		Position: geometry.NewPoint2D(96, 96),
		Size:     geometry.NewSize(64, 48),
		Shape:    tilemap.Rectangle,
	})
	doc.AddObject(layer, &tilemap.MapObject{
		Name:     "trigger",
		Position: geometry.NewPoint2D(288, 160),
		Size:     geometry.NewSize(96, 96),
		Shape:    tilemap.Ellipse,
	})

	path := &tilemap.MapObject{
		Name:     "patrol",
		Position: geometry.NewPoint2D(480, 96),
		Shape:    tilemap.Polyline,
	}
	path.SetPolygon([]geometry.Point2D{
		{X: 0, Y: 0},
		{X: 64, Y: 32},
		{X: 128, Y: 0},
		{X: 192, Y: 64},
	})
	doc.AddObject(layer, path)
}

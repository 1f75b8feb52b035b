package tilemap

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilemapper/internal/render"
	"tilemapper/pkg/geometry"
)

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	m := NewMap(Orthogonal, 20, 20, 32, 32)
	return NewDocument(m, render.NewOrthogonal(32, 32), zerolog.Nop())
}

func addDocObject(doc *Document, x, y float64) *MapObject {
	o := &MapObject{
		Position: geometry.NewPoint2D(x, y),
		Size:     geometry.NewSize(32, 32),
		Shape:    Rectangle,
	}
	doc.AddObject(doc.Map.Layers[0], o)
	return o
}

func TestAddObjectAssignsUniqueIDs(t *testing.T) {
	doc := newTestDocument(t)

	a := addDocObject(doc, 0, 0)
	b := addDocObject(doc, 32, 0)

	assert.NotZero(t, a.ID)
	assert.NotZero(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Same(t, doc.Map.Layers[0], a.Layer())
}

func TestSetSelectionEmitsOnlyOnChange(t *testing.T) {
	doc := newTestDocument(t)
	a := addDocObject(doc, 0, 0)

	var events int
	doc.On(EventSelectionChanged, func(any) { events++ })

	doc.SetSelection([]*MapObject{a})
	doc.SetSelection([]*MapObject{a})
	assert.Equal(t, 1, events)
	assert.True(t, doc.IsSelected(a))
	assert.Equal(t, 1, doc.SelectedCount())

	doc.ClearSelection()
	assert.Equal(t, 2, events)
	assert.False(t, doc.IsSelected(a))
}

func TestSelectionReturnsCopy(t *testing.T) {
	doc := newTestDocument(t)
	a := addDocObject(doc, 0, 0)
	b := addDocObject(doc, 32, 0)

	doc.SetSelection([]*MapObject{a, b})

	selection := doc.Selection()
	selection[0] = nil
	assert.True(t, doc.IsSelected(a), "mutating the returned slice must not affect the document")
}

func TestRemoveObjectsDetachesAndNotifies(t *testing.T) {
	doc := newTestDocument(t)
	a := addDocObject(doc, 0, 0)
	b := addDocObject(doc, 32, 0)
	doc.SetSelection([]*MapObject{a, b})

	var removed []*MapObject
	doc.On(EventObjectsRemoved, func(payload any) {
		removed = payload.([]*MapObject)
	})

	doc.RemoveObjects([]*MapObject{b})

	require.Len(t, removed, 1)
	assert.Same(t, b, removed[0])
	assert.Nil(t, b.Layer())
	assert.Len(t, doc.Map.Layers[0].Objects, 1)

	// The selection drops the removed object.
	assert.False(t, doc.IsSelected(b))
	assert.True(t, doc.IsSelected(a))
}

func TestRemoveObjectsIgnoresDetached(t *testing.T) {
	doc := newTestDocument(t)

	var events int
	doc.On(EventObjectsRemoved, func(any) { events++ })

	doc.RemoveObjects([]*MapObject{{}})
	assert.Equal(t, 0, events)
}

func TestMoveObjectCommand(t *testing.T) {
	doc := newTestDocument(t)
	o := addDocObject(doc, 0, 0)

	oldPos := o.Position
	o.Position = geometry.NewPoint2D(64, 32) // edit in place, then record
	cmd := NewMoveObjectCommand(doc, o, oldPos)
	doc.History.Push(cmd)

	require.NoError(t, doc.History.Undo())
	assert.Equal(t, geometry.NewPoint2D(0, 0), o.Position)

	require.NoError(t, doc.History.Redo())
	assert.Equal(t, geometry.NewPoint2D(64, 32), o.Position)
}

func TestChangePolygonCommandDoesNotAlias(t *testing.T) {
	doc := newTestDocument(t)
	o := &MapObject{Shape: Polygon}
	doc.AddObject(doc.Map.Layers[0], o)

	original := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	o.SetPolygon(original)

	oldPolygon := o.PolygonCopy()
	o.SetPolygon([]geometry.Point2D{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}})
	cmd := NewChangePolygonCommand(doc, o, oldPolygon)

	// Mutating the captured slice afterwards must not leak into the command.
	oldPolygon[0].X = 99

	require.NoError(t, cmd.Undo())
	assert.Equal(t, original, o.Polygon)
}

func TestRemoveObjectsCommandRestoresStackingOrder(t *testing.T) {
	doc := newTestDocument(t)
	a := addDocObject(doc, 0, 0)
	b := addDocObject(doc, 32, 0)
	c := addDocObject(doc, 64, 0)

	cmd := NewRemoveObjectsCommand(doc, []*MapObject{b})
	require.NoError(t, cmd.Do())
	assert.Equal(t, []*MapObject{a, c}, doc.Map.Layers[0].Objects)

	require.NoError(t, cmd.Undo())
	assert.Equal(t, []*MapObject{a, b, c}, doc.Map.Layers[0].Objects)
	assert.Same(t, doc.Map.Layers[0], b.Layer())
}

func TestRemoveObjectsCommandMultiple(t *testing.T) {
	doc := newTestDocument(t)
	a := addDocObject(doc, 0, 0)
	b := addDocObject(doc, 32, 0)
	c := addDocObject(doc, 64, 0)

	cmd := NewRemoveObjectsCommand(doc, []*MapObject{a, c})
	require.NoError(t, cmd.Do())
	assert.Equal(t, []*MapObject{b}, doc.Map.Layers[0].Objects)

	require.NoError(t, cmd.Undo())
	assert.Equal(t, []*MapObject{a, b, c}, doc.Map.Layers[0].Objects)
}

package tilemap

import (
	"sync"

	"github.com/rs/zerolog"

	"tilemapper/internal/history"
	"tilemapper/internal/render"
)

// Event names emitted by a Document.
const (
	EventSelectionChanged = "selection-changed"
	EventObjectsChanged   = "objects-changed"
	EventObjectsRemoved   = "objects-removed"
	EventMapChanged       = "map-changed"
)

// Document binds a map to its renderer, undo history and selection state,
// and notifies listeners of edits.
//
// EventObjectsChanged and EventObjectsRemoved carry a []*MapObject payload;
// removal listeners receive the removed objects by value since the objects
// are already detached from their layers when the event fires.
type Document struct {
	Map      *Map
	Renderer render.Renderer
	History  *history.History

	mu        sync.RWMutex
	selection []*MapObject
	listeners map[string][]func(payload any)
	nextID    int

	log zerolog.Logger
}

// NewDocument wraps a map with editing state. The renderer must match the
// map's orientation.
func NewDocument(m *Map, renderer render.Renderer, log zerolog.Logger) *Document {
	return &Document{
		Map:       m,
		Renderer:  renderer,
		History:   history.New(100),
		listeners: make(map[string][]func(any)),
		nextID:    1,
		log:       log.With().Str("component", "document").Logger(),
	}
}

// On registers a listener for the given event.
func (d *Document) On(event string, fn func(payload any)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[event] = append(d.listeners[event], fn)
}

// Emit calls all listeners registered for the event.
func (d *Document) Emit(event string, payload any) {
	d.mu.RLock()
	fns := append([]func(any){}, d.listeners[event]...)
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(payload)
	}
}

// Selection returns the selected objects. The returned slice is a copy.
func (d *Document) Selection() []*MapObject {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*MapObject, len(d.selection))
	copy(out, d.selection)
	return out
}

// SelectedCount returns the number of selected objects.
func (d *Document) SelectedCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.selection)
}

// IsSelected reports whether the object is part of the selection.
func (d *Document) IsSelected(o *MapObject) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sel := range d.selection {
		if sel == o {
			return true
		}
	}
	return false
}

// SetSelection replaces the selection and emits EventSelectionChanged when
// it actually changed.
func (d *Document) SetSelection(objects []*MapObject) {
	d.mu.Lock()
	if sameObjects(d.selection, objects) {
		d.mu.Unlock()
		return
	}
	d.selection = make([]*MapObject, len(objects))
	copy(d.selection, objects)
	count := len(d.selection)
	d.mu.Unlock()

	d.log.Debug().Int("count", count).Msg("selection changed")
	d.Emit(EventSelectionChanged, nil)
}

// ClearSelection deselects everything.
func (d *Document) ClearSelection() {
	d.SetSelection(nil)
}

// NotifyObjectsChanged announces in-place property edits so views and tools
// can refresh.
func (d *Document) NotifyObjectsChanged(objects []*MapObject) {
	d.Emit(EventObjectsChanged, objects)
}

// AddObject assigns the object a unique ID, appends it to the layer and
// emits EventMapChanged.
func (d *Document) AddObject(layer *ObjectLayer, o *MapObject) {
	d.mu.Lock()
	o.ID = d.nextID
	d.nextID++
	d.mu.Unlock()

	layer.AddObject(o)
	d.Emit(EventMapChanged, nil)
}

// RemoveObjects detaches the objects from their layers, drops them from the
// selection and emits EventObjectsRemoved with the removed objects.
func (d *Document) RemoveObjects(objects []*MapObject) {
	removed := make([]*MapObject, 0, len(objects))
	for _, o := range objects {
		if layer := o.Layer(); layer != nil && layer.RemoveObject(o) {
			removed = append(removed, o)
		}
	}
	if len(removed) == 0 {
		return
	}

	d.mu.Lock()
	kept := d.selection[:0]
	for _, sel := range d.selection {
		if !containsObject(removed, sel) {
			kept = append(kept, sel)
		}
	}
	selectionChanged := len(kept) != len(d.selection)
	d.selection = kept
	d.mu.Unlock()

	d.log.Debug().Int("count", len(removed)).Msg("objects removed")
	d.Emit(EventObjectsRemoved, removed)
	if selectionChanged {
		d.Emit(EventSelectionChanged, nil)
	}
	d.Emit(EventMapChanged, nil)
}

func sameObjects(a, b []*MapObject) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsObject(objects []*MapObject, o *MapObject) bool {
	for _, obj := range objects {
		if obj == o {
			return true
		}
	}
	return false
}

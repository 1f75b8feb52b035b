package tilemap

import (
	"tilemapper/pkg/geometry"
)

// The editing commands follow one pattern: the tool edits the object in
// place during the gesture, then constructs the command with the value from
// before the gesture. The constructor captures the current (new) value, so
// pushing the command onto the history records the edit without re-applying
// it.

// MoveObjectCommand records a change of an object's position.
type MoveObjectCommand struct {
	doc    *Document
	object *MapObject
	oldPos geometry.Point2D
	newPos geometry.Point2D
}

// NewMoveObjectCommand captures the object's current position as the new
// value.
func NewMoveObjectCommand(doc *Document, object *MapObject, oldPos geometry.Point2D) *MoveObjectCommand {
	return &MoveObjectCommand{doc: doc, object: object, oldPos: oldPos, newPos: object.Position}
}

func (c *MoveObjectCommand) Do() error {
	c.object.Position = c.newPos
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *MoveObjectCommand) Undo() error {
	c.object.Position = c.oldPos
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *MoveObjectCommand) Name() string { return "Move Object" }

// ResizeObjectCommand records a change of an object's size.
type ResizeObjectCommand struct {
	doc     *Document
	object  *MapObject
	oldSize geometry.Size
	newSize geometry.Size
}

// NewResizeObjectCommand captures the object's current size as the new
// value.
func NewResizeObjectCommand(doc *Document, object *MapObject, oldSize geometry.Size) *ResizeObjectCommand {
	return &ResizeObjectCommand{doc: doc, object: object, oldSize: oldSize, newSize: object.Size}
}

func (c *ResizeObjectCommand) Do() error {
	c.object.Size = c.newSize
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *ResizeObjectCommand) Undo() error {
	c.object.Size = c.oldSize
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *ResizeObjectCommand) Name() string { return "Resize Object" }

// RotateObjectCommand records a change of an object's rotation.
type RotateObjectCommand struct {
	doc         *Document
	object      *MapObject
	oldRotation float64
	newRotation float64
}

// NewRotateObjectCommand captures the object's current rotation as the new
// value.
func NewRotateObjectCommand(doc *Document, object *MapObject, oldRotation float64) *RotateObjectCommand {
	return &RotateObjectCommand{doc: doc, object: object, oldRotation: oldRotation, newRotation: object.Rotation}
}

func (c *RotateObjectCommand) Do() error {
	c.object.Rotation = c.newRotation
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *RotateObjectCommand) Undo() error {
	c.object.Rotation = c.oldRotation
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *RotateObjectCommand) Name() string { return "Rotate Object" }

// ChangePolygonCommand records a change of a polygon object's vertices.
type ChangePolygonCommand struct {
	doc        *Document
	object     *MapObject
	oldPolygon []geometry.Point2D
	newPolygon []geometry.Point2D
}

// NewChangePolygonCommand captures the object's current polygon as the new
// value. The old polygon is copied so later edits cannot alias it.
func NewChangePolygonCommand(doc *Document, object *MapObject, oldPolygon []geometry.Point2D) *ChangePolygonCommand {
	oldCopy := make([]geometry.Point2D, len(oldPolygon))
	copy(oldCopy, oldPolygon)
	return &ChangePolygonCommand{
		doc:        doc,
		object:     object,
		oldPolygon: oldCopy,
		newPolygon: object.PolygonCopy(),
	}
}

func (c *ChangePolygonCommand) Do() error {
	c.object.SetPolygon(c.newPolygon)
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *ChangePolygonCommand) Undo() error {
	c.object.SetPolygon(c.oldPolygon)
	c.doc.NotifyObjectsChanged([]*MapObject{c.object})
	return nil
}

func (c *ChangePolygonCommand) Name() string { return "Change Polygon" }

// RemoveObjectsCommand records the deletion of objects, remembering each
// object's layer and index so undo restores the original stacking.
type RemoveObjectsCommand struct {
	doc     *Document
	entries []removedEntry
}

type removedEntry struct {
	object *MapObject
	layer  *ObjectLayer
	index  int
}

// NewRemoveObjectsCommand captures where each object currently sits. Unlike
// the in-place edit commands it is constructed before the removal; push it
// after calling doc.RemoveObjects.
func NewRemoveObjectsCommand(doc *Document, objects []*MapObject) *RemoveObjectsCommand {
	cmd := &RemoveObjectsCommand{doc: doc}
	for _, o := range objects {
		layer := o.Layer()
		if layer == nil {
			continue
		}
		for i, obj := range layer.Objects {
			if obj == o {
				cmd.entries = append(cmd.entries, removedEntry{object: o, layer: layer, index: i})
				break
			}
		}
	}
	return cmd
}

func (c *RemoveObjectsCommand) Do() error {
	objects := make([]*MapObject, len(c.entries))
	for i, e := range c.entries {
		objects[i] = e.object
	}
	c.doc.RemoveObjects(objects)
	return nil
}

func (c *RemoveObjectsCommand) Undo() error {
	// Restore in recorded order so earlier indices are valid again.
	for _, e := range c.entries {
		objs := e.layer.Objects
		if e.index > len(objs) {
			e.layer.AddObject(e.object)
			continue
		}
		objs = append(objs, nil)
		copy(objs[e.index+1:], objs[e.index:])
		objs[e.index] = e.object
		e.layer.Objects = objs
		e.object.layer = e.layer
	}
	c.doc.Emit(EventMapChanged, nil)
	return nil
}

func (c *RemoveObjectsCommand) Name() string { return "Remove Objects" }

package tilemap

// Orientation is the map projection.
type Orientation int

const (
	Orthogonal Orientation = iota
	Isometric
)

// DrawOrder controls how objects within a layer are stacked.
type DrawOrder int

const (
	// IndexOrder stacks objects by their position in the layer.
	IndexOrder DrawOrder = iota
	// TopDownOrder stacks objects by their vertical screen position, so
	// objects lower on the map draw above objects higher up.
	TopDownOrder
)

// ObjectLayer holds an ordered list of map objects.
type ObjectLayer struct {
	Name      string
	DrawOrder DrawOrder
	Objects   []*MapObject
}

// NewObjectLayer creates an empty object layer with top-down draw order,
// the default for new maps.
func NewObjectLayer(name string) *ObjectLayer {
	return &ObjectLayer{Name: name, DrawOrder: TopDownOrder}
}

// AddObject appends an object to the layer and claims ownership.
func (l *ObjectLayer) AddObject(o *MapObject) {
	o.layer = l
	l.Objects = append(l.Objects, o)
}

// RemoveObject removes an object from the layer. Returns true if it was present.
func (l *ObjectLayer) RemoveObject(o *MapObject) bool {
	for i, obj := range l.Objects {
		if obj == o {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			o.layer = nil
			return true
		}
	}
	return false
}

// Map is a tile map with its grid parameters and object layers.
type Map struct {
	Orientation Orientation
	Width       int // in tiles
	Height      int // in tiles
	TileWidth   int
	TileHeight  int
	Layers      []*ObjectLayer
}

// NewMap creates a map with a single empty object layer.
func NewMap(orientation Orientation, width, height, tileWidth, tileHeight int) *Map {
	m := &Map{
		Orientation: orientation,
		Width:       width,
		Height:      height,
		TileWidth:   tileWidth,
		TileHeight:  tileHeight,
	}
	m.Layers = append(m.Layers, NewObjectLayer("Objects"))
	return m
}

// Objects returns all objects of all layers in draw order.
func (m *Map) Objects() []*MapObject {
	var out []*MapObject
	for _, layer := range m.Layers {
		out = append(out, layer.Objects...)
	}
	return out
}

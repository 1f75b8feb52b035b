// Package input defines toolkit-independent mouse and keyboard event types
// consumed by the editor tools.
package input

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
)

// Has reports whether all the given modifiers are held.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod == mod
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	NoButton MouseButton = iota
	LeftButton
	RightButton
	MiddleButton
)

// Key identifies the keyboard keys the tools react to.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyDelete
)

// Package history implements the editor's undo/redo stack.
package history

import (
	"errors"
	"sync"
)

var (
	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrNotGrouping is returned when EndGroup is called without BeginGroup.
	ErrNotGrouping = errors.New("no command group in progress")
)

// Command is a reversible edit. Do applies the edit, Undo reverts it.
// Commands are pushed after their effect has already been applied to the
// document, so Push records without calling Do.
type Command interface {
	Do() error
	Undo() error
	Name() string
}

// History is a bounded undo/redo stack. Safe for concurrent use.
type History struct {
	mu         sync.Mutex
	undoStack  []Command
	redoStack  []Command
	grouping   bool
	groupName  string
	groupCmds  []Command
	maxEntries int
}

// New creates a history keeping at most maxEntries undo steps. A non-positive
// value means unbounded.
func New(maxEntries int) *History {
	return &History{maxEntries: maxEntries}
}

// Push records an already-applied command and clears the redo stack. While a
// group is open the command joins the group instead.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}
	h.pushLocked(cmd)
}

func (h *History) pushLocked(cmd Command) {
	h.undoStack = append(h.undoStack, cmd)
	h.redoStack = nil

	if h.maxEntries > 0 && len(h.undoStack) > h.maxEntries {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxEntries:]
	}
}

// Undo reverts the most recent command and moves it to the redo stack.
func (h *History) Undo() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}

	cmd := h.undoStack[len(h.undoStack)-1]
	if err := cmd.Undo(); err != nil {
		return err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, cmd)
	return nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}

	cmd := h.redoStack[len(h.redoStack)-1]
	if err := cmd.Do(); err != nil {
		return err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, cmd)
	return nil
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoName returns the name of the command that Undo would revert.
func (h *History) UndoName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Name()
}

// RedoName returns the name of the command that Redo would re-apply.
func (h *History) RedoName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redoStack) == 0 {
		return ""
	}
	return h.redoStack[len(h.redoStack)-1].Name()
}

// Len returns the number of undoable steps.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// Clear drops both stacks and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupCmds = nil
}

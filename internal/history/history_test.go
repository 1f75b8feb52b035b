package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCommand appends to a shared log so tests can observe call order.
type recordingCommand struct {
	name string
	log  *[]string
}

func (c *recordingCommand) Do() error {
	*c.log = append(*c.log, "do:"+c.name)
	return nil
}

func (c *recordingCommand) Undo() error {
	*c.log = append(*c.log, "undo:"+c.name)
	return nil
}

func (c *recordingCommand) Name() string { return c.name }

type failingCommand struct{ err error }

func (c *failingCommand) Do() error    { return c.err }
func (c *failingCommand) Undo() error  { return c.err }
func (c *failingCommand) Name() string { return "failing" }

func TestPushDoesNotExecute(t *testing.T) {
	var log []string
	h := New(0)

	h.Push(&recordingCommand{name: "a", log: &log})

	assert.Empty(t, log, "commands are pushed after their effect was applied")
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "a", h.UndoName())
}

func TestUndoRedo(t *testing.T) {
	var log []string
	h := New(0)

	h.Push(&recordingCommand{name: "a", log: &log})
	h.Push(&recordingCommand{name: "b", log: &log})

	require.NoError(t, h.Undo())
	require.NoError(t, h.Undo())
	assert.Equal(t, []string{"undo:b", "undo:a"}, log)
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())
	assert.Equal(t, "a", h.RedoName())

	log = log[:0]
	require.NoError(t, h.Redo())
	require.NoError(t, h.Redo())
	assert.Equal(t, []string{"do:a", "do:b"}, log)
	assert.False(t, h.CanRedo())
}

func TestSentinelErrors(t *testing.T) {
	h := New(0)

	assert.ErrorIs(t, h.Undo(), ErrNothingToUndo)
	assert.ErrorIs(t, h.Redo(), ErrNothingToRedo)
	assert.ErrorIs(t, h.EndGroup(), ErrNotGrouping)
}

func TestPushClearsRedoStack(t *testing.T) {
	var log []string
	h := New(0)

	h.Push(&recordingCommand{name: "a", log: &log})
	require.NoError(t, h.Undo())
	require.True(t, h.CanRedo())

	h.Push(&recordingCommand{name: "b", log: &log})
	assert.False(t, h.CanRedo())
}

func TestUndoErrorKeepsCommand(t *testing.T) {
	h := New(0)
	boom := errors.New("boom")

	h.Push(&failingCommand{err: boom})

	assert.ErrorIs(t, h.Undo(), boom)
	assert.Equal(t, 1, h.Len(), "a failed undo must not pop the command")
}

func TestGroupBecomesOneStep(t *testing.T) {
	var log []string
	h := New(0)

	h.BeginGroup("Edit Things")
	h.Push(&recordingCommand{name: "a", log: &log})
	h.Push(&recordingCommand{name: "b", log: &log})
	require.NoError(t, h.EndGroup())

	require.Equal(t, 1, h.Len())
	assert.Equal(t, "Edit Things", h.UndoName())

	require.NoError(t, h.Undo())
	assert.Equal(t, []string{"undo:b", "undo:a"}, log, "compound undo runs in reverse order")
}

func TestGroupWithSingleCommandPushesItBare(t *testing.T) {
	var log []string
	h := New(0)

	h.BeginGroup("Edit Things")
	h.Push(&recordingCommand{name: "a", log: &log})
	require.NoError(t, h.EndGroup())

	require.Equal(t, 1, h.Len())
	assert.Equal(t, "a", h.UndoName())
}

func TestEmptyGroupPushesNothing(t *testing.T) {
	h := New(0)

	h.BeginGroup("Nothing")
	require.NoError(t, h.EndGroup())

	assert.Equal(t, 0, h.Len())
}

func TestTransactionDiscardsOnError(t *testing.T) {
	var log []string
	h := New(0)
	boom := errors.New("boom")

	err := h.Transaction("Edit Things", func() error {
		h.Push(&recordingCommand{name: "a", log: &log})
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, h.Len())

	// The history must be usable afterwards.
	h.Push(&recordingCommand{name: "b", log: &log})
	assert.Equal(t, 1, h.Len())
}

func TestMaxEntriesDropsOldest(t *testing.T) {
	var log []string
	h := New(3)

	for i := 0; i < 5; i++ {
		h.Push(&recordingCommand{name: fmt.Sprintf("c%d", i), log: &log})
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "c4", h.UndoName())
}

func TestClear(t *testing.T) {
	var log []string
	h := New(0)

	h.Push(&recordingCommand{name: "a", log: &log})
	require.NoError(t, h.Undo())
	h.Clear()

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

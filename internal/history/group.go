package history

// CompoundCommand bundles several commands into one undo step. Do applies
// the commands in order, Undo reverts them in reverse order.
type CompoundCommand struct {
	name string
	cmds []Command
}

// NewCompoundCommand creates a compound from the given commands.
func NewCompoundCommand(name string, cmds []Command) *CompoundCommand {
	return &CompoundCommand{name: name, cmds: cmds}
}

func (c *CompoundCommand) Do() error {
	for _, cmd := range c.cmds {
		if err := cmd.Do(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CompoundCommand) Undo() error {
	for i := len(c.cmds) - 1; i >= 0; i-- {
		if err := c.cmds[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CompoundCommand) Name() string { return c.name }

// Len returns the number of commands in the compound.
func (c *CompoundCommand) Len() int { return len(c.cmds) }

// BeginGroup starts collecting pushed commands into one compound step.
// Groups do not nest.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup closes the open group and pushes it as a single undo step. An
// empty group pushes nothing.
func (h *History) EndGroup() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return ErrNotGrouping
	}
	h.grouping = false

	if len(h.groupCmds) == 0 {
		return nil
	}
	if len(h.groupCmds) == 1 {
		h.pushLocked(h.groupCmds[0])
	} else {
		h.pushLocked(NewCompoundCommand(h.groupName, h.groupCmds))
	}
	h.groupCmds = nil
	return nil
}

// Transaction runs fn with a group open and closes it afterwards. If fn
// returns an error the collected commands are discarded.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		h.mu.Lock()
		h.grouping = false
		h.groupCmds = nil
		h.mu.Unlock()
		return err
	}
	return h.EndGroup()
}

// Package edit is the editing layer over an open scene: reversible
// commands, a bounded undo history and the mode-switching session.
package edit

// Command is one reversible edit. Execute is also used to redo.
type Command interface {
	Execute() error
	Undo() error
}

// DefaultLimit is the undo depth used when none is configured.
const DefaultLimit = 100

// History keeps executed commands for undo and undone ones for redo. Once
// the limit is reached the oldest command is dropped.
type History struct {
	undo  []Command
	redo  []Command
	limit int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Do executes cmd and records it. A failed command is not recorded and
// leaves the redo stack alone.
func (h *History) Do(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	h.undo = append(h.undo, cmd)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = nil
	return nil
}

// Undo reverts the latest command. It reports false when there was nothing
// to undo.
func (h *History) Undo() (bool, error) {
	n := len(h.undo)
	if n == 0 {
		return false, nil
	}
	cmd := h.undo[n-1]
	if err := cmd.Undo(); err != nil {
		return false, err
	}
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, cmd)
	return true, nil
}

// Redo re-executes the latest undone command.
func (h *History) Redo() (bool, error) {
	n := len(h.redo)
	if n == 0 {
		return false, nil
	}
	cmd := h.redo[n-1]
	if err := cmd.Execute(); err != nil {
		return false, err
	}
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, cmd)
	return true, nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
func (h *History) Len() int      { return len(h.undo) }

func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// Package history implements the editor's undo/redo command stack.
// Commands mutate domain state when applied and restore it when reverted;
// the stack owns ordering, depth bounding, and coalescing of rapid-fire
// parameter tweaks so one scroll gesture undoes as one step.
package history

import (
	"errors"
	"fmt"

	"github.com/trackedit/viewport"
)

// Stack errors.
var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// DefaultDepth bounds how many commands a stack retains.
const DefaultDepth = 100

// Command is one reversible edit.
type Command interface {
	// Name identifies the command for menus and logs ("smooth points",
	// "nudge view").
	Name() string
	// Apply performs the edit.
	Apply() error
	// Revert undoes a previously applied edit.
	Revert() error
}

// Coalescer is implemented by commands that can absorb an immediately
// following command of the same gesture (e.g. consecutive zoom steps).
// CoalesceWith returns the merged command and true when absorption
// happened; the stack then replaces the top entry instead of pushing.
type Coalescer interface {
	Command
	CoalesceWith(next Command) (Command, bool)
}

// Stack is a bounded undo/redo stack. Pushing a new command truncates the
// redo branch, the way every curve editor behaves. Not safe for
// concurrent use; the editor drives it from the UI thread.
type Stack struct {
	depth int
	done  []Command
	undone []Command // redo branch, most recently undone last
}

// NewStack creates a stack retaining up to depth commands. Values <= 0 use
// DefaultDepth.
func NewStack(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{depth: depth}
}

// Do applies the command and records it. When the applied command reports
// an error, nothing is recorded. A command that coalesces with the top of
// the stack replaces it instead of growing the history.
func (s *Stack) Do(cmd Command) error {
	if err := cmd.Apply(); err != nil {
		return fmt.Errorf("history: apply %s: %w", cmd.Name(), err)
	}

	s.undone = nil

	if len(s.done) > 0 {
		if c, ok := s.done[len(s.done)-1].(Coalescer); ok {
			if merged, absorbed := c.CoalesceWith(cmd); absorbed {
				s.done[len(s.done)-1] = merged
				return nil
			}
		}
	}

	s.done = append(s.done, cmd)
	if len(s.done) > s.depth {
		// Oldest history falls off; it can no longer be undone.
		s.done = s.done[1:]
	}
	return nil
}

// Undo reverts the most recent command and moves it to the redo branch.
func (s *Stack) Undo() error {
	if len(s.done) == 0 {
		return ErrNothingToUndo
	}
	cmd := s.done[len(s.done)-1]
	if err := cmd.Revert(); err != nil {
		return fmt.Errorf("history: revert %s: %w", cmd.Name(), err)
	}
	s.done = s.done[:len(s.done)-1]
	s.undone = append(s.undone, cmd)
	viewport.Logger().Debug("undo", "command", cmd.Name())
	return nil
}

// Redo re-applies the most recently undone command.
func (s *Stack) Redo() error {
	if len(s.undone) == 0 {
		return ErrNothingToRedo
	}
	cmd := s.undone[len(s.undone)-1]
	if err := cmd.Apply(); err != nil {
		return fmt.Errorf("history: redo %s: %w", cmd.Name(), err)
	}
	s.undone = s.undone[:len(s.undone)-1]
	s.done = append(s.done, cmd)
	viewport.Logger().Debug("redo", "command", cmd.Name())
	return nil
}

// CanUndo reports whether Undo would succeed.
func (s *Stack) CanUndo() bool { return len(s.done) > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Stack) CanRedo() bool { return len(s.undone) > 0 }

// UndoName returns the name of the command Undo would revert.
func (s *Stack) UndoName() (string, bool) {
	if len(s.done) == 0 {
		return "", false
	}
	return s.done[len(s.done)-1].Name(), true
}

// RedoName returns the name of the command Redo would re-apply.
func (s *Stack) RedoName() (string, bool) {
	if len(s.undone) == 0 {
		return "", false
	}
	return s.undone[len(s.undone)-1].Name(), true
}

// Len returns the number of undoable commands.
func (s *Stack) Len() int { return len(s.done) }

// Clear drops all history, for example after loading a new track file.
func (s *Stack) Clear() {
	s.done = nil
	s.undone = nil
}

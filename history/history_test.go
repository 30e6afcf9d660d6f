package history

import (
	"errors"
	"fmt"
	"testing"
)

// counter is a command that adds delta to a shared value.
type counter struct {
	value *int
	delta int
}

func (c *counter) Name() string  { return fmt.Sprintf("add %d", c.delta) }
func (c *counter) Apply() error  { *c.value += c.delta; return nil }
func (c *counter) Revert() error { *c.value -= c.delta; return nil }

// failing always errors on Apply.
type failing struct{}

func (failing) Name() string  { return "failing" }
func (failing) Apply() error  { return errors.New("boom") }
func (failing) Revert() error { return nil }

// zoomStep coalesces with following zoomSteps by summing deltas.
type zoomStep struct {
	counter
}

func (z *zoomStep) CoalesceWith(next Command) (Command, bool) {
	n, ok := next.(*zoomStep)
	if !ok {
		return nil, false
	}
	return &zoomStep{counter{value: z.value, delta: z.delta + n.delta}}, true
}

func TestDoUndoRedo(t *testing.T) {
	value := 0
	s := NewStack(0)

	if err := s.Do(&counter{&value, 5}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if err := s.Do(&counter{&value, 3}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if value != 8 {
		t.Fatalf("value = %d, want 8", value)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if value != 5 {
		t.Errorf("value = %d after undo, want 5", value)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if value != 8 {
		t.Errorf("value = %d after redo, want 8", value)
	}
}

func TestUndoEmpty(t *testing.T) {
	s := NewStack(0)
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("err = %v, want ErrNothingToRedo", err)
	}
}

func TestDoTruncatesRedoBranch(t *testing.T) {
	value := 0
	s := NewStack(0)
	s.Do(&counter{&value, 1})
	s.Do(&counter{&value, 2})
	s.Undo()

	// New edit after an undo: the redo branch is gone.
	s.Do(&counter{&value, 10})
	if s.CanRedo() {
		t.Error("redo branch survived a new Do")
	}
	if value != 11 {
		t.Errorf("value = %d, want 11", value)
	}
}

func TestDoFailedApplyNotRecorded(t *testing.T) {
	s := NewStack(0)
	if err := s.Do(failing{}); err == nil {
		t.Fatal("failing Apply did not error")
	}
	if s.CanUndo() {
		t.Error("failed command was recorded")
	}
}

func TestDepthBound(t *testing.T) {
	value := 0
	s := NewStack(3)
	for i := 0; i < 10; i++ {
		s.Do(&counter{&value, 1})
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestCoalescing(t *testing.T) {
	value := 0
	s := NewStack(0)
	s.Do(&zoomStep{counter{&value, 1}})
	s.Do(&zoomStep{counter{&value, 1}})
	s.Do(&zoomStep{counter{&value, 1}})

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 coalesced command", s.Len())
	}
	if value != 3 {
		t.Fatalf("value = %d, want 3", value)
	}

	// One undo reverts the whole gesture.
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if value != 0 {
		t.Errorf("value = %d after undo, want 0", value)
	}
}

func TestCoalescingStopsAtOtherCommands(t *testing.T) {
	value := 0
	s := NewStack(0)
	s.Do(&zoomStep{counter{&value, 1}})
	s.Do(&counter{&value, 5})
	s.Do(&zoomStep{counter{&value, 1}})

	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3 distinct commands", s.Len())
	}
}

func TestNames(t *testing.T) {
	value := 0
	s := NewStack(0)
	s.Do(&counter{&value, 7})

	if name, ok := s.UndoName(); !ok || name != "add 7" {
		t.Errorf("UndoName = (%q, %v)", name, ok)
	}
	s.Undo()
	if name, ok := s.RedoName(); !ok || name != "add 7" {
		t.Errorf("RedoName = (%q, %v)", name, ok)
	}
}

func TestClear(t *testing.T) {
	value := 0
	s := NewStack(0)
	s.Do(&counter{&value, 1})
	s.Undo()
	s.Do(&counter{&value, 2})
	s.Clear()

	if s.CanUndo() || s.CanRedo() {
		t.Error("history survived Clear")
	}
}

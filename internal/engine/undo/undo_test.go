package undo

import (
	"errors"
	"testing"
)

func TestUndoOrder(t *testing.T) {
	st := New(10)
	st.Push(State{Text: "", Cursor: 0}, "")
	st.Push(State{Text: "a", Cursor: 1}, "")

	s, err := st.Undo()
	if err != nil || s.Text != "a" {
		t.Fatalf("Undo() = %+v, %v", s, err)
	}
	s, _ = st.Undo()
	if s.Text != "" {
		t.Errorf("Undo() = %+v, want empty", s)
	}
	if _, err := st.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
}

func TestGroupCoalesces(t *testing.T) {
	st := New(10)
	st.Push(State{Text: ""}, "insert")
	st.Push(State{Text: "h"}, "insert")
	st.Push(State{Text: "he"}, "insert")

	if st.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", st.Len())
	}

	st.Break()
	st.Push(State{Text: "hel"}, "insert")
	if st.Len() != 2 {
		t.Errorf("Len() after Break = %d, want 2", st.Len())
	}
}

func TestMaxEntries(t *testing.T) {
	st := New(2)
	for _, s := range []string{"a", "b", "c"} {
		st.Push(State{Text: s}, "")
	}
	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
	oldest, ok := st.Oldest()
	if !ok || oldest.Text != "b" {
		t.Errorf("Oldest() = %+v, %v", oldest, ok)
	}
	st.Clear()
	if st.CanUndo() {
		t.Error("CanUndo() after Clear")
	}
}

// Package undo records line states so edits can be reverted.
//
// The reader pushes the state it had before each change. Runs of
// changes made by the same kind of command (typing a word, say) can be
// coalesced into one entry so a single undo reverts the whole run.
package undo

import "errors"

// ErrNothingToUndo is returned by Undo on an empty stack.
var ErrNothingToUndo = errors.New("nothing to undo")

// DefaultMaxEntries bounds the stack when no limit is given.
const DefaultMaxEntries = 100

// State is a snapshot of the edited line.
type State struct {
	Text   string
	Cursor int
}

type entry struct {
	state State
	group string
}

// Stack is a bounded LIFO of line states.
type Stack struct {
	entries    []entry
	maxEntries int
}

// New creates a stack keeping at most maxEntries states.
func New(maxEntries int) *Stack {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Stack{maxEntries: maxEntries}
}

// Push records s. If group is non-empty and equals the group of the
// newest entry, s is dropped: the older state already covers the run.
func (st *Stack) Push(s State, group string) {
	if group != "" && len(st.entries) > 0 && st.entries[len(st.entries)-1].group == group {
		return
	}
	st.entries = append(st.entries, entry{state: s, group: group})

	if excess := len(st.entries) - st.maxEntries; excess > 0 {
		st.entries = st.entries[excess:]
	}
}

// Break ends the current run so the next Push is always recorded.
func (st *Stack) Break() {
	if n := len(st.entries); n > 0 {
		st.entries[n-1].group = ""
	}
}

// Undo pops the newest state.
func (st *Stack) Undo() (State, error) {
	if len(st.entries) == 0 {
		return State{}, ErrNothingToUndo
	}
	e := st.entries[len(st.entries)-1]
	st.entries = st.entries[:len(st.entries)-1]
	return e.state, nil
}

// Oldest returns the first recorded state, the line as it was before
// any edit.
func (st *Stack) Oldest() (State, bool) {
	if len(st.entries) == 0 {
		return State{}, false
	}
	return st.entries[0].state, true
}

// CanUndo returns true if undo is available.
func (st *Stack) CanUndo() bool {
	return len(st.entries) > 0
}

// Len returns the number of recorded states.
func (st *Stack) Len() int {
	return len(st.entries)
}

// Clear removes all states.
func (st *Stack) Clear() {
	st.entries = nil
}

// Package history keeps previously accepted lines and a navigation
// cursor over them.
//
// Indexes passed to and returned from a History are absolute: once the
// oldest entries are evicted the first valid index is no longer 0, and
// an index keeps naming the same line for as long as it is retained.
package history

import "strings"

// DefaultMaxSize is the number of lines kept when no limit is given.
const DefaultMaxSize = 500

// History is an ordered list of lines with a cursor. The cursor ranges
// over [First(), First()+Size()]; the upper bound is the "end" position
// past the newest line, where the line being typed lives.
type History interface {
	// Size returns the number of retained lines.
	Size() int
	// First returns the absolute index of the oldest retained line.
	First() int
	// Index returns the absolute cursor position.
	Index() int
	// Get returns the line at an absolute index, or "" if out of range.
	Get(index int) string
	// Add appends a line and moves the cursor to the end.
	Add(line string)
	// Current returns the line under the cursor, "" at the end.
	Current() string
	MoveTo(index int) bool
	MoveToFirst() bool
	MoveToLast() bool
	MoveToEnd()
	Previous() bool
	Next() bool
	// Entries returns a snapshot of the retained lines, oldest first.
	Entries() []string
	Clear()
}

// Memory is an in-memory History with a size bound.
type Memory struct {
	items      []string
	maxSize    int
	offset     int
	index      int
	ignoreDups bool
}

// Option configures a Memory history.
type Option func(*Memory)

// WithMaxSize bounds the number of retained lines.
func WithMaxSize(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxSize = n
		}
	}
}

// WithIgnoreDups controls whether a line equal to the newest entry is
// dropped instead of added.
func WithIgnoreDups(on bool) Option {
	return func(m *Memory) {
		m.ignoreDups = on
	}
}

// NewMemory creates an empty in-memory history.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{maxSize: DefaultMaxSize, ignoreDups: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Size() int  { return len(m.items) }
func (m *Memory) First() int { return m.offset }
func (m *Memory) Index() int { return m.offset + m.index }

// MaxSize returns the retention bound.
func (m *Memory) MaxSize() int { return m.maxSize }

// SetMaxSize changes the retention bound, evicting old lines if needed.
func (m *Memory) SetMaxSize(n int) {
	if n <= 0 {
		return
	}
	m.maxSize = n
	m.trim()
}

func (m *Memory) Get(index int) string {
	i := index - m.offset
	if i < 0 || i >= len(m.items) {
		return ""
	}
	return m.items[i]
}

func (m *Memory) Add(line string) {
	if m.ignoreDups && len(m.items) > 0 && m.items[len(m.items)-1] == line {
		m.index = len(m.items)
		return
	}
	m.items = append(m.items, line)
	m.trim()
	m.index = len(m.items)
}

func (m *Memory) trim() {
	if over := len(m.items) - m.maxSize; over > 0 {
		m.items = append(m.items[:0:0], m.items[over:]...)
		m.offset += over
		m.index = max(0, m.index-over)
	}
}

func (m *Memory) Current() string {
	if m.index >= len(m.items) {
		return ""
	}
	return m.items[m.index]
}

func (m *Memory) MoveTo(index int) bool {
	i := index - m.offset
	if i < 0 || i >= len(m.items) {
		return false
	}
	m.index = i
	return true
}

func (m *Memory) MoveToFirst() bool {
	if len(m.items) > 0 && m.index != 0 {
		m.index = 0
		return true
	}
	return false
}

func (m *Memory) MoveToLast() bool {
	last := len(m.items) - 1
	if last >= 0 && last != m.index {
		m.index = last
		return true
	}
	return false
}

func (m *Memory) MoveToEnd() {
	m.index = len(m.items)
}

func (m *Memory) Previous() bool {
	if m.index <= 0 {
		return false
	}
	m.index--
	return true
}

func (m *Memory) Next() bool {
	if m.index >= len(m.items) {
		return false
	}
	m.index++
	return true
}

func (m *Memory) Entries() []string {
	out := make([]string, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Memory) Clear() {
	m.items = nil
	m.offset = 0
	m.index = 0
}

// SearchBackward returns the absolute index of the newest line below
// start that contains term (or begins with it when prefix is set), or
// -1.
func SearchBackward(h History, term string, start int, prefix bool) int {
	end := h.First() + h.Size()
	if start > end {
		start = end
	}
	for i := start - 1; i >= h.First(); i-- {
		if matches(h.Get(i), term, prefix) {
			return i
		}
	}
	return -1
}

// SearchForward returns the absolute index of the oldest line at or
// above start that contains term (or begins with it), or -1.
func SearchForward(h History, term string, start int, prefix bool) int {
	if start < h.First() {
		start = h.First()
	}
	end := h.First() + h.Size()
	for i := start; i < end; i++ {
		if matches(h.Get(i), term, prefix) {
			return i
		}
	}
	return -1
}

func matches(line, term string, prefix bool) bool {
	if prefix {
		return strings.HasPrefix(line, term)
	}
	return strings.Contains(line, term)
}

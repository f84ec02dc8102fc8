// Package buffer holds the text of the line being edited together with
// its cursor.
//
// A CursorBuffer is a plain value owner: it never talks to the terminal
// and it never fails. Every mutation clamps its arguments so that the
// invariant 0 <= cursor <= Len() holds after each call.
package buffer

import "unicode"

// CursorBuffer is the in-progress line and the cursor offset into it.
// Offsets are rune indexes.
type CursorBuffer struct {
	text       []rune
	cursor     int
	overtyping bool
}

// New creates an empty buffer.
func New() *CursorBuffer {
	return &CursorBuffer{}
}

// NewString creates a buffer holding s with the cursor at the end.
func NewString(s string) *CursorBuffer {
	rs := []rune(s)
	return &CursorBuffer{text: rs, cursor: len(rs)}
}

// Len returns the number of runes in the buffer.
func (b *CursorBuffer) Len() int {
	return len(b.text)
}

// Cursor returns the cursor offset.
func (b *CursorBuffer) Cursor() int {
	return b.cursor
}

// String returns the buffer contents.
func (b *CursorBuffer) String() string {
	return string(b.text)
}

// View returns the underlying runes. The slice is only valid until the
// next mutation and must not be modified.
func (b *CursorBuffer) View() []rune {
	return b.text
}

// IsOvertyping reports whether writes replace instead of insert.
func (b *CursorBuffer) IsOvertyping() bool {
	return b.overtyping
}

// SetOvertyping switches between insert and replace semantics.
func (b *CursorBuffer) SetOvertyping(on bool) {
	b.overtyping = on
}

// At returns the rune at i, or 0 when i is out of range.
func (b *CursorBuffer) At(i int) rune {
	if i < 0 || i >= len(b.text) {
		return 0
	}
	return b.text[i]
}

// Current returns the rune just before the cursor, or 0 at the start.
func (b *CursorBuffer) Current() rune {
	return b.At(b.cursor - 1)
}

// NextChar returns the rune under the cursor, or 0 at the end.
func (b *CursorBuffer) NextChar() rune {
	return b.At(b.cursor)
}

// UpToCursor returns the text before the cursor.
func (b *CursorBuffer) UpToCursor() string {
	return string(b.text[:b.cursor])
}

// Slice returns the text in [start, end), clamped to the buffer.
func (b *CursorBuffer) Slice(start, end int) string {
	start, end = b.clampRange(start, end)
	return string(b.text[start:end])
}

// SetCursor moves the cursor to pos, clamped to the buffer, and returns
// the resulting offset.
func (b *CursorBuffer) SetCursor(pos int) int {
	b.cursor = clamp(pos, 0, len(b.text))
	return b.cursor
}

// Move shifts the cursor by delta and returns how far it actually moved.
func (b *CursorBuffer) Move(delta int) int {
	old := b.cursor
	b.SetCursor(old + delta)
	return b.cursor - old
}

// Write inserts s at the cursor and advances the cursor past it. In
// overtype mode the inserted runes replace the ones under the cursor.
func (b *CursorBuffer) Write(s string) {
	rs := []rune(s)
	if len(rs) == 0 {
		return
	}
	if b.overtyping {
		n := min(len(rs), len(b.text)-b.cursor)
		b.text = append(b.text[:b.cursor], b.text[b.cursor+n:]...)
	}
	b.text = append(b.text[:b.cursor], append(rs, b.text[b.cursor:]...)...)
	b.cursor += len(rs)
}

// Delete removes [start, end) and returns the removed text. The cursor
// keeps pointing at the same logical position when possible.
func (b *CursorBuffer) Delete(start, end int) string {
	start, end = b.clampRange(start, end)
	if start == end {
		return ""
	}
	removed := string(b.text[start:end])
	b.text = append(b.text[:start], b.text[end:]...)
	switch {
	case b.cursor >= end:
		b.cursor -= end - start
	case b.cursor > start:
		b.cursor = start
	}
	return removed
}

// Truncate drops everything from n onwards.
func (b *CursorBuffer) Truncate(n int) {
	b.Delete(n, len(b.text))
}

// SetRune replaces the rune at i. Out of range indexes are ignored.
func (b *CursorBuffer) SetRune(i int, r rune) {
	if i < 0 || i >= len(b.text) {
		return
	}
	b.text[i] = r
}

// MapRange applies fn to every rune in [start, end).
func (b *CursorBuffer) MapRange(start, end int, fn func(rune) rune) {
	start, end = b.clampRange(start, end)
	for i := start; i < end; i++ {
		b.text[i] = fn(b.text[i])
	}
}

// Set replaces the whole contents and places the cursor at cursor.
func (b *CursorBuffer) Set(s string, cursor int) {
	b.text = append(b.text[:0], []rune(s)...)
	b.SetCursor(cursor)
}

// Clear empties the buffer. It reports whether anything was removed.
func (b *CursorBuffer) Clear() bool {
	if len(b.text) == 0 {
		return false
	}
	b.text = b.text[:0]
	b.cursor = 0
	return true
}

// Copy returns an independent copy of the buffer.
func (b *CursorBuffer) Copy() *CursorBuffer {
	text := make([]rune, len(b.text))
	copy(text, b.text)
	return &CursorBuffer{text: text, cursor: b.cursor, overtyping: b.overtyping}
}

// LineBounds returns the [start, end) offsets of the logical line that
// contains the cursor. Lines are separated by '\n'; end excludes it.
func (b *CursorBuffer) LineBounds() (start, end int) {
	start = b.cursor
	for start > 0 && b.text[start-1] != '\n' {
		start--
	}
	end = b.cursor
	for end < len(b.text) && b.text[end] != '\n' {
		end++
	}
	return start, end
}

func (b *CursorBuffer) clampRange(start, end int) (int, int) {
	start = clamp(start, 0, len(b.text))
	end = clamp(end, 0, len(b.text))
	if end < start {
		start, end = end, start
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsDelimiter reports whether r separates words: anything that is not a
// letter or a digit.
func IsDelimiter(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// IsWhitespace reports whether r is blank for the purposes of
// whitespace-delimited ("big") words.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

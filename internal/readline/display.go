package readline

import (
	"github.com/dshills/keyline/internal/renderer/redraw"
)

// Screen positions are counted from the first column of the prompt's
// last line. The terminal cursor is kept at cursorPosition() between
// operations; every helper here starts and ends with that holding.

// span returns the columns taken by buffer runes [start, end) printed
// from screen position pos.
func (r *Reader) span(start, end, pos int) int {
	if end <= start {
		return 0
	}
	if r.mask != nil {
		if *r.mask == 0 {
			return 0
		}
		return end - start
	}
	return redraw.Span(r.buf.View()[start:end], pos, r.out.Width())
}

// positionOf returns the screen position of buffer offset i.
func (r *Reader) positionOf(i int) int {
	return r.promptLen + r.span(0, i, r.promptLen)
}

func (r *Reader) cursorPosition() int {
	return r.positionOf(r.buf.Cursor())
}

func (r *Reader) endPosition() int {
	return r.positionOf(r.buf.Len())
}

// printSpan prints buffer runes [start, end) at screen position pos and
// returns the position after them.
func (r *Reader) printSpan(start, end, pos int) int {
	if end <= start {
		return pos
	}
	if r.mask != nil {
		if *r.mask == 0 {
			return pos
		}
		r.out.PrintRepeat(*r.mask, end-start)
		return pos + end - start
	}
	return r.out.PrintFormatted(r.buf.View()[start:end], pos)
}

// redrawFrom repaints the buffer from offset start, which the screen
// cursor is already on, erases what is left of a line that used to end
// at oldEnd, and returns to the cursor.
func (r *Reader) redrawFrom(start, oldEnd int) {
	end := r.printSpan(start, r.buf.Len(), r.positionOf(start))
	r.out.FixWeirdWrap(end)
	r.out.ClearAhead(oldEnd-end, end)
	r.out.MoveCursor(end, r.cursorPosition())
}

// drawBuffer repaints from the cursor to the end and then erases clear
// more columns.
func (r *Reader) drawBuffer(clear int) {
	pos := r.cursorPosition()
	end := r.printSpan(r.buf.Cursor(), r.buf.Len(), pos)
	r.out.FixWeirdWrap(end)
	r.out.ClearAhead(clear, end)
	r.out.MoveCursor(end, pos)
}

// putString inserts s at the cursor.
func (r *Reader) putString(s string) {
	if s == "" {
		return
	}
	start := r.buf.Cursor()
	oldEnd := r.endPosition()
	r.buf.Write(s)
	r.redrawFrom(start, oldEnd)
}

// moveCursor moves the cursor by num runes and returns how far it went.
func (r *Reader) moveCursor(num int) int {
	from := r.cursorPosition()
	moved := r.buf.Move(num)
	if moved != 0 {
		r.out.MoveCursor(from, r.cursorPosition())
	}
	return moved
}

// setCursorPosition moves the cursor to buffer offset pos. It reports
// whether the cursor ended up there.
func (r *Reader) setCursorPosition(pos int) bool {
	if pos == r.buf.Cursor() {
		return true
	}
	r.moveCursor(pos - r.buf.Cursor())
	return r.buf.Cursor() == pos
}

func (r *Reader) moveToEnd() {
	r.setCursorPosition(r.buf.Len())
}

// deleteRange removes [start, end), leaves the cursor at start and
// returns the removed text.
func (r *Reader) deleteRange(start, end int) string {
	if start > end {
		start, end = end, start
	}
	start = max(start, 0)
	end = min(end, r.buf.Len())
	if start >= end {
		return ""
	}
	oldEnd := r.endPosition()
	r.setCursorPosition(start)
	removed := r.buf.Delete(start, end)
	r.redrawFrom(start, oldEnd)
	return removed
}

// backspace deletes up to n runes before the cursor and returns how
// many were deleted.
func (r *Reader) backspace(n int) int {
	cur := r.buf.Cursor()
	n = min(n, cur)
	if n <= 0 {
		return 0
	}
	r.deleteRange(cur-n, cur)
	return n
}

func (r *Reader) deleteCurrentCharacter() bool {
	cur := r.buf.Cursor()
	if cur >= r.buf.Len() {
		return false
	}
	r.deleteRange(cur, cur+1)
	return true
}

// setBuffer replaces the line with s, rewriting only what follows the
// common prefix, and leaves the cursor at the end.
func (r *Reader) setBuffer(s string) {
	rs := []rune(s)
	cur := r.buf.View()
	if string(cur) == s {
		r.moveToEnd()
		return
	}

	same := 0
	for same < len(rs) && same < len(cur) && rs[same] == cur[same] {
		same++
	}

	oldEnd := r.endPosition()
	r.setCursorPosition(same)
	r.buf.Set(s, len(rs))
	r.redrawFrom(same, oldEnd)
}

// setBufferKeepPos is setBuffer without moving the cursor offset.
func (r *Reader) setBufferKeepPos(s string) {
	pos := r.buf.Cursor()
	r.setBuffer(s)
	r.setCursorPosition(pos)
}

func (r *Reader) setPrompt(prompt string) {
	r.prompt = prompt
	r.promptLen = redraw.PromptWidth(prompt)
}

// drawLine prints the prompt and the buffer and places the cursor.
func (r *Reader) drawLine() {
	if r.prompt != "" {
		r.out.Print(r.prompt)
	}
	end := r.printSpan(0, r.buf.Len(), r.promptLen)
	r.out.FixWeirdWrap(end)
	r.out.MoveCursor(end, r.cursorPosition())
}

// redrawLine repaints the prompt's last line and the buffer in place.
func (r *Reader) redrawLine() {
	r.out.MoveCursor(r.cursorPosition(), 0)
	r.out.Print(redraw.LastLine(r.prompt))
	end := r.printSpan(0, r.buf.Len(), r.promptLen)
	r.out.FixWeirdWrap(end)
	r.out.MoveCursor(end, r.cursorPosition())
}

// resetPromptLine erases the prompt's last line and the buffer and
// shows prompt and text instead, with the cursor at offset cursor.
func (r *Reader) resetPromptLine(prompt, text string, cursor int) {
	r.moveToEnd()
	end := r.endPosition()
	r.out.MoveCursor(end, 0)
	r.out.ClearAhead(end, 0)

	r.setPrompt(prompt)
	r.buf.Clear()
	r.out.Print(redraw.LastLine(prompt))
	r.out.FixWeirdWrap(r.promptLen)
	r.putString(text)
	r.setCursorPosition(cursor)
}

// lineSource feeds the rendered line to the fallback redraw strategy.
type lineSource struct {
	r *Reader
}

func (s lineSource) Cells(from, to int) string {
	cells := redraw.Cells(s.r.prompt, s.r.buf.View(), s.r.mask, s.r.out.Width())
	return redraw.JoinCells(cells, from, to)
}

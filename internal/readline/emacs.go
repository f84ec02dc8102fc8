package readline

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/atotto/clipboard"

	"github.com/dshills/keyline/internal/engine/buffer"
	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/input/keymap"
)

// Line acceptance.

func (r *Reader) acceptLine(x *opCtx) error {
	x.finish(r.accept(), nil)
	return nil
}

// accept moves past the line and hands it over.
func (r *Reader) accept() string {
	r.moveToEnd()
	r.out.Println()
	r.flush()
	return r.finishBuffer()
}

// finishBuffer expands history events in the line, records it, and
// empties the buffer. A line whose expansion fails is kept as typed.
func (r *Reader) finishBuffer() string {
	line := r.buf.String()
	entry := line
	if r.expandEvents {
		expanded, err := expandEvents(r.history, line)
		switch {
		case err != nil:
			r.log.Warn("history expansion of %q: %v", line, err)
			r.beep()
		default:
			if expanded != line {
				r.out.Print(expanded + "\n")
			}
			line = expanded
			entry = escapeEvents(line)
		}
	}

	if line != "" && r.mask == nil && r.historyEnabled {
		r.history.Add(entry)
	}
	r.history.MoveToEnd()
	r.buf.Clear()
	return line
}

// escapeEvents quotes what would expand again when a history line is
// recalled and accepted.
func escapeEvents(s string) string {
	s = strings.ReplaceAll(s, "!", `\!`)
	if strings.HasPrefix(s, "^") {
		s = `\` + s
	}
	return s
}

func (r *Reader) exitOrDeleteChar(x *opCtx) error {
	if r.buf.Len() == 0 {
		return io.EOF
	}
	return r.deleteChar(x)
}

func (r *Reader) quit(x *opCtx) error {
	r.setBuffer("")
	x.finish(r.accept(), nil)
	return nil
}

func (r *Reader) interrupt(x *opCtx) error {
	if !r.handleInterrupt {
		x.fail()
		return nil
	}
	r.moveToEnd()
	r.out.Println()
	partial := r.buf.String()
	r.buf.Clear()
	r.history.MoveToEnd()
	x.finish("", &InterruptError{Partial: partial})
	return nil
}

func (r *Reader) abort(x *opCtx) error {
	if r.macros.IsRecording() {
		r.macros.Cancel()
	}
	x.fail()
	return nil
}

// Insertion.

func (r *Reader) selfInsert(x *opCtx) error {
	r.putString(strings.Repeat(string(x.key), x.count))
	return nil
}

func (r *Reader) tabInsert(x *opCtx) error {
	r.putString(strings.Repeat("\t", x.count))
	return nil
}

func (r *Reader) quotedInsertOp(*opCtx) error {
	r.quotedInsert = true
	return nil
}

func (r *Reader) overwriteMode(*opCtx) error {
	r.buf.SetOvertyping(!r.buf.IsOvertyping())
	return nil
}

func (r *Reader) pasteFromClipboard(x *opCtx) error {
	text, err := clipboard.ReadAll()
	if err != nil || text == "" {
		if err != nil {
			r.log.Debug("clipboard: %v", err)
		}
		x.fail()
		return nil
	}
	r.putString(text)
	return nil
}

func (r *Reader) insertComment(x *opCtx) error {
	r.setCursorPosition(0)
	r.putString(r.commentBegin)
	x.finish(r.accept(), nil)
	return nil
}

// insertClose inserts a closing bracket and briefly rests the cursor
// on its partner, until more input arrives or the blink time passes.
func (r *Reader) insertClose(x *opCtx) error {
	c := map[keymap.Operation]rune{
		keymap.InsertCloseParen:  ')',
		keymap.InsertCloseSquare: ']',
		keymap.InsertCloseCurly:  '}',
	}[x.op]
	r.putString(string(c))

	closePos := r.buf.Cursor()
	if open := matchBracket(r.buf.View(), closePos-1); open >= 0 {
		r.setCursorPosition(open)
		r.flush()
		if _, err := r.inputPending(r.parenBlinkTimeout); err != nil {
			return err
		}
	}
	r.setCursorPosition(closePos)
	return nil
}

// bracketType returns 1..3 for an opening bracket, the negation for
// the closing one, and 0 for anything else.
func bracketType(c rune) int {
	switch c {
	case '[':
		return 1
	case ']':
		return -1
	case '{':
		return 2
	case '}':
		return -2
	case '(':
		return 3
	case ')':
		return -3
	}
	return 0
}

// matchBracket returns the offset of the bracket pairing with the one
// at pos, or -1.
func matchBracket(rs []rune, pos int) int {
	if pos < 0 || pos >= len(rs) {
		return -1
	}
	typ := bracketType(rs[pos])
	if typ == 0 {
		return -1
	}
	move := 1
	if typ < 0 {
		move = -1
	}
	for depth := 1; depth > 0; {
		pos += move
		if pos < 0 || pos >= len(rs) {
			return -1
		}
		switch bracketType(rs[pos]) {
		case typ:
			depth++
		case -typ:
			depth--
		}
	}
	return pos
}

// Motion.

func (r *Reader) backwardChar(x *opCtx) error {
	if r.moveCursor(-x.count) == 0 {
		x.fail()
	}
	return nil
}

func (r *Reader) forwardChar(x *opCtx) error {
	if r.moveCursor(x.count) == 0 {
		x.fail()
	}
	return nil
}

func (r *Reader) beginningOfLine(*opCtx) error {
	r.setCursorPosition(0)
	return nil
}

func (r *Reader) endOfLine(*opCtx) error {
	r.moveToEnd()
	return nil
}

// backwardWordPos returns where a backward word motion from pos lands:
// over any separators, then to the start of the word.
func backwardWordPos(rs []rune, pos int, sep func(rune) bool) int {
	for pos > 0 && sep(rs[pos-1]) {
		pos--
	}
	for pos > 0 && !sep(rs[pos-1]) {
		pos--
	}
	return pos
}

// forwardWordPos returns where a forward word motion from pos lands:
// over any separators, then past the word.
func forwardWordPos(rs []rune, pos int, sep func(rune) bool) int {
	for pos < len(rs) && sep(rs[pos]) {
		pos++
	}
	for pos < len(rs) && !sep(rs[pos]) {
		pos++
	}
	return pos
}

func (r *Reader) backwardWord(x *opCtx) error {
	pos := r.buf.Cursor()
	for range x.count {
		pos = backwardWordPos(r.buf.View(), pos, buffer.IsDelimiter)
	}
	if pos == r.buf.Cursor() {
		x.fail()
	}
	r.setCursorPosition(pos)
	return nil
}

func (r *Reader) forwardWord(x *opCtx) error {
	pos := r.buf.Cursor()
	for range x.count {
		pos = forwardWordPos(r.buf.View(), pos, buffer.IsDelimiter)
	}
	if pos == r.buf.Cursor() {
		x.fail()
	}
	r.setCursorPosition(pos)
	return nil
}

// Deletion and kills.

func (r *Reader) backwardDeleteChar(x *opCtx) error {
	if r.backspace(x.count) == 0 {
		x.fail()
	}
	return nil
}

func (r *Reader) deleteChar(x *opCtx) error {
	cur := r.buf.Cursor()
	if r.deleteRange(cur, cur+x.count) == "" {
		x.fail()
	}
	return nil
}

// kill deletes [start, end) into the kill ring. Text removed behind the
// cursor is prepended when it merges with the previous kill.
func (r *Reader) kill(start, end int, backward bool) bool {
	text := r.deleteRange(start, end)
	if text == "" {
		return false
	}
	r.killRing.Kill(text, backward)
	return true
}

// killLine kills to the end of the logical line, or the line break
// itself when the cursor is already there.
func (r *Reader) killLine(x *opCtx) error {
	cur := r.buf.Cursor()
	_, end := r.buf.LineBounds()
	if end == cur && cur < r.buf.Len() {
		end++
	}
	if !r.kill(cur, end, false) {
		x.fail()
	}
	return nil
}

// wholeLineRange covers the cursor's logical line and one adjoining
// line break, the following one if there is one.
func (r *Reader) wholeLineRange() (int, int) {
	start, end := r.buf.LineBounds()
	switch {
	case end < r.buf.Len():
		end++
	case start > 0:
		start--
	}
	return start, end
}

func (r *Reader) killWholeLine(x *opCtx) error {
	start, end := r.wholeLineRange()
	if !r.kill(start, end, false) {
		x.fail()
	}
	return nil
}

func (r *Reader) backwardKillLine(x *opCtx) error {
	if !r.kill(0, r.buf.Cursor(), true) {
		x.fail()
	}
	return nil
}

func (r *Reader) killWord(x *opCtx) error {
	cur := r.buf.Cursor()
	end := cur
	for range x.count {
		end = forwardWordPos(r.buf.View(), end, buffer.IsDelimiter)
	}
	if !r.kill(cur, end, false) {
		x.fail()
	}
	return nil
}

func (r *Reader) backwardKillWord(x *opCtx) error {
	cur := r.buf.Cursor()
	start := cur
	for range x.count {
		start = backwardWordPos(r.buf.View(), start, buffer.IsDelimiter)
	}
	if !r.kill(start, cur, true) {
		x.fail()
	}
	return nil
}

func (r *Reader) unixWordRubout(x *opCtx) error {
	cur := r.buf.Cursor()
	start := cur
	for range x.count {
		start = backwardWordPos(r.buf.View(), start, buffer.IsWhitespace)
	}
	if !r.kill(start, cur, true) {
		x.fail()
	}
	return nil
}

func (r *Reader) yank(x *opCtx) error {
	text, ok := r.killRing.Yank()
	if !ok {
		x.fail()
		return nil
	}
	text = strings.Repeat(text, x.count)
	r.putString(text)
	r.yankedLen = utf8.RuneCountInString(text)
	return nil
}

// yankPop swaps the text just yanked, all of its repeats included, for
// one copy of the next older kill.
func (r *Reader) yankPop(x *opCtx) error {
	if !r.killRing.LastYank() {
		x.fail()
		return nil
	}
	if _, ok := r.killRing.Yank(); !ok {
		x.fail()
		return nil
	}
	r.backspace(r.yankedLen)
	text, _ := r.killRing.YankPop()
	r.putString(text)
	r.yankedLen = utf8.RuneCountInString(text)
	return nil
}

// Case and transposition.

// mapRange rewrites runes [start, end) in place and leaves the cursor
// at start.
func (r *Reader) mapRange(start, end int, fn func(i int, c rune) rune) {
	oldEnd := r.endPosition()
	r.setCursorPosition(start)
	for i := start; i < end; i++ {
		r.buf.SetRune(i, fn(i-start, r.buf.At(i)))
	}
	r.redrawFrom(start, oldEnd)
}

// caseWord applies fn to the next count words, skipping separators
// before each, and leaves the cursor after the last.
func (r *Reader) caseWord(x *opCtx, fn func(i int, c rune) rune) {
	pos := r.buf.Cursor()
	for range x.count {
		rs := r.buf.View()
		start := pos
		for start < len(rs) && buffer.IsDelimiter(rs[start]) {
			start++
		}
		end := forwardWordPos(rs, start, buffer.IsDelimiter)
		if start == end {
			x.fail()
			break
		}
		r.mapRange(start, end, fn)
		pos = end
	}
	r.setCursorPosition(pos)
}

func (r *Reader) capitalizeWord(x *opCtx) error {
	r.caseWord(x, func(i int, c rune) rune {
		if i == 0 {
			return unicode.ToUpper(c)
		}
		return unicode.ToLower(c)
	})
	return nil
}

func (r *Reader) upcaseWord(x *opCtx) error {
	r.caseWord(x, func(_ int, c rune) rune { return unicode.ToUpper(c) })
	return nil
}

func (r *Reader) downcaseWord(x *opCtx) error {
	r.caseWord(x, func(_ int, c rune) rune { return unicode.ToLower(c) })
	return nil
}

// transposeChars drags the character before the cursor forward. At the
// end of the line the last two characters swap.
func (r *Reader) transposeChars(x *opCtx) error {
	for range x.count {
		cur, n := r.buf.Cursor(), r.buf.Len()
		if n < 2 || cur == 0 {
			x.fail()
			return nil
		}
		if cur == n {
			cur--
		}
		a, b := r.buf.At(cur-1), r.buf.At(cur)
		r.mapRange(cur-1, cur+1, func(i int, _ rune) rune {
			if i == 0 {
				return b
			}
			return a
		})
		r.setCursorPosition(cur + 1)
	}
	return nil
}

// History.

// moveHistory steps count entries and shows the one it lands on.
func (r *Reader) moveHistory(next bool, count int) bool {
	moved := false
	for range count {
		ok := false
		if next {
			ok = r.history.Next()
		} else {
			ok = r.history.Previous()
		}
		if !ok {
			break
		}
		moved = true
	}
	if moved {
		r.setBuffer(r.history.Current())
	}
	return moved
}

func (r *Reader) previousHistory(x *opCtx) error {
	if !r.moveHistory(false, x.count) {
		x.fail()
	}
	return nil
}

func (r *Reader) nextHistory(x *opCtx) error {
	if !r.moveHistory(true, x.count) {
		x.fail()
	}
	return nil
}

func (r *Reader) beginningOfHistory(x *opCtx) error {
	if !r.history.MoveToFirst() {
		x.fail()
		return nil
	}
	r.setBuffer(r.history.Current())
	return nil
}

func (r *Reader) endOfHistory(*opCtx) error {
	r.history.MoveToEnd()
	r.setBuffer(r.history.Current())
	return nil
}

// historySearchBackward recalls the newest older entry starting with
// the text before the cursor.
func (r *Reader) historySearchBackward(x *opCtx) error {
	idx := history.SearchBackward(r.history, r.buf.UpToCursor(), r.history.Index(), true)
	if idx < 0 || !r.history.MoveTo(idx) {
		x.fail()
		return nil
	}
	r.setBufferKeepPos(r.history.Current())
	return nil
}

func (r *Reader) historySearchForward(x *opCtx) error {
	term := r.buf.UpToCursor()
	end := r.history.First() + r.history.Size()
	next := r.history.Index() + 1
	switch {
	case next == end:
		r.history.MoveToEnd()
		r.setBufferKeepPos(term)
	case next < end:
		idx := history.SearchForward(r.history, term, next, true)
		if idx < 0 || !r.history.MoveTo(idx) {
			x.fail()
			return nil
		}
		r.setBufferKeepPos(r.history.Current())
	default:
		x.fail()
	}
	return nil
}

// Screen.

func (r *Reader) clearScreen(*opCtx) error {
	r.out.ClearScreen()
	r.drawLine()
	return nil
}

func (r *Reader) redrawCurrentLine(*opCtx) error {
	r.redrawLine()
	return nil
}

// Arguments, modes, macros, undo.

func (r *Reader) digitArgument(x *opCtx) error {
	x.argDigit = true
	if x.key >= '0' && x.key <= '9' {
		r.repeatCount = r.repeatCount*10 + int(x.key-'0')
	}
	return nil
}

func (r *Reader) emacsEditingMode(*opCtx) error {
	r.keys.SetKeyMap(keymap.Emacs)
	return nil
}

func (r *Reader) viEditingMode(*opCtx) error {
	r.keys.SetKeyMap(keymap.ViInsert)
	return nil
}

func (r *Reader) reReadInitFile(x *opCtx) error {
	if r.initLoader == nil {
		x.fail()
		return nil
	}
	if err := r.initLoader(r.keys); err != nil {
		r.log.Warn("re-read init file: %v", err)
		x.fail()
	}
	return nil
}

func (r *Reader) startKbdMacro(x *opCtx) error {
	if err := r.macros.Start(); err != nil {
		r.log.Debug("start macro: %v", err)
		x.fail()
	}
	return nil
}

func (r *Reader) endKbdMacro(x *opCtx) error {
	if _, err := r.macros.Stop(len(r.opBuffer)); err != nil {
		r.log.Debug("end macro: %v", err)
		x.fail()
	}
	return nil
}

func (r *Reader) callLastKbdMacro(x *opCtx) error {
	m := r.macros.Last()
	if len(m) == 0 {
		x.fail()
		return nil
	}
	for range x.count {
		r.unread(m)
	}
	return nil
}

func (r *Reader) undoOp(x *opCtx) error {
	for range x.count {
		st, err := r.undo.Undo()
		if err != nil {
			x.fail()
			return nil
		}
		r.setBuffer(st.Text)
		r.setCursorPosition(st.Cursor)
	}
	return nil
}

// revertLine restores the line as it was before the first edit.
func (r *Reader) revertLine(x *opCtx) error {
	st, ok := r.undo.Oldest()
	if !ok {
		x.fail()
		return nil
	}
	r.setBuffer(st.Text)
	r.setCursorPosition(st.Cursor)
	r.undo.Clear()
	return nil
}

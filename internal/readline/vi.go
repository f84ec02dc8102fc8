package readline

import (
	"io"
	"strings"
	"unicode"

	"github.com/dshills/keyline/internal/engine/buffer"
	"github.com/dshills/keyline/internal/input/keymap"
)

// Modes.

func (r *Reader) insertMode() {
	r.keys.SetKeyMap(keymap.ViInsert)
}

// viMovementMode enters command mode. An explicit switch steps the
// cursor back onto the last character typed; a cancelled operator
// leaves it alone.
func (r *Reader) viMovementMode(*opCtx) error {
	if r.state == StateNormal {
		r.moveCursor(-1)
	}
	r.keys.SetKeyMap(keymap.ViMove)
	return nil
}

func (r *Reader) viInsertionMode(*opCtx) error {
	r.insertMode()
	return nil
}

func (r *Reader) viAppendMode(*opCtx) error {
	r.moveCursor(1)
	r.insertMode()
	return nil
}

func (r *Reader) viAppendEOL(*opCtx) error {
	r.moveToEnd()
	r.insertMode()
	return nil
}

func (r *Reader) viInsertBeg(*opCtx) error {
	r.setCursorPosition(0)
	r.insertMode()
	return nil
}

func (r *Reader) viMoveAcceptLine(x *opCtx) error {
	r.insertMode()
	x.finish(r.accept(), nil)
	return nil
}

func (r *Reader) viInsertComment(x *opCtx) error {
	r.insertMode()
	return r.insertComment(x)
}

// viEOFMaybe ends input on an empty line and accepts anything else.
func (r *Reader) viEOFMaybe(x *opCtx) error {
	if r.buf.Len() == 0 {
		return io.EOF
	}
	return r.acceptLine(x)
}

// Numeric argument.

func (r *Reader) viArgDigit(x *opCtx) error {
	x.argDigit = true
	r.repeatCount = r.repeatCount*10 + int(x.key-'0')
	return nil
}

// viBeginningOfLineOrArgDigit is '0': a digit while an argument is being
// typed, beginning of line otherwise.
func (r *Reader) viBeginningOfLineOrArgDigit(x *opCtx) error {
	if r.repeatCount > 0 {
		x.argDigit = true
		r.repeatCount *= 10
		return nil
	}
	r.setCursorPosition(0)
	return nil
}

// Motions.

func (r *Reader) viFirstPrint(*opCtx) error {
	rs := r.buf.View()
	pos := 0
	for pos < len(rs) && buffer.IsWhitespace(rs[pos]) {
		pos++
	}
	r.setCursorPosition(pos)
	return nil
}

func (r *Reader) viColumn(x *opCtx) error {
	if !r.setCursorPosition(x.count - 1) {
		r.moveToEnd()
	}
	return nil
}

func (r *Reader) viGotoMark(*opCtx) error {
	return nil
}

func (r *Reader) wordMotion(x *opCtx, next func(rs []rune, pos int) int) {
	pos := r.buf.Cursor()
	for range x.count {
		pos = next(r.buf.View(), pos)
	}
	if pos == r.buf.Cursor() {
		x.fail()
		return
	}
	r.setCursorPosition(pos)
}

// viNextWordPos moves to the start of the next word. Small words are
// runs of word characters or runs of other non-blank characters; big
// words are runs of non-blanks.
func viNextWordPos(rs []rune, pos int, big bool) int {
	if pos >= len(rs) {
		return pos
	}
	class := charClass(rs[pos], big)
	if class != 0 {
		for pos < len(rs) && charClass(rs[pos], big) == class {
			pos++
		}
	}
	for pos < len(rs) && buffer.IsWhitespace(rs[pos]) {
		pos++
	}
	return pos
}

// viPrevWordPos moves to the start of the current or previous word.
func viPrevWordPos(rs []rune, pos int, big bool) int {
	for pos > 0 && buffer.IsWhitespace(rs[pos-1]) {
		pos--
	}
	if pos == 0 {
		return 0
	}
	class := charClass(rs[pos-1], big)
	for pos > 0 && charClass(rs[pos-1], big) == class {
		pos--
	}
	return pos
}

// viEndWordPos moves to the last character of the current or next word.
func viEndWordPos(rs []rune, pos int, big bool) int {
	if pos >= len(rs)-1 {
		return pos
	}
	pos++
	for pos < len(rs) && buffer.IsWhitespace(rs[pos]) {
		pos++
	}
	if pos >= len(rs) {
		return len(rs) - 1
	}
	class := charClass(rs[pos], big)
	for pos < len(rs)-1 && charClass(rs[pos+1], big) == class {
		pos++
	}
	return pos
}

// charClass sorts runes for vi word motions: 0 for blanks, 1 for word
// characters, 2 for punctuation. Big words treat every non-blank alike.
func charClass(c rune, big bool) int {
	switch {
	case buffer.IsWhitespace(c):
		return 0
	case big || !buffer.IsDelimiter(c):
		return 1
	default:
		return 2
	}
}

func (r *Reader) viNextWord(x *opCtx) error {
	r.wordMotion(x, func(rs []rune, pos int) int { return viNextWordPos(rs, pos, false) })
	return nil
}

func (r *Reader) viForwardBigWord(x *opCtx) error {
	r.wordMotion(x, func(rs []rune, pos int) int { return viNextWordPos(rs, pos, true) })
	return nil
}

func (r *Reader) viPrevWord(x *opCtx) error {
	r.wordMotion(x, func(rs []rune, pos int) int { return viPrevWordPos(rs, pos, false) })
	return nil
}

func (r *Reader) viBackwardBigWord(x *opCtx) error {
	r.wordMotion(x, func(rs []rune, pos int) int { return viPrevWordPos(rs, pos, true) })
	return nil
}

// End-of-word motions are inclusive, so under an operator they reach
// one past the character they land on.
func (r *Reader) endWord(x *opCtx, big bool) {
	r.wordMotion(x, func(rs []rune, pos int) int { return viEndWordPos(rs, pos, big) })
	if x.ok && r.isInViMoveOperationState() {
		r.moveCursor(1)
	}
}

func (r *Reader) viEndWord(x *opCtx) error {
	r.endWord(x, false)
	return nil
}

func (r *Reader) viEndBigWord(x *opCtx) error {
	r.endWord(x, true)
	return nil
}

func (r *Reader) viMatch(x *opCtx) error {
	cur := r.buf.Cursor()
	pos := matchBracket(r.buf.View(), cur)
	if pos < 0 {
		x.fail()
		return nil
	}
	if pos > cur && r.isInViMoveOperationState() {
		pos++
	}
	r.setCursorPosition(pos)
	return nil
}

// viCharSearch implements f, F, t and T, which read the target
// character, and ';' and ',' which repeat the last search in the same
// or the opposite direction.
func (r *Reader) viCharSearch(x *opCtx) error {
	invoke := x.key
	var target rune
	switch invoke {
	case ';', ',':
		if r.charSearchChar == 0 {
			x.fail()
			return nil
		}
		switch {
		case r.charSearchLastKey == ';' || r.charSearchLastKey == ',':
			if r.charSearchLastKey != invoke {
				r.charSearchFirst = switchCase(r.charSearchFirst)
			}
		case invoke == ',':
			r.charSearchFirst = switchCase(r.charSearchFirst)
		}
		target = r.charSearchChar
	default:
		c, err := r.nextRune()
		if err != nil {
			return err
		}
		if c == esc || c == 0x03 {
			return nil
		}
		target = c
		r.charSearchChar = c
		r.charSearchFirst = invoke
	}
	r.charSearchLastKey = invoke

	forward := unicode.IsLower(r.charSearchFirst)
	stopBefore := unicode.ToLower(r.charSearchFirst) == 't'
	rs := r.buf.View()
	pos := r.buf.Cursor()

	// Every one of the count occurrences must exist.
	for range x.count {
		found := false
		if forward {
			for i := pos + 1; i < len(rs); i++ {
				if rs[i] == target {
					pos, found = i, true
					break
				}
			}
		} else {
			for i := pos - 1; i >= 0; i-- {
				if rs[i] == target {
					pos, found = i, true
					break
				}
			}
		}
		if !found {
			x.fail()
			return nil
		}
	}

	switch {
	case forward && stopBefore:
		pos--
	case !forward && stopBefore:
		pos++
	}
	if forward && r.isInViMoveOperationState() {
		pos++
	}
	r.setCursorPosition(pos)
	return nil
}

func switchCase(c rune) rune {
	if unicode.IsUpper(c) {
		return unicode.ToLower(c)
	}
	return unicode.ToUpper(c)
}

// History.

func (r *Reader) viPreviousHistory(x *opCtx) error {
	if !r.moveHistory(false, x.count) {
		x.fail()
		return nil
	}
	r.setCursorPosition(0)
	return nil
}

func (r *Reader) viNextHistory(x *opCtx) error {
	if !r.moveHistory(true, x.count) {
		x.fail()
		return nil
	}
	r.setCursorPosition(0)
	return nil
}

// Editing.

// viDelete is 'x': delete count characters under the cursor.
func (r *Reader) viDelete(x *opCtx) error {
	cur := r.buf.Cursor()
	text := r.deleteRange(cur, cur+x.count)
	if text == "" {
		x.fail()
		return nil
	}
	r.yankBuffer = text
	return nil
}

// viRubout is 'X': delete count characters before the cursor.
func (r *Reader) viRubout(x *opCtx) error {
	cur := r.buf.Cursor()
	text := r.deleteRange(cur-x.count, cur)
	if text == "" {
		x.fail()
		return nil
	}
	r.yankBuffer = text
	return nil
}

func (r *Reader) viChangeCase(x *opCtx) error {
	cur := r.buf.Cursor()
	end := min(cur+x.count, r.buf.Len())
	if cur >= end {
		x.fail()
		return nil
	}
	r.mapRange(cur, end, func(_ int, c rune) rune { return switchCase(c) })
	r.setCursorPosition(end)
	return nil
}

// viChangeChar is 'r': replace count characters with the next key.
func (r *Reader) viChangeChar(x *opCtx) error {
	c, err := r.nextRune()
	if err != nil {
		return err
	}
	if c == esc || c == 0x03 {
		return nil
	}
	cur := r.buf.Cursor()
	end := cur + x.count
	if end > r.buf.Len() {
		x.fail()
		return nil
	}
	r.mapRange(cur, end, func(int, rune) rune { return c })
	r.setCursorPosition(end - 1)
	return nil
}

// viPut is 'p' (after the cursor) and 'P' (before it).
func (r *Reader) viPut(x *opCtx) error {
	if r.yankBuffer == "" {
		return nil
	}
	if x.key != 'P' && r.buf.Cursor() < r.buf.Len() {
		r.moveCursor(1)
	}
	r.putString(strings.Repeat(r.yankBuffer, x.count))
	r.moveCursor(-1)
	return nil
}

func (r *Reader) viDeleteToEOL(x *opCtx) error {
	cur := r.buf.Cursor()
	_, end := r.buf.LineBounds()
	text := r.buf.Slice(cur, end)
	if !r.kill(cur, end, false) {
		x.fail()
		return nil
	}
	r.yankBuffer = text
	if cur > 0 && cur == r.buf.Len() {
		r.moveCursor(-1)
	}
	return nil
}

func (r *Reader) viChangeToEOL(x *opCtx) error {
	cur := r.buf.Cursor()
	_, end := r.buf.LineBounds()
	text := r.buf.Slice(cur, end)
	if r.kill(cur, end, false) {
		r.yankBuffer = text
	}
	r.insertMode()
	return nil
}

// viKillWholeLine is 'S': clear the logical line and start inserting.
func (r *Reader) viKillWholeLine(*opCtx) error {
	r.changeLine()
	r.insertMode()
	return nil
}

// Operators.

// enterOperator starts operator s. It reports true when s was already
// pending, meaning the key was doubled (dd, cc, yy). Mixing operators
// (dc) cancels both.
func (r *Reader) enterOperator(x *opCtx, s State) bool {
	switch r.state {
	case s:
		return true
	case StateNormal:
		r.state = s
	default:
		x.fail()
	}
	return false
}

func (r *Reader) viDeleteTo(x *opCtx) error {
	if !r.enterOperator(x, StateViDeleteTo) {
		return nil
	}
	x.operatorDone = true
	r.state = StateNormal
	start, end := r.wholeLineRange()
	text := r.buf.Slice(start, end)
	if !r.kill(start, end, false) {
		x.fail()
		return nil
	}
	r.yankBuffer = text
	return nil
}

func (r *Reader) viChangeTo(x *opCtx) error {
	if !r.enterOperator(x, StateViChangeTo) {
		return nil
	}
	x.operatorDone = true
	r.state = StateNormal
	r.changeLine()
	r.insertMode()
	return nil
}

func (r *Reader) viYankTo(x *opCtx) error {
	if !r.enterOperator(x, StateViYankTo) {
		return nil
	}
	x.operatorDone = true
	r.state = StateNormal
	start, end := r.buf.LineBounds()
	r.yankBuffer = r.buf.Slice(start, end)
	return nil
}

// changeLine removes the text of the logical line, keeping its line
// break, into the kill ring and the vi register.
func (r *Reader) changeLine() {
	start, end := r.buf.LineBounds()
	text := r.buf.Slice(start, end)
	if r.kill(start, end, false) {
		r.yankBuffer = text
	}
	r.setCursorPosition(start)
}

// applyViOperator finishes a pending operator over the span a motion
// covered.
func (r *Reader) applyViOperator(op State, from, to int) {
	if from > to {
		from, to = to, from
	}
	switch op {
	case StateViYankTo:
		r.yankBuffer = r.buf.Slice(from, to)
		r.setCursorPosition(from)
	case StateViDeleteTo:
		if from == to {
			return
		}
		r.yankBuffer = r.deleteRange(from, to)
		if from > 0 && from == r.buf.Len() {
			r.moveCursor(-1)
		}
	case StateViChangeTo:
		if from != to {
			r.yankBuffer = r.deleteRange(from, to)
		}
		r.insertMode()
	}
}

package readline

import "github.com/dshills/keyline/internal/input/keymap"

// lineEditor is the keymap.Editor handed to key callbacks. Changes go
// through the reader so the screen follows them.
type lineEditor struct {
	r *Reader
}

var _ keymap.Editor = lineEditor{}

func (e lineEditor) Buffer() string {
	return e.r.buf.String()
}

func (e lineEditor) Cursor() int {
	return e.r.buf.Cursor()
}

func (e lineEditor) Insert(s string) {
	e.r.putString(s)
}

func (e lineEditor) SetBuffer(s string) {
	e.r.setBuffer(s)
}

func (e lineEditor) SetCursor(pos int) {
	e.r.setCursorPosition(pos)
}

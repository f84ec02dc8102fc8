package readline

import (
	"errors"
	"io"
	"time"
	"unicode"

	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/renderer/redraw"
	"github.com/dshills/keyline/internal/terminal"
)

const esc = 0x1b

// readRaw returns the next rune, taking pushed-back runes first. Fresh
// reads are recorded into a keyboard macro being defined.
func (r *Reader) readRaw() (rune, bool, error) {
	if n := len(r.pushback); n > 0 {
		c := r.pushback[n-1]
		r.pushback = r.pushback[:n-1]
		return c, false, nil
	}
	c, err := r.in.ReadRune()
	if err != nil {
		return 0, false, err
	}
	r.macros.Record(c)
	return c, true, nil
}

// nextRune is readRaw for the editor: it also erases whatever a
// terminal with echo still on printed for the key.
func (r *Reader) nextRune() (rune, error) {
	c, fresh, err := r.readRaw()
	if err != nil {
		return 0, err
	}
	if fresh && r.term.IsEchoEnabled() {
		r.clearEcho(c)
	}
	return c, nil
}

// unread pushes rs back so that rs[0] is read next.
func (r *Reader) unread(rs []rune) {
	for i := len(rs) - 1; i >= 0; i-- {
		r.pushback = append(r.pushback, rs[i])
	}
}

// inputPending reports whether another rune is ready within timeout.
func (r *Reader) inputPending(timeout time.Duration) (bool, error) {
	if len(r.pushback) > 0 {
		return true, nil
	}
	_, err := r.in.Peek(timeout)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, terminal.ErrReadExpired), errors.Is(err, io.EOF):
		return false, nil
	default:
		return false, err
	}
}

func (r *Reader) clearEcho(c rune) {
	pos := r.cursorPosition()
	n := redraw.CharWidth(c, pos, r.out.Width())
	if n <= 0 {
		return
	}
	r.out.MoveCursor(pos+n, pos)
	r.drawBuffer(n)
}

// readBinding reads runes into opBuffer until they resolve to a bound
// slot of km. A lone ESC waits escapeTimeout for the rest of a
// sequence before falling back to the map's another-key binding.
func (r *Reader) readBinding(km *keymap.KeyMap) (keymap.Slot, error) {
	r.opBuffer = r.opBuffer[:0]
	for {
		c, err := r.nextRune()
		if err != nil {
			return keymap.Slot{}, err
		}
		r.opBuffer = append(r.opBuffer, c)

		if r.quotedInsert {
			r.quotedInsert = false
			return r.settle(keymap.Op(keymap.SelfInsert)), nil
		}

		slot := km.Resolve(r.opBuffer)
		if slot.IsOp(keymap.DoLowercaseVersion) {
			r.opBuffer[len(r.opBuffer)-1] = unicode.ToLower(c)
			slot = km.Resolve(r.opBuffer)
		}

		if slot.Kind == keymap.KeyMapSlot {
			if c != esc || len(r.pushback) > 0 {
				continue
			}
			pending, err := r.inputPending(r.escapeTimeout)
			if err != nil {
				return keymap.Slot{}, err
			}
			if pending {
				continue
			}
			slot = slot.Map.AnotherKey()
			if !slot.IsBound() || slot.Kind == keymap.KeyMapSlot {
				continue
			}
			return r.settle(slot), nil
		}

		if !slot.IsBound() && len(r.opBuffer) > 1 {
			slot = r.backtrack(km)
		}
		return r.settle(slot), nil
	}
}

// backtrack handles a sequence with no binding. The longest prefix that
// resolves through another-key wins and the runes after it are pushed
// back; failing that the first rune is dropped and the rest re-read.
func (r *Reader) backtrack(km *keymap.KeyMap) keymap.Slot {
	for n := len(r.opBuffer) - 1; n > 0; n-- {
		s := km.Resolve(r.opBuffer[:n])
		if s.Kind == keymap.KeyMapSlot {
			s = s.Map.AnotherKey()
		}
		if s.IsBound() && s.Kind != keymap.KeyMapSlot {
			r.unread(r.opBuffer[n:])
			r.opBuffer = r.opBuffer[:n]
			return s
		}
	}
	r.unread(r.opBuffer[1:])
	r.opBuffer = r.opBuffer[:1]
	return keymap.Slot{}
}

// settle updates the kill ring flags for the binding about to run: only
// kills keep the kill flag and only yanks keep the yank flag.
func (r *Reader) settle(s keymap.Slot) keymap.Slot {
	op := keymap.OpNone
	if s.Kind == keymap.OperationSlot {
		op = s.Op
	}
	if !op.IsYank() {
		r.killRing.ResetLastYank()
	}
	if !op.IsKill() {
		r.killRing.ResetLastKill()
	}
	return s
}

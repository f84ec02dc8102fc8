package redraw

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultWidth is used when the terminal reports no usable width.
const DefaultWidth = 80

// Caps is what the renderer needs to know about the terminal.
type Caps interface {
	Width() int
	IsAnsiSupported() bool
	HasWeirdWrap() bool
	// ClearScreen returns the sequence that clears the screen and homes
	// the cursor, or "" if the terminal has none.
	ClearScreen() string
}

// Source supplies the rendered line for strategies that move the
// cursor right by reprinting.
type Source interface {
	// Cells returns the text shown in screen positions [from, to).
	Cells(from, to int) string
}

// Strategy moves the cursor and erases text using whatever the
// terminal supports.
type Strategy interface {
	MoveCursor(r *Renderer, from, to int)
	ClearAhead(r *Renderer, num, pos int)
}

// Renderer writes display updates to the terminal. Writes are buffered
// until Flush and serialized by an internal mutex so a background
// repaint can share the output.
type Renderer struct {
	mu       sync.Mutex
	w        *bufio.Writer
	caps     Caps
	strategy Strategy
	src      Source
	bell     bool

	// cursorOk is false when text was just printed and the terminal may
	// be parked in the pending-wrap state at the right margin.
	cursorOk bool
}

// New creates a renderer, choosing the ANSI strategy when the terminal
// supports cursor addressing and the fallback strategy otherwise.
func New(w io.Writer, caps Caps) *Renderer {
	r := &Renderer{
		w:    bufio.NewWriter(w),
		caps: caps,
		bell: true,
	}
	if caps.IsAnsiSupported() {
		r.strategy = ANSI{}
	} else {
		r.strategy = Fallback{}
	}
	return r
}

// SetStrategy overrides the motion strategy.
func (r *Renderer) SetStrategy(s Strategy) {
	r.strategy = s
}

// SetSource sets the line source used by reprinting strategies.
func (r *Renderer) SetSource(src Source) {
	r.src = src
}

// SetBell enables or disables the audible bell.
func (r *Renderer) SetBell(on bool) {
	r.bell = on
}

// Width returns the terminal width, never less than 1.
func (r *Renderer) Width() int {
	if w := r.caps.Width(); w > 0 {
		return w
	}
	return DefaultWidth
}

// Print writes s verbatim.
func (r *Renderer) Print(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.WriteString(s)
	r.cursorOk = false
}

// PrintRepeat writes c n times.
func (r *Renderer) PrintRepeat(c rune, n int) {
	if n <= 0 {
		return
	}
	r.Print(strings.Repeat(string(c), n))
}

// Println writes a newline.
func (r *Renderer) Println() {
	r.Print("\n")
}

// PrintFormatted writes rs rendered for display starting at pos and
// returns the position after it.
func (r *Renderer) PrintFormatted(rs []rune, pos int) int {
	s, end := Format(rs, pos, r.Width())
	r.Print(s)
	return end
}

// CarriageReturn moves to the first column of the current row.
func (r *Renderer) CarriageReturn() {
	r.Print("\r")
}

// emit writes control output that leaves the cursor at a known spot.
func (r *Renderer) emit(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.WriteString(s)
}

// MoveCursor moves the terminal cursor between two screen positions.
func (r *Renderer) MoveCursor(from, to int) {
	if from == to {
		return
	}
	r.strategy.MoveCursor(r, from, to)
	r.cursorOk = true
}

// ClearAhead erases num columns starting at pos and returns the cursor
// to pos.
func (r *Renderer) ClearAhead(num, pos int) {
	if num <= 0 {
		return
	}
	r.strategy.ClearAhead(r, num, pos)
}

// FixWeirdWrap nudges the cursor onto the next row when text just
// filled the last column and the terminal is holding it at the margin.
// cursorPos is where the cursor ought to be.
func (r *Renderer) FixWeirdWrap(cursorPos int) {
	if !r.caps.HasWeirdWrap() || r.cursorOk {
		return
	}
	if cursorPos > 0 && cursorPos%r.Width() == 0 {
		r.emit(" \r")
	}
	r.cursorOk = true
}

// Bell rings the terminal bell if enabled.
func (r *Renderer) Bell() {
	if !r.bell {
		return
	}
	r.emit("\a")
	_ = r.Flush()
}

// ClearScreen clears the screen. It reports false if the terminal
// cannot, after moving to a fresh line instead.
func (r *Renderer) ClearScreen() bool {
	seq := r.caps.ClearScreen()
	if seq == "" {
		r.Println()
		return false
	}
	r.Print(seq)
	return true
}

// Flush writes buffered output.
func (r *Renderer) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Flush()
}

// PrintFlush writes s and flushes in one locked step.
func (r *Renderer) PrintFlush(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.WriteString(s)
	r.cursorOk = false
	return r.w.Flush()
}

// ANSI moves with CSI cursor sequences and erases with EL.
type ANSI struct{}

func (ANSI) MoveCursor(r *Renderer, from, to int) {
	width := r.Width()
	l0, c0 := from/width, from%width
	l1, c1 := to/width, to%width

	var sb strings.Builder
	switch {
	case l0 > l1:
		csi(&sb, l0-l1, 'A')
	case l0 < l1:
		sb.WriteByte('\r')
		sb.WriteString(strings.Repeat("\n", l1-l0))
		c0 = 0
	}
	switch {
	case c0 < c1:
		csi(&sb, c1-c0, 'C')
	case c0 > c1:
		csi(&sb, c0-c1, 'D')
	}
	r.emit(sb.String())
}

func (ANSI) ClearAhead(r *Renderer, num, pos int) {
	width := r.Width()
	cur := pos
	nb := min(num, width-cur%width)
	r.emit("\x1b[K")
	num -= nb
	for num > 0 {
		prev := cur
		cur = cur - cur%width + width
		r.MoveCursor(prev, cur)
		nb = min(num, width)
		r.emit("\x1b[K")
		num -= nb
	}
	r.MoveCursor(cur, pos)
}

func csi(sb *strings.Builder, n int, final byte) {
	if n == 1 {
		fmt.Fprintf(sb, "\x1b[%c", final)
		return
	}
	fmt.Fprintf(sb, "\x1b[%d%c", n, final)
}

// Fallback works on terminals without cursor addressing. It moves left
// with backspace, which only crosses rows on terminals that wrap
// backspace at the left margin, and moves right by reprinting the
// text already on screen.
type Fallback struct{}

func (Fallback) MoveCursor(r *Renderer, from, to int) {
	width := r.Width()
	l0, l1 := from/width, to/width

	switch {
	case to < from:
		r.emit(strings.Repeat("\b", from-to))
	case l0 < l1:
		r.emit("\r" + strings.Repeat("\n", l1-l0))
		r.emit(r.cells(l1*width, to))
	default:
		r.emit(r.cells(from, to))
	}
}

func (Fallback) ClearAhead(r *Renderer, num, pos int) {
	width := r.Width()
	if r.caps.HasWeirdWrap() {
		r.emit(strings.Repeat(" ", num))
		r.MoveCursor(pos+num, pos)
		return
	}

	// No automatic margins: the cursor sticks at the last column, so
	// each row is erased separately.
	cur := pos
	nb := min(num, width-cur%width)
	r.emit(strings.Repeat(" ", nb))
	num -= nb
	cur += nb
	for num > 0 {
		r.MoveCursor(cur, cur+1)
		cur++
		nb = min(num, width)
		r.emit(strings.Repeat(" ", nb))
		num -= nb
		cur += nb
	}
	r.MoveCursor(cur, pos)
}

func (r *Renderer) cells(from, to int) string {
	if r.src == nil {
		return strings.Repeat(" ", max(to-from, 0))
	}
	return r.src.Cells(from, to)
}

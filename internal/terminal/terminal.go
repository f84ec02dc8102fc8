// Package terminal describes the terminal a line is edited on and reads
// keystrokes from it.
//
// A Terminal answers capability questions (width, whether cursor
// addressing works, whether the right margin wraps) and switches the
// tty in and out of the unbuffered, no-echo mode line editing needs.
// An Input delivers runes and can peek for a bounded time, which is
// how a lone ESC is told apart from the start of an escape sequence.
package terminal

import (
	"os"

	"github.com/gdamore/tcell/v2/terminfo"
	// Register the terminfo descriptions for lookups by $TERM.
	_ "github.com/gdamore/tcell/v2/terminfo/extended"
)

// DefaultClearScreen homes the cursor and erases the display.
const DefaultClearScreen = "\x1b[H\x1b[2J"

// Terminal is the terminal a reader draws on.
type Terminal interface {
	Width() int
	Height() int

	// IsSupported reports whether line editing is possible at all. An
	// unsupported terminal gets plain line reads with no editing.
	IsSupported() bool
	// IsAnsiSupported reports whether relative cursor motion and erase
	// sequences work.
	IsAnsiSupported() bool
	// HasWeirdWrap reports whether printing into the last column parks
	// the cursor at the margin instead of moving to the next row.
	HasWeirdWrap() bool
	IsEchoEnabled() bool
	ClearScreen() string

	// Init puts the terminal in editing mode.
	Init() error
	// Restore undoes Init.
	Restore() error

	// DisableInterruptCharacter stops the tty from turning ^C into a
	// signal, so it arrives as input.
	DisableInterruptCharacter() error
	EnableInterruptCharacter() error
}

// Caps are capabilities resolved from the terminfo database.
type Caps struct {
	Name      string
	Ansi      bool
	WeirdWrap bool
	Clear     string
}

// LookupCaps resolves capabilities for a $TERM name. Unknown terminals
// get no cursor addressing and are assumed to wrap late, since most
// terminal emulators do.
func LookupCaps(name string) Caps {
	c := Caps{Name: name, WeirdWrap: true, Clear: DefaultClearScreen}
	if name == "" || name == "dumb" {
		c.Clear = ""
		return c
	}
	ti, err := terminfo.LookupTerminfo(name)
	if err != nil {
		return c
	}
	c.Ansi = ti.SetCursor != ""
	c.WeirdWrap = ti.AutoMargin
	if ti.Clear != "" {
		c.Clear = ti.Clear
	}
	return c
}

// SupportedName reports whether a $TERM value allows line editing.
func SupportedName(name string) bool {
	return name != "" && name != "dumb"
}

// Static is a Terminal with fixed answers, for pipes and tests.
type Static struct {
	W, H      int
	Supported bool
	Ansi      bool
	WeirdWrap bool
	Echo      bool
	Clear     string

	// Inits counts Init calls minus Restore calls.
	Inits int
	// InterruptDisabled tracks DisableInterruptCharacter.
	InterruptDisabled bool
}

// NewStatic returns an 80x24 ANSI terminal without weird wrap.
func NewStatic() *Static {
	return &Static{W: 80, H: 24, Supported: true, Ansi: true, Clear: DefaultClearScreen}
}

func (s *Static) Width() int            { return s.W }
func (s *Static) Height() int           { return s.H }
func (s *Static) IsSupported() bool     { return s.Supported }
func (s *Static) IsAnsiSupported() bool { return s.Ansi }
func (s *Static) HasWeirdWrap() bool    { return s.WeirdWrap }
func (s *Static) IsEchoEnabled() bool   { return s.Echo }
func (s *Static) ClearScreen() string   { return s.Clear }

func (s *Static) Init() error {
	s.Inits++
	return nil
}

func (s *Static) Restore() error {
	s.Inits--
	return nil
}

func (s *Static) DisableInterruptCharacter() error {
	s.InterruptDisabled = true
	return nil
}

func (s *Static) EnableInterruptCharacter() error {
	s.InterruptDisabled = false
	return nil
}

// Unsupported returns a Static terminal that disables editing.
func Unsupported() *Static {
	return &Static{W: 80, H: 24, Echo: true}
}

// New returns the terminal for the process's stdin, falling back to an
// unsupported terminal when stdin is not a tty or $TERM rules editing
// out.
func New() Terminal {
	return NewFor(os.Stdin, os.Getenv("TERM"))
}

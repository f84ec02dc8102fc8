// Package readline reads edited lines from a terminal.
//
// A Reader pulls keystrokes from an Input, resolves them against the
// active keymap, and applies the bound operations to the line buffer,
// kill ring and history while keeping the screen in sync. It supports
// emacs and vi editing modes, incremental history search, keyboard
// macros, completion, and history event expansion.
//
// A Reader is used by one goroutine at a time. The kill ring, history
// and active keymap live as long as the Reader; everything else is
// reset by each ReadLine call.
package readline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dshills/keyline/internal/engine/buffer"
	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/engine/killring"
	"github.com/dshills/keyline/internal/engine/undo"
	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/input/macro"
	"github.com/dshills/keyline/internal/logging"
	"github.com/dshills/keyline/internal/renderer/redraw"
	"github.com/dshills/keyline/internal/terminal"
)

// Reader is the line editor.
type Reader struct {
	term terminal.Terminal
	in   terminal.Input
	out  *redraw.Renderer
	log  *logging.Logger

	keys       *keymap.Registry
	history    history.History
	killRing   *killring.KillRing
	macros     *macro.Recorder
	undo       *undo.Stack
	completers []Completer

	buf       *buffer.CursorBuffer
	prompt    string
	promptLen int
	mask      *rune

	state        State
	repeatCount  int
	opBuffer     []rune
	pushback     []rune
	quotedInsert bool
	skipLF       bool
	yankedLen    int // runes inserted by the last yank or yank-pop

	// incremental search
	searchTerm     []rune
	searchIndex    int
	lastSearchTerm string
	originalBuffer *buffer.CursorBuffer
	originalPrompt string

	// vi
	yankBuffer        string
	charSearchChar    rune
	charSearchFirst   rune
	charSearchLastKey rune

	editingMode        string
	escapeTimeout      time.Duration
	bell               bool
	expandEvents       bool
	handleInterrupt    bool
	copyPasteDetection bool
	historyEnabled     bool
	commentBegin       string
	parenBlinkTimeout  time.Duration
	autoprintThreshold int
	initLoader         InitFileLoader
}

// New creates a Reader reading keys from in and drawing to out.
func New(term terminal.Terminal, in terminal.Input, out io.Writer, opts ...Option) *Reader {
	r := &Reader{
		term:               term,
		in:                 in,
		log:                logging.Discard(),
		history:            history.NewMemory(),
		killRing:           killring.New(DefaultKillRingSize),
		macros:             macro.NewRecorder(),
		undo:               undo.New(DefaultMaxUndoEntries),
		buf:                buffer.New(),
		searchIndex:        -1,
		escapeTimeout:      DefaultEscapeTimeout,
		bell:               true,
		expandEvents:       true,
		handleInterrupt:    true,
		historyEnabled:     true,
		commentBegin:       DefaultCommentBegin,
		parenBlinkTimeout:  DefaultParenBlinkTimeout,
		autoprintThreshold: DefaultAutoprintThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.keys == nil {
		r.keys = keymap.NewRegistry()
	}
	switch r.editingMode {
	case "vi":
		r.keys.SetKeyMap(keymap.ViInsert)
	case "emacs":
		r.keys.SetKeyMap(keymap.Emacs)
	}
	r.log = r.log.WithComponent("readline")

	r.out = redraw.New(out, term)
	r.out.SetBell(r.bell)
	r.out.SetSource(lineSource{r})
	return r
}

// ReadLine reads one line. A nil mask echoes typed text; a mask of 0
// echoes nothing; any other mask echoes that rune per character. At
// end of input with an empty line it returns "" and io.EOF.
func (r *Reader) ReadLine(prompt string, mask *rune) (string, error) {
	return r.ReadLineWithBuffer(prompt, mask, "")
}

// ReadLineWithBuffer is ReadLine with the line pre-filled with initial.
func (r *Reader) ReadLineWithBuffer(prompt string, mask *rune, initial string) (string, error) {
	r.beginLine(prompt, mask, initial)

	if !r.term.IsSupported() {
		stop := r.startMaskTask(prompt, mask)
		defer stop()
	}

	r.drawLine()
	r.flush()

	if !r.term.IsSupported() {
		return r.readLineSimple()
	}

	if err := r.term.Init(); err != nil {
		return "", fmt.Errorf("init terminal: %w", err)
	}
	defer func() {
		if err := r.term.Restore(); err != nil {
			r.log.Warn("restore terminal: %v", err)
		}
	}()

	if r.handleInterrupt {
		if err := r.term.DisableInterruptCharacter(); err != nil {
			r.log.Warn("disable interrupt character: %v", err)
		}
		defer func() {
			if err := r.term.EnableInterruptCharacter(); err != nil {
				r.log.Warn("enable interrupt character: %v", err)
			}
		}()
	}

	for {
		line, done, err := r.step()
		if err != nil || done {
			r.flush()
			return line, err
		}
	}
}

func (r *Reader) beginLine(prompt string, mask *rune, initial string) {
	r.mask = mask
	r.setPrompt(prompt)
	r.buf = buffer.New()
	r.buf.Write(initial)
	r.state = StateNormal
	r.repeatCount = 0
	r.opBuffer = r.opBuffer[:0]
	r.quotedInsert = false
	r.resetSearch()
	r.undo.Clear()
	r.history.MoveToEnd()
}

// step reads and executes one binding. done is set when the line has
// been accepted or input ended.
func (r *Reader) step() (string, bool, error) {
	slot, err := r.readBinding(r.keys.Current())
	if err != nil {
		if errors.Is(err, io.EOF) {
			return r.endOfInput()
		}
		return "", true, fmt.Errorf("read input: %w", err)
	}
	r.log.Debug("binding %q: %s", string(r.opBuffer), slot)

	var key rune
	if n := len(r.opBuffer); n > 0 {
		key = r.opBuffer[n-1]
	}

	// Bindings that never reach dispatch still use up a pending count.
	switch slot.Kind {
	case keymap.MacroSlot:
		r.repeatCount = 0
		r.unread([]rune(slot.Macro))
		r.opBuffer = r.opBuffer[:0]
		return "", false, nil
	case keymap.CallbackSlot:
		r.repeatCount = 0
		r.runCallback(slot.Callback)
		r.opBuffer = r.opBuffer[:0]
		r.flush()
		return "", false, nil
	case keymap.Unbound:
		if !r.state.IsViOperator() {
			r.repeatCount = 0
			r.beep()
			r.opBuffer = r.opBuffer[:0]
			r.flush()
			return "", false, nil
		}
	}

	op := slot.Op
	before := undo.State{Text: r.buf.String(), Cursor: r.buf.Cursor()}

	if r.state.IsSearch() {
		op = r.searchStep(op, key)
	}

	ok := true
	if (op != keymap.OpNone || r.state.IsViOperator()) && !r.state.IsSearch() {
		x, err := r.dispatch(op, key)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return r.endOfInput()
			}
			return "", true, err
		}
		if x.finished {
			return x.line, true, x.err
		}
		ok = x.ok
	}

	r.recordUndo(op, before)

	if !ok {
		r.beep()
	}
	r.opBuffer = r.opBuffer[:0]
	r.flush()
	return "", false, nil
}

// endOfInput ends the read when the input is exhausted: an empty line
// reports io.EOF, anything typed is accepted.
func (r *Reader) endOfInput() (string, bool, error) {
	if r.buf.Len() == 0 {
		return "", true, io.EOF
	}
	return r.accept(), true, nil
}

func (r *Reader) recordUndo(op keymap.Operation, before undo.State) {
	switch op {
	case keymap.Undo, keymap.RevertLine:
		return
	}
	if r.buf.String() == before.Text {
		if op != keymap.SelfInsert {
			r.undo.Break()
		}
		return
	}
	group := ""
	if op == keymap.SelfInsert {
		group = "insert"
	}
	r.undo.Push(before, group)
}

// SetKeyMap activates a named keymap ("emacs", "vi-insert", "vi-move"
// or an alias). It reports false, changing nothing, for unknown names.
func (r *Reader) SetKeyMap(name string) bool {
	return r.keys.SetKeyMap(name)
}

// KeyMap returns the canonical name of the active keymap.
func (r *Reader) KeyMap() string {
	return r.keys.Current().Name()
}

// KeyMaps returns the keymap registry.
func (r *Reader) KeyMaps() *keymap.Registry {
	return r.keys
}

// History returns the history.
func (r *Reader) History() history.History {
	return r.history
}

// KillRing returns the kill ring.
func (r *Reader) KillRing() *killring.KillRing {
	return r.killRing
}

// State returns the state the editing state machine is in.
func (r *Reader) State() State {
	return r.state
}

// AddCompleter appends a completer.
func (r *Reader) AddCompleter(c Completer) {
	if c != nil {
		r.completers = append(r.completers, c)
	}
}

// Println writes s and a newline, for hosts printing between reads.
func (r *Reader) Println(s string) error {
	return r.out.PrintFlush(s + "\n")
}

func (r *Reader) beep() {
	r.out.Bell()
}

func (r *Reader) flush() {
	if err := r.out.Flush(); err != nil {
		r.log.Warn("flush: %v", err)
	}
}

func (r *Reader) runCallback(cb keymap.Callback) {
	if err := cb.Run(lineEditor{r}); err != nil {
		r.log.Warn("key callback: %v", err)
		r.beep()
	}
}

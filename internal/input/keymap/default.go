package keymap

import "github.com/dshills/keyline/internal/input/key"

// Names of the built-in keymaps.
const (
	Emacs         = "emacs"
	EmacsStandard = "emacs-standard"
	EmacsMeta     = "emacs-meta"
	EmacsCtlX     = "emacs-ctlx"
	ViMove        = "vi-move"
	ViCommand     = "vi-command"
	Vi            = "vi"
	ViInsert      = "vi-insert"
)

const (
	esc = 0x1b
	del = 0x7f
)

func ctrl(r rune) rune { return key.Ctrl(r) }

// table fills a fresh keymap from a sparse rune -> operation table.
func table(name string, ops map[rune]Operation) *KeyMap {
	m := New(name)
	for r, op := range ops {
		m.slots[r] = Op(op)
	}
	return m
}

func selfInsertPrintable(m *KeyMap) {
	for r := 32; r < Size; r++ {
		if !m.slots[r].IsBound() {
			m.slots[r] = Op(SelfInsert)
		}
	}
}

// NewEmacs builds the emacs keymap with its meta (ESC) and C-x submaps.
func NewEmacs() *KeyMap {
	m := table(Emacs, map[rune]Operation{
		ctrl('a'): BeginningOfLine,
		ctrl('b'): BackwardChar,
		ctrl('c'): Interrupt,
		ctrl('d'): ExitOrDeleteChar,
		ctrl('e'): EndOfLine,
		ctrl('f'): ForwardChar,
		ctrl('g'): Abort,
		ctrl('h'): BackwardDeleteChar,
		ctrl('i'): Complete,
		ctrl('j'): AcceptLine,
		ctrl('k'): KillLine,
		ctrl('l'): ClearScreen,
		ctrl('m'): AcceptLine,
		ctrl('n'): NextHistory,
		ctrl('p'): PreviousHistory,
		ctrl('q'): QuotedInsert,
		ctrl('r'): ReverseSearchHistory,
		ctrl('s'): ForwardSearchHistory,
		ctrl('t'): TransposeChars,
		ctrl('u'): UnixLineDiscard,
		ctrl('v'): QuotedInsert,
		ctrl('w'): UnixWordRubout,
		ctrl('y'): Yank,
		ctrl('_'): Undo,
		del:       BackwardDeleteChar,
	})
	m.slots[ctrl('x')] = Sub(NewEmacsCtlX())
	m.slots[esc] = Sub(NewEmacsMeta())
	selfInsertPrintable(m)
	return m
}

// NewEmacsCtlX builds the C-x prefix map.
func NewEmacsCtlX() *KeyMap {
	m := table(EmacsCtlX, map[rune]Operation{
		ctrl('r'): ReReadInitFile,
		ctrl('u'): Undo,
		'(':       StartKbdMacro,
		')':       EndKbdMacro,
		'e':       CallLastKbdMacro,
		del:       BackwardKillLine,
	})
	for r := 'A'; r <= 'Z'; r++ {
		m.slots[r] = Op(DoLowercaseVersion)
	}
	return m
}

// NewEmacsMeta builds the ESC prefix map.
func NewEmacsMeta() *KeyMap {
	m := table(EmacsMeta, map[rune]Operation{
		ctrl('g'): Abort,
		ctrl('h'): BackwardKillWord,
		ctrl('i'): TabInsert,
		ctrl('j'): ViEditingMode,
		ctrl('m'): ViEditingMode,
		esc:       Complete,
		'#':       InsertComment,
		'-':       DigitArgument,
		'<':       BeginningOfHistory,
		'=':       PossibleCompletions,
		'>':       EndOfHistory,
		'?':       PossibleCompletions,
		'b':       BackwardWord,
		'c':       CapitalizeWord,
		'd':       KillWord,
		'f':       ForwardWord,
		'l':       DowncaseWord,
		'r':       RevertLine,
		'u':       UpcaseWord,
		'y':       YankPop,
		del:       BackwardKillWord,
	})
	for r := '0'; r <= '9'; r++ {
		m.slots[r] = Op(DigitArgument)
	}
	for r := 'A'; r <= 'Z'; r++ {
		m.slots[r] = Op(DoLowercaseVersion)
	}
	return m
}

// NewViInsert builds the vi insertion-mode keymap.
func NewViInsert() *KeyMap {
	m := table(ViInsert, map[rune]Operation{
		ctrl('c'): Interrupt,
		ctrl('d'): ViEOFMaybe,
		ctrl('h'): BackwardDeleteChar,
		ctrl('i'): Complete,
		ctrl('j'): AcceptLine,
		ctrl('m'): AcceptLine,
		ctrl('r'): ReverseSearchHistory,
		ctrl('s'): ForwardSearchHistory,
		ctrl('t'): TransposeChars,
		ctrl('u'): UnixLineDiscard,
		ctrl('v'): QuotedInsert,
		ctrl('w'): UnixWordRubout,
		ctrl('y'): Yank,
		esc:       ViMovementMode,
		del:       BackwardDeleteChar,
	})
	for r := rune(1); r < 32; r++ {
		if !m.slots[r].IsBound() {
			m.slots[r] = Op(SelfInsert)
		}
	}
	selfInsertPrintable(m)
	return m
}

// NewViMove builds the vi command-mode keymap.
func NewViMove() *KeyMap {
	m := table(ViMove, map[rune]Operation{
		ctrl('c'): Interrupt,
		ctrl('d'): ViEOFMaybe,
		ctrl('e'): EmacsEditingMode,
		ctrl('g'): Abort,
		ctrl('h'): BackwardChar,
		ctrl('j'): ViMoveAcceptLine,
		ctrl('k'): KillLine,
		ctrl('l'): ClearScreen,
		ctrl('m'): ViMoveAcceptLine,
		ctrl('n'): ViNextHistory,
		ctrl('p'): ViPreviousHistory,
		ctrl('q'): QuotedInsert,
		ctrl('r'): ReverseSearchHistory,
		ctrl('s'): ForwardSearchHistory,
		ctrl('t'): TransposeChars,
		ctrl('u'): UnixLineDiscard,
		ctrl('v'): QuotedInsert,
		ctrl('w'): UnixWordRubout,
		ctrl('y'): Yank,
		ctrl('_'): Undo,
		' ':       ForwardChar,
		'#':       ViInsertComment,
		'$':       EndOfLine,
		'%':       ViMatch,
		'+':       ViNextHistory,
		',':       ViCharSearch,
		'-':       ViPreviousHistory,
		'/':       ViSearch,
		'0':       ViBeginningOfLineOrArgDigit,
		';':       ViCharSearch,
		'?':       ViSearch,
		'A':       ViAppendEOL,
		'B':       ViBackwardBigWord,
		'C':       ViChangeToEOL,
		'D':       ViDeleteToEOL,
		'E':       ViEndBigWord,
		'F':       ViCharSearch,
		'I':       ViInsertBeg,
		'P':       ViPut,
		'S':       ViKillWholeLine,
		'U':       RevertLine,
		'T':       ViCharSearch,
		'W':       ViForwardBigWord,
		'X':       ViRubout,
		'Y':       ViYankTo,
		'^':       ViFirstPrint,
		'`':       ViGotoMark,
		'a':       ViAppendMode,
		'b':       ViPrevWord,
		'c':       ViChangeTo,
		'd':       ViDeleteTo,
		'e':       ViEndWord,
		'f':       ViCharSearch,
		'h':       BackwardChar,
		'i':       ViInsertionMode,
		'j':       NextHistory,
		'k':       PreviousHistory,
		'l':       ForwardChar,
		'p':       ViPut,
		'r':       ViChangeChar,
		'u':       Undo,
		't':       ViCharSearch,
		'w':       ViNextWord,
		'x':       ViDelete,
		'y':       ViYankTo,
		'|':       ViColumn,
		'~':       ViChangeCase,
		del:       ViDelete,
	})
	for r := '1'; r <= '9'; r++ {
		m.slots[r] = Op(ViArgDigit)
	}
	return m
}

// bindArrowKeys binds the cursor and editing keypad sequences without
// overriding anything the table already set.
func bindArrowKeys(m *KeyMap) {
	keys := []struct {
		k  key.Key
		op Operation
	}{
		{key.KeyUp, PreviousHistory},
		{key.KeyDown, NextHistory},
		{key.KeyRight, ForwardChar},
		{key.KeyLeft, BackwardChar},
		{key.KeyHome, BeginningOfLine},
		{key.KeyEnd, EndOfLine},
		{key.KeyDelete, DeleteChar},
		{key.KeyInsert, OverwriteMode},
		{key.KeyPageUp, BeginningOfHistory},
		{key.KeyPageDown, EndOfHistory},
	}
	for _, b := range keys {
		for _, seq := range b.k.Sequences() {
			m.BindIfNotBound(seq, Op(b.op))
		}
	}
}

// Defaults returns a fresh set of the built-in named keymaps. Aliases
// share the same trie.
func Defaults() map[string]*KeyMap {
	emacs := NewEmacs()
	bindArrowKeys(emacs)

	viMove := NewViMove()
	bindArrowKeys(viMove)

	viIns := NewViInsert()
	bindArrowKeys(viIns)

	return map[string]*KeyMap{
		Emacs:         emacs,
		EmacsStandard: emacs,
		EmacsCtlX:     emacs.Lookup(ctrl('x')).Map,
		EmacsMeta:     emacs.Lookup(esc).Map,
		ViMove:        viMove,
		ViCommand:     viMove,
		Vi:            viMove,
		ViInsert:      viIns,
	}
}

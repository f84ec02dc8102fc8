package keymap

import "strings"

// Operation identifies an editing command. Names follow GNU readline's
// bindable function names ("kill-line", "vi-delete-to").
type Operation uint16

const (
	OpNone Operation = iota

	Abort
	AcceptLine
	BackwardChar
	BackwardDeleteChar
	BackwardKillLine
	BackwardKillWord
	BackwardWord
	BeginningOfHistory
	BeginningOfLine
	CallLastKbdMacro
	CapitalizeWord
	ClearScreen
	Complete
	DeleteChar
	DigitArgument
	DoLowercaseVersion
	DowncaseWord
	EmacsEditingMode
	EndKbdMacro
	EndOfHistory
	EndOfLine
	ExitOrDeleteChar
	ForwardChar
	ForwardSearchHistory
	ForwardWord
	HistorySearchBackward
	HistorySearchForward
	InsertCloseCurly
	InsertCloseParen
	InsertCloseSquare
	InsertComment
	Interrupt
	KillLine
	KillWholeLine
	KillWord
	NextHistory
	OverwriteMode
	PasteFromClipboard
	PossibleCompletions
	PreviousHistory
	Quit
	QuotedInsert
	ReReadInitFile
	RedrawCurrentLine
	ReverseSearchHistory
	RevertLine
	SelfInsert
	StartKbdMacro
	TabInsert
	TransposeChars
	Undo
	UnixLineDiscard
	UnixWordRubout
	UpcaseWord
	Yank
	YankPop

	ViAppendEOL
	ViAppendMode
	ViArgDigit
	ViBackwardBigWord
	ViBeginningOfLineOrArgDigit
	ViChangeCase
	ViChangeChar
	ViChangeTo
	ViChangeToEOL
	ViCharSearch
	ViColumn
	ViDelete
	ViDeleteTo
	ViDeleteToEOL
	ViEditingMode
	ViEndBigWord
	ViEndWord
	ViEOFMaybe
	ViFirstPrint
	ViForwardBigWord
	ViGotoMark
	ViInsertBeg
	ViInsertComment
	ViInsertionMode
	ViKillWholeLine
	ViMatch
	ViMoveAcceptLine
	ViMovementMode
	ViNextHistory
	ViNextWord
	ViPreviousHistory
	ViPrevWord
	ViPut
	ViRubout
	ViSearch
	ViYankTo

	opCount
)

var opNames = [opCount]string{
	OpNone:                      "",
	Abort:                       "abort",
	AcceptLine:                  "accept-line",
	BackwardChar:                "backward-char",
	BackwardDeleteChar:          "backward-delete-char",
	BackwardKillLine:            "backward-kill-line",
	BackwardKillWord:            "backward-kill-word",
	BackwardWord:                "backward-word",
	BeginningOfHistory:          "beginning-of-history",
	BeginningOfLine:             "beginning-of-line",
	CallLastKbdMacro:            "call-last-kbd-macro",
	CapitalizeWord:              "capitalize-word",
	ClearScreen:                 "clear-screen",
	Complete:                    "complete",
	DeleteChar:                  "delete-char",
	DigitArgument:               "digit-argument",
	DoLowercaseVersion:          "do-lowercase-version",
	DowncaseWord:                "downcase-word",
	EmacsEditingMode:            "emacs-editing-mode",
	EndKbdMacro:                 "end-kbd-macro",
	EndOfHistory:                "end-of-history",
	EndOfLine:                   "end-of-line",
	ExitOrDeleteChar:            "exit-or-delete-char",
	ForwardChar:                 "forward-char",
	ForwardSearchHistory:        "forward-search-history",
	ForwardWord:                 "forward-word",
	HistorySearchBackward:       "history-search-backward",
	HistorySearchForward:        "history-search-forward",
	InsertCloseCurly:            "insert-close-curly",
	InsertCloseParen:            "insert-close-paren",
	InsertCloseSquare:           "insert-close-square",
	InsertComment:               "insert-comment",
	Interrupt:                   "interrupt",
	KillLine:                    "kill-line",
	KillWholeLine:               "kill-whole-line",
	KillWord:                    "kill-word",
	NextHistory:                 "next-history",
	OverwriteMode:               "overwrite-mode",
	PasteFromClipboard:          "paste-from-clipboard",
	PossibleCompletions:         "possible-completions",
	PreviousHistory:             "previous-history",
	Quit:                        "quit",
	QuotedInsert:                "quoted-insert",
	ReReadInitFile:              "re-read-init-file",
	RedrawCurrentLine:           "redraw-current-line",
	ReverseSearchHistory:        "reverse-search-history",
	RevertLine:                  "revert-line",
	SelfInsert:                  "self-insert",
	StartKbdMacro:               "start-kbd-macro",
	TabInsert:                   "tab-insert",
	TransposeChars:              "transpose-chars",
	Undo:                        "undo",
	UnixLineDiscard:             "unix-line-discard",
	UnixWordRubout:              "unix-word-rubout",
	UpcaseWord:                  "upcase-word",
	Yank:                        "yank",
	YankPop:                     "yank-pop",
	ViAppendEOL:                 "vi-append-eol",
	ViAppendMode:                "vi-append-mode",
	ViArgDigit:                  "vi-arg-digit",
	ViBackwardBigWord:           "vi-backward-bigword",
	ViBeginningOfLineOrArgDigit: "vi-beginning-of-line-or-arg-digit",
	ViChangeCase:                "vi-change-case",
	ViChangeChar:                "vi-change-char",
	ViChangeTo:                  "vi-change-to",
	ViChangeToEOL:               "vi-change-to-eol",
	ViCharSearch:                "vi-char-search",
	ViColumn:                    "vi-column",
	ViDelete:                    "vi-delete",
	ViDeleteTo:                  "vi-delete-to",
	ViDeleteToEOL:               "vi-delete-to-eol",
	ViEditingMode:               "vi-editing-mode",
	ViEndBigWord:                "vi-end-bigword",
	ViEndWord:                   "vi-end-word",
	ViEOFMaybe:                  "vi-eof-maybe",
	ViFirstPrint:                "vi-first-print",
	ViForwardBigWord:            "vi-forward-bigword",
	ViGotoMark:                  "vi-goto-mark",
	ViInsertBeg:                 "vi-insert-beg",
	ViInsertComment:             "vi-insert-comment",
	ViInsertionMode:             "vi-insertion-mode",
	ViKillWholeLine:             "vi-kill-whole-line",
	ViMatch:                     "vi-match",
	ViMoveAcceptLine:            "vi-move-accept-line",
	ViMovementMode:              "vi-movement-mode",
	ViNextHistory:               "vi-next-history",
	ViNextWord:                  "vi-next-word",
	ViPreviousHistory:           "vi-previous-history",
	ViPrevWord:                  "vi-prev-word",
	ViPut:                       "vi-put",
	ViRubout:                    "vi-rubout",
	ViSearch:                    "vi-search",
	ViYankTo:                    "vi-yank-to",
}

var opByName = func() map[string]Operation {
	m := make(map[string]Operation, opCount)
	for op, name := range opNames {
		if name != "" {
			m[name] = Operation(op)
		}
	}
	return m
}()

// String returns the readline name of the operation.
func (op Operation) String() string {
	if op < opCount {
		return opNames[op]
	}
	return "unknown"
}

// ParseOperation looks up an operation by readline name. Underscores
// and case are ignored, so "KILL_LINE" also works.
func ParseOperation(name string) (Operation, bool) {
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	op, ok := opByName[name]
	return op, ok
}

// Operations returns every named operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, 0, opCount-1)
	for op := OpNone + 1; op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// IsKill reports whether op belongs to the kill family whose
// consecutive use merges into one kill-ring entry.
func (op Operation) IsKill() bool {
	switch op {
	case KillLine, KillWholeLine, BackwardKillLine, BackwardKillWord, KillWord,
		UnixLineDiscard, UnixWordRubout:
		return true
	}
	return false
}

// IsYank reports whether op is a yank.
func (op Operation) IsYank() bool {
	return op == Yank || op == YankPop
}

// IsViMotion reports whether op may complete a pending vi operator
// (delete-to, change-to, yank-to).
func (op Operation) IsViMotion() bool {
	switch op {
	case ViEOFMaybe, BackwardChar, ForwardChar, EndOfLine, ViMatch, ViGotoMark,
		ViBeginningOfLineOrArgDigit, ViArgDigit, ViPrevWord, ViEndWord,
		ViCharSearch, ViNextWord, ViFirstPrint, ViColumn,
		ViForwardBigWord, ViBackwardBigWord, ViEndBigWord,
		ViDeleteTo, ViYankTo, ViChangeTo:
		return true
	}
	return false
}

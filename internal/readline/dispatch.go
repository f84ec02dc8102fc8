package readline

import (
	"github.com/dshills/keyline/internal/input/keymap"
)

// opCtx carries one operation through its handler.
type opCtx struct {
	op    keymap.Operation
	key   rune // last rune of the binding
	count int  // repeat count, at least 1

	// ok is cleared by handlers that could not do anything; the reader
	// beeps afterwards.
	ok bool

	// argDigit marks operations that build the numeric argument, so the
	// count survives to the next binding.
	argDigit bool

	// operatorDone marks a doubled vi operator (dd, cc, yy) that already
	// did its work.
	operatorDone bool

	// finished ends ReadLine with line and err.
	finished bool
	line     string
	err      error
}

func (x *opCtx) fail() {
	x.ok = false
}

func (x *opCtx) finish(line string, err error) {
	x.finished = true
	x.line = line
	x.err = err
}

type handler func(r *Reader, x *opCtx) error

var handlers map[keymap.Operation]handler

func init() {
	handlers = map[keymap.Operation]handler{
		keymap.Abort:                 (*Reader).abort,
		keymap.AcceptLine:            (*Reader).acceptLine,
		keymap.BackwardChar:          (*Reader).backwardChar,
		keymap.BackwardDeleteChar:    (*Reader).backwardDeleteChar,
		keymap.BackwardKillLine:      (*Reader).backwardKillLine,
		keymap.BackwardKillWord:      (*Reader).backwardKillWord,
		keymap.BackwardWord:          (*Reader).backwardWord,
		keymap.BeginningOfHistory:    (*Reader).beginningOfHistory,
		keymap.BeginningOfLine:       (*Reader).beginningOfLine,
		keymap.CallLastKbdMacro:      (*Reader).callLastKbdMacro,
		keymap.CapitalizeWord:        (*Reader).capitalizeWord,
		keymap.ClearScreen:           (*Reader).clearScreen,
		keymap.Complete:              (*Reader).complete,
		keymap.DeleteChar:            (*Reader).deleteChar,
		keymap.DigitArgument:         (*Reader).digitArgument,
		keymap.DowncaseWord:          (*Reader).downcaseWord,
		keymap.EmacsEditingMode:      (*Reader).emacsEditingMode,
		keymap.EndKbdMacro:           (*Reader).endKbdMacro,
		keymap.EndOfHistory:          (*Reader).endOfHistory,
		keymap.EndOfLine:             (*Reader).endOfLine,
		keymap.ExitOrDeleteChar:      (*Reader).exitOrDeleteChar,
		keymap.ForwardChar:           (*Reader).forwardChar,
		keymap.ForwardSearchHistory:  (*Reader).forwardSearchHistory,
		keymap.ForwardWord:           (*Reader).forwardWord,
		keymap.HistorySearchBackward: (*Reader).historySearchBackward,
		keymap.HistorySearchForward:  (*Reader).historySearchForward,
		keymap.InsertCloseCurly:      (*Reader).insertClose,
		keymap.InsertCloseParen:      (*Reader).insertClose,
		keymap.InsertCloseSquare:     (*Reader).insertClose,
		keymap.InsertComment:         (*Reader).insertComment,
		keymap.Interrupt:             (*Reader).interrupt,
		keymap.KillLine:              (*Reader).killLine,
		keymap.KillWholeLine:         (*Reader).killWholeLine,
		keymap.KillWord:              (*Reader).killWord,
		keymap.NextHistory:           (*Reader).nextHistory,
		keymap.OverwriteMode:         (*Reader).overwriteMode,
		keymap.PasteFromClipboard:    (*Reader).pasteFromClipboard,
		keymap.PossibleCompletions:   (*Reader).possibleCompletions,
		keymap.PreviousHistory:       (*Reader).previousHistory,
		keymap.Quit:                  (*Reader).quit,
		keymap.QuotedInsert:          (*Reader).quotedInsertOp,
		keymap.ReReadInitFile:        (*Reader).reReadInitFile,
		keymap.RedrawCurrentLine:     (*Reader).redrawCurrentLine,
		keymap.ReverseSearchHistory:  (*Reader).reverseSearchHistory,
		keymap.RevertLine:            (*Reader).revertLine,
		keymap.SelfInsert:            (*Reader).selfInsert,
		keymap.StartKbdMacro:         (*Reader).startKbdMacro,
		keymap.TabInsert:             (*Reader).tabInsert,
		keymap.TransposeChars:        (*Reader).transposeChars,
		keymap.Undo:                  (*Reader).undoOp,
		keymap.UnixLineDiscard:       (*Reader).backwardKillLine,
		keymap.UnixWordRubout:        (*Reader).unixWordRubout,
		keymap.UpcaseWord:            (*Reader).upcaseWord,
		keymap.Yank:                  (*Reader).yank,
		keymap.YankPop:               (*Reader).yankPop,

		keymap.ViAppendEOL:                 (*Reader).viAppendEOL,
		keymap.ViAppendMode:                (*Reader).viAppendMode,
		keymap.ViArgDigit:                  (*Reader).viArgDigit,
		keymap.ViBackwardBigWord:           (*Reader).viBackwardBigWord,
		keymap.ViBeginningOfLineOrArgDigit: (*Reader).viBeginningOfLineOrArgDigit,
		keymap.ViChangeCase:                (*Reader).viChangeCase,
		keymap.ViChangeChar:                (*Reader).viChangeChar,
		keymap.ViChangeTo:                  (*Reader).viChangeTo,
		keymap.ViChangeToEOL:               (*Reader).viChangeToEOL,
		keymap.ViCharSearch:                (*Reader).viCharSearch,
		keymap.ViColumn:                    (*Reader).viColumn,
		keymap.ViDelete:                    (*Reader).viDelete,
		keymap.ViDeleteTo:                  (*Reader).viDeleteTo,
		keymap.ViDeleteToEOL:               (*Reader).viDeleteToEOL,
		keymap.ViEditingMode:               (*Reader).viEditingMode,
		keymap.ViEndBigWord:                (*Reader).viEndBigWord,
		keymap.ViEndWord:                   (*Reader).viEndWord,
		keymap.ViEOFMaybe:                  (*Reader).viEOFMaybe,
		keymap.ViFirstPrint:                (*Reader).viFirstPrint,
		keymap.ViForwardBigWord:            (*Reader).viForwardBigWord,
		keymap.ViGotoMark:                  (*Reader).viGotoMark,
		keymap.ViInsertBeg:                 (*Reader).viInsertBeg,
		keymap.ViInsertComment:             (*Reader).viInsertComment,
		keymap.ViInsertionMode:             (*Reader).viInsertionMode,
		keymap.ViKillWholeLine:             (*Reader).viKillWholeLine,
		keymap.ViMatch:                     (*Reader).viMatch,
		keymap.ViMoveAcceptLine:            (*Reader).viMoveAcceptLine,
		keymap.ViMovementMode:              (*Reader).viMovementMode,
		keymap.ViNextHistory:               (*Reader).viNextHistory,
		keymap.ViNextWord:                  (*Reader).viNextWord,
		keymap.ViPreviousHistory:           (*Reader).viPreviousHistory,
		keymap.ViPrevWord:                  (*Reader).viPrevWord,
		keymap.ViPut:                       (*Reader).viPut,
		keymap.ViRubout:                    (*Reader).viRubout,
		keymap.ViSearch:                    (*Reader).viSearch,
		keymap.ViYankTo:                    (*Reader).viYankTo,
	}
}

// dispatch runs op in the current state. While a vi operator is
// pending only motions are accepted; anything else cancels the
// operator and drops back to movement mode.
func (r *Reader) dispatch(op keymap.Operation, key rune) (*opCtx, error) {
	x := &opCtx{op: op, key: key, count: max(r.repeatCount, 1), ok: true}

	before := r.state
	aborted := false
	if before.IsViOperator() && !op.IsViMotion() {
		r.log.Debug("%s cancels %s", op, before)
		x.op = keymap.ViMovementMode
		aborted = true
	}
	start := r.buf.Cursor()

	h, found := handlers[x.op]
	if !found {
		r.log.Debug("no handler for %s", x.op)
		x.fail()
	} else if err := h(r, x); err != nil {
		return x, err
	}
	if x.finished {
		return x, nil
	}

	switch {
	case aborted:
		r.state = StateNormal
	case before.IsViOperator() && !x.argDigit && !x.operatorDone:
		if x.ok {
			r.applyViOperator(before, start, r.buf.Cursor())
		}
		r.state = StateNormal
	}

	enteredOperator := !before.IsViOperator() && r.state.IsViOperator()
	if !x.argDigit && !enteredOperator {
		r.repeatCount = 0
	}
	return x, nil
}

// isInViMoveOperationState reports whether a motion is running on
// behalf of a pending vi operator.
func (r *Reader) isInViMoveOperationState() bool {
	return r.state.IsViOperator()
}

package readline

import (
	"time"

	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/logging"
)

// Default configuration values.
const (
	DefaultEscapeTimeout      = 100 * time.Millisecond
	DefaultParenBlinkTimeout  = 500 * time.Millisecond
	DefaultAutoprintThreshold = 100
	DefaultCommentBegin       = "#"
	DefaultKillRingSize       = 60
	DefaultMaxUndoEntries     = 100
)

// InitFileLoader re-reads key bindings into a registry. It backs the
// re-read-init-file operation.
type InitFileLoader func(reg *keymap.Registry) error

// Option configures a Reader during creation.
type Option func(*Reader)

// WithHistory sets the history the reader navigates and appends to.
func WithHistory(h history.History) Option {
	return func(r *Reader) {
		if h != nil {
			r.history = h
		}
	}
}

// WithHistoryEnabled controls whether accepted lines are added to the
// history.
func WithHistoryEnabled(on bool) Option {
	return func(r *Reader) {
		r.historyEnabled = on
	}
}

// WithKeyMaps sets the keymap registry. Readers sharing a registry
// share the active editing mode.
func WithKeyMaps(reg *keymap.Registry) Option {
	return func(r *Reader) {
		if reg != nil {
			r.keys = reg
		}
	}
}

// WithEditingMode selects "emacs" or "vi" (vi starts in insert mode).
// Other values are ignored.
func WithEditingMode(mode string) Option {
	return func(r *Reader) {
		r.editingMode = mode
	}
}

// WithEscapeTimeout sets how long a lone ESC waits for the rest of an
// escape sequence.
func WithEscapeTimeout(d time.Duration) Option {
	return func(r *Reader) {
		if d >= 0 {
			r.escapeTimeout = d
		}
	}
}

// WithBell enables or disables the audible bell.
func WithBell(on bool) Option {
	return func(r *Reader) {
		r.bell = on
	}
}

// WithExpandEvents enables history event expansion (!!, !$, ^a^b^).
func WithExpandEvents(on bool) Option {
	return func(r *Reader) {
		r.expandEvents = on
	}
}

// WithHandleUserInterrupt makes the interrupt key end ReadLine with an
// *InterruptError instead of raising SIGINT.
func WithHandleUserInterrupt(on bool) Option {
	return func(r *Reader) {
		r.handleInterrupt = on
	}
}

// WithCopyPasteDetection inserts a tab literally when more input
// follows it immediately, as happens when pasting.
func WithCopyPasteDetection(on bool) Option {
	return func(r *Reader) {
		r.copyPasteDetection = on
	}
}

// WithCommentBegin sets the text insert-comment puts at the start of
// the line.
func WithCommentBegin(s string) Option {
	return func(r *Reader) {
		r.commentBegin = s
	}
}

// WithParenBlinkTimeout sets how long the cursor rests on the matching
// bracket after a closing one is typed.
func WithParenBlinkTimeout(d time.Duration) Option {
	return func(r *Reader) {
		if d >= 0 {
			r.parenBlinkTimeout = d
		}
	}
}

// WithAutoprintThreshold sets the number of completion candidates above
// which the user is asked before they are listed.
func WithAutoprintThreshold(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.autoprintThreshold = n
		}
	}
}

// WithCompleter adds a completer. Completers are tried in order until
// one returns candidates.
func WithCompleter(c Completer) Option {
	return func(r *Reader) {
		if c != nil {
			r.completers = append(r.completers, c)
		}
	}
}

// WithInitFileLoader sets the loader run by re-read-init-file.
func WithInitFileLoader(fn InitFileLoader) Option {
	return func(r *Reader) {
		r.initLoader = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

package readline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/input/keymap"
)

// Incremental search. While searching the prompt shows the term and
// the buffer shows the matched history line; the line being edited is
// kept aside in originalBuffer.

func (r *Reader) reverseSearchHistory(*opCtx) error {
	r.startSearch(StateSearch)
	return nil
}

func (r *Reader) forwardSearchHistory(*opCtx) error {
	r.startSearch(StateForwardSearch)
	return nil
}

func (r *Reader) startSearch(state State) {
	r.originalBuffer = r.buf.Copy()
	r.originalPrompt = r.prompt
	r.searchTerm = r.searchTerm[:0]
	r.searchIndex = -1
	r.state = state
	r.showSearch(false)
}

func (r *Reader) resetSearch() {
	r.searchTerm = r.searchTerm[:0]
	r.searchIndex = -1
	r.originalBuffer = nil
	r.originalPrompt = ""
}

// searchStep feeds one binding to the search. It returns the operation
// to run once the search has ended, or OpNone if the search used it.
func (r *Reader) searchStep(op keymap.Operation, key rune) keymap.Operation {
	switch op {
	case keymap.ReverseSearchHistory, keymap.ForwardSearchHistory:
		r.state = StateSearch
		if op == keymap.ForwardSearchHistory {
			r.state = StateForwardSearch
		}
		if len(r.searchTerm) == 0 {
			if r.lastSearchTerm == "" {
				r.beep()
				return keymap.OpNone
			}
			r.searchTerm = append(r.searchTerm, []rune(r.lastSearchTerm)...)
		}
		start := r.searchIndex
		if r.state == StateSearch {
			if start < 0 {
				start = r.history.First() + r.history.Size()
			}
		} else {
			start++
		}
		r.runSearch(start)

	case keymap.SelfInsert:
		r.searchTerm = append(r.searchTerm, key)
		start := r.searchIndex
		switch {
		case start < 0:
			start = r.history.Index()
		case r.state == StateSearch:
			start++
		}
		r.runSearch(start)

	case keymap.BackwardDeleteChar:
		if len(r.searchTerm) == 0 {
			r.beep()
			return keymap.OpNone
		}
		r.searchTerm = r.searchTerm[:len(r.searchTerm)-1]
		if len(r.searchTerm) == 0 {
			r.searchIndex = -1
			r.showSearch(false)
			return keymap.OpNone
		}
		r.runSearch(r.history.Index())

	case keymap.Abort:
		r.endSearch(false)
		return keymap.OpNone

	default:
		r.endSearch(true)
		return op
	}
	return keymap.OpNone
}

// runSearch looks for the term from start in the search direction. A
// miss beeps and keeps the previous match on screen.
func (r *Reader) runSearch(start int) {
	term := string(r.searchTerm)
	var idx int
	if r.state == StateSearch {
		idx = history.SearchBackward(r.history, term, start, false)
	} else {
		idx = history.SearchForward(r.history, term, start, false)
	}
	if idx < 0 {
		r.beep()
		r.showSearch(true)
		return
	}
	r.searchIndex = idx
	r.showSearch(false)
}

func (r *Reader) showSearch(failed bool) {
	label := "reverse-i-search"
	if r.state == StateForwardSearch {
		label = "i-search"
	}
	if failed {
		label = "failed " + label
	}
	term := string(r.searchTerm)
	prompt := fmt.Sprintf("(%s)`%s': ", label, term)

	if r.searchIndex < 0 {
		r.resetPromptLine(prompt, r.originalBuffer.String(), r.originalBuffer.Cursor())
		return
	}
	line := r.history.Get(r.searchIndex)
	cursor := r.buf.Cursor()
	if i := strings.Index(line, term); i >= 0 {
		cursor = utf8.RuneCountInString(line[:i])
	}
	r.resetPromptLine(prompt, line, cursor)
}

// endSearch leaves search mode. Committing keeps the matched line with
// the cursor on the match; otherwise the line from before the search
// comes back unchanged.
func (r *Reader) endSearch(commit bool) {
	if len(r.searchTerm) > 0 {
		r.lastSearchTerm = string(r.searchTerm)
	}
	r.state = StateNormal

	if !commit || r.searchIndex < 0 {
		r.resetPromptLine(r.originalPrompt, r.originalBuffer.String(), r.originalBuffer.Cursor())
	} else {
		line := r.history.Get(r.searchIndex)
		cursor := 0
		if i := strings.Index(line, string(r.searchTerm)); i >= 0 {
			cursor = utf8.RuneCountInString(line[:i])
		}
		r.history.MoveTo(r.searchIndex)
		r.resetPromptLine(r.originalPrompt, line, cursor)
	}
	r.resetSearch()
}

// viSearch is '/' and '?': read a term on the line itself, then recall
// the matching history entry. '/' searches from the newest entry back,
// '?' from the oldest forward. Afterwards n repeats the search and N,
// p or P repeat it the other way; any other key ends the search and is
// handled normally.
func (r *Reader) viSearch(x *opCtx) error {
	backward := x.key == '/'
	orig := r.buf.Copy()
	restore := func(cursor int) {
		r.setBuffer(orig.String())
		r.setCursorPosition(cursor)
	}

	r.setBuffer(string(x.key))
	for done := false; !done; {
		c, err := r.nextRune()
		if err != nil {
			restore(orig.Cursor())
			return err
		}
		switch c {
		case esc:
			restore(orig.Cursor())
			return nil
		case 0x08, 0x7f:
			r.backspace(1)
			if r.buf.Len() == 0 {
				restore(orig.Cursor())
				return nil
			}
		case '\n', '\r':
			done = true
		default:
			r.putString(string(c))
		}
		r.flush()
	}

	term := r.buf.Slice(1, r.buf.Len())
	find := func(from int, back bool) int {
		if back {
			return history.SearchBackward(r.history, term, from, false)
		}
		return history.SearchForward(r.history, term, from, false)
	}

	var idx int
	if backward {
		idx = find(r.history.Index(), true)
	} else {
		idx = find(r.history.First(), false)
	}
	if idx < 0 {
		restore(0)
		x.fail()
		return nil
	}
	r.showMatch(idx)

	for {
		r.flush()
		c, err := r.nextRune()
		if err != nil {
			return err
		}
		back := backward
		switch c {
		case 'n':
		case 'N', 'p', 'P':
			back = !backward
		default:
			r.unread([]rune{c})
			return nil
		}
		from := idx + 1
		if back {
			from = idx
		}
		next := find(from, back)
		if next < 0 {
			r.beep()
			continue
		}
		idx = next
		r.showMatch(idx)
	}
}

func (r *Reader) showMatch(idx int) {
	r.history.MoveTo(idx)
	r.setBuffer(r.history.Current())
	r.setCursorPosition(0)
}

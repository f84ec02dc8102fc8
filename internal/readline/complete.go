package readline

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Completer proposes completions for the text around the cursor.
type Completer interface {
	// Complete returns the candidates and the rune offset in buf where
	// the text they replace starts. No candidates means no completion.
	Complete(buf string, cursor int) (candidates []string, pos int)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(buf string, cursor int) ([]string, int)

// Complete calls f.
func (f CompleterFunc) Complete(buf string, cursor int) ([]string, int) {
	return f(buf, cursor)
}

// StringsCompleter completes the word before the cursor from a fixed
// set of strings.
type StringsCompleter struct {
	words []string
}

// NewStringsCompleter creates a completer over words.
func NewStringsCompleter(words ...string) *StringsCompleter {
	ws := slices.Clone(words)
	slices.Sort(ws)
	return &StringsCompleter{words: slices.Compact(ws)}
}

func (c *StringsCompleter) Complete(buf string, cursor int) ([]string, int) {
	rs := []rune(buf)
	cursor = min(max(cursor, 0), len(rs))
	start := cursor
	for start > 0 && !unicode.IsSpace(rs[start-1]) {
		start--
	}
	prefix := string(rs[start:cursor])

	var out []string
	for _, w := range c.words {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out, start
}

func (r *Reader) candidates() ([]string, int) {
	line, cursor := r.buf.String(), r.buf.Cursor()
	for _, c := range r.completers {
		cands, pos := c.Complete(line, cursor)
		if len(cands) > 0 {
			return cands, min(max(pos, 0), cursor)
		}
	}
	return nil, cursor
}

// complete is bound to tab. With copy-paste detection a tab that has
// more input right behind it was pasted, so it is inserted as is.
func (r *Reader) complete(x *opCtx) error {
	if r.copyPasteDetection {
		pending, err := r.inputPending(0)
		if err != nil {
			return err
		}
		if pending {
			r.putString("\t")
			return nil
		}
	}

	cands, pos := r.candidates()
	switch len(cands) {
	case 0:
		x.fail()
	case 1:
		r.replaceToken(pos, cands[0])
	default:
		token := []rune(r.buf.Slice(pos, r.buf.Cursor()))
		if prefix := commonPrefix(cands); len([]rune(prefix)) > len(token) {
			r.replaceToken(pos, prefix)
			return nil
		}
		return r.printCandidates(cands)
	}
	return nil
}

func (r *Reader) possibleCompletions(x *opCtx) error {
	cands, _ := r.candidates()
	if len(cands) == 0 {
		x.fail()
		return nil
	}
	return r.printCandidates(cands)
}

// replaceToken swaps the text between pos and the cursor for s.
func (r *Reader) replaceToken(pos int, s string) {
	r.backspace(r.buf.Cursor() - pos)
	r.putString(s)
}

func commonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	prefix := []rune(ss[0])
	for _, s := range ss[1:] {
		rs := []rune(s)
		n := 0
		for n < len(prefix) && n < len(rs) && prefix[n] == rs[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return string(prefix)
}

// printCandidates lists candidates below the line, asking first when
// there are more than the autoprint threshold, then redraws the line.
func (r *Reader) printCandidates(cands []string) error {
	list := slices.Clone(cands)
	slices.Sort(list)
	list = slices.Compact(list)

	r.moveToEnd()
	if len(list) > r.autoprintThreshold {
		r.out.Print(fmt.Sprintf("\nDisplay all %d possibilities? (y or n)", len(list)))
		r.flush()
		c, err := r.nextRune()
		if err != nil {
			return err
		}
		if c != 'y' && c != 'Y' {
			r.out.Println()
			r.drawLine()
			return nil
		}
	}
	r.out.Println()
	r.printColumns(list)
	r.drawLine()
	return nil
}

// printColumns lays items out row by row in as many columns as fit.
func (r *Reader) printColumns(items []string) {
	widest := 0
	for _, s := range items {
		widest = max(widest, ansi.StringWidth(s))
	}
	colWidth := widest + 3
	cols := max(r.out.Width()/colWidth, 1)

	var sb strings.Builder
	for i, s := range items {
		sb.WriteString(s)
		if (i+1)%cols == 0 || i == len(items)-1 {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(strings.Repeat(" ", colWidth-ansi.StringWidth(s)))
	}
	r.out.Print(sb.String())
}

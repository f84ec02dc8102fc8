// Package redraw keeps a single-line editing display in sync with the
// buffer it shows, using relative cursor motion only.
//
// Screen positions are absolute offsets from the first column of the
// prompt's last line: position p sits on row p/width, column p%width.
// Lines wrap at the terminal width.
package redraw

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// TabWidth is the distance between tab stops.
const TabWidth = 8

// CharWidth returns how many columns r occupies when printed at
// position pos on a terminal width columns wide. Tabs advance to the
// next stop but never past the right margin; control characters print
// as two-column caret notation.
func CharWidth(r rune, pos, width int) int {
	switch {
	case r == '\t':
		return nextTabStop(pos, width)
	case r < 32:
		return 2
	default:
		w := runewidth.RuneWidth(r)
		if w < 0 {
			return 0
		}
		return w
	}
}

// nextTabStop works on the column of pos so tabs on wrapped rows
// expand the same as on the first.
func nextTabStop(pos, width int) int {
	col := pos
	if width > 0 {
		col = pos % width
	}
	npos := (col/TabWidth + 1) * TabWidth
	if width > 0 && npos > width {
		npos = width
	}
	return npos - col
}

// Span returns the columns taken by rs when printed starting at pos.
func Span(rs []rune, pos, width int) int {
	cur := pos
	for _, r := range rs {
		cur += CharWidth(r, cur, width)
	}
	return cur - pos
}

// LastLine returns the text after the last newline of s.
func LastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// PromptWidth returns the display width of the prompt's last line,
// ignoring escape sequences.
func PromptWidth(prompt string) int {
	return ansi.StringWidth(LastLine(prompt))
}

// Format renders rs the way it appears on screen, starting at pos, and
// returns the text to emit and the position after it.
func Format(rs []rune, pos, width int) (string, int) {
	var sb strings.Builder
	for _, r := range rs {
		switch {
		case r == '\t':
			nb := nextTabStop(pos, width)
			sb.WriteString(strings.Repeat(" ", max(nb, 0)))
			pos += nb
		case r < 32:
			sb.WriteByte('^')
			sb.WriteRune(r + '@')
			pos += 2
		default:
			if w := runewidth.RuneWidth(r); w > 0 {
				sb.WriteRune(r)
				pos += w
			}
		}
	}
	return sb.String(), pos
}

// Cells lays out a prompt and text one entry per screen column. A wide
// character fills its first column and leaves "" in the rest. With a
// non-nil mask every rune of text shows as *mask, or nothing when
// *mask is 0.
func Cells(prompt string, text []rune, mask *rune, width int) []string {
	var cells []string
	for _, r := range ansi.Strip(LastLine(prompt)) {
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			continue
		}
		cells = append(cells, string(r))
		for i := 1; i < w; i++ {
			cells = append(cells, "")
		}
	}

	for _, r := range text {
		if mask != nil {
			if *mask != 0 {
				cells = append(cells, string(*mask))
			}
			continue
		}
		pos := len(cells)
		switch {
		case r == '\t':
			for i := 0; i < nextTabStop(pos, width); i++ {
				cells = append(cells, " ")
			}
		case r < 32:
			cells = append(cells, "^", string(r+'@'))
		default:
			w := runewidth.RuneWidth(r)
			if w <= 0 {
				continue
			}
			cells = append(cells, string(r))
			for i := 1; i < w; i++ {
				cells = append(cells, "")
			}
		}
	}
	return cells
}

// JoinCells returns the text covering columns [from, to), padding with
// spaces past the end of cells.
func JoinCells(cells []string, from, to int) string {
	var sb strings.Builder
	for i := from; i < to; i++ {
		if i >= 0 && i < len(cells) {
			sb.WriteString(cells[i])
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

package readline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/keyline/internal/engine/history"
)

// expandEvents applies shell-style history event designators to s:
//
//	!!        the previous line
//	!n        line n (1-based, absolute)
//	!-n       the line n back from the end
//	!$        the last word of the previous line
//	!?str?    the newest line containing str
//	!str      the newest line starting with str (takes the rest of s)
//	!#        the line typed so far
//	^old^new^ the previous line with the first old replaced by new
//
// A backslash before '!', or before a leading '^', suppresses
// expansion and is dropped. "! " and a trailing '!' stay literal.
func expandEvents(h history.History, s string) (string, error) {
	rs := []rune(s)
	end := h.First() + h.Size()
	last := func(event string) (string, error) {
		if h.Size() == 0 {
			return "", &EventNotFoundError{Event: event}
		}
		return h.Get(end - 1), nil
	}

	var sb strings.Builder
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch c {
		case '\\':
			if i+1 < len(rs) && (rs[i+1] == '!' || (rs[i+1] == '^' && i == 0)) {
				i++
				c = rs[i]
			}
			sb.WriteRune(c)

		case '!':
			if i+1 >= len(rs) {
				sb.WriteRune(c)
				break
			}
			i++
			c = rs[i]
			switch {
			case c == '!':
				line, err := last("!!")
				if err != nil {
					return "", err
				}
				sb.WriteString(line)

			case c == '#':
				sb.WriteString(sb.String())

			case c == '$':
				line, err := last("!$")
				if err != nil {
					return "", err
				}
				line = strings.TrimSpace(line)
				if sp := strings.LastIndexByte(line, ' '); sp >= 0 {
					line = line[sp+1:]
				}
				sb.WriteString(line)

			case c == '?':
				j := i + 1
				for j < len(rs) && rs[j] != '?' {
					j++
				}
				term := string(rs[i+1 : j])
				i = j
				idx := history.SearchBackward(h, term, end, false)
				if idx < 0 {
					return "", &EventNotFoundError{Event: "!?" + term}
				}
				sb.WriteString(h.Get(idx))

			case c == ' ' || c == '\t':
				sb.WriteRune('!')
				sb.WriteRune(c)

			case c == '-' || (c >= '0' && c <= '9'):
				neg := c == '-'
				if neg {
					i++
				}
				j := i
				for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
					j++
				}
				digits := string(rs[i:j])
				event := "!" + digits
				if neg {
					event = "!-" + digits
				}
				i = j - 1
				n, err := strconv.Atoi(digits)
				if err != nil {
					return "", &EventNotFoundError{Event: event}
				}
				idx := n - 1
				if neg {
					idx = end - n
				}
				if (neg && n <= 0) || idx < h.First() || idx >= end {
					return "", &EventNotFoundError{Event: event}
				}
				sb.WriteString(h.Get(idx))

			default:
				prefix := string(rs[i:])
				i = len(rs)
				idx := history.SearchBackward(h, prefix, end, true)
				if idx < 0 {
					return "", &EventNotFoundError{Event: "!" + prefix}
				}
				sb.WriteString(h.Get(idx))
			}

		case '^':
			if i != 0 {
				sb.WriteRune(c)
				break
			}
			j := indexRune(rs, '^', 1)
			if j < 0 {
				sb.WriteRune(c)
				break
			}
			k := indexRune(rs, '^', j+1)
			if k < 0 {
				k = len(rs)
			}
			from, to := string(rs[1:j]), string(rs[j+1:k])
			line, err := last("^" + from + "^" + to + "^")
			if err != nil {
				return "", err
			}
			if from == "" || !strings.Contains(line, from) {
				return "", fmt.Errorf("^%s^%s^: %w", from, to, ErrSubstitutionFailed)
			}
			sb.WriteString(strings.Replace(line, from, to, 1))
			i = k

		default:
			sb.WriteRune(c)
		}
	}
	return sb.String(), nil
}

func indexRune(rs []rune, c rune, from int) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == c {
			return i
		}
	}
	return -1
}

package readline

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// readLineSimple reads a line without editing, for terminals that
// cannot do it. A "\r\n" pair ends one line even when the "\n" only
// arrives with the next call.
func (r *Reader) readLineSimple() (string, error) {
	var sb strings.Builder
	read := func() (rune, error) {
		c, _, err := r.readRaw()
		return c, err
	}

	if r.skipLF {
		r.skipLF = false
		c, err := read()
		switch {
		case errors.Is(err, io.EOF):
			return "", io.EOF
		case err != nil:
			return "", fmt.Errorf("read input: %w", err)
		case c == '\r':
			r.skipLF = true
			return "", nil
		case c != '\n':
			sb.WriteRune(c)
		}
	}

	for {
		c, err := read()
		if errors.Is(err, io.EOF) {
			if sb.Len() == 0 {
				return "", io.EOF
			}
			return sb.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		switch c {
		case '\n':
			return sb.String(), nil
		case '\r':
			r.skipLF = true
			return sb.String(), nil
		default:
			sb.WriteRune(c)
		}
	}
}

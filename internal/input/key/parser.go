package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// ParseSequence converts a key specification into the runes a terminal
// sends when that key (or key sequence) is typed.
//
// Supported formats:
//   - Readline escapes: "\C-a", "\M-f", "\C-x\C-u", "\e[A", "\\", "\""
//     plus "\a \b \d \f \n \r \t \v", octal "\177" and hex "\x7f"
//   - Caret notation: "^A", "^[", "^?"
//   - Vim-style: "<C-a>", "<M-f>", "<Up>", "<Esc>", mixed with text
//     as in "<C-x>u"
//   - Modifier style: "Ctrl+A", "Alt+F", "Ctrl+Alt+H"
//
// Anything else is taken literally.
func ParseSequence(spec string) (string, error) {
	if spec == "" {
		return "", ErrEmptySpec
	}

	if !strings.ContainsAny(spec, `\^<`) && isModifierStyle(spec) {
		return parseModifierStyle(spec)
	}

	var sb strings.Builder
	for i := 0; i < len(spec); {
		switch spec[i] {
		case '\\':
			s, n, err := parseEscape(spec[i:])
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			i += n
		case '^':
			if i+1 >= len(spec) {
				sb.WriteByte('^')
				i++
				continue
			}
			r, size := utf8.DecodeRuneInString(spec[i+1:])
			sb.WriteRune(Ctrl(r))
			i += 1 + size
		case '<':
			end := strings.IndexByte(spec[i:], '>')
			if end < 0 {
				// A lone '<' is a literal less-than.
				if i+1 == len(spec) {
					sb.WriteByte('<')
					i++
					continue
				}
				return "", fmt.Errorf("%w: %q", ErrUnmatchedBracket, spec)
			}
			s, err := parseVimStyle(spec[i+1 : i+end])
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			i += end + 1
		default:
			r, size := utf8.DecodeRuneInString(spec[i:])
			sb.WriteRune(r)
			i += size
		}
	}
	return sb.String(), nil
}

// MustParse is like ParseSequence but panics on error. It is intended
// for building the static default tables.
func MustParse(spec string) string {
	s, err := ParseSequence(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// parseEscape decodes one readline backslash escape at the start of s
// and returns the decoded text and the number of bytes consumed.
func parseEscape(s string) (string, int, error) {
	if len(s) < 2 {
		return "", 0, fmt.Errorf("%w: trailing backslash", ErrInvalidSpec)
	}

	// \C- and \M- prefixes apply to the following key, which may itself
	// be an escape: "\M-\C-h".
	if len(s) >= 3 && s[2] == '-' && (s[1] == 'C' || s[1] == 'M') {
		rest := s[3:]
		if rest == "" {
			return "", 0, fmt.Errorf("%w: missing key after %q", ErrInvalidSpec, s[:3])
		}
		var inner string
		var n int
		if rest[0] == '\\' {
			var err error
			inner, n, err = parseEscape(rest)
			if err != nil {
				return "", 0, err
			}
		} else {
			r, size := utf8.DecodeRuneInString(rest)
			inner, n = string(r), size
		}
		if s[1] == 'C' {
			return ModCtrl.Apply(inner), 3 + n, nil
		}
		return ModMeta.Apply(inner), 3 + n, nil
	}

	switch c := s[1]; c {
	case 'e', 'E':
		return "\x1b", 2, nil
	case 'a':
		return "\a", 2, nil
	case 'b':
		return "\b", 2, nil
	case 'd':
		return "\x7f", 2, nil
	case 'f':
		return "\f", 2, nil
	case 'n':
		return "\n", 2, nil
	case 'r':
		return "\r", 2, nil
	case 't':
		return "\t", 2, nil
	case 'v':
		return "\v", 2, nil
	case '\\', '"', '\'', '<', '^':
		return string(c), 2, nil
	case 'x':
		n := 2
		for n < len(s) && n < 4 && isHex(s[n]) {
			n++
		}
		if n == 2 {
			return "", 0, fmt.Errorf("%w: empty hex escape", ErrInvalidSpec)
		}
		v, _ := strconv.ParseUint(s[2:n], 16, 8)
		return string(rune(v)), n, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 1
		for n < len(s) && n < 4 && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		v, _ := strconv.ParseUint(s[1:n], 8, 16)
		return string(rune(v & 0xff)), n, nil
	default:
		r, size := utf8.DecodeRuneInString(s[1:])
		return string(r), 1 + size, nil
	}
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// parseVimStyle parses the inside of an angle-bracket key: "C-a",
// "M-f", "Up", "CR", "C-M-h".
func parseVimStyle(inner string) (string, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return "", ErrInvalidSpec
	}

	// "<->" and "<C-->" name the minus key itself.
	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	parts = parts[:len(parts)-1]
	if keyPart == "" && len(parts) > 0 {
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts {
		mod, ok := modifierNames[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return "", fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	seq, err := keySequence(keyPart)
	if err != nil {
		return "", err
	}
	return mods.Apply(seq), nil
}

// isModifierStyle reports whether spec looks like "Ctrl+X".
func isModifierStyle(spec string) bool {
	idx := strings.IndexByte(spec, '+')
	if idx <= 1 || idx == len(spec)-1 {
		return false
	}
	_, ok := modifierNames[strings.ToLower(spec[:idx])]
	return ok
}

// parseModifierStyle parses "Ctrl+A", "Alt+Up", "Ctrl+Alt+H".
func parseModifierStyle(spec string) (string, error) {
	var mods Modifier
	rest := spec
	for {
		idx := strings.IndexByte(rest, '+')
		if idx <= 0 || idx == len(rest)-1 {
			break
		}
		mod, ok := modifierNames[strings.ToLower(rest[:idx])]
		if !ok {
			break
		}
		mods = mods.With(mod)
		rest = rest[idx+1:]
	}

	// "Alt+F" means the f key; shift is not expressible here.
	if utf8.RuneCountInString(rest) == 1 {
		rest = strings.ToLower(rest)
	}
	seq, err := keySequence(rest)
	if err != nil {
		return "", err
	}
	return mods.Apply(seq), nil
}

// keySequence returns the sequence for a bare key: a named key or a
// single character.
func keySequence(name string) (string, error) {
	if utf8.RuneCountInString(name) == 1 {
		return name, nil
	}

	switch strings.ToLower(name) {
	case "lt":
		return "<", nil
	case "bslash", "backslash":
		return `\`, nil
	case "nul":
		return "\x00", nil
	}

	if k := KeyFromName(name); k != KeyNone {
		return k.Sequence(), nil
	}
	return "", fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}

// Format renders a key sequence in readline notation, the inverse of
// ParseSequence for sequences made of characters and control codes.
func Format(seq string) string {
	var sb strings.Builder
	for _, r := range seq {
		switch {
		case r == 0x1b:
			sb.WriteString(`\e`)
		case r == 0x7f:
			sb.WriteString(`\C-?`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '"' || r == '^' || r == '<':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r < 0x20:
			sb.WriteString(`\C-`)
			sb.WriteRune(r + '`')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

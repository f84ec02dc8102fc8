// Package key converts between human-readable key notation and the raw
// byte sequences a terminal sends for them.
//
// Binding files name keys the way readline's inputrc does ("\C-a",
// "\M-f", "\e[A") or with angle-bracket names ("<Up>", "<C-x>").
// Everything resolves to a string whose runes are the bytes typed.
package key

import "strings"

// Key identifies a special (non-character) key.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeySpace
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyInsert:
		return "Insert"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeySpace:
		return "Space"
	default:
		return "Unknown"
	}
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// Sequences returns the byte sequences terminals commonly send for k.
// The first entry is the canonical one. Cursor and keypad keys come in
// both the normal (CSI) and application (SS3) forms.
func (k Key) Sequences() []string {
	return keySequences[k]
}

// Sequence returns the canonical byte sequence for k, or "" if k has none.
func (k Key) Sequence() string {
	if seqs := keySequences[k]; len(seqs) > 0 {
		return seqs[0]
	}
	return ""
}

var keySequences = map[Key][]string{
	KeyEscape:    {"\x1b"},
	KeyEnter:     {"\r"},
	KeyTab:       {"\t"},
	KeyBackspace: {"\x7f"},
	KeySpace:     {" "},
	KeyUp:        {"\x1b[A", "\x1bOA", "\x1b[0A"},
	KeyDown:      {"\x1b[B", "\x1bOB", "\x1b[0B"},
	KeyRight:     {"\x1b[C", "\x1bOC", "\x1b[0C"},
	KeyLeft:      {"\x1b[D", "\x1bOD", "\x1b[0D"},
	KeyHome:      {"\x1b[H", "\x1bOH", "\x1b[1~", "\x1b[7~"},
	KeyEnd:       {"\x1b[F", "\x1bOF", "\x1b[4~", "\x1b[8~"},
	KeyDelete:    {"\x1b[3~"},
	KeyInsert:    {"\x1b[2~"},
	KeyPageUp:    {"\x1b[5~"},
	KeyPageDown:  {"\x1b[6~"},
}

// keyNameMap maps key names (lowercase) to Key values.
var keyNameMap = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"ret":       KeyEnter,
	"cr":        KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"rubout":    KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"ins":       KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pgup":      KeyPageUp,
	"pagedown":  KeyPageDown,
	"pgdn":      KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"space":     KeySpace,
	"spc":       KeySpace,
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}

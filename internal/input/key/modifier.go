package key

// Modifier represents the modifier keys a terminal can encode in a
// plain byte stream.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModCtrl folds the key into the C0 control range.
	ModCtrl Modifier = 1 << iota

	// ModMeta prefixes the key with ESC.
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Apply encodes seq under the modifiers in m. Control applies to the
// last rune only; meta prefixes the whole sequence.
func (m Modifier) Apply(seq string) string {
	if seq == "" {
		return seq
	}
	if m.Has(ModCtrl) {
		rs := []rune(seq)
		rs[len(rs)-1] = Ctrl(rs[len(rs)-1])
		seq = string(rs)
	}
	if m.Has(ModMeta) {
		seq = "\x1b" + seq
	}
	return seq
}

// Ctrl returns the control character for r. "\C-?" is DEL, and letters
// map case-insensitively onto 0x01-0x1a.
func Ctrl(r rune) rune {
	if r == '?' {
		return 0x7f
	}
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return r & 0x1f
}

// modifierNames maps notation prefixes to modifiers.
var modifierNames = map[string]Modifier{
	"c":       ModCtrl,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"m":       ModMeta,
	"a":       ModMeta,
	"alt":     ModMeta,
	"meta":    ModMeta,
}

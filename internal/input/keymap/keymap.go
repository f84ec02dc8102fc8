// Package keymap resolves typed key sequences to editing operations.
//
// A KeyMap is a 256-way trie node. Each slot holds an Operation, a
// macro, a host callback, a nested KeyMap for multi-byte sequences, or
// nothing. A nested KeyMap may carry an "another key" binding, which is
// what the sequence up to that node means when no further input arrives
// (a lone ESC, for instance).
//
// The named maps (emacs, emacs-meta, emacs-ctlx, vi-insert, vi-move)
// are kept in a Registry, which also tracks the active one.
package keymap

import (
	"sort"

	"github.com/dshills/keyline/internal/input/key"
)

// Size is the number of slots in a KeyMap node.
const Size = 256

// KeyMap is one node of the binding trie.
type KeyMap struct {
	name    string
	slots   [Size]Slot
	another Slot
}

// New creates an empty keymap.
func New(name string) *KeyMap {
	return &KeyMap{name: name}
}

// Name returns the keymap name. Nested maps are named "anonymous".
func (m *KeyMap) Name() string {
	return m.name
}

// AnotherKey returns the binding used when the sequence ends at this
// node.
func (m *KeyMap) AnotherKey() Slot {
	return m.another
}

// SetAnotherKey replaces the node's end-of-sequence binding.
func (m *KeyMap) SetAnotherKey(s Slot) {
	m.another = s
}

// Lookup returns the slot for a single byte.
func (m *KeyMap) Lookup(r rune) Slot {
	if r < 0 || r >= Size {
		return Slot{}
	}
	return m.slots[r]
}

// Resolve walks seq through the trie. If seq ends on a nested map the
// nested map itself is returned and more input may be needed; if a
// prefix of seq is already bound to a non-map value, that value is
// returned. Runes outside the byte range self-insert.
func (m *KeyMap) Resolve(seq []rune) Slot {
	node := m
	for i, r := range seq {
		if r >= Size {
			return Op(SelfInsert)
		}
		if r < 0 {
			return Slot{}
		}
		s := node.slots[r]
		if s.Kind != KeyMapSlot {
			return s
		}
		if i == len(seq)-1 {
			return s
		}
		node = s.Map
	}
	return Slot{}
}

// Bind binds seq to s, creating nested maps for every byte but the
// last. A plain binding found on the way becomes the new nested map's
// another-key so it is not lost. Binding onto an existing nested map
// replaces that map's another-key.
func (m *KeyMap) Bind(seq string, s Slot) {
	m.bind(seq, s, false)
}

// BindIfNotBound is like Bind but leaves an existing final binding in
// place, unless it is do-lowercase-version or vi-movement-mode.
func (m *KeyMap) BindIfNotBound(seq string, s Slot) {
	m.bind(seq, s, true)
}

// Unbind removes the binding for seq. Nested maps are left in place.
func (m *KeyMap) Unbind(seq string) {
	m.bind(seq, Slot{}, false)
}

func (m *KeyMap) bind(seq string, s Slot, onlyIfEmpty bool) {
	rs := []rune(seq)
	node := m
	for i, r := range rs {
		if r < 0 || r >= Size {
			return
		}
		cur := node.slots[r]
		if i < len(rs)-1 {
			if cur.Kind != KeyMapSlot {
				sub := New("anonymous")
				if !cur.IsOp(DoLowercaseVersion) {
					sub.another = cur
				}
				node.slots[r] = Sub(sub)
				cur = node.slots[r]
			}
			node = cur.Map
			continue
		}

		if cur.Kind == KeyMapSlot {
			cur.Map.another = s
			return
		}
		if !onlyIfEmpty || !cur.IsBound() || cur.IsOp(DoLowercaseVersion) || cur.IsOp(ViMovementMode) {
			node.slots[r] = s
		}
	}
}

// Clone returns a deep copy of the trie. Shared nested maps stay
// shared in the copy.
func (m *KeyMap) Clone() *KeyMap {
	return m.clone(make(map[*KeyMap]*KeyMap))
}

func (m *KeyMap) clone(seen map[*KeyMap]*KeyMap) *KeyMap {
	if c, ok := seen[m]; ok {
		return c
	}
	c := &KeyMap{name: m.name}
	seen[m] = c
	c.another = cloneSlot(m.another, seen)
	for i, s := range m.slots {
		c.slots[i] = cloneSlot(s, seen)
	}
	return c
}

func cloneSlot(s Slot, seen map[*KeyMap]*KeyMap) Slot {
	if s.Kind == KeyMapSlot {
		return Sub(s.Map.clone(seen))
	}
	return s
}

// Binding is one entry of a keymap listing.
type Binding struct {
	Keys string
	Slot Slot
}

// String formats the binding the way readline's bind -p does.
func (b Binding) String() string {
	return quote(b.Keys) + ": " + b.Slot.String()
}

// Bindings lists every bound sequence, excluding plain self-insert
// slots, sorted by key sequence.
func (m *KeyMap) Bindings() []Binding {
	var out []Binding
	m.walk("", make(map[*KeyMap]bool), func(seq string, s Slot) {
		if s.IsOp(SelfInsert) {
			return
		}
		out = append(out, Binding{Keys: seq, Slot: s})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Keys < out[j].Keys })
	return out
}

func (m *KeyMap) walk(prefix string, seen map[*KeyMap]bool, fn func(string, Slot)) {
	if seen[m] {
		return
	}
	seen[m] = true
	if prefix != "" && m.another.IsBound() {
		fn(prefix, m.another)
	}
	for i, s := range m.slots {
		seq := prefix + string(rune(i))
		switch s.Kind {
		case Unbound:
		case KeyMapSlot:
			s.Map.walk(seq, seen, fn)
		default:
			fn(seq, s)
		}
	}
}

func quote(s string) string {
	return `"` + key.Format(s) + `"`
}

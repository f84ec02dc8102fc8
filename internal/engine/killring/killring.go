// Package killring implements the Emacs kill ring: a bounded ring of
// killed text spans with yank and yank-pop cycling.
//
// The ring remembers whether the last operation was a kill or a yank.
// Consecutive kills coalesce into a single entry, appending for forward
// kills and prepending for backward ones. Any other operation must call
// ResetLastKill / ResetLastYank so that the next kill starts a new entry.
package killring

// DefaultSize is the number of entries kept when New is given a
// non-positive size.
const DefaultSize = 60

type slot struct {
	text string
	set  bool
}

// KillRing is a fixed-size ring of killed text. The zero value is not
// usable; call New.
type KillRing struct {
	slots    []slot
	head     int
	lastKill bool
	lastYank bool
}

// New creates a ring that holds up to size entries.
func New(size int) *KillRing {
	if size <= 0 {
		size = DefaultSize
	}
	return &KillRing{slots: make([]slot, size)}
}

// Add records text killed forward of the cursor. Directly after another
// kill it is appended to the newest entry.
func (k *KillRing) Add(text string) {
	k.kill(text, false)
}

// AddBackwards records text killed behind the cursor. Directly after
// another kill it is prepended to the newest entry.
func (k *KillRing) AddBackwards(text string) {
	k.kill(text, true)
}

// Kill is Add or AddBackwards depending on prepend.
func (k *KillRing) Kill(text string, prepend bool) {
	k.kill(text, prepend)
}

func (k *KillRing) kill(text string, prepend bool) {
	k.lastYank = false
	if k.lastKill && k.slots[k.head].set {
		if prepend {
			k.slots[k.head].text = text + k.slots[k.head].text
		} else {
			k.slots[k.head].text += text
		}
		return
	}
	k.lastKill = true
	k.next()
	k.slots[k.head] = slot{text: text, set: true}
}

// Yank returns the newest entry without rotating the ring.
func (k *KillRing) Yank() (string, bool) {
	k.lastYank = true
	k.lastKill = false
	s := k.slots[k.head]
	return s.text, s.set
}

// YankPop rotates to the next older entry and returns it. It only works
// directly after a Yank or another YankPop; past the oldest entry it
// wraps back to the newest.
func (k *KillRing) YankPop() (string, bool) {
	k.lastKill = false
	if !k.lastYank {
		return "", false
	}
	k.prev()
	s := k.slots[k.head]
	return s.text, s.set
}

// LastYank reports whether the previous operation was a yank.
func (k *KillRing) LastYank() bool {
	return k.lastYank
}

// LastKill reports whether the previous operation was a kill.
func (k *KillRing) LastKill() bool {
	return k.lastKill
}

// ResetLastYank marks the previous operation as not a yank.
func (k *KillRing) ResetLastYank() {
	k.lastYank = false
}

// ResetLastKill marks the previous operation as not a kill.
func (k *KillRing) ResetLastKill() {
	k.lastKill = false
}

// Len returns the number of filled entries.
func (k *KillRing) Len() int {
	n := 0
	for _, s := range k.slots {
		if s.set {
			n++
		}
	}
	return n
}

// Entries returns the filled entries, newest first.
func (k *KillRing) Entries() []string {
	out := make([]string, 0, len(k.slots))
	for i := 0; i < len(k.slots); i++ {
		s := k.slots[(k.head-i+len(k.slots))%len(k.slots)]
		if s.set {
			out = append(out, s.text)
		}
	}
	return out
}

func (k *KillRing) next() {
	if k.head == 0 && !k.slots[0].set {
		return
	}
	k.head = (k.head + 1) % len(k.slots)
}

func (k *KillRing) prev() {
	k.head--
	if k.head >= 0 {
		return
	}
	x := len(k.slots) - 1
	for x >= 0 && !k.slots[x].set {
		x--
	}
	k.head = max(x, 0)
}

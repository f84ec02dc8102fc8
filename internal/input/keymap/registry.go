package keymap

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the named keymaps and tracks which one is active.
// It is safe for concurrent use; the tries themselves are not, and are
// only mutated while a line is not being read.
type Registry struct {
	mu sync.RWMutex

	// keymaps holds all registered keymaps by name. Aliases point at
	// the same trie.
	keymaps map[string]*KeyMap

	current     *KeyMap
	currentName string
}

// NewRegistry creates a registry holding the default keymaps with
// emacs active.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset restores the built-in keymaps and makes emacs active.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keymaps = Defaults()
	r.current = r.keymaps[Emacs]
	r.currentName = Emacs
}

// Register adds a keymap under name, replacing any existing one. If
// the replaced map was active the new one becomes active.
func (r *Registry) Register(name string, km *KeyMap) error {
	if km == nil {
		return fmt.Errorf("cannot register nil keymap %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old := r.keymaps[name]; old != nil && old == r.current {
		r.current = km
	}
	r.keymaps[name] = km
	return nil
}

// Get returns a keymap by name.
func (r *Registry) Get(name string) *KeyMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keymaps[name]
}

// SetKeyMap makes the named keymap active. It reports false if no such
// keymap exists.
func (r *Registry) SetKeyMap(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	km, ok := r.keymaps[name]
	if !ok {
		return false
	}
	r.current = km
	r.currentName = name
	return true
}

// Current returns the active keymap.
func (r *Registry) Current() *KeyMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentName returns the name the active keymap was selected by.
func (r *Registry) CurrentName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentName
}

// IsVi reports whether the active keymap belongs to vi mode.
func (r *Registry) IsVi() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current == r.keymaps[ViInsert] || r.current == r.keymaps[ViMove]
}

// Names returns the registered keymap names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.keymaps))
	for name := range r.keymaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind binds seq in the named keymap.
func (r *Registry) Bind(mapName, seq string, s Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	km, ok := r.keymaps[mapName]
	if !ok {
		return fmt.Errorf("unknown keymap %q", mapName)
	}
	km.Bind(seq, s)
	return nil
}

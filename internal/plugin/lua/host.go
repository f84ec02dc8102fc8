package lua

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyline/internal/input/key"
	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/logging"
)

// Binding records a key a script bound.
type Binding struct {
	Keymap string
	Keys   string
	Slot   keymap.Slot
}

// Host runs binding scripts against a keymap registry.
type Host struct {
	state *State
	keys  *keymap.Registry
	log   *logging.Logger

	mu    sync.Mutex
	bound []Binding
}

// NewHost creates a host binding into keys.
func NewHost(keys *keymap.Registry, log *logging.Logger, opts ...StateOption) *Host {
	if log == nil {
		log = logging.Discard()
	}
	h := &Host{
		state: NewState(opts...),
		keys:  keys,
		log:   log.WithComponent("lua"),
	}
	h.state.SetGlobal("keyline", h.module())
	h.state.SetGlobal("print", h.state.L.NewFunction(h.luaPrint))
	return h
}

// LoadFile runs a script file.
func (h *Host) LoadFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("lua script %s: %w", path, err)
	}
	return nil
}

// LoadString runs script source.
func (h *Host) LoadString(code string) error {
	if err := h.state.DoString(code); err != nil {
		return fmt.Errorf("lua script: %w", err)
	}
	return nil
}

// Bindings returns what the scripts bound, in order.
func (h *Host) Bindings() []Binding {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Binding, len(h.bound))
	copy(out, h.bound)
	return out
}

// Close releases the Lua state. Callbacks bound earlier fail from now
// on.
func (h *Host) Close() error {
	return h.state.Close()
}

func (h *Host) module() *lua.LTable {
	L := h.state.L
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"bind":  h.luaBind,
		"macro": h.luaMacro,
		"op":    h.luaOp,
		"log":   h.luaLog,
	})
}

// keyline.bind(keys, fn [, keymap])
func (h *Host) luaBind(L *lua.LState) int {
	fn := L.CheckFunction(2)
	h.bind(L, keymap.Call(&callback{state: h.state, fn: fn}))
	return 0
}

// keyline.macro(keys, text [, keymap])
func (h *Host) luaMacro(L *lua.LState) int {
	text, err := key.ParseSequence(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	h.bind(L, keymap.Macro(text))
	return 0
}

// keyline.op(keys, operation [, keymap])
func (h *Host) luaOp(L *lua.LState) int {
	name := L.CheckString(2)
	op, ok := keymap.ParseOperation(name)
	if !ok {
		L.ArgError(2, fmt.Sprintf("unknown operation %q", name))
		return 0
	}
	h.bind(L, keymap.Op(op))
	return 0
}

func (h *Host) bind(L *lua.LState, slot keymap.Slot) {
	keys := L.CheckString(1)
	mapName := L.OptString(3, h.keys.CurrentName())

	seq, err := key.ParseSequence(keys)
	if err != nil {
		L.ArgError(1, err.Error())
		return
	}
	if err := h.keys.Bind(mapName, seq, slot); err != nil {
		L.ArgError(3, err.Error())
		return
	}

	h.mu.Lock()
	h.bound = append(h.bound, Binding{Keymap: mapName, Keys: keys, Slot: slot})
	h.mu.Unlock()
	h.log.Debug("bound %s in %s to %s", keys, mapName, slot)
}

func (h *Host) luaLog(L *lua.LState) int {
	h.log.Info("%s", L.CheckString(1))
	return 0
}

func (h *Host) luaPrint(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	h.log.Info("%s", strings.Join(parts, "\t"))
	return 0
}

// callback runs a Lua function bound to a key.
type callback struct {
	state *State
	fn    *lua.LFunction
}

func (c *callback) Run(ed keymap.Editor) error {
	return c.state.run(func(L *lua.LState) error {
		L.Push(c.fn)
		L.Push(editorTable(L, ed))
		return L.PCall(1, 0, nil)
	})
}

// editorTable exposes ed to a callback. Its functions work called with
// '.' or ':'.
func editorTable(L *lua.LState, ed keymap.Editor) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"buffer": func(L *lua.LState) int {
			L.Push(lua.LString(ed.Buffer()))
			return 1
		},
		"cursor": func(L *lua.LState) int {
			L.Push(lua.LNumber(ed.Cursor()))
			return 1
		},
		"insert": func(L *lua.LState) int {
			ed.Insert(L.CheckString(firstArg(L)))
			return 0
		},
		"set_buffer": func(L *lua.LState) int {
			ed.SetBuffer(L.CheckString(firstArg(L)))
			return 0
		},
		"set_cursor": func(L *lua.LState) int {
			ed.SetCursor(L.CheckInt(firstArg(L)))
			return 0
		},
	})
}

// firstArg skips the table a method call passes as self.
func firstArg(L *lua.LState) int {
	if L.GetTop() > 1 && L.Get(1).Type() == lua.LTTable {
		return 2
	}
	return 1
}

package keymap

// SlotKind tags what a Slot holds.
type SlotKind uint8

const (
	Unbound SlotKind = iota
	OperationSlot
	MacroSlot
	KeyMapSlot
	CallbackSlot
)

// String returns the kind name.
func (k SlotKind) String() string {
	switch k {
	case Unbound:
		return "unbound"
	case OperationSlot:
		return "operation"
	case MacroSlot:
		return "macro"
	case KeyMapSlot:
		return "keymap"
	case CallbackSlot:
		return "callback"
	default:
		return "unknown"
	}
}

// Slot is one binding: unbound, an operation, a macro string replayed
// as typed input, a nested keymap for longer sequences, or a host
// callback. The zero value is unbound.
type Slot struct {
	Kind     SlotKind
	Op       Operation
	Macro    string
	Map      *KeyMap
	Callback Callback
}

// Op returns a slot bound to an operation.
func Op(op Operation) Slot {
	if op == OpNone {
		return Slot{}
	}
	return Slot{Kind: OperationSlot, Op: op}
}

// Macro returns a slot that replays text as if typed.
func Macro(text string) Slot {
	return Slot{Kind: MacroSlot, Macro: text}
}

// Sub returns a slot pointing at a nested keymap.
func Sub(m *KeyMap) Slot {
	if m == nil {
		return Slot{}
	}
	return Slot{Kind: KeyMapSlot, Map: m}
}

// Call returns a slot that runs a host callback.
func Call(cb Callback) Slot {
	if cb == nil {
		return Slot{}
	}
	return Slot{Kind: CallbackSlot, Callback: cb}
}

// IsBound reports whether the slot holds anything.
func (s Slot) IsBound() bool {
	return s.Kind != Unbound
}

// IsOp reports whether the slot is bound to op.
func (s Slot) IsOp(op Operation) bool {
	return s.Kind == OperationSlot && s.Op == op
}

// String describes the slot for listings.
func (s Slot) String() string {
	switch s.Kind {
	case OperationSlot:
		return s.Op.String()
	case MacroSlot:
		return "macro " + quote(s.Macro)
	case KeyMapSlot:
		return "keymap " + s.Map.Name()
	case CallbackSlot:
		return "callback"
	default:
		return "unbound"
	}
}

// Editor is the view of the line a callback gets.
type Editor interface {
	Buffer() string
	Cursor() int
	Insert(s string)
	SetBuffer(s string)
	SetCursor(pos int)
}

// Callback is host code bound to a key sequence. Errors are reported
// by the reader and never end the line read.
type Callback interface {
	Run(ed Editor) error
}

// CallbackFunc adapts a function to the Callback interface.
type CallbackFunc func(ed Editor) error

// Run calls f(ed).
func (f CallbackFunc) Run(ed Editor) error {
	return f(ed)
}

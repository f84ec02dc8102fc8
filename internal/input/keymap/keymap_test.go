package keymap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keyline/internal/input/key"
)

func TestBindPreservesPlainValueAsAnotherKey(t *testing.T) {
	m := New("test")
	m.Bind("\x1b", Op(ViMovementMode))
	m.Bind("\x1b[A", Op(PreviousHistory))

	s := m.Lookup(0x1b)
	require.Equal(t, KeyMapSlot, s.Kind)
	assert.True(t, s.Map.AnotherKey().IsOp(ViMovementMode))
	assert.True(t, m.Resolve([]rune("\x1b[A")).IsOp(PreviousHistory))
}

func TestBindDropsDoLowercaseAnotherKey(t *testing.T) {
	m := New("test")
	m.Bind("O", Op(DoLowercaseVersion))
	m.Bind("OA", Op(Yank))

	assert.False(t, m.Lookup('O').Map.AnotherKey().IsBound())
}

func TestBindOntoSubmapSetsAnotherKey(t *testing.T) {
	m := New("test")
	m.Bind("ab", Op(Yank))
	m.Bind("a", Op(KillLine))

	s := m.Lookup('a')
	require.Equal(t, KeyMapSlot, s.Kind)
	assert.True(t, s.Map.AnotherKey().IsOp(KillLine))
	assert.True(t, m.Resolve([]rune("ab")).IsOp(Yank))
}

func TestBindIfNotBound(t *testing.T) {
	m := New("test")
	m.Bind("x", Op(Yank))
	m.Bind("y", Op(ViMovementMode))

	m.BindIfNotBound("x", Op(KillLine))
	m.BindIfNotBound("y", Op(KillLine))
	m.BindIfNotBound("z", Op(KillLine))

	assert.True(t, m.Lookup('x').IsOp(Yank))
	assert.True(t, m.Lookup('y').IsOp(KillLine))
	assert.True(t, m.Lookup('z').IsOp(KillLine))
}

func TestResolve(t *testing.T) {
	m := NewEmacs()
	bindArrowKeys(m)

	tests := []struct {
		name string
		seq  string
		kind SlotKind
		op   Operation
	}{
		{"self insert", "a", OperationSlot, SelfInsert},
		{"control", "\x0b", OperationSlot, KillLine},
		{"meta prefix", "\x1b", KeyMapSlot, OpNone},
		{"meta f", "\x1bf", OperationSlot, ForwardWord},
		{"ctrl-x prefix", "\x18", KeyMapSlot, OpNone},
		{"ctrl-x (", "\x18(", OperationSlot, StartKbdMacro},
		{"arrow", "\x1b[A", OperationSlot, PreviousHistory},
		{"partial arrow", "\x1b[", KeyMapSlot, OpNone},
		{"unicode", "é", OperationSlot, SelfInsert},
		{"beyond byte range", "世", OperationSlot, SelfInsert},
		{"plain prefix of longer input", "ab", OperationSlot, SelfInsert},
		{"unbound", "\x1b\x01", Unbound, OpNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := m.Resolve([]rune(tt.seq))
			assert.Equal(t, tt.kind, s.Kind)
			if tt.kind == OperationSlot {
				assert.Equal(t, tt.op, s.Op)
			}
		})
	}
}

func TestDefaultsAliasesShareTrie(t *testing.T) {
	d := Defaults()
	assert.Same(t, d[Emacs], d[EmacsStandard])
	assert.Same(t, d[ViMove], d[ViCommand])
	assert.Same(t, d[ViMove], d[Vi])
	assert.Same(t, d[Emacs].Lookup(0x1b).Map, d[EmacsMeta])
	assert.Same(t, d[Emacs].Lookup(0x18).Map, d[EmacsCtlX])
}

func TestViInsertEscapeHasMovementAnotherKey(t *testing.T) {
	m := Defaults()[ViInsert]
	s := m.Lookup(0x1b)
	require.Equal(t, KeyMapSlot, s.Kind)
	assert.True(t, s.Map.AnotherKey().IsOp(ViMovementMode))
	assert.True(t, m.Resolve([]rune("\x1b[D")).IsOp(BackwardChar))
}

func TestViMoveBindings(t *testing.T) {
	m := Defaults()[ViMove]
	assert.True(t, m.Lookup('d').IsOp(ViDeleteTo))
	assert.True(t, m.Lookup('0').IsOp(ViBeginningOfLineOrArgDigit))
	assert.True(t, m.Lookup('5').IsOp(ViArgDigit))
	assert.False(t, m.Lookup('z').IsBound())
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations() {
		got, ok := ParseOperation(op.String())
		require.True(t, ok, op.String())
		assert.Equal(t, op, got)
	}

	op, ok := ParseOperation("KILL_LINE")
	assert.True(t, ok)
	assert.Equal(t, KillLine, op)

	_, ok = ParseOperation("no-such-thing")
	assert.False(t, ok)
}

func TestOperationFamilies(t *testing.T) {
	assert.True(t, KillLine.IsKill())
	assert.True(t, UnixWordRubout.IsKill())
	assert.False(t, Yank.IsKill())
	assert.True(t, YankPop.IsYank())
	assert.True(t, ViNextWord.IsViMotion())
	assert.False(t, ViPut.IsViMotion())
}

func TestCloneIsDeep(t *testing.T) {
	m := NewEmacs()
	c := m.Clone()
	c.Bind("\x1bf", Op(KillLine))

	assert.True(t, m.Resolve([]rune("\x1bf")).IsOp(ForwardWord))
	assert.True(t, c.Resolve([]rune("\x1bf")).IsOp(KillLine))
}

func TestBindingsListing(t *testing.T) {
	m := New("test")
	m.Bind("\x01", Op(BeginningOfLine))
	m.Bind("x", Op(SelfInsert))
	m.Bind("\x1bh", Macro("help"))

	var lines []string
	for _, b := range m.Bindings() {
		lines = append(lines, b.String())
	}
	assert.Equal(t, []string{
		`"\C-a": beginning-of-line`,
		`"\eh": macro "help"`,
	}, lines)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, Emacs, r.CurrentName())
	assert.False(t, r.IsVi())

	require.True(t, r.SetKeyMap(ViInsert))
	assert.True(t, r.IsVi())
	assert.Same(t, r.Get(ViInsert), r.Current())

	assert.False(t, r.SetKeyMap("nope"))
	assert.Equal(t, ViInsert, r.CurrentName())

	replacement := New(ViInsert)
	require.NoError(t, r.Register(ViInsert, replacement))
	assert.Same(t, replacement, r.Current())

	assert.Error(t, r.Bind("nope", "a", Op(Yank)))
	assert.Contains(t, r.Names(), EmacsMeta)
}

func TestLoaderTOML(t *testing.T) {
	src := `
editing_mode = "vi"

[bindings.emacs]
"\\C-xg" = "kill-whole-line"
"\\M-h" = { macro = "help\r" }

[bindings.vi-move]
"<C-a>" = "beginning-of-line"
`
	f, err := NewLoader().LoadReader(strings.NewReader(src), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, "vi", f.EditingMode)

	r := NewRegistry()
	require.NoError(t, f.Apply(r))

	emacs := r.Get(Emacs)
	assert.True(t, emacs.Resolve([]rune("\x18g")).IsOp(KillWholeLine))
	macro := emacs.Resolve([]rune("\x1bh"))
	assert.Equal(t, MacroSlot, macro.Kind)
	assert.Equal(t, "help\r", macro.Macro)
	assert.True(t, r.Get(ViMove).Lookup(0x01).IsOp(BeginningOfLine))
	assert.Equal(t, ViInsert, r.CurrentName())
}

func TestLoaderYAMLAndJSON(t *testing.T) {
	yamlSrc := "bindings:\n  emacs:\n    \"^T\": upcase-word\n"
	f, err := NewLoader().LoadReader(strings.NewReader(yamlSrc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, f.Bindings[Emacs], 1)
	assert.Equal(t, key.MustParse("^T"), f.Bindings[Emacs][0].Seq)
	assert.True(t, f.Bindings[Emacs][0].Slot.IsOp(UpcaseWord))

	jsonSrc := `{"bindings": {"vi-insert": {"<C-o>": {"op": "vi-movement-mode"}}}}`
	f, err = NewLoader().LoadReader(strings.NewReader(jsonSrc), FormatJSON)
	require.NoError(t, err)
	assert.True(t, f.Bindings[ViInsert][0].Slot.IsOp(ViMovementMode))
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown operation", "[bindings.emacs]\n\"a\" = \"fly\"\n", ErrUnknownOperation},
		{"bad key", "[bindings.emacs]\n\"<Nope>\" = \"yank\"\n", key.ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadReader(strings.NewReader(tt.src), FormatTOML)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, Emacs, pe.Keymap)
			assert.True(t, errors.Is(err, tt.want))
		})
	}

	_, err := NewLoader().LoadReader(strings.NewReader(`editing_mode = "ed"`), FormatTOML)
	assert.Error(t, err)

	f := &File{Bindings: map[string][]Entry{"nope": {{Seq: "a", Slot: Op(Yank)}}}}
	assert.Error(t, f.Apply(NewRegistry()))
}

func TestLoaderFilesAndSearchPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings:\n  emacs:\n    \"\\\\C-o\": yank\n"), 0o644))

	r := NewRegistry()
	l := NewLoader()
	require.NoError(t, l.LoadAndApply(path, r))
	assert.True(t, r.Get(Emacs).Lookup(0x0f).IsOp(Yank))

	l.AddSearchPath(dir)
	files, err := l.LoadAll()
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = l.LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

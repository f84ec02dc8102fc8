package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keyline/internal/config"
	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/terminal"
)

type testApp struct {
	*Application
	in  *terminal.ScriptInput
	out *bytes.Buffer
	dir string
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Keybindings = filepath.Join(dir, "bindings.toml")
	cfg.WatchKeybindings = false
	cfg.History.File = filepath.Join(dir, "history")
	cfg.ParenBlinkTimeout = 0
	return &cfg, dir
}

func newTestApp(t *testing.T, cfg *config.Config, dir string, chunks ...string) *testApp {
	t.Helper()
	ta := &testApp{
		in:  terminal.NewScriptInput(chunks...),
		out: &bytes.Buffer{},
		dir: dir,
	}
	app, err := New(Options{
		Config:   cfg,
		Prompt:   "> ",
		Terminal: terminal.NewStatic(),
		Input:    ta.in,
		Output:   ta.out,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	ta.Application = app
	return ta
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestRunEchoesAndRecordsHistory(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir, "hello\r", "history\r")

	require.NoError(t, ta.Run(context.Background()))
	assert.Contains(t, ta.out.String(), "hello\n")
	assert.Contains(t, ta.out.String(), "    1  hello\n")
	assert.Contains(t, ta.out.String(), "    2  history\n")

	require.NoError(t, ta.Close())
	data, err := os.ReadFile(cfg.History.File)
	require.NoError(t, err)
	assert.Equal(t, "hello\nhistory\n", string(data))
}

func TestHistoryIsLoadedAtStart(t *testing.T) {
	cfg, dir := testConfig(t)
	writeFile(t, cfg.History.File, "echo old\n")

	ta := newTestApp(t, cfg, dir, "!!\r")
	require.NoError(t, ta.Run(context.Background()))
	assert.Contains(t, ta.out.String(), "echo old\n")
}

func TestQuitStopsRun(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir, "quit\r", "after\r")

	require.NoError(t, ta.Run(context.Background()))
	assert.NotZero(t, ta.in.Remaining())
	assert.False(t, ta.IsRunning())
}

func TestSetEditingMode(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir, "set editing-mode vi\r")
	require.NoError(t, ta.Run(context.Background()))
	assert.Equal(t, keymap.ViInsert, ta.keys.CurrentName())

	ta.in.Append("set editing-mode ed\r")
	require.NoError(t, ta.Run(context.Background()))
	assert.Contains(t, ta.out.String(), `unknown editing mode "ed"`)
}

func TestEditingModeOverride(t *testing.T) {
	cfg, _ := testConfig(t)
	app, err := New(Options{
		Config:      cfg,
		EditingMode: "vi",
		Terminal:    terminal.NewStatic(),
		Input:       terminal.NewScriptInput(),
		Output:      &bytes.Buffer{},
	})
	require.NoError(t, err)
	defer app.Close()
	assert.Equal(t, keymap.ViInsert, app.keys.CurrentName())
}

func TestInvalidOverrideFails(t *testing.T) {
	cfg, _ := testConfig(t)
	_, err := New(Options{
		Config:      cfg,
		EditingMode: "ed",
		Terminal:    terminal.NewStatic(),
		Input:       terminal.NewScriptInput(),
		Output:      &bytes.Buffer{},
	})
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "config", ie.Component)
}

func TestBindingFileApplied(t *testing.T) {
	cfg, dir := testConfig(t)
	writeFile(t, cfg.Keybindings, `
[bindings.emacs]
"\\C-o" = { macro = "from file" }
`)
	ta := newTestApp(t, cfg, dir, "\x0f\r")
	require.NoError(t, ta.Run(context.Background()))
	assert.Contains(t, ta.out.String(), "from file\n")
}

func TestBrokenBindingFileWarns(t *testing.T) {
	cfg, dir := testConfig(t)
	writeFile(t, cfg.Keybindings, `
[bindings.emacs]
"\\C-o" = "no-such-operation"
`)
	ta := newTestApp(t, cfg, dir)
	assert.Contains(t, ta.out.String(), "keyline: key bindings:")
}

func TestLuaScriptBindings(t *testing.T) {
	cfg, dir := testConfig(t)
	cfg.Lua.Script = filepath.Join(dir, "bindings.lua")
	writeFile(t, cfg.Lua.Script, `
keyline.bind("\\C-o", function(ed) ed.insert("from lua") end)
`)
	ta := newTestApp(t, cfg, dir, "\x0f\r", "bindings\r")
	require.NoError(t, ta.Run(context.Background()))
	assert.Contains(t, ta.out.String(), "from lua\n")
	assert.Contains(t, ta.out.String(), `\C-o`)
	assert.Contains(t, ta.out.String(), "callback")
}

func TestReloadBuiltin(t *testing.T) {
	cfg, dir := testConfig(t)
	writeFile(t, cfg.Keybindings, `
[bindings.emacs]
"\\C-o" = { macro = "one" }
`)
	ta := newTestApp(t, cfg, dir, "set editing-mode vi\r")
	require.NoError(t, ta.Run(context.Background()))

	writeFile(t, cfg.Keybindings, `
[bindings.emacs]
"\\C-o" = { macro = "two" }
`)
	ta.in.Append("reload\r", "set editing-mode emacs\r", "\x0f\r")
	require.NoError(t, ta.Run(context.Background()))
	assert.Contains(t, ta.out.String(), "bindings reloaded\n")
	assert.Contains(t, ta.out.String(), "two\n")
}

func TestReloadKeepsActiveKeyMap(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir)
	ta.keys.SetKeyMap(keymap.ViMove)
	require.NoError(t, ta.loadBindings(ta.keys))
	assert.Equal(t, keymap.ViMove, ta.keys.CurrentName())
}

func TestWatcherTriggersReload(t *testing.T) {
	cfg, dir := testConfig(t)
	cfg.WatchKeybindings = true
	writeFile(t, cfg.Keybindings, `
[bindings.emacs]
"\\C-o" = { macro = "before" }
`)
	ta := newTestApp(t, cfg, dir)
	require.NotNil(t, ta.watcher)

	writeFile(t, cfg.Keybindings, `
[bindings.emacs]
"\\C-o" = { macro = "after" }
`)
	require.Eventually(t, ta.reloadPending.Load, 3*time.Second, 10*time.Millisecond)

	ta.in.Append("\x0f\r")
	require.NoError(t, ta.Run(context.Background()))
	assert.Contains(t, ta.out.String(), "after\n")
	assert.False(t, ta.reloadPending.Load())
}

func TestHelpListsBuiltins(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir, "help\r")
	require.NoError(t, ta.Run(context.Background()))
	for _, name := range builtinNames() {
		assert.Contains(t, ta.out.String(), builtins[name].usage)
	}
}

func TestHistoryBuiltinCount(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir, "a\r", "b\r", "history 1\r", "history x\r")
	require.NoError(t, ta.Run(context.Background()))
	out := ta.out.String()
	assert.NotContains(t, out, "    1  a\n")
	assert.Contains(t, out, "    3  history 1\n")
	assert.Contains(t, out, `history: bad count "x"`)
}

func TestRunTwice(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir)
	ta.running.Store(true)
	assert.ErrorIs(t, ta.Run(context.Background()), ErrAlreadyRunning)
}

func TestCancelledContext(t *testing.T) {
	cfg, dir := testConfig(t)
	ta := newTestApp(t, cfg, dir, "line\r")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, ta.Run(ctx))
	assert.NotZero(t, ta.in.Remaining())
}

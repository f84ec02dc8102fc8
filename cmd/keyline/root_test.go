package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestKeysListsDefaultEmacs(t *testing.T) {
	out, err := execute(t, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "kill-line")
	assert.Contains(t, out, `\C-k`)
}

func TestKeysNamedKeymap(t *testing.T) {
	out, err := execute(t, "keys", "vi-move")
	require.NoError(t, err)
	assert.Contains(t, out, "vi-delete-to")
}

func TestKeysUnknownKeymap(t *testing.T) {
	_, err := execute(t, "keys", "nano")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown keymap "nano"`)
}

func TestKeysIncludesBindingFile(t *testing.T) {
	dir := t.TempDir()
	bindings := filepath.Join(dir, "bindings.toml")
	require.NoError(t, os.WriteFile(bindings, []byte(`
[bindings.emacs]
"\\C-o" = { macro = "hello" }
`), 0o600))
	cfg := writeConfig(t, dir, `keybindings = "`+filepath.ToSlash(bindings)+`"`)

	out, err := execute(t, "--config", cfg, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, `macro "hello"`)
}

func TestKeysOperations(t *testing.T) {
	out, err := execute(t, "keys", "--operations")
	require.NoError(t, err)
	assert.Contains(t, out, "reverse-search-history\n")
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, `editing_mode = "vi"`)

	out, err := execute(t, "--config", cfg, "config", "show")
	require.NoError(t, err)
	assert.Regexp(t, `editing_mode = ['"]vi['"]`, out)
	assert.Contains(t, out, "[history]")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyline", "config.toml")
	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "--config", path, "config", "init")
	assert.Error(t, err)
}

func TestMissingConfigFails(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "keys")
	assert.Error(t, err)
}

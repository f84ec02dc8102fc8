package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "emacs", cfg.EditingMode)
	assert.Equal(t, 100, cfg.EscapeTimeout)
	assert.Equal(t, 500, cfg.History.MaxSize)
	assert.Equal(t, 100, cfg.Completion.AutoprintThreshold)
	assert.Equal(t, "#", cfg.CommentBegin)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "config.toml", `
editing_mode = "vi"
escape_timeout = 40
bell = false

[history]
max_size = 42
ignore_dups = false

[completion]
autoprint_threshold = 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vi", cfg.EditingMode)
	assert.Equal(t, 40, cfg.EscapeTimeout)
	assert.Equal(t, int64(40e6), cfg.EscapeTimeoutDuration().Nanoseconds())
	assert.False(t, cfg.Bell)
	assert.Equal(t, 42, cfg.History.MaxSize)
	assert.False(t, cfg.History.IgnoreDups)
	assert.True(t, cfg.History.Enabled, "unset keys keep defaults")
	assert.Equal(t, 7, cfg.Completion.AutoprintThreshold)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.toml", `editing_mode = "vi"`)
	t.Setenv("KEYLINE_EDITING_MODE", "emacs")
	t.Setenv("KEYLINE_HISTORY_MAX_SIZE", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "emacs", cfg.EditingMode)
	assert.Equal(t, 9, cfg.History.MaxSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "emacs", cfg.EditingMode)
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "config.toml", "editing_mode = = \n")
	_, err := Load(path)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, path, pe.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "config.toml", `
editing_mode = "nano"
escape_timeout = -1
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "editing_mode")
	assert.Contains(t, err.Error(), "escape_timeout")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"editing mode", func(c *Config) { c.EditingMode = "ed" }, "editing_mode"},
		{"history size", func(c *Config) { c.History.MaxSize = -5 }, "history.max_size"},
		{"paren blink", func(c *Config) { c.ParenBlinkTimeout = -1 }, "paren_blink_timeout"},
		{"autoprint", func(c *Config) { c.Completion.AutoprintThreshold = -1 }, "completion.autoprint_threshold"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.path, ve.Path)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandPath("~/x/y"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/abs", ExpandPath("/abs"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}

func TestWriteDefaultLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyline", "config.toml")
	require.NoError(t, WriteDefault(path))
	assert.Error(t, WriteDefault(path), "existing file is not overwritten")

	cfg, err := Load(path)
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.EditingMode, cfg.EditingMode)
	assert.Equal(t, want.EscapeTimeout, cfg.EscapeTimeout)
	assert.Equal(t, want.History.MaxSize, cfg.History.MaxSize)
	assert.Equal(t, want.Lua.Timeout, cfg.Lua.Timeout)
}

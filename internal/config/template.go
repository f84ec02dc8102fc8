package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultTemplate = `# keyline configuration

# "emacs" or "vi". vi starts in insert mode.
editing_mode = "emacs"

# Milliseconds to wait after ESC for the rest of a key sequence.
escape_timeout = 100

bell = true

# Key-binding file (.toml, .yaml or .json) and whether to reload it
# when it changes.
keybindings = "~/.config/keyline/bindings.toml"
watch_keybindings = true

# Expand !-style history references when a line is accepted.
expand_events = true

# Insert pasted tabs literally instead of completing.
copy_paste_detection = false

# Return an error on Ctrl-C instead of passing the character through.
handle_interrupt = true

comment_begin = "#"
paren_blink_timeout = 500

[history]
file = "~/.config/keyline/history"
max_size = 500
enabled = true
ignore_dups = true

[completion]
autoprint_threshold = 100

[lua]
# script = "~/.config/keyline/bindings.lua"
timeout = 2000

[log]
# file = "~/.config/keyline/keyline.log"
level = "info"
`

// DefaultTemplate returns a commented config file holding the defaults.
func DefaultTemplate() string {
	return defaultTemplate
}

// WriteDefault writes DefaultTemplate to path, creating its directory.
// An existing file is left alone.
func WriteDefault(path string) error {
	path = ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

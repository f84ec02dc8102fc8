// Package config loads keyline's settings.
//
// Settings come from three places, later ones winning:
//
//   - built-in defaults (Default)
//   - a TOML file, ~/.config/keyline/config.toml unless --config names another
//   - environment variables prefixed with KEYLINE_, with dots in a key
//     replaced by underscores (KEYLINE_HISTORY_MAX_SIZE)
//
// A minimal file:
//
//	editing_mode = "vi"
//	escape_timeout = 50
//
//	[history]
//	file = "~/.keyline_history"
//	max_size = 1000
//
// Key bindings live in their own file, named by the keybindings
// setting, so they can be reloaded while the editor runs. The watcher
// sub-package reports when that file changes.
package config

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "KEYLINE"

// Config holds every keyline setting.
type Config struct {
	// EditingMode is "emacs" or "vi".
	EditingMode string `mapstructure:"editing_mode" toml:"editing_mode"`
	// EscapeTimeout is how long, in milliseconds, to wait after ESC for
	// the rest of a key sequence.
	EscapeTimeout int  `mapstructure:"escape_timeout" toml:"escape_timeout"`
	Bell          bool `mapstructure:"bell" toml:"bell"`

	// Keybindings is the key-binding file. TOML, YAML and JSON are
	// accepted, by extension.
	Keybindings      string `mapstructure:"keybindings" toml:"keybindings"`
	WatchKeybindings bool   `mapstructure:"watch_keybindings" toml:"watch_keybindings"`

	History            HistoryConfig    `mapstructure:"history" toml:"history"`
	ExpandEvents       bool             `mapstructure:"expand_events" toml:"expand_events"`
	CopyPasteDetection bool             `mapstructure:"copy_paste_detection" toml:"copy_paste_detection"`
	HandleInterrupt    bool             `mapstructure:"handle_interrupt" toml:"handle_interrupt"`
	CommentBegin       string           `mapstructure:"comment_begin" toml:"comment_begin"`
	ParenBlinkTimeout  int              `mapstructure:"paren_blink_timeout" toml:"paren_blink_timeout"`
	Completion         CompletionConfig `mapstructure:"completion" toml:"completion"`
	Lua                LuaConfig        `mapstructure:"lua" toml:"lua"`
	Log                LogConfig        `mapstructure:"log" toml:"log"`
}

// HistoryConfig configures the history file.
type HistoryConfig struct {
	File       string `mapstructure:"file" toml:"file"`
	MaxSize    int    `mapstructure:"max_size" toml:"max_size"`
	Enabled    bool   `mapstructure:"enabled" toml:"enabled"`
	IgnoreDups bool   `mapstructure:"ignore_dups" toml:"ignore_dups"`
}

// CompletionConfig configures tab completion.
type CompletionConfig struct {
	// AutoprintThreshold is the candidate count above which the user
	// is asked before the list is printed.
	AutoprintThreshold int `mapstructure:"autoprint_threshold" toml:"autoprint_threshold"`
}

// LuaConfig configures the binding script.
type LuaConfig struct {
	Script string `mapstructure:"script" toml:"script"`
	// Timeout bounds each script run or callback, in milliseconds.
	Timeout int `mapstructure:"timeout" toml:"timeout"`
}

// LogConfig configures the log file. An empty file disables logging.
type LogConfig struct {
	File  string `mapstructure:"file" toml:"file"`
	Level string `mapstructure:"level" toml:"level"`
}

// Dir returns keyline's configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "keyline")
	}
	return filepath.Join(home, ".config", "keyline")
}

// DefaultPath returns the config file used when none is named.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns the built-in settings.
func Default() Config {
	dir := Dir()
	return Config{
		EditingMode:      "emacs",
		EscapeTimeout:    100,
		Bell:             true,
		Keybindings:      filepath.Join(dir, "bindings.toml"),
		WatchKeybindings: true,
		History: HistoryConfig{
			File:       filepath.Join(dir, "history"),
			MaxSize:    500,
			Enabled:    true,
			IgnoreDups: true,
		},
		ExpandEvents:       true,
		CopyPasteDetection: false,
		HandleInterrupt:    true,
		CommentBegin:       "#",
		ParenBlinkTimeout:  500,
		Completion:         CompletionConfig{AutoprintThreshold: 100},
		Lua:                LuaConfig{Timeout: 2000},
		Log:                LogConfig{Level: "info"},
	}
}

// setDefaults registers every default with v. Environment overrides
// only apply to keys viper knows about.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("editing_mode", d.EditingMode)
	v.SetDefault("escape_timeout", d.EscapeTimeout)
	v.SetDefault("bell", d.Bell)
	v.SetDefault("keybindings", d.Keybindings)
	v.SetDefault("watch_keybindings", d.WatchKeybindings)
	v.SetDefault("history.file", d.History.File)
	v.SetDefault("history.max_size", d.History.MaxSize)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.ignore_dups", d.History.IgnoreDups)
	v.SetDefault("expand_events", d.ExpandEvents)
	v.SetDefault("copy_paste_detection", d.CopyPasteDetection)
	v.SetDefault("handle_interrupt", d.HandleInterrupt)
	v.SetDefault("comment_begin", d.CommentBegin)
	v.SetDefault("paren_blink_timeout", d.ParenBlinkTimeout)
	v.SetDefault("completion.autoprint_threshold", d.Completion.AutoprintThreshold)
	v.SetDefault("lua.script", d.Lua.Script)
	v.SetDefault("lua.timeout", d.Lua.Timeout)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// Load reads the settings. An empty path reads DefaultPath if it
// exists; a named path must exist. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	path = ExpandPath(path)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("toml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) expandPaths() {
	c.Keybindings = ExpandPath(c.Keybindings)
	c.History.File = ExpandPath(c.History.File)
	c.Lua.Script = ExpandPath(c.Lua.Script)
	c.Log.File = ExpandPath(c.Log.File)
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

// Validate reports every setting keyline cannot use.
func (c *Config) Validate() error {
	var errs []error
	outOfRange := func(path string, v int) {
		if v < 0 {
			errs = append(errs, &ValidationError{
				Path: path, Message: "must not be negative", Value: v, Code: ErrCodeOutOfRange,
			})
		}
	}

	switch c.EditingMode {
	case "emacs", "vi":
	default:
		errs = append(errs, &ValidationError{
			Path: "editing_mode", Message: `must be "emacs" or "vi"`, Value: c.EditingMode, Code: ErrCodeInvalidEnum,
		})
	}
	outOfRange("escape_timeout", c.EscapeTimeout)
	outOfRange("paren_blink_timeout", c.ParenBlinkTimeout)
	outOfRange("history.max_size", c.History.MaxSize)
	outOfRange("completion.autoprint_threshold", c.Completion.AutoprintThreshold)
	outOfRange("lua.timeout", c.Lua.Timeout)

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{
			Path: "log.level", Message: "unknown level", Value: c.Log.Level, Code: ErrCodeInvalidEnum,
		})
	}
	return errors.Join(errs...)
}

// EscapeTimeoutDuration returns EscapeTimeout as a duration.
func (c *Config) EscapeTimeoutDuration() time.Duration {
	return time.Duration(c.EscapeTimeout) * time.Millisecond
}

// ParenBlinkDuration returns ParenBlinkTimeout as a duration.
func (c *Config) ParenBlinkDuration() time.Duration {
	return time.Duration(c.ParenBlinkTimeout) * time.Millisecond
}

// LuaTimeoutDuration returns Lua.Timeout as a duration.
func (c *Config) LuaTimeoutDuration() time.Duration {
	return time.Duration(c.Lua.Timeout) * time.Millisecond
}

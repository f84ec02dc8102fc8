package app

import (
	"os"

	"github.com/dshills/keyline/internal/config"
	"github.com/dshills/keyline/internal/config/watcher"
	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/logging"
	"github.com/dshills/keyline/internal/readline"
	"github.com/dshills/keyline/internal/terminal"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initTerminal,
		b.initHistory,
		b.initKeyMaps,
		b.initWatcher,
		b.initReader,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	opts := b.app.opts

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}

	if opts.EditingMode != "" {
		cfg.EditingMode = opts.EditingMode
	}
	if opts.LogFile != "" {
		cfg.Log.File = config.ExpandPath(opts.LogFile)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	b.app.cfg = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogging() error {
	cfg := b.app.cfg
	log, closer, err := logging.Open(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.log = log.WithComponent("app")
	b.app.logCloser = closer
	b.app.log.Info("starting, editing mode %s", cfg.EditingMode)
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

func (b *bootstrapper) initTerminal() error {
	opts := b.app.opts

	b.app.term = opts.Terminal
	if b.app.term == nil {
		b.app.term = terminal.New()
	}
	b.app.in = opts.Input
	if b.app.in == nil {
		b.app.in = terminal.NewFileInput(os.Stdin)
	}
	b.app.out = opts.Output
	if b.app.out == nil {
		b.app.out = os.Stdout
	}
	b.initOrder = append(b.initOrder, "terminal")
	return nil
}

// initHistory opens the history file. A history file that cannot be
// read leaves keyline with an in-memory history.
func (b *bootstrapper) initHistory() error {
	cfg := b.app.cfg.History
	hopts := []history.Option{
		history.WithMaxSize(cfg.MaxSize),
		history.WithIgnoreDups(cfg.IgnoreDups),
	}

	if cfg.File != "" {
		f, err := history.NewFile(cfg.File, hopts...)
		if err == nil {
			b.app.histFile = f
			b.app.history = f
			b.app.log.Debug("history %s: %d entries", cfg.File, f.Size())
			b.initOrder = append(b.initOrder, "history")
			return nil
		}
		b.app.warn(err)
	}

	b.app.history = history.NewMemory(hopts...)
	b.initOrder = append(b.initOrder, "history")
	return nil
}

// initKeyMaps builds the registry and applies the binding file and Lua
// script. Broken bindings are reported and skipped.
func (b *bootstrapper) initKeyMaps() error {
	b.app.keys = keymap.NewRegistry()
	if err := b.app.loadBindings(b.app.keys); err != nil {
		b.app.warn(err)
	}
	b.initOrder = append(b.initOrder, "keymaps")
	return nil
}

func (b *bootstrapper) initWatcher() error {
	cfg := b.app.cfg
	if !cfg.WatchKeybindings {
		return nil
	}

	paths := make([]string, 0, 2)
	for _, p := range []string{cfg.Keybindings, cfg.Lua.Script} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	w, err := watcher.New(watcher.WithLogger(b.app.log))
	if err != nil {
		b.app.warn(err)
		return nil
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			b.app.log.Warn("not watching %s: %v", p, err)
		}
	}
	w.OnChange(func(e watcher.Event) {
		b.app.log.Info("%s %s, reloading bindings before the next line", e.Path, e.Op)
		b.app.reloadPending.Store(true)
	})

	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

func (b *bootstrapper) initReader() error {
	cfg := b.app.cfg
	b.app.reader = readline.New(b.app.term, b.app.in, b.app.out,
		readline.WithLogger(b.app.log),
		readline.WithKeyMaps(b.app.keys),
		readline.WithEditingMode(cfg.EditingMode),
		readline.WithHistory(b.app.history),
		readline.WithHistoryEnabled(cfg.History.Enabled),
		readline.WithEscapeTimeout(cfg.EscapeTimeoutDuration()),
		readline.WithBell(cfg.Bell),
		readline.WithExpandEvents(cfg.ExpandEvents),
		readline.WithHandleUserInterrupt(cfg.HandleInterrupt),
		readline.WithCopyPasteDetection(cfg.CopyPasteDetection),
		readline.WithCommentBegin(cfg.CommentBegin),
		readline.WithParenBlinkTimeout(cfg.ParenBlinkDuration()),
		readline.WithAutoprintThreshold(cfg.Completion.AutoprintThreshold),
		readline.WithCompleter(readline.NewStringsCompleter(builtinNames()...)),
		readline.WithInitFileLoader(b.app.loadBindings),
	)
	b.initOrder = append(b.initOrder, "reader")
	return nil
}

// cleanup releases components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		case "keymaps":
			if b.app.lua != nil {
				_ = b.app.lua.Close()
				b.app.lua = nil
			}
		case "logging":
			if b.app.logCloser != nil {
				_ = b.app.logCloser.Close()
			}
		}
	}
}

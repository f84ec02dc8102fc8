// Package app wires keyline's pieces into a line-reading loop: settings,
// the terminal, history, key bindings, the Lua binding script and the
// binding-file watcher all meet in a readline.Reader here.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/keyline/internal/config"
	"github.com/dshills/keyline/internal/config/watcher"
	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/logging"
	"github.com/dshills/keyline/internal/plugin/lua"
	"github.com/dshills/keyline/internal/readline"
	"github.com/dshills/keyline/internal/terminal"
)

// DefaultPrompt is shown when Options.Prompt is empty.
const DefaultPrompt = "keyline> "

// Application reads lines until end of input, echoing each accepted
// line and running the built-in commands.
type Application struct {
	opts Options
	cfg  *config.Config

	log       *logging.Logger
	logCloser io.Closer

	term terminal.Terminal
	in   terminal.Input
	out  io.Writer

	keys     *keymap.Registry
	history  history.History
	histFile *history.File
	lua      *lua.Host
	watcher  *watcher.Watcher
	reader   *readline.Reader

	reloadPending atomic.Bool
	running       atomic.Bool
	closeOnce     sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the config file. Empty uses config.DefaultPath.
	ConfigPath string

	// Config replaces loading from ConfigPath.
	Config *config.Config

	// EditingMode overrides the configured editing mode when set.
	EditingMode string

	// LogFile and LogLevel override the configured log settings when
	// set. Debug forces the debug level.
	LogFile  string
	LogLevel string
	Debug    bool

	// Prompt is shown before each line.
	Prompt string

	// Terminal, Input and Output replace the process's terminal.
	Terminal terminal.Terminal
	Input    terminal.Input
	Output   io.Writer
}

// New creates an Application with all components started.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the settings in use.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Reader returns the line reader.
func (app *Application) Reader() *readline.Reader {
	return app.reader
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Run reads lines until end of input, a quit command or ctx is done.
// Cancelling ctx takes effect after the line being read is finished.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	for ctx.Err() == nil {
		app.applyPendingReload()

		line, err := app.reader.ReadLine(app.prompt(), nil)
		switch {
		case errors.Is(err, io.EOF):
			app.printf("\n")
			return nil
		case errors.Is(err, readline.ErrInterrupted):
			app.log.Debug("interrupted")
			continue
		case err != nil:
			return fmt.Errorf("reading line: %w", err)
		}

		if err := app.execute(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			app.printf("keyline: %v\n", err)
		}
	}
	return nil
}

// Close flushes history and stops every component. It is safe to call
// more than once.
func (app *Application) Close() error {
	var errs []error
	app.closeOnce.Do(func() {
		if app.watcher != nil {
			errs = append(errs, app.watcher.Close())
		}
		if app.histFile != nil {
			errs = append(errs, app.histFile.Flush())
		}
		if app.lua != nil {
			errs = append(errs, app.lua.Close())
		}
		app.log.Info("shutdown")
		if app.logCloser != nil {
			errs = append(errs, app.logCloser.Close())
		}
	})
	return errors.Join(errs...)
}

// Shutdown puts the terminal back the way it was found and closes the
// application. It is meant for signal handlers, which may fire while a
// line is being read.
func (app *Application) Shutdown() error {
	if err := app.term.Restore(); err != nil {
		app.log.Warn("restore terminal: %v", err)
	}
	return app.Close()
}

func (app *Application) prompt() string {
	if app.opts.Prompt != "" {
		return app.opts.Prompt
	}
	return DefaultPrompt
}

func (app *Application) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(app.out, format, args...)
}

// warn reports a problem that does not stop keyline.
func (app *Application) warn(err error) {
	app.log.Warn("%v", err)
	app.printf("keyline: %v\n", err)
}

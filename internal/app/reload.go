package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/plugin/lua"
)

// loadBindings rebuilds reg from the defaults, the binding file and the
// Lua script. The active keymap survives a reload. A missing binding
// file is not an error.
func (app *Application) loadBindings(reg *keymap.Registry) error {
	cfg := app.cfg
	active := ""
	if app.reader != nil {
		active = reg.CurrentName()
	}
	reg.Reset()

	var errs []error
	if path := cfg.Keybindings; path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := keymap.NewLoader().LoadAndApply(path, reg); err != nil {
				errs = append(errs, fmt.Errorf("key bindings: %w", err))
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("key bindings: %w", err))
		}
	}

	if app.lua != nil {
		_ = app.lua.Close()
		app.lua = nil
	}
	if path := cfg.Lua.Script; path != "" {
		host := lua.NewHost(reg, app.log, lua.WithExecutionTimeout(cfg.LuaTimeoutDuration()))
		if err := host.LoadFile(path); err != nil {
			errs = append(errs, err)
		}
		app.lua = host
	}

	if active != "" {
		reg.SetKeyMap(active)
	}
	if len(errs) == 0 {
		app.log.Debug("bindings loaded")
	}
	return errors.Join(errs...)
}

// applyPendingReload reloads bindings changed on disk since the last
// line.
func (app *Application) applyPendingReload() {
	if !app.reloadPending.CompareAndSwap(true, false) {
		return
	}
	if err := app.loadBindings(app.keys); err != nil {
		app.warn(err)
		return
	}
	app.log.Info("bindings reloaded")
}

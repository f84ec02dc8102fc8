package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/keyline/internal/input/key"
	"github.com/dshills/keyline/internal/input/keymap"
)

type builtin struct {
	usage string
	run   func(app *Application, args []string) error
}

var builtins map[string]builtin

// Assigned in init because help lists builtins itself.
func init() {
	builtins = map[string]builtin{
		"exit":     {"exit", func(*Application, []string) error { return ErrQuit }},
		"quit":     {"quit", func(*Application, []string) error { return ErrQuit }},
		"help":     {"help", (*Application).cmdHelp},
		"history":  {"history [n]", (*Application).cmdHistory},
		"set":      {"set editing-mode emacs|vi", (*Application).cmdSet},
		"bindings": {"bindings [keymap]", (*Application).cmdBindings},
		"reload":   {"reload", (*Application).cmdReload},
	}
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// execute runs a built-in command, or echoes any other line.
func (app *Application) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if b, ok := builtins[fields[0]]; ok {
		app.log.Debug("builtin %s", fields[0])
		return b.run(app, fields[1:])
	}
	app.printf("%s\n", line)
	return nil
}

func (app *Application) cmdHelp([]string) error {
	for _, name := range builtinNames() {
		app.printf("  %s\n", builtins[name].usage)
	}
	return nil
}

// cmdHistory lists entries with the numbers !n refers to.
func (app *Application) cmdHistory(args []string) error {
	h := app.history
	first := h.First()
	end := first + h.Size()

	start := first
	if len(args) > 0 {
		var n int
		if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 0 {
			return fmt.Errorf("history: bad count %q", args[0])
		}
		start = max(first, end-n)
	}
	for i := start; i < end; i++ {
		app.printf("%5d  %s\n", i+1, h.Get(i))
	}
	return nil
}

func (app *Application) cmdSet(args []string) error {
	if len(args) != 2 || args[0] != "editing-mode" {
		return fmt.Errorf("usage: %s", builtins["set"].usage)
	}
	switch args[1] {
	case "emacs":
		app.keys.SetKeyMap(keymap.Emacs)
	case "vi":
		app.keys.SetKeyMap(keymap.ViInsert)
	default:
		return fmt.Errorf("unknown editing mode %q", args[1])
	}
	app.log.Info("editing mode %s", args[1])
	return nil
}

// cmdBindings prints the bindings of a keymap, the active one by
// default, in the notation binding files use.
func (app *Application) cmdBindings(args []string) error {
	name := app.keys.CurrentName()
	if len(args) > 0 {
		name = args[0]
	}
	km := app.keys.Get(name)
	if km == nil {
		return fmt.Errorf("unknown keymap %q (have %s)", name, strings.Join(app.keys.Names(), ", "))
	}
	for _, b := range km.Bindings() {
		app.printf("%-16s %s\n", key.Format(b.Keys), b.Slot)
	}
	return nil
}

func (app *Application) cmdReload([]string) error {
	if err := app.loadBindings(app.keys); err != nil {
		return err
	}
	app.printf("bindings reloaded\n")
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keyline/internal/config"
	"github.com/dshills/keyline/internal/input/key"
	"github.com/dshills/keyline/internal/input/keymap"
	"github.com/dshills/keyline/internal/plugin/lua"
)

func newKeysCmd(f *rootFlags) *cobra.Command {
	var listOps bool

	cmd := &cobra.Command{
		Use:   "keys [keymap]",
		Short: "List key bindings",
		Long: `List the bindings of a keymap, including those from the binding file
and the Lua script. Without an argument the configured editing mode's
keymap is listed.

Examples:
  keyline keys
  keyline keys vi-move
  keyline keys --operations`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listOps {
				for _, op := range keymap.Operations() {
					fmt.Fprintln(out, op)
				}
				return nil
			}

			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			name := reg.CurrentName()
			if len(args) > 0 {
				name = args[0]
			}
			km := reg.Get(name)
			if km == nil {
				return fmt.Errorf("unknown keymap %q (have %s)", name, strings.Join(reg.Names(), ", "))
			}
			for _, b := range km.Bindings() {
				fmt.Fprintf(out, "%-16s %s\n", key.Format(b.Keys), b.Slot)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&listOps, "operations", false, "list operation names usable in binding files")
	return cmd
}

// loadRegistry builds the keymaps the editor would start with.
func loadRegistry(cfg *config.Config) (*keymap.Registry, error) {
	reg := keymap.NewRegistry()

	if _, err := os.Stat(cfg.Keybindings); err == nil {
		if err := keymap.NewLoader().LoadAndApply(cfg.Keybindings, reg); err != nil {
			return nil, err
		}
	} else if cfg.Keybindings != "" && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if cfg.Lua.Script != "" {
		host := lua.NewHost(reg, nil, lua.WithExecutionTimeout(cfg.LuaTimeoutDuration()))
		defer host.Close()
		if err := host.LoadFile(cfg.Lua.Script); err != nil {
			return nil, err
		}
	}

	if cfg.EditingMode == "vi" {
		reg.SetKeyMap(keymap.ViInsert)
	}
	return reg, nil
}

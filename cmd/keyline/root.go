package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/keyline/internal/app"
)

type rootFlags struct {
	configPath  string
	editingMode string
	logFile     string
	logLevel    string
	debug       bool
	prompt      string
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	root := &cobra.Command{
		Use:   "keyline",
		Short: "An emacs and vi style line editor",
		Long: `keyline reads lines with emacs or vi key bindings, history, incremental
search and completion, and echoes each accepted line.

Built-in commands: help, history [n], set editing-mode emacs|vi,
bindings [keymap], reload, exit.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, f)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&f.configPath, "config", "c", "",
		"config file (default: ~/.config/keyline/config.toml)")
	flags.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	flags.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVarP(&f.debug, "debug", "d", false, "log at debug level")

	root.Flags().StringVarP(&f.editingMode, "editing-mode", "m", "", `"emacs" or "vi"`)
	root.Flags().StringVarP(&f.prompt, "prompt", "p", app.DefaultPrompt, "prompt shown before each line")

	root.AddCommand(newKeysCmd(&f), newConfigCmd(&f))
	return root
}

func runREPL(cmd *cobra.Command, f rootFlags) error {
	application, err := app.New(app.Options{
		ConfigPath:  f.configPath,
		EditingMode: f.editingMode,
		LogFile:     f.logFile,
		LogLevel:    f.logLevel,
		Debug:       f.debug,
		Prompt:      f.prompt,
		Output:      cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("starting keyline: %w", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	// A signal arrives while a line is being read, so the terminal
	// has to be put back here rather than by Run.
	go func() {
		<-ctx.Done()
		if application.IsRunning() {
			_ = application.Shutdown()
			os.Exit(1)
		}
	}()

	return application.Run(ctx)
}

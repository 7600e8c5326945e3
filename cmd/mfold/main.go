// Package main implements mfold, a terminal viewer that folds files by
// indentation, plus headless subcommands that print folded outlines.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TimelordUK/mfold/internal/config"
	"github.com/TimelordUK/mfold/internal/logging"
	"github.com/TimelordUK/mfold/internal/ui"
)

var version = "dev"

// options are the flags shared by every command
type options struct {
	configPath string
	tabSize    int
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "mfold <file>",
		Short: "View a file with indentation based folding",
		Long: `mfold opens a file in a pager where blocks can be folded by indentation.

Examples:
  # Browse a file
  mfold main.py

  # Treat tabs as 8 columns
  mfold --tab-size 8 Makefile

  # Print the outline left after folding everything except line 120
  mfold except --lines 120 main.py`,
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(opts, args[0])
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.GetConfigPath()+")")
	root.PersistentFlags().IntVar(&opts.tabSize, "tab-size", 0, "columns per tab stop (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		newLevelsCmd(opts),
		newChildrenCmd(opts),
		newFoldCmd(opts),
		newExceptCmd(opts),
		newLevelCmd(opts),
		newParentCmd(opts),
	)
	return root
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.tabSize != 0 {
		cfg.Display.TabWidth = opts.tabSize
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runViewer(opts *options, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	model, err := ui.NewModel(path, cfg, logger)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

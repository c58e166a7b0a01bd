package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/linkuprefs/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI",
	Long: `Launch the interactive terminal user interface for editing preferences.

The TUI follows the theme preference: its colors change as soon as the
theme is changed, here or by the desktop when the theme is "system".

Key bindings:
  j/k, ↑/↓    Navigate list
  enter, e    Edit the selected preference as JSON
  space, tab  Cycle to the next allowed value
  t           Cycle the theme
  r / R       Reset the selected / all preferences
  c           Copy the selected value to clipboard
  C / alt+c   Copy all preferences as JSON / YAML
  /           Filter preferences
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Config:   cfg,
		Settings: prefs,
		Detector: detector,
		Changes:  changes,
		Logger:   logger,
	})
}

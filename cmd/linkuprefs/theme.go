package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/linkuprefs/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the stored and resolved theme",
	Long: `Show the stored theme preference, the theme it resolves to, and the
detector used to resolve "system".`,
	Args: cobra.NoArgs,
	RunE: runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	applier := theme.NewApplier(theme.NewClassList(), detector, logger)
	unsubscribe := applier.Register(prefs.Theme)
	defer unsubscribe()

	printf(cmd, "stored:   %s\n", prefs.Theme.Get())
	printf(cmd, "resolved: %s\n", applier.Resolved())
	printf(cmd, "detector: %s\n", applier.DetectorName())
	return nil
}

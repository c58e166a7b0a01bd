package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetOpts struct {
	all bool
}

var resetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore preferences to their defaults",
	Long: `Restore one preference, or all of them with --all, to the default value.
The default is written to the medium like any other change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&resetOpts.all, "all", "a", false,
		"Reset every preference")
}

func runReset(cmd *cobra.Command, args []string) error {
	if resetOpts.all {
		if len(args) > 0 {
			return fmt.Errorf("--all cannot be combined with a key")
		}
		return prefs.ResetAll()
	}

	if len(args) == 0 {
		return fmt.Errorf("a key or --all is required")
	}

	e, err := prefs.Lookup(args[0])
	if err != nil {
		return err
	}
	return e.Reset()
}

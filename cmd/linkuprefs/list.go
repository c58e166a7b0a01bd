package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/linkuprefs/internal/adapter/output"
)

var listOpts struct {
	format string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List preferences with defaults and write times",
	Long: `List every preference with its current value, its default, and when
it was last written.

Preferences that were never written show their default. Write times are
only known for the file and sqlite backends.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, keys)")
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listOpts.format)
	if err != nil {
		return err
	}

	records := buildRecords(prefs.Entries(), describer())
	return output.NewFormatter(format, output.DefaultFormatterOptions()).Format(cmd.OutOrStdout(), records)
}

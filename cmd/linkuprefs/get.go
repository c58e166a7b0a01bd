package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/linkuprefs/internal/adapter/output"
	"github.com/jmylchreest/linkuprefs/internal/medium"
	"github.com/jmylchreest/linkuprefs/internal/settings"
)

var getOpts struct {
	format   string
	template string
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print preference values",
	Long: `Print the current value of one preference, or of all of them.

With a key, only the value is printed, which makes the output easy to use
in scripts. Strings print bare, other values as JSON.

Examples:
  # Show every preference
  linkuprefs get

  # Print the stored theme
  linkuprefs get theme

  # Export everything as YAML
  linkuprefs get --format yaml

  # Custom line format
  linkuprefs get --template '{{.Key}}={{value .Value}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, keys)")
	getCmd.Flags().StringVar(&getOpts.template, "template", "",
		"Go template for plain output")
}

func runGet(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(getOpts.format)
	if err != nil {
		return err
	}

	entries := prefs.Entries()
	valueOnly := false
	if len(args) == 1 {
		e, err := prefs.Lookup(args[0])
		if err != nil {
			return err
		}
		entries = []settings.Entry{e}
		valueOnly = true
	}

	opts := output.FormatterOptions{
		Template:    getOpts.template,
		ShowDefault: true,
		ValueOnly:   valueOnly,
	}
	records := buildRecords(entries, nil)
	return output.NewFormatter(format, opts).Format(cmd.OutOrStdout(), records)
}

// buildRecords snapshots entries for output. When d is set, records carry
// the revision and write time of the stored payload.
func buildRecords(entries []settings.Entry, d medium.Describer) []output.Record {
	records := make([]output.Record, 0, len(entries))
	for _, e := range entries {
		r := output.Record{
			Key:     e.Key(),
			Value:   e.Value(),
			Default: e.DefaultValue(),
		}
		if d != nil {
			if stored, ok, err := d.Entry(e.Key()); err == nil && ok {
				r.Stored = true
				r.Revision = stored.Revision
				r.UpdatedAt = stored.UpdatedAt
			} else if err != nil {
				logger.Debug("failed to describe stored value", "key", e.Key(), "error", err)
			}
		}
		records = append(records, r)
	}
	return records
}

// describer returns the registry's medium when it keeps write metadata.
func describer() medium.Describer {
	if registry == nil {
		return nil
	}
	d, _ := registry.Medium().(medium.Describer)
	return d
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

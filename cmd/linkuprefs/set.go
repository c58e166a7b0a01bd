package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/linkuprefs/internal/persisted"
	"github.com/jmylchreest/linkuprefs/internal/settings"
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Long: `Change a preference and write it to the configured medium.

The value is JSON. A bare word that is not valid JSON is taken as a
string, so quotes can be left off for string preferences.

Examples:
  linkuprefs set theme dark
  linkuprefs set autoplay true
  linkuprefs set categories '[{"name":"core","shown":true},{"name":"common","shown":false},{"name":"uncommon","shown":false},{"name":"obscure","shown":false}]'`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	e, err := prefs.Lookup(args[0])
	if err != nil {
		return err
	}

	err = e.SetJSON(settings.RawJSON(args[1]))
	if errors.Is(err, persisted.ErrPersist) {
		return fmt.Errorf("%s was not saved: %w", e.Key(), err)
	}
	if err != nil {
		return err
	}

	logger.Debug("preference changed", "key", e.Key(), "value", e.Value())
	return nil
}

// Package seed handles loading bank-wide rules from YAML
package seed

import (
	"github.com/spf13/cobra"

	"github.com/appContable/statement-core/cmd/root"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/rulestore"
)

var rulesFile string

// Cmd represents the seed command
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Load bank-wide categorization rules from a YAML file",
	Long: `Load bank-wide categorization rules from a YAML file into the store.

Seeding is idempotent: a rule that already exists for the same bank and
pattern is left untouched, so the file can be re-applied after edits.

Example:
  statement-core seed --file bank-rules.yaml`,
	RunE: seedFunc,
}

func init() {
	Cmd.Flags().StringVar(&rulesFile, "file", "", "Rules YAML file (default from config)")
}

func seedFunc(cmd *cobra.Command, args []string) error {
	path := rulesFile
	if path == "" {
		path = root.Cfg.Seed.RulesFile
	}

	rules, err := rulestore.LoadSeedFile(path)
	if err != nil {
		return err
	}

	inserted, err := root.GetContainer().Rules.SeedBankRules(cmd.Context(), rules)
	if err != nil {
		return err
	}

	root.Log.Info("Seed completed",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "rules_in_file", Value: len(rules)},
		logging.Field{Key: "rules_inserted", Value: inserted})
	return nil
}

// Package rules handles rule inspection and maintenance commands
package rules

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appContable/statement-core/cmd/root"
	"github.com/appContable/statement-core/internal/logging"
)

var (
	includeInactive bool
	deactivateID    string
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "List or deactivate user categorization rules",
	Long: `List the categorization rules of a user for a bank, or deactivate one.

By default only active rules are shown; --all includes deactivated ones.
A deactivated rule is kept for audit but no longer matches.

Example:
  statement-core rules -u maria -b pichincha --all
  statement-core rules -u maria -b pichincha --deactivate 6a1f...`,
	RunE: rulesFunc,
}

func init() {
	Cmd.Flags().BoolVar(&includeInactive, "all", false, "Include deactivated rules")
	Cmd.Flags().StringVar(&deactivateID, "deactivate", "", "Deactivate the rule with this id")
}

func rulesFunc(cmd *cobra.Command, args []string) error {
	if err := root.RequireUserAndBank(); err != nil {
		return err
	}

	store := root.GetContainer().Rules

	if deactivateID != "" {
		if err := store.DeactivateUserRule(cmd.Context(), root.SharedFlags.User, deactivateID); err != nil {
			return err
		}
		root.Log.Info("Rule deactivated",
			logging.Field{Key: "user", Value: root.SharedFlags.User},
			logging.Field{Key: "rule", Value: deactivateID})
		return nil
	}

	list, err := store.ListUserRules(cmd.Context(), root.SharedFlags.User, root.SharedFlags.Bank, includeInactive)
	if err != nil {
		return err
	}

	out, closeOut, err := root.OpenOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	return nil
}

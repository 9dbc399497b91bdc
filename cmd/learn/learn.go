// Package learn handles user rule learning commands
package learn

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appContable/statement-core/cmd/root"
	"github.com/appContable/statement-core/internal/categorizer"
	"github.com/appContable/statement-core/internal/models"
)

var (
	pattern     string
	patternType string
	category    string
	subcategory string
	priority    int
)

// Cmd represents the learn command
var Cmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn a categorization rule from a user correction",
	Long: `Create or update a per-user categorization rule.

The rule is keyed by (user, bank, pattern, pattern type): repeating the
command with the same key updates the category of the existing rule
instead of creating a duplicate.

Example:
  statement-core learn -u maria -b pichincha --pattern "PAGO TARJETA" --category Gastos --subcategory Tarjetas`,
	RunE: learnFunc,
}

func init() {
	Cmd.Flags().StringVar(&pattern, "pattern", "", "Pattern to match against transaction descriptions")
	Cmd.Flags().StringVar(&patternType, "type", string(models.MatchContains), "Pattern type: contains, starts-with, ends-with, equals or regex")
	Cmd.Flags().StringVar(&category, "category", "", "Category to assign on match")
	Cmd.Flags().StringVar(&subcategory, "subcategory", "", "Optional subcategory")
	Cmd.Flags().IntVar(&priority, "priority", 0, "Rule priority, lower wins (default 100)")
}

func learnFunc(cmd *cobra.Command, args []string) error {
	if err := root.RequireUserAndBank(); err != nil {
		return err
	}

	rule, err := root.GetContainer().Engine.Learn(cmd.Context(), categorizer.LearnRequest{
		UserID:      root.SharedFlags.User,
		Bank:        root.SharedFlags.Bank,
		Pattern:     pattern,
		PatternType: models.PatternType(patternType),
		Category:    category,
		Subcategory: subcategory,
		Priority:    priority,
	})
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
	if err := enc.Encode(rule); err != nil {
		return fmt.Errorf("failed to encode rule: %w", err)
	}
	return nil
}

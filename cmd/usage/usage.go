// Package usage handles quota inspection commands
package usage

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appContable/statement-core/cmd/root"
)

// Cmd represents the usage command
var Cmd = &cobra.Command{
	Use:   "usage",
	Short: "Show quota usage for a user in the current month",
	Long: `Show how many statements a user has parsed in the current UTC calendar
month, the configured monthly limit and the remaining allowance.

Example:
  statement-core usage -u maria`,
	RunE: usageFunc,
}

type report struct {
	UserID    string `json:"userId"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}

func usageFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.User == "" {
		return fmt.Errorf("--user is required")
	}

	guard := root.GetContainer().Guard
	used, remaining, err := guard.Usage(cmd.Context(), root.SharedFlags.User)
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
	if err := enc.Encode(report{
		UserID:    root.SharedFlags.User,
		Used:      used,
		Limit:     guard.Limit(),
		Remaining: remaining,
		Unlimited: guard.Limit() <= 0,
	}); err != nil {
		return fmt.Errorf("failed to encode usage report: %w", err)
	}
	return nil
}

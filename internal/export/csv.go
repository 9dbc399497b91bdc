// Package export renders parse results for output: a flat CSV of
// categorized transactions alongside the canonical JSON envelope.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/appContable/statement-core/internal/models"
)

// csvRow is the flat CSV projection of one transaction.
type csvRow struct {
	Account     string `csv:"Account"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Balance     string `csv:"Balance"`
	Category    string `csv:"Category"`
	Subcategory string `csv:"Subcategory"`
	Source      string `csv:"CategorySource"`
}

// WriteCSV writes every transaction of the result as CSV rows, statement
// order preserved. The delimiter is passed in; there is no global setting.
func WriteCSV(out io.Writer, result *models.ParseResult, delimiter rune) error {
	var rows []csvRow
	for _, account := range result.Statement.Accounts {
		for _, tx := range account.Transactions {
			row := csvRow{
				Account:     account.Account,
				Date:        tx.Date.String(),
				Description: tx.Description,
				Amount:      tx.Amount.StringFixed(2),
				Category:    tx.Category,
				Subcategory: tx.Subcategory,
				Source:      string(tx.CategorySource),
			}
			if tx.Balance != nil {
				row.Balance = tx.Balance.StringFixed(2)
			}
			rows = append(rows, row)
		}
	}

	writer := csv.NewWriter(out)
	writer.Comma = delimiter
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

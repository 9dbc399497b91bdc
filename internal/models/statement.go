package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is the date range a statement covers, when the document declares one.
type Period struct {
	From Date `json:"from,omitempty"`
	To   Date `json:"to,omitempty"`
}

// AccountStatement holds one account's entries in source-document order,
// together with the declared opening and closing balances when present.
type AccountStatement struct {
	Account        string           `json:"account"`
	OpeningBalance *decimal.Decimal `json:"openingBalance,omitempty"`
	ClosingBalance *decimal.Decimal `json:"closingBalance,omitempty"`
	Reconciled     bool             `json:"reconciled"`
	Transactions   []Transaction    `json:"transactions"`
}

// Sum returns the signed sum of all transaction amounts.
func (a *AccountStatement) Sum() decimal.Decimal {
	total := decimal.Zero
	for i := range a.Transactions {
		total = total.Add(a.Transactions[i].Amount)
	}
	return total
}

// BankStatement is the provisional output of a bank parser: one PDF text may
// contain several accounts.
type BankStatement struct {
	Bank     string             `json:"bank"`
	Period   Period             `json:"period"`
	Accounts []AccountStatement `json:"accounts"`
}

// ParseStats carries skip diagnostics accumulated while walking the document.
type ParseStats struct {
	LinesSeen    int `json:"linesSeen"`
	LinesSkipped int `json:"linesSkipped"`
	RowsDecoded  int `json:"rowsDecoded"`
	RowsSkipped  int `json:"rowsSkipped"`
}

// SkipRatio is the fraction of candidate transaction rows that failed to
// decode. Zero when no rows were seen.
func (s ParseStats) SkipRatio() float64 {
	total := s.RowsDecoded + s.RowsSkipped
	if total == 0 {
		return 0
	}
	return float64(s.RowsSkipped) / float64(total)
}

// ParseResult is the unit returned to the caller: the assembled statement
// plus parse metadata. It is never persisted by the core.
type ParseResult struct {
	Statement BankStatement `json:"statement"`
	Bank      string        `json:"bank"`
	UserID    string        `json:"userId"`
	ParsedAt  time.Time     `json:"parsedAt"`
	Stats     ParseStats    `json:"stats"`
}

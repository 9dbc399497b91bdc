// Package assembler turns a provisional bank parse into the final result
// envelope: source-order transactions, per-account balance reconciliation
// flags and parse metadata.
package assembler

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
)

// centUnit is the smallest currency unit; the reconciliation tolerance is
// one cent per transaction to absorb per-row rounding.
var centUnit = decimal.New(1, -2)

// Assembler finalizes provisional statements. It never touches category
// fields; the categorization engine is their sole writer.
type Assembler struct {
	logger logging.Logger
	now    func() time.Time
}

// New creates an Assembler. The clock is injectable for tests.
func New(logger logging.Logger) *Assembler {
	return &Assembler{logger: logger, now: time.Now}
}

// WithClock overrides the timestamp source.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble sorts each account's transactions back into source order,
// computes reconciliation flags and stamps parse metadata.
func (a *Assembler) Assemble(stmt *models.BankStatement, userID string, stats models.ParseStats) *models.ParseResult {
	for i := range stmt.Accounts {
		account := &stmt.Accounts[i]

		// Source order is authoritative: some banks list entries in
		// reverse chronological order, so we never re-sort by date.
		sort.SliceStable(account.Transactions, func(x, y int) bool {
			return account.Transactions[x].Position < account.Transactions[y].Position
		})

		account.Reconciled = a.reconciles(account)
	}

	return &models.ParseResult{
		Statement: *stmt,
		Bank:      stmt.Bank,
		UserID:    userID,
		ParsedAt:  a.now().UTC(),
		Stats:     stats,
	}
}

// reconciles checks opening + sum(amounts) against closing within the
// tolerance. Accounts missing either balance are reported as reconciled so
// the flag only ever signals a genuine mismatch.
func (a *Assembler) reconciles(account *models.AccountStatement) bool {
	if account.OpeningBalance == nil || account.ClosingBalance == nil {
		return true
	}

	expected := account.OpeningBalance.Add(account.Sum())
	diff := expected.Sub(*account.ClosingBalance).Abs()
	tolerance := centUnit.Mul(decimal.NewFromInt(int64(max(len(account.Transactions), 1))))

	if diff.GreaterThan(tolerance) {
		a.logger.Warn("Account balances do not reconcile",
			logging.Field{Key: "account", Value: account.Account},
			logging.Field{Key: "expected", Value: expected.String()},
			logging.Field{Key: "closing", Value: account.ClosingBalance.String()})
		return false
	}
	return true
}

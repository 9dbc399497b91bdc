package parser

import (
	"github.com/shopspring/decimal"

	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parsererror"
)

// StatementBuilder accumulates the state machine every bank parser walks:
// BeforeAccount until an account header appears, then InAccount gathering
// rows and balances, re-entering BeforeAccount on the next header.
type StatementBuilder struct {
	stmt    models.BankStatement
	current *models.AccountStatement
	stats   models.ParseStats
	pos     int
}

// NewStatementBuilder starts an empty statement for the given bank code.
func NewStatementBuilder(bank string) *StatementBuilder {
	return &StatementBuilder{stmt: models.BankStatement{Bank: bank}}
}

// InAccount reports whether an account section is open.
func (b *StatementBuilder) InAccount() bool {
	return b.current != nil
}

// StartAccount closes any open account and opens a new one.
func (b *StatementBuilder) StartAccount(label string) {
	b.closeAccount()
	b.current = &models.AccountStatement{Account: label}
}

// SetPeriod records the statement period.
func (b *StatementBuilder) SetPeriod(from, to models.Date) {
	b.stmt.Period = models.Period{From: from, To: to}
}

// SetOpeningBalance records the opening balance of the open account.
func (b *StatementBuilder) SetOpeningBalance(balance decimal.Decimal) {
	if b.current != nil {
		b.current.OpeningBalance = &balance
	}
}

// SetClosingBalance records the closing balance of the open account.
func (b *StatementBuilder) SetClosingBalance(balance decimal.Decimal) {
	if b.current != nil {
		b.current.ClosingBalance = &balance
	}
}

// AddTransaction appends a decoded row to the open account, preserving
// source order via the position index.
func (b *StatementBuilder) AddTransaction(tx models.Transaction) {
	if b.current == nil {
		// Transaction rows outside an account section count as skipped.
		b.stats.RowsSkipped++
		return
	}
	tx.Position = b.pos
	tx.CategorySource = models.SourceNone
	b.pos++
	b.stats.RowsDecoded++
	b.current.Transactions = append(b.current.Transactions, tx)
}

// NoteLine counts a consumed input line.
func (b *StatementBuilder) NoteLine() {
	b.stats.LinesSeen++
}

// NoteNoise counts a line classified as noise.
func (b *StatementBuilder) NoteNoise() {
	b.stats.LinesSkipped++
}

// NoteRowSkipped counts a transaction row that failed to decode.
func (b *StatementBuilder) NoteRowSkipped() {
	b.stats.RowsSkipped++
}

func (b *StatementBuilder) closeAccount() {
	if b.current != nil {
		b.stmt.Accounts = append(b.stmt.Accounts, *b.current)
		b.current = nil
	}
}

// Finish closes the open account and applies the structural checks: a
// non-empty document must yield at least one transaction, and the row skip
// ratio must stay under maxSkipRatio.
func (b *StatementBuilder) Finish(nonEmptyInput bool, maxSkipRatio float64) (*models.BankStatement, *models.ParseStats, error) {
	b.closeAccount()
	stats := b.stats

	if nonEmptyInput && stats.RowsDecoded == 0 {
		return nil, &stats, &parsererror.UnparseableDocumentError{
			Bank:        b.stmt.Bank,
			Reason:      "no transactions recovered",
			RowsDecoded: stats.RowsDecoded,
			RowsSkipped: stats.RowsSkipped,
		}
	}
	if ratio := stats.SkipRatio(); ratio > maxSkipRatio {
		return nil, &stats, &parsererror.UnparseableDocumentError{
			Bank:        b.stmt.Bank,
			Reason:      "too many undecodable rows",
			RowsDecoded: stats.RowsDecoded,
			RowsSkipped: stats.RowsSkipped,
		}
	}

	stmt := b.stmt
	return &stmt, &stats, nil
}

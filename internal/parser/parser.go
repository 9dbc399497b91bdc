// Package parser defines the contract every bank statement parser
// implements, the line classification primitives they share, and the static
// registry that dispatches a bank code to its parser. Adding a bank means
// registering a new implementation; the dispatch logic never changes.
package parser

import (
	"context"

	"github.com/appContable/statement-core/internal/models"
)

// LineKind classifies one line of extracted statement text. Classifiers are
// pure functions and never fail: anything unrecognized is noise.
type LineKind int

const (
	// LineNoise is an unrecognized line, skipped and counted.
	LineNoise LineKind = iota
	// LineAccountHeader opens a new account section.
	LineAccountHeader
	// LineTransaction is a candidate transaction row.
	LineTransaction
	// LineBalance is an opening/closing balance or other footer line.
	LineBalance
)

// Options tune parser behavior.
type Options struct {
	// MaxSkipRatio is the tolerated fraction of transaction rows that fail
	// to decode before the whole parse is rejected.
	MaxSkipRatio float64
}

// DefaultMaxSkipRatio applies when Options leaves MaxSkipRatio unset.
const DefaultMaxSkipRatio = 0.5

// WithDefaults fills unset options.
func (o Options) WithDefaults() Options {
	if o.MaxSkipRatio <= 0 {
		o.MaxSkipRatio = DefaultMaxSkipRatio
	}
	return o
}

// Parser consumes the full extracted text of one statement and produces a
// provisional BankStatement plus skip diagnostics. Implementations own the
// bank-specific column layout and date/amount formats.
type Parser interface {
	// Bank returns the bank code this parser handles.
	Bank() string

	// Parse walks the text stream and recovers accounts and transactions.
	// Malformed rows are skipped and counted, not fatal, unless the skip
	// ratio crosses Options.MaxSkipRatio.
	Parse(ctx context.Context, text string) (*models.BankStatement, *models.ParseStats, error)
}

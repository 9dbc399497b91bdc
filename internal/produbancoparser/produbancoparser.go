// Package produbancoparser parses Produbanco statement text. Amounts use
// comma decimals with dot grouping ("1.234,56"), debits are wrapped in
// parentheses, and dates carry Spanish month abbreviations ("02-MAR-2024").
package produbancoparser

import (
	"context"
	"regexp"
	"strings"

	"github.com/appContable/statement-core/internal/amountutils"
	"github.com/appContable/statement-core/internal/dateutils"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parser"
)

// BankCode is the registry key for this parser.
const BankCode = "produbanco"

func init() {
	parser.Register(BankCode, func(logger logging.Logger, opts parser.Options) parser.Parser {
		return &Parser{logger: logger, opts: opts}
	})
}

// Parser implements parser.Parser for Produbanco statements.
type Parser struct {
	logger logging.Logger
	opts   parser.Options
}

const amountExpr = `\((?:[\d.]+,\d{2})\)|[\d.]+,\d{2}`

var (
	accountPattern = regexp.MustCompile(`^CTA\.?\s*(?:NRO\.?\s*)?([0-9]+)\s*-\s*(CORRIENTE|AHORROS)`)
	periodPattern  = regexp.MustCompile(`PERIODO:?\s+(\d{2}-[A-Z]{3}-\d{4})\s+AL?\s+(\d{2}-[A-Z]{3}-\d{4})`)
	openingPattern = regexp.MustCompile(`^SALDO ANTERIOR:?\s+(` + amountExpr + `)\s*$`)
	closingPattern = regexp.MustCompile(`^SALDO ACTUAL:?\s+(` + amountExpr + `)\s*$`)
	txnPattern     = regexp.MustCompile(`^(\d{2}-[A-Z]{3}-\d{4})\s+(.+?)\s+(` + amountExpr + `)(?:\s+(` + amountExpr + `))?\s*$`)
)

var amountStyle = amountutils.Style{DecimalComma: true, ParenNegative: true}

// Bank returns the bank code.
func (p *Parser) Bank() string {
	return BankCode
}

// Classify recognizes the structural role of one line.
func Classify(line string) parser.LineKind {
	switch {
	case accountPattern.MatchString(line):
		return parser.LineAccountHeader
	case openingPattern.MatchString(line) || closingPattern.MatchString(line):
		return parser.LineBalance
	case txnPattern.MatchString(line):
		return parser.LineTransaction
	default:
		return parser.LineNoise
	}
}

// Parse walks the statement text and recovers accounts and transactions.
func (p *Parser) Parse(ctx context.Context, text string) (*models.BankStatement, *models.ParseStats, error) {
	b := parser.NewStatementBuilder(BankCode)
	nonEmpty := strings.TrimSpace(text) != ""

	for _, raw := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		b.NoteLine()

		if m := periodPattern.FindStringSubmatch(strings.ToUpper(line)); m != nil {
			p.notePeriod(b, m[1], m[2])
			continue
		}

		switch Classify(line) {
		case parser.LineAccountHeader:
			m := accountPattern.FindStringSubmatch(line)
			b.StartAccount(m[2] + " " + m[1])
		case parser.LineBalance:
			p.decodeBalance(b, line)
		case parser.LineTransaction:
			if tx, ok := p.decodeRow(line); ok {
				b.AddTransaction(tx)
			} else {
				b.NoteRowSkipped()
			}
		default:
			b.NoteNoise()
		}
	}

	return b.Finish(nonEmpty, p.opts.MaxSkipRatio)
}

func (p *Parser) notePeriod(b *parser.StatementBuilder, fromStr, toStr string) {
	from, err1 := dateutils.ParseDate(fromStr, dateutils.LayoutMonthAbbr)
	to, err2 := dateutils.ParseDate(toStr, dateutils.LayoutMonthAbbr)
	if err1 != nil || err2 != nil {
		return
	}
	b.SetPeriod(models.DateOf(from), models.DateOf(to))
}

func (p *Parser) decodeBalance(b *parser.StatementBuilder, line string) {
	if m := openingPattern.FindStringSubmatch(line); m != nil {
		if amount, err := amountutils.Parse(m[1], amountStyle); err == nil {
			b.SetOpeningBalance(amount)
		}
		return
	}
	if m := closingPattern.FindStringSubmatch(line); m != nil {
		if amount, err := amountutils.Parse(m[1], amountStyle); err == nil {
			b.SetClosingBalance(amount)
		}
	}
}

func (p *Parser) decodeRow(line string) (models.Transaction, bool) {
	m := txnPattern.FindStringSubmatch(line)
	if m == nil {
		return models.Transaction{}, false
	}

	date, err := dateutils.ParseDate(m[1], dateutils.LayoutMonthAbbr)
	if err != nil {
		p.logger.WithError(err).Debug("Skipping row with bad date",
			logging.Field{Key: "line", Value: line})
		return models.Transaction{}, false
	}

	amount, err := amountutils.Parse(m[3], amountStyle)
	if err != nil {
		p.logger.WithError(err).Debug("Skipping row with bad amount",
			logging.Field{Key: "line", Value: line})
		return models.Transaction{}, false
	}

	tx := models.Transaction{
		Date:        models.DateOf(date),
		Description: strings.TrimSpace(m[2]),
		Amount:      amount,
	}
	if m[4] != "" {
		if balance, err := amountutils.Parse(m[4], amountStyle); err == nil {
			tx.Balance = &balance
		}
	}
	return tx, true
}

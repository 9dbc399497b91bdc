// Package guayaquilparser parses Banco de Guayaquil statement text. Columns
// are separated by runs of two or more spaces and amounts carry a trailing
// sign ("250.00-" debit, "5000.00+" credit). Dates use two-digit years.
package guayaquilparser

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/appContable/statement-core/internal/amountutils"
	"github.com/appContable/statement-core/internal/dateutils"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parser"
)

// BankCode is the registry key for this parser.
const BankCode = "guayaquil"

func init() {
	parser.Register(BankCode, func(logger logging.Logger, opts parser.Options) parser.Parser {
		return &Parser{logger: logger, opts: opts}
	})
}

// Parser implements parser.Parser for Banco de Guayaquil statements.
type Parser struct {
	logger logging.Logger
	opts   parser.Options
}

var (
	accountPattern = regexp.MustCompile(`^CUENTA NRO[.:]?\s*([0-9]+)`)
	datePattern    = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)
	amountPattern  = regexp.MustCompile(`^[\d,]+\.\d{2}[+-]?$`)
	columnSplit    = regexp.MustCompile(`\s{2,}`)
)

var amountStyle = amountutils.Style{TrailingSign: true}

// Bank returns the bank code.
func (p *Parser) Bank() string {
	return BankCode
}

// Classify recognizes the structural role of one line.
func Classify(line string) parser.LineKind {
	if accountPattern.MatchString(line) {
		return parser.LineAccountHeader
	}
	if strings.HasPrefix(line, "SALDO INICIAL") || strings.HasPrefix(line, "SALDO FINAL") {
		return parser.LineBalance
	}
	fields := columnSplit.Split(line, -1)
	if len(fields) >= 3 && datePattern.MatchString(fields[0]) {
		return parser.LineTransaction
	}
	return parser.LineNoise
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

		switch Classify(line) {
		case parser.LineAccountHeader:
			m := accountPattern.FindStringSubmatch(line)
			b.StartAccount("CUENTA " + m[1])
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

func (p *Parser) decodeBalance(b *parser.StatementBuilder, line string) {
	fields := columnSplit.Split(line, -1)
	if len(fields) < 2 {
		return
	}
	amount, err := amountutils.Parse(fields[len(fields)-1], amountStyle)
	if err != nil {
		return
	}
	if strings.HasPrefix(line, "SALDO INICIAL") {
		b.SetOpeningBalance(amount)
	} else {
		b.SetClosingBalance(amount)
	}
}

// decodeRow splits a transaction line into date, description, amount and an
// optional trailing balance column.
func (p *Parser) decodeRow(line string) (models.Transaction, bool) {
	fields := columnSplit.Split(line, -1)
	if len(fields) < 3 {
		return models.Transaction{}, false
	}

	date, err := dateutils.ParseDate(fields[0], dateutils.LayoutSlashShort)
	if err != nil {
		p.logger.WithError(err).Debug("Skipping row with bad date",
			logging.Field{Key: "line", Value: line})
		return models.Transaction{}, false
	}

	// The last two columns are amount then balance when both look numeric;
	// otherwise the last column is the amount.
	amountIdx := len(fields) - 1
	var balance *decimal.Decimal
	if len(fields) >= 4 && amountPattern.MatchString(fields[len(fields)-2]) && amountPattern.MatchString(fields[len(fields)-1]) {
		amountIdx = len(fields) - 2
		if bal, err := amountutils.Parse(fields[len(fields)-1], amountStyle); err == nil {
			balance = &bal
		}
	}
	if !amountPattern.MatchString(fields[amountIdx]) {
		return models.Transaction{}, false
	}

	amount, err := amountutils.Parse(fields[amountIdx], amountStyle)
	if err != nil {
		p.logger.WithError(err).Debug("Skipping row with bad amount",
			logging.Field{Key: "line", Value: line})
		return models.Transaction{}, false
	}

	tx := models.Transaction{
		Date:        models.DateOf(date),
		Description: strings.Join(fields[1:amountIdx], " "),
		Amount:      amount,
	}
	tx.Balance = balance
	return tx, true
}

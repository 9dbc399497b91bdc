package produbancoparser_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parser"
	"github.com/appContable/statement-core/internal/parsererror"
	"github.com/appContable/statement-core/internal/produbancoparser"
)

const sampleStatement = `PRODUBANCO GRUPO PROMERICA
PERIODO: 01-MAR-2024 AL 31-MAR-2024
CTA. NRO. 987654 - CORRIENTE
SALDO ANTERIOR: 2.500,00
02-MAR-2024 PAGO SERVICIOS BASICOS (150,00)
15-MAR-2024 DEPOSITO EFECTIVO 1.000,00 3.350,00
SALDO ACTUAL: 3.350,00
`

func newParser(t *testing.T) parser.Parser {
	t.Helper()
	p, err := parser.New(produbancoparser.BankCode, logging.NewTestLogger(), parser.Options{})
	require.NoError(t, err)
	return p
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected parser.LineKind
	}{
		{"account header", "CTA. NRO. 987654 - CORRIENTE", parser.LineAccountHeader},
		{"savings header", "CTA. 12345 - AHORROS", parser.LineAccountHeader},
		{"opening balance", "SALDO ANTERIOR: 2.500,00", parser.LineBalance},
		{"closing balance", "SALDO ACTUAL: 3.350,00", parser.LineBalance},
		{"debit row", "02-MAR-2024 PAGO SERVICIOS BASICOS (150,00)", parser.LineTransaction},
		{"credit row with balance", "15-MAR-2024 DEPOSITO EFECTIVO 1.000,00 3.350,00", parser.LineTransaction},
		{"letterhead", "PRODUBANCO GRUPO PROMERICA", parser.LineNoise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, produbancoparser.Classify(tt.line))
		})
	}
}

func TestParse_FullStatement(t *testing.T) {
	stmt, stats, err := newParser(t).Parse(context.Background(), sampleStatement)
	require.NoError(t, err)

	assert.Equal(t, "produbanco", stmt.Bank)
	assert.Equal(t, models.NewDate(2024, time.March, 1), stmt.Period.From)
	assert.Equal(t, models.NewDate(2024, time.March, 31), stmt.Period.To)

	require.Len(t, stmt.Accounts, 1)
	account := stmt.Accounts[0]
	assert.Equal(t, "CORRIENTE 987654", account.Account)
	require.NotNil(t, account.OpeningBalance)
	assert.Equal(t, "2500.00", account.OpeningBalance.StringFixed(2))
	require.NotNil(t, account.ClosingBalance)
	assert.Equal(t, "3350.00", account.ClosingBalance.StringFixed(2))

	require.Len(t, account.Transactions, 2)
	debit := account.Transactions[0]
	assert.Equal(t, models.NewDate(2024, time.March, 2), debit.Date)
	assert.Equal(t, "PAGO SERVICIOS BASICOS", debit.Description)
	assert.Equal(t, "-150.00", debit.Amount.StringFixed(2), "parenthesized amounts are debits")

	credit := account.Transactions[1]
	assert.Equal(t, "1000.00", credit.Amount.StringFixed(2))
	require.NotNil(t, credit.Balance)
	assert.Equal(t, "3350.00", credit.Balance.StringFixed(2))

	assert.Equal(t, 2, stats.RowsDecoded)
	assert.Equal(t, 1, stats.LinesSkipped, "letterhead is the only noise line")
}

func TestParse_SpanishMonthAbbreviations(t *testing.T) {
	text := `CTA. 111 - AHORROS
05-ENE-2024 INTERESES GANADOS 1,25
20-DIC-2024 COMISION MANTENIMIENTO (4,50)
`
	stmt, _, err := newParser(t).Parse(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, stmt.Accounts, 1)
	require.Len(t, stmt.Accounts[0].Transactions, 2)
	assert.Equal(t, models.NewDate(2024, time.January, 5), stmt.Accounts[0].Transactions[0].Date)
	assert.Equal(t, models.NewDate(2024, time.December, 20), stmt.Accounts[0].Transactions[1].Date)
}

func TestParse_GarbageOnlyFails(t *testing.T) {
	_, _, err := newParser(t).Parse(context.Background(), "nada que ver aqui\n")
	var unparseable *parsererror.UnparseableDocumentError
	require.ErrorAs(t, err, &unparseable)
	assert.Equal(t, "produbanco", unparseable.Bank)
}

func TestParse_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newParser(t).Parse(ctx, sampleStatement)
	assert.ErrorIs(t, err, context.Canceled)
}

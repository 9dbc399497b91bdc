package pichinchaparser_test

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
	"github.com/appContable/statement-core/internal/pichinchaparser"
)

const sampleStatement = `BANCO PICHINCHA C.A.
ESTADO DE CUENTA DEL 01/01/2024 AL 31/01/2024
CUENTA CORRIENTE NRO. 2100012345
SALDO INICIAL 1,000.00
05/01/2024 PAGO TARJETA VISA -250.00
10/01/2024 TRANSFERENCIA RECIBIDA 5,000.00 5,750.00
SALDO FINAL 5,750.00
`

func newParser(t *testing.T) parser.Parser {
	t.Helper()
	p, err := parser.New(pichinchaparser.BankCode, logging.NewTestLogger(), parser.Options{})
	require.NoError(t, err)
	return p
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected parser.LineKind
	}{
		{"account header", "CUENTA CORRIENTE NRO. 2100012345", parser.LineAccountHeader},
		{"savings header", "CUENTA DE AHORROS NRO. 2200-99", parser.LineAccountHeader},
		{"opening balance", "SALDO INICIAL 1,000.00", parser.LineBalance},
		{"closing balance", "SALDO FINAL 5,750.00", parser.LineBalance},
		{"debit row", "05/01/2024 PAGO TARJETA VISA -250.00", parser.LineTransaction},
		{"credit row with balance", "10/01/2024 TRANSFERENCIA RECIBIDA 5,000.00 5,750.00", parser.LineTransaction},
		{"bank letterhead", "BANCO PICHINCHA C.A.", parser.LineNoise},
		{"page footer", "Pagina 1 de 3", parser.LineNoise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pichinchaparser.Classify(tt.line))
		})
	}
}

func TestParse_FullStatement(t *testing.T) {
	stmt, stats, err := newParser(t).Parse(context.Background(), sampleStatement)
	require.NoError(t, err)

	assert.Equal(t, "pichincha", stmt.Bank)
	assert.Equal(t, models.NewDate(2024, time.January, 1), stmt.Period.From)
	assert.Equal(t, models.NewDate(2024, time.January, 31), stmt.Period.To)

	require.Len(t, stmt.Accounts, 1)
	account := stmt.Accounts[0]
	assert.Equal(t, "CORRIENTE 2100012345", account.Account)
	require.NotNil(t, account.OpeningBalance)
	assert.Equal(t, "1000.00", account.OpeningBalance.StringFixed(2))
	require.NotNil(t, account.ClosingBalance)
	assert.Equal(t, "5750.00", account.ClosingBalance.StringFixed(2))

	require.Len(t, account.Transactions, 2)
	first := account.Transactions[0]
	assert.Equal(t, models.NewDate(2024, time.January, 5), first.Date)
	assert.Equal(t, "PAGO TARJETA VISA", first.Description)
	assert.Equal(t, "-250.00", first.Amount.StringFixed(2))
	assert.Nil(t, first.Balance)
	assert.Equal(t, models.SourceNone, first.CategorySource)

	second := account.Transactions[1]
	assert.Equal(t, "TRANSFERENCIA RECIBIDA", second.Description)
	assert.Equal(t, "5000.00", second.Amount.StringFixed(2))
	require.NotNil(t, second.Balance)
	assert.Equal(t, "5750.00", second.Balance.StringFixed(2))

	assert.Equal(t, 2, stats.RowsDecoded)
	assert.Zero(t, stats.RowsSkipped)
}

func TestParse_MultipleAccounts(t *testing.T) {
	text := `CUENTA CORRIENTE NRO. 111
05/01/2024 PAGO UNO -10.00
CUENTA DE AHORROS NRO. 222
06/01/2024 PAGO DOS -20.00
`
	stmt, _, err := newParser(t).Parse(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, stmt.Accounts, 2)
	assert.Equal(t, "CORRIENTE 111", stmt.Accounts[0].Account)
	assert.Equal(t, "DE AHORROS 222", stmt.Accounts[1].Account)
	assert.Len(t, stmt.Accounts[0].Transactions, 1)
	assert.Len(t, stmt.Accounts[1].Transactions, 1)
}

func TestParse_EmptyInput(t *testing.T) {
	stmt, stats, err := newParser(t).Parse(context.Background(), "   \n \n")
	require.NoError(t, err)
	assert.Empty(t, stmt.Accounts)
	assert.Zero(t, stats.RowsDecoded)
}

func TestParse_GarbageOnlyFails(t *testing.T) {
	_, _, err := newParser(t).Parse(context.Background(), "esto no es un estado de cuenta\npara nada\n")
	var unparseable *parsererror.UnparseableDocumentError
	require.ErrorAs(t, err, &unparseable)
	assert.Equal(t, "pichincha", unparseable.Bank)
}

func TestParse_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newParser(t).Parse(ctx, sampleStatement)
	assert.ErrorIs(t, err, context.Canceled)
}

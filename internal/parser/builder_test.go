package parser_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parser"
	"github.com/appContable/statement-core/internal/parsererror"
)

func TestStatementBuilder_AccountsAndPositions(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	assert.False(t, b.InAccount())

	b.StartAccount("CORRIENTE 123")
	require.True(t, b.InAccount())
	b.AddTransaction(models.Transaction{Description: "UNO", Amount: decimal.NewFromInt(1)})
	b.AddTransaction(models.Transaction{Description: "DOS", Amount: decimal.NewFromInt(2)})

	b.StartAccount("AHORROS 456")
	b.AddTransaction(models.Transaction{Description: "TRES", Amount: decimal.NewFromInt(3)})

	stmt, stats, err := b.Finish(true, 0.5)
	require.NoError(t, err)

	require.Len(t, stmt.Accounts, 2)
	assert.Equal(t, "CORRIENTE 123", stmt.Accounts[0].Account)
	assert.Equal(t, "AHORROS 456", stmt.Accounts[1].Account)
	assert.Equal(t, 3, stats.RowsDecoded)

	// Positions are global across accounts so source order survives.
	assert.Equal(t, 0, stmt.Accounts[0].Transactions[0].Position)
	assert.Equal(t, 1, stmt.Accounts[0].Transactions[1].Position)
	assert.Equal(t, 2, stmt.Accounts[1].Transactions[0].Position)
}

func TestStatementBuilder_TransactionSourceStartsNone(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	b.StartAccount("CORRIENTE 123")
	b.AddTransaction(models.Transaction{Description: "UNO", Amount: decimal.NewFromInt(1)})

	stmt, _, err := b.Finish(true, 0.5)
	require.NoError(t, err)
	assert.Equal(t, models.SourceNone, stmt.Accounts[0].Transactions[0].CategorySource)
}

func TestStatementBuilder_RowOutsideAccountIsSkipped(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	b.AddTransaction(models.Transaction{Description: "HUERFANO"})
	b.StartAccount("CORRIENTE 123")
	b.AddTransaction(models.Transaction{Description: "UNO", Amount: decimal.NewFromInt(1)})

	stmt, stats, err := b.Finish(true, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RowsDecoded)
	assert.Equal(t, 1, stats.RowsSkipped)
	require.Len(t, stmt.Accounts, 1)
	assert.Len(t, stmt.Accounts[0].Transactions, 1)
}

func TestStatementBuilder_EmptyInputSucceeds(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	stmt, stats, err := b.Finish(false, 0.5)
	require.NoError(t, err)
	assert.Empty(t, stmt.Accounts)
	assert.Zero(t, stats.RowsDecoded)
}

func TestStatementBuilder_NonEmptyInputWithNoRowsFails(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	b.NoteLine()
	b.NoteNoise()

	_, stats, err := b.Finish(true, 0.5)
	require.Error(t, err)

	var unparseable *parsererror.UnparseableDocumentError
	require.ErrorAs(t, err, &unparseable)
	assert.Equal(t, "pichincha", unparseable.Bank)
	assert.NotNil(t, stats)
}

func TestStatementBuilder_SkipRatioExceeded(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	b.StartAccount("CORRIENTE 123")
	b.AddTransaction(models.Transaction{Amount: decimal.NewFromInt(1)})
	b.NoteRowSkipped()
	b.NoteRowSkipped()

	_, _, err := b.Finish(true, 0.5)
	var unparseable *parsererror.UnparseableDocumentError
	require.ErrorAs(t, err, &unparseable)
	assert.Equal(t, 1, unparseable.RowsDecoded)
	assert.Equal(t, 2, unparseable.RowsSkipped)
}

func TestStatementBuilder_SkipRatioAtBoundaryPasses(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	b.StartAccount("CORRIENTE 123")
	b.AddTransaction(models.Transaction{Amount: decimal.NewFromInt(1)})
	b.NoteRowSkipped()

	// Exactly at the ratio, not over it.
	_, _, err := b.Finish(true, 0.5)
	assert.NoError(t, err)
}

func TestStatementBuilder_SetBalancesRequireOpenAccount(t *testing.T) {
	b := parser.NewStatementBuilder("pichincha")
	b.SetOpeningBalance(decimal.NewFromInt(100))
	b.SetClosingBalance(decimal.NewFromInt(200))

	b.StartAccount("CORRIENTE 123")
	b.SetOpeningBalance(decimal.NewFromInt(100))
	b.AddTransaction(models.Transaction{Amount: decimal.NewFromInt(1)})

	stmt, _, err := b.Finish(true, 0.5)
	require.NoError(t, err)
	require.Len(t, stmt.Accounts, 1)
	require.NotNil(t, stmt.Accounts[0].OpeningBalance)
	assert.Nil(t, stmt.Accounts[0].ClosingBalance)
}

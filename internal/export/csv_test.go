package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appContable/statement-core/internal/export"
	"github.com/appContable/statement-core/internal/models"
)

func sampleResult() *models.ParseResult {
	balance := decimal.RequireFromString("5750.00")
	return &models.ParseResult{
		Bank:   "pichincha",
		UserID: "maria",
		Statement: models.BankStatement{
			Bank: "pichincha",
			Accounts: []models.AccountStatement{{
				Account: "CORRIENTE 2100012345",
				Transactions: []models.Transaction{
					{
						Date:           models.NewDate(2024, time.January, 5),
						Description:    "PAGO TARJETA VISA",
						Amount:         decimal.RequireFromString("-250.00"),
						Category:       "Gastos",
						Subcategory:    "Tarjetas",
						CategorySource: models.SourceBankRule,
					},
					{
						Date:           models.NewDate(2024, time.January, 10),
						Description:    "TRANSFERENCIA RECIBIDA",
						Amount:         decimal.RequireFromString("5000.00"),
						Balance:        &balance,
						CategorySource: models.SourceNone,
					},
				},
			}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleResult(), ','))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "header plus two rows")

	assert.Equal(t, "Account,Date,Description,Amount,Balance,Category,Subcategory,CategorySource", lines[0])
	assert.Equal(t, "CORRIENTE 2100012345,2024-01-05,PAGO TARJETA VISA,-250.00,,Gastos,Tarjetas,bank-rule", lines[1])
	assert.Equal(t, "CORRIENTE 2100012345,2024-01-10,TRANSFERENCIA RECIBIDA,5000.00,5750.00,,,none", lines[2])
}

func TestWriteCSV_CustomDelimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleResult(), ';'))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Contains(t, lines[0], "Account;Date;Description")
	assert.NotContains(t, lines[1], ",Gastos")
}

func TestWriteCSV_EmptyStatement(t *testing.T) {
	var buf bytes.Buffer
	result := &models.ParseResult{Statement: models.BankStatement{Bank: "pichincha"}}

	require.NoError(t, export.WriteCSV(&buf, result, ','))
	assert.Equal(t, "Account,Date,Description,Amount,Balance,Category,Subcategory,CategorySource", strings.TrimSpace(buf.String()))
}

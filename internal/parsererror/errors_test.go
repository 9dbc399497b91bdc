package parsererror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appContable/statement-core/internal/parsererror"
)

func TestUnsupportedBankError(t *testing.T) {
	err := &parsererror.UnsupportedBankError{Bank: "banco-x"}
	assert.Contains(t, err.Error(), "banco-x")

	var target *parsererror.UnsupportedBankError
	assert.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &target)
}

func TestUnparseableDocumentError(t *testing.T) {
	err := &parsererror.UnparseableDocumentError{
		Bank: "pichincha", Reason: "no transactions recovered",
		RowsDecoded: 0, RowsSkipped: 3,
	}
	assert.Contains(t, err.Error(), "pichincha")
	assert.Contains(t, err.Error(), "no transactions recovered")
	assert.Contains(t, err.Error(), "3 skipped")
}

func TestInvalidRulePatternError_Unwrap(t *testing.T) {
	cause := errors.New("missing closing )")
	err := &parsererror.InvalidRulePatternError{RuleID: "r1", Pattern: "([", Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "r1")
}

func TestQuotaExceededError(t *testing.T) {
	err := &parsererror.QuotaExceededError{UserID: "maria", Limit: 5}
	assert.Contains(t, err.Error(), "maria")
	assert.Contains(t, err.Error(), "5")
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("database is locked")
	err := &parsererror.PersistenceError{Op: "usage.reserve", Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "usage.reserve")
}

// Package parsererror defines the typed errors surfaced by the statement
// pipeline so callers can map them to distinct rejection statuses.
package parsererror

import "fmt"

// UnsupportedBankError means no parser is registered for the bank code.
// Fatal for the request; never retried.
type UnsupportedBankError struct {
	Bank string
}

func (e *UnsupportedBankError) Error() string {
	return fmt.Sprintf("no statement parser registered for bank %q", e.Bank)
}

// UnparseableDocumentError means the document was structurally unrecoverable:
// either no transactions were found in non-empty input, or too many rows
// failed to decode. Carries skip diagnostics for the caller.
type UnparseableDocumentError struct {
	Bank        string
	Reason      string
	RowsDecoded int
	RowsSkipped int
}

func (e *UnparseableDocumentError) Error() string {
	return fmt.Sprintf("unparseable %s statement: %s (%d rows decoded, %d skipped)",
		e.Bank, e.Reason, e.RowsDecoded, e.RowsSkipped)
}

// InvalidRulePatternError means a stored rule's pattern cannot be compiled.
// The rule is skipped during matching; the batch continues.
type InvalidRulePatternError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *InvalidRulePatternError) Error() string {
	return fmt.Sprintf("rule %s has invalid pattern %q: %v", e.RuleID, e.Pattern, e.Err)
}

func (e *InvalidRulePatternError) Unwrap() error {
	return e.Err
}

// QuotaExceededError means the user exhausted the monthly parse quota.
// Expected and recoverable by the caller on a future date.
type QuotaExceededError struct {
	UserID string
	Limit  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly parse quota of %d exceeded for user %s", e.Limit, e.UserID)
}

// PersistenceError wraps a failure from the rule or usage store. The core
// neither masks nor retries it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

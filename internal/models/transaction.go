// Package models provides the data structures shared across the statement
// pipeline: parsed statements, categorization rules and usage records.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategorySource records which rule class produced a transaction's category.
type CategorySource string

const (
	SourceNone        CategorySource = "none"
	SourceBankRule    CategorySource = "bank-rule"
	SourceUserRule    CategorySource = "user-rule"
	SourceUserLearned CategorySource = "user-learned"
)

// Date is a calendar date without a time component. It marshals to and from
// the ISO form "2006-01-02" so serialized results stay stable across zones.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

const dateLayout = "2006-01-02"

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

// Transaction is a single statement entry. Amount is signed: debits are
// negative, credits positive. Balance is the running balance after the entry
// when the bank's layout carries one.
//
// Category, Subcategory and CategorySource are written only by the
// categorization engine; everything else is immutable once parsed.
type Transaction struct {
	Date           Date             `json:"date"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	Balance        *decimal.Decimal `json:"balance,omitempty"`
	Category       string           `json:"category,omitempty"`
	Subcategory    string           `json:"subcategory,omitempty"`
	CategorySource CategorySource   `json:"categorySource"`

	// Position is the zero-based index of the row in the source document.
	// Statement order is authoritative; nothing downstream re-sorts by date.
	Position int `json:"-"`
}

// Categorized reports whether a category has been assigned.
func (t *Transaction) Categorized() bool {
	return t.Category != ""
}

// SetCategory assigns category fields and keeps the source tag consistent
// with the invariant that the source is "none" iff the category is unset.
func (t *Transaction) SetCategory(category, subcategory string, source CategorySource) {
	t.Category = category
	t.Subcategory = subcategory
	if category == "" {
		t.CategorySource = SourceNone
		return
	}
	t.CategorySource = source
}

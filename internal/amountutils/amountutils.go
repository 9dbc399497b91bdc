// Package amountutils normalizes the amount notations found on bank
// statements into signed decimals. Each bank declares a Style describing its
// separators and negative-amount convention; debits always come out negative.
package amountutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Style describes how a bank prints amounts.
type Style struct {
	// DecimalComma is true when the decimal separator is a comma and the
	// grouping separator a dot (e.g. "1.234,56").
	DecimalComma bool

	// ParenNegative is true when debits are wrapped in parentheses,
	// e.g. "(250,00)".
	ParenNegative bool

	// TrailingSign is true when the sign follows the number,
	// e.g. "250.00-" for a debit.
	TrailingSign bool
}

// Parse converts an amount string under the given style to a signed decimal.
func Parse(raw string, style Style) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false

	if style.ParenNegative && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		s = strings.TrimSpace(s)
	}

	if style.TrailingSign {
		switch {
		case strings.HasSuffix(s, "-"):
			negative = true
			s = strings.TrimSuffix(s, "-")
		case strings.HasSuffix(s, "+"):
			s = strings.TrimSuffix(s, "+")
		}
		s = strings.TrimSpace(s)
	}

	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	if style.DecimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	dec, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	if negative {
		dec = dec.Neg()
	}
	return dec, nil
}

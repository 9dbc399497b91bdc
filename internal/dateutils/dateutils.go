// Package dateutils provides the date parsing shared by the bank parsers.
// Statement dates come in the Latin American conventions: day first, slash
// or dash separated, sometimes with Spanish month abbreviations.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Layout constants for the supported statement date formats.
const (
	LayoutSlash      = "02/01/2006" // DD/MM/YYYY
	LayoutSlashShort = "02/01/06"   // DD/MM/YY
	LayoutDash       = "02-01-2006" // DD-MM-YYYY
	LayoutMonthAbbr  = "02-Jan-2006"
	LayoutISO        = "2006-01-02"
)

// spanishMonths maps Spanish month abbreviations to the English ones the
// time package understands.
var spanishMonths = map[string]string{
	"ENE": "Jan",
	"FEB": "Feb",
	"MAR": "Mar",
	"ABR": "Apr",
	"MAY": "May",
	"JUN": "Jun",
	"JUL": "Jul",
	"AGO": "Aug",
	"SEP": "Sep",
	"OCT": "Oct",
	"NOV": "Nov",
	"DIC": "Dec",
}

// ParseDate parses a date string against the given layouts, trying each in
// order. Spanish month abbreviations are translated before matching.
func ParseDate(dateStr string, layouts ...string) (time.Time, error) {
	cleaned := normalize(dateStr)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// normalize trims the input and rewrites Spanish month abbreviations.
func normalize(dateStr string) string {
	s := strings.TrimSpace(dateStr)
	upper := strings.ToUpper(s)
	for es, en := range spanishMonths {
		if idx := strings.Index(upper, es); idx >= 0 {
			return s[:idx] + en + s[idx+len(es):]
		}
	}
	return s
}

package models

import "time"

// PatternType is the matching mode of a categorization rule.
type PatternType string

const (
	MatchContains   PatternType = "contains"
	MatchStartsWith PatternType = "starts-with"
	MatchEndsWith   PatternType = "ends-with"
	MatchEquals     PatternType = "equals"
	MatchRegex      PatternType = "regex"
)

// Valid reports whether pt is one of the known pattern types.
func (pt PatternType) Valid() bool {
	switch pt {
	case MatchContains, MatchStartsWith, MatchEndsWith, MatchEquals, MatchRegex:
		return true
	}
	return false
}

// RuleOrigin records how a rule came to exist.
type RuleOrigin string

const (
	OriginSeed    RuleOrigin = "seed"
	OriginManual  RuleOrigin = "manual"
	OriginLearned RuleOrigin = "learned"
)

// DefaultRulePriority is assigned when a learn request leaves priority unset.
// Lower values win.
const DefaultRulePriority = 100

// Rule is the shared shape for bank-wide and per-user categorization rules.
// Bank rules have an empty UserID and apply to every user of the bank; user
// rules are scoped to (UserID, Bank) and take precedence on match.
type Rule struct {
	ID          string      `json:"id" yaml:"id,omitempty"`
	UserID      string      `json:"userId,omitempty" yaml:"-"`
	Bank        string      `json:"bank" yaml:"bank,omitempty"`
	Pattern     string      `json:"pattern" yaml:"pattern"`
	PatternType PatternType `json:"patternType" yaml:"type"`
	Category    string      `json:"category" yaml:"category"`
	Subcategory string      `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Priority    int         `json:"priority" yaml:"priority,omitempty"`
	Active      bool        `json:"active" yaml:"-"`
	BuiltIn     bool        `json:"builtIn,omitempty" yaml:"-"`
	Origin      RuleOrigin  `json:"origin" yaml:"-"`
	CreatedAt   time.Time   `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time   `json:"updatedAt" yaml:"-"`
}

// IsUserRule reports whether the rule is scoped to a user.
func (r *Rule) IsUserRule() bool {
	return r.UserID != ""
}

// UsageRecord is one admitted parse, append-only, consumed only in aggregate
// by the quota guard.
type UsageRecord struct {
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

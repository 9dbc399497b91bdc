package categorizer

import (
	"context"
	"fmt"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
)

// LearnRequest is an explicit request to create or update a user rule.
type LearnRequest struct {
	UserID      string             `json:"userId"`
	Bank        string             `json:"bank"`
	Pattern     string             `json:"pattern"`
	PatternType models.PatternType `json:"patternType"`
	Category    string             `json:"category"`
	Subcategory string             `json:"subcategory,omitempty"`

	// Priority of the rule; zero or negative means unset and defaults to
	// models.DefaultRulePriority.
	Priority int `json:"priority,omitempty"`
}

// Validate checks the request shape.
func (r LearnRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if r.Bank == "" {
		return fmt.Errorf("bank code is required")
	}
	if r.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if !r.PatternType.Valid() {
		return fmt.Errorf("unknown pattern type %q", r.PatternType)
	}
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}

// Learn upserts a user rule keyed by (user, bank, pattern, pattern type).
// An existing rule keeps its identity and is updated in place; otherwise a
// new active rule with origin "learned" is created. The store serializes
// concurrent upserts for the same key to a single row.
func (e *Engine) Learn(ctx context.Context, req LearnRequest) (*models.Rule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority <= 0 {
		priority = models.DefaultRulePriority
	}

	rule, err := e.store.UpsertUserRule(ctx, models.Rule{
		UserID:      req.UserID,
		Bank:        req.Bank,
		Pattern:     req.Pattern,
		PatternType: req.PatternType,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Priority:    priority,
		Active:      true,
		Origin:      models.OriginLearned,
	})
	if err != nil {
		return nil, err
	}

	// The pattern may have changed meaning for this rule id; drop any
	// cached compilation so the next match uses the stored pattern.
	e.regexMu.Lock()
	delete(e.regexCache, rule.ID)
	e.regexMu.Unlock()

	e.logger.Info("Learned user rule",
		logging.Field{Key: "user", Value: req.UserID},
		logging.Field{Key: "bank", Value: req.Bank},
		logging.Field{Key: "pattern", Value: req.Pattern},
		logging.Field{Key: "category", Value: req.Category})
	return rule, nil
}

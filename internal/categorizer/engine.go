// Package categorizer assigns spending categories to parsed transactions by
// evaluating bank-wide and per-user pattern rules, and learns new user rules
// from explicit requests.
package categorizer

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parsererror"
	"github.com/appContable/statement-core/internal/rulestore"
)

// Engine matches transaction descriptions against candidate rules. Rules
// come from the store on every Apply call; compiled regex patterns are
// cached across calls since rules change far less often than they match.
type Engine struct {
	store  rulestore.RuleStore
	logger logging.Logger

	regexMu    sync.RWMutex
	regexCache map[string]*regexp.Regexp
}

// NewEngine creates a categorization engine over the given rule store.
func NewEngine(store rulestore.RuleStore, logger logging.Logger) *Engine {
	return &Engine{
		store:      store,
		logger:     logger,
		regexCache: make(map[string]*regexp.Regexp),
	}
}

// Apply assigns categories in place to every uncategorized transaction in
// the statement. User rules always take precedence over bank rules; within
// a class the numerically lowest priority wins, ties broken by longest
// pattern then lexicographically smallest pattern. Rules with invalid
// patterns are skipped and logged; the batch always runs to completion.
func (e *Engine) Apply(ctx context.Context, stmt *models.BankStatement, bank, userID string) error {
	bankRules, err := e.store.BankRules(ctx, bank)
	if err != nil {
		return err
	}
	userRules, err := e.store.UserRules(ctx, userID, bank)
	if err != nil {
		return err
	}

	for i := range stmt.Accounts {
		account := &stmt.Accounts[i]
		for j := range account.Transactions {
			if err := ctx.Err(); err != nil {
				return err
			}
			tx := &account.Transactions[j]
			if tx.Categorized() {
				continue
			}
			e.categorize(tx, bankRules, userRules)
		}
	}
	return nil
}

// categorize picks the winning rule for one transaction, if any, and writes
// the category fields.
func (e *Engine) categorize(tx *models.Transaction, bankRules, userRules []models.Rule) {
	if winner := e.bestMatch(tx.Description, userRules); winner != nil {
		source := models.SourceUserRule
		if winner.Origin == models.OriginLearned {
			source = models.SourceUserLearned
		}
		tx.SetCategory(winner.Category, winner.Subcategory, source)
		return
	}
	if winner := e.bestMatch(tx.Description, bankRules); winner != nil {
		tx.SetCategory(winner.Category, winner.Subcategory, models.SourceBankRule)
	}
}

// bestMatch returns the winning rule among those matching the description,
// or nil when none match.
func (e *Engine) bestMatch(description string, rules []models.Rule) *models.Rule {
	var best *models.Rule
	for i := range rules {
		rule := &rules[i]
		if !e.matches(rule, description) {
			continue
		}
		if best == nil || betterThan(rule, best) {
			best = rule
		}
	}
	return best
}

// betterThan is the deterministic selection order: lowest priority first,
// then longest pattern, then lexicographically smallest pattern.
func betterThan(a, b *models.Rule) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if len(a.Pattern) != len(b.Pattern) {
		return len(a.Pattern) > len(b.Pattern)
	}
	return a.Pattern < b.Pattern
}

// matches evaluates one rule against a description. All modes are
// case-insensitive. An invalid regex disables its rule, never the batch.
func (e *Engine) matches(rule *models.Rule, description string) bool {
	desc := strings.ToUpper(description)
	pattern := strings.ToUpper(rule.Pattern)

	switch rule.PatternType {
	case models.MatchContains:
		return strings.Contains(desc, pattern)
	case models.MatchStartsWith:
		return strings.HasPrefix(desc, pattern)
	case models.MatchEndsWith:
		return strings.HasSuffix(desc, pattern)
	case models.MatchEquals:
		return desc == pattern
	case models.MatchRegex:
		re := e.compiled(rule)
		if re == nil {
			return false
		}
		return re.MatchString(description)
	default:
		e.logger.Warn("Skipping rule with unknown pattern type",
			logging.Field{Key: "rule", Value: rule.ID},
			logging.Field{Key: "type", Value: string(rule.PatternType)})
		return false
	}
}

// compiled returns the cached case-insensitive regex for a rule, compiling
// it on first use. A nil return means the pattern does not compile.
func (e *Engine) compiled(rule *models.Rule) *regexp.Regexp {
	e.regexMu.RLock()
	re, seen := e.regexCache[rule.ID]
	e.regexMu.RUnlock()
	if seen {
		return re
	}

	re, err := regexp.Compile("(?i)" + rule.Pattern)
	if err != nil {
		perr := &parsererror.InvalidRulePatternError{RuleID: rule.ID, Pattern: rule.Pattern, Err: err}
		e.logger.WithError(perr).Warn("Skipping rule with invalid regex pattern")
		re = nil
	}

	e.regexMu.Lock()
	e.regexCache[rule.ID] = re
	e.regexMu.Unlock()
	return re
}

package rulestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appContable/statement-core/internal/models"
)

// MemoryStore is a mutex-guarded in-memory RuleStore and UsageStore used by
// tests and offline runs.
type MemoryStore struct {
	mu        sync.Mutex
	ids       IDCodec
	bankRules []models.Rule
	userRules []models.Rule
	usage     []models.UsageRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(ids IDCodec) *MemoryStore {
	return &MemoryStore{ids: ids}
}

// BankRules returns the enabled bank rules for a bank.
func (m *MemoryStore) BankRules(_ context.Context, bank string) ([]models.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rules []models.Rule
	for _, r := range m.bankRules {
		if r.Bank == bank && r.Active {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

// UserRules returns the active user rules for (user, bank).
func (m *MemoryStore) UserRules(ctx context.Context, userID, bank string) ([]models.Rule, error) {
	return m.ListUserRules(ctx, userID, bank, false)
}

// ListUserRules returns the user's rules for a bank.
func (m *MemoryStore) ListUserRules(_ context.Context, userID, bank string, includeInactive bool) ([]models.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rules []models.Rule
	for _, r := range m.userRules {
		if r.UserID == userID && r.Bank == bank && (includeInactive || r.Active) {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

// UpsertUserRule inserts or updates on (user, bank, pattern, pattern type),
// preserving identity on update.
func (m *MemoryStore) UpsertUserRule(_ context.Context, rule models.Rule) (*models.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for i := range m.userRules {
		existing := &m.userRules[i]
		if existing.UserID == rule.UserID && existing.Bank == rule.Bank &&
			existing.Pattern == rule.Pattern && existing.PatternType == rule.PatternType {
			existing.Category = rule.Category
			existing.Subcategory = rule.Subcategory
			existing.Priority = rule.Priority
			existing.Active = rule.Active
			existing.UpdatedAt = now
			stored := *existing
			return &stored, nil
		}
	}
	rule.ID = m.ids.NewID()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	m.userRules = append(m.userRules, rule)
	stored := rule
	return &stored, nil
}

// DeactivateUserRule marks a user rule inactive.
func (m *MemoryStore) DeactivateUserRule(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.userRules {
		if m.userRules[i].UserID == userID && m.userRules[i].ID == id {
			m.userRules[i].Active = false
			m.userRules[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("user rule %s not found", id)
}

// SeedBankRules inserts bank rules, skipping existing (bank, pattern) keys.
func (m *MemoryStore) SeedBankRules(_ context.Context, rules []models.Rule) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	inserted := 0
	for _, rule := range rules {
		exists := false
		for _, r := range m.bankRules {
			if r.Bank == rule.Bank && r.Pattern == rule.Pattern {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		rule.ID = m.ids.NewID()
		rule.Active = true
		rule.BuiltIn = true
		rule.Origin = models.OriginSeed
		rule.CreatedAt = now
		rule.UpdatedAt = now
		m.bankRules = append(m.bankRules, rule)
		inserted++
	}
	return inserted, nil
}

// CountSince counts the user's usage events from since onward.
func (m *MemoryStore) CountSince(_ context.Context, userID string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(userID, since), nil
}

// Reserve implements the atomic increment-if-under-limit under the store
// mutex.
func (m *MemoryStore) Reserve(_ context.Context, userID string, since time.Time, limit int) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := m.countLocked(userID, since)
	if limit > 0 && count >= limit {
		return false, count, nil
	}
	m.usage = append(m.usage, models.UsageRecord{UserID: userID, OccurredAt: time.Now().UTC()})
	return true, count, nil
}

func (m *MemoryStore) countLocked(userID string, since time.Time) int {
	count := 0
	for _, record := range m.usage {
		if record.UserID == userID && !record.OccurredAt.Before(since) {
			count++
		}
	}
	return count
}

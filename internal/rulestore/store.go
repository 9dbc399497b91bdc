// Package rulestore provides the narrow persistence contracts the
// categorization engine and quota guard consume, together with a SQLite
// implementation and an in-memory double for tests.
package rulestore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/appContable/statement-core/internal/config"
	"github.com/appContable/statement-core/internal/models"
)

// RuleStore is the read/write contract for categorization rules. Bank rules
// are keyed by (bank, pattern); user rules by (user, bank, pattern, type).
type RuleStore interface {
	// BankRules returns the enabled bank-wide rules for a bank.
	BankRules(ctx context.Context, bank string) ([]models.Rule, error)

	// UserRules returns the active rules scoped to (user, bank).
	UserRules(ctx context.Context, userID, bank string) ([]models.Rule, error)

	// ListUserRules returns the user's rules for a bank, optionally
	// including deactivated ones.
	ListUserRules(ctx context.Context, userID, bank string, includeInactive bool) ([]models.Rule, error)

	// UpsertUserRule inserts or updates a user rule on its uniqueness key.
	// The stored identity is preserved on update; concurrent upserts for
	// the same key serialize to a single row, last writer wins.
	UpsertUserRule(ctx context.Context, rule models.Rule) (*models.Rule, error)

	// DeactivateUserRule marks a user rule inactive. Rules are never
	// deleted by the core.
	DeactivateUserRule(ctx context.Context, userID, id string) error

	// SeedBankRules inserts bank rules, skipping any whose (bank, pattern)
	// already exists. Returns the number actually inserted.
	SeedBankRules(ctx context.Context, rules []models.Rule) (int, error)
}

// UsageStore is the append-only usage-event contract behind the quota guard.
type UsageStore interface {
	// CountSince counts the user's usage events with occurred_at >= since.
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)

	// Reserve atomically records a usage event if the count since the
	// window start is below limit, behaving as a single
	// increment-if-under-limit. A limit of zero or below means unlimited:
	// the event is recorded and the reservation always succeeds.
	// Returns whether the slot was granted and the count before recording.
	Reserve(ctx context.Context, userID string, since time.Time, limit int) (bool, int, error)
}

// IDCodec renders rule identifiers in the configured representation. The
// format is an explicit value handed to the store, replacing the legacy
// process-wide serialization mode.
type IDCodec struct {
	format config.IDFormat
}

// NewIDCodec creates a codec for the given format.
func NewIDCodec(format config.IDFormat) IDCodec {
	return IDCodec{format: format}
}

// NewID generates a fresh rule identifier in the configured representation.
func (c IDCodec) NewID() string {
	return c.Encode(uuid.New())
}

// Encode renders a UUID per the configured format.
func (c IDCodec) Encode(id uuid.UUID) string {
	if c.format == config.IDFormatCompact {
		return strings.ReplaceAll(id.String(), "-", "")
	}
	return id.String()
}

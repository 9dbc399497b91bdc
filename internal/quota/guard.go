// Package quota gates parsing on a per-user monthly ceiling. The window is
// the current UTC calendar month; a limit of zero means unlimited.
package quota

import (
	"context"
	"time"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/parsererror"
	"github.com/appContable/statement-core/internal/rulestore"
)

// Guard counts successful parses per user per calendar month and rejects
// requests beyond the configured ceiling.
type Guard struct {
	store  rulestore.UsageStore
	limit  int
	logger logging.Logger
	now    func() time.Time
}

// NewGuard creates a Guard with the given monthly limit (zero = unlimited).
func NewGuard(store rulestore.UsageStore, limit int, logger logging.Logger) *Guard {
	return &Guard{store: store, limit: limit, logger: logger, now: time.Now}
}

// WithClock overrides the time source for tests.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// MonthStart returns the first instant of the current UTC calendar month.
func (g *Guard) MonthStart() time.Time {
	now := g.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Admit atomically takes one quota slot for the user, recording the usage
// event. Callers invoke it only after a successful parse so failed parses
// never consume quota. Returns QuotaExceededError when the month is full.
func (g *Guard) Admit(ctx context.Context, userID string) error {
	admitted, count, err := g.store.Reserve(ctx, userID, g.MonthStart(), g.limit)
	if err != nil {
		return err
	}
	if !admitted {
		g.logger.Info("Parse rejected by quota",
			logging.Field{Key: "user", Value: userID},
			logging.Field{Key: "count", Value: count},
			logging.Field{Key: "limit", Value: g.limit})
		return &parsererror.QuotaExceededError{UserID: userID, Limit: g.limit}
	}
	return nil
}

// Usage reports the user's count for the current month and the remaining
// allowance. Remaining can be negative when the limit was lowered after
// counting began; callers treat negative as zero. It performs no mutation.
func (g *Guard) Usage(ctx context.Context, userID string) (count, remaining int, err error) {
	count, err = g.store.CountSince(ctx, userID, g.MonthStart())
	if err != nil {
		return 0, 0, err
	}
	if g.limit <= 0 {
		return count, 0, nil
	}
	return count, g.limit - count, nil
}

// Limit returns the configured monthly ceiling.
func (g *Guard) Limit() int {
	return g.limit
}

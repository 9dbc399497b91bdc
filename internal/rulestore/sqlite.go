package rulestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver, registered as "sqlite3".
	_ "github.com/mattn/go-sqlite3"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parsererror"
)

// SQLiteStore implements RuleStore and UsageStore on a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	ids    IDCodec
	logger logging.Logger
}

// OpenSQLite opens (and migrates) the store at path. Transactions take the
// write lock immediately so reserve operations serialize.
func OpenSQLite(path string, ids IDCodec, logger logging.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &parsererror.PersistenceError{Op: "open", Err: err}
	}

	store := &SQLiteStore{db: db, ids: ids, logger: logger}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS bank_rules (
	id           TEXT PRIMARY KEY,
	bank         TEXT NOT NULL,
	pattern      TEXT NOT NULL,
	pattern_type TEXT NOT NULL,
	category     TEXT NOT NULL,
	subcategory  TEXT NOT NULL DEFAULT '',
	priority     INTEGER NOT NULL DEFAULT 100,
	active       INTEGER NOT NULL DEFAULT 1,
	built_in     INTEGER NOT NULL DEFAULT 0,
	origin       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL,
	UNIQUE (bank, pattern)
);

CREATE TABLE IF NOT EXISTS user_rules (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	bank         TEXT NOT NULL,
	pattern      TEXT NOT NULL,
	pattern_type TEXT NOT NULL,
	category     TEXT NOT NULL,
	subcategory  TEXT NOT NULL DEFAULT '',
	priority     INTEGER NOT NULL DEFAULT 100,
	active       INTEGER NOT NULL DEFAULT 1,
	origin       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL,
	UNIQUE (user_id, bank, pattern, pattern_type)
);

CREATE TABLE IF NOT EXISTS usage_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT NOT NULL,
	occurred_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_user_time ON usage_events (user_id, occurred_at);
`

func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return &parsererror.PersistenceError{Op: "migrate", Err: err}
	}
	return nil
}

const bankRuleColumns = `id, bank, pattern, pattern_type, category, subcategory, priority, active, built_in, origin, created_at, updated_at`

// BankRules returns the enabled bank rules for a bank.
func (s *SQLiteStore) BankRules(ctx context.Context, bank string) ([]models.Rule, error) {
	query := `SELECT ` + bankRuleColumns + ` FROM bank_rules WHERE bank = ? AND active = 1 ORDER BY priority ASC, pattern ASC`
	rows, err := s.db.QueryContext(ctx, query, bank)
	if err != nil {
		return nil, &parsererror.PersistenceError{Op: "bank_rules.query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var rules []models.Rule
	for rows.Next() {
		var r models.Rule
		if err := rows.Scan(&r.ID, &r.Bank, &r.Pattern, &r.PatternType, &r.Category,
			&r.Subcategory, &r.Priority, &r.Active, &r.BuiltIn, &r.Origin,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, &parsererror.PersistenceError{Op: "bank_rules.scan", Err: err}
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.PersistenceError{Op: "bank_rules.rows", Err: err}
	}
	return rules, nil
}

const userRuleColumns = `id, user_id, bank, pattern, pattern_type, category, subcategory, priority, active, origin, created_at, updated_at`

// UserRules returns the active user rules for (user, bank).
func (s *SQLiteStore) UserRules(ctx context.Context, userID, bank string) ([]models.Rule, error) {
	return s.queryUserRules(ctx,
		`SELECT `+userRuleColumns+` FROM user_rules WHERE user_id = ? AND bank = ? AND active = 1 ORDER BY priority ASC, pattern ASC`,
		userID, bank)
}

// ListUserRules returns the user's rules for a bank, optionally including
// deactivated ones.
func (s *SQLiteStore) ListUserRules(ctx context.Context, userID, bank string, includeInactive bool) ([]models.Rule, error) {
	if includeInactive {
		return s.queryUserRules(ctx,
			`SELECT `+userRuleColumns+` FROM user_rules WHERE user_id = ? AND bank = ? ORDER BY priority ASC, pattern ASC`,
			userID, bank)
	}
	return s.UserRules(ctx, userID, bank)
}

func (s *SQLiteStore) queryUserRules(ctx context.Context, query string, args ...interface{}) ([]models.Rule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &parsererror.PersistenceError{Op: "user_rules.query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var rules []models.Rule
	for rows.Next() {
		var r models.Rule
		if err := rows.Scan(&r.ID, &r.UserID, &r.Bank, &r.Pattern, &r.PatternType,
			&r.Category, &r.Subcategory, &r.Priority, &r.Active, &r.Origin,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, &parsererror.PersistenceError{Op: "user_rules.scan", Err: err}
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.PersistenceError{Op: "user_rules.rows", Err: err}
	}
	return rules, nil
}

// UpsertUserRule inserts or updates the rule keyed by
// (user, bank, pattern, pattern type). The ON CONFLICT clause makes
// concurrent upserts for the same key collapse to one row while keeping the
// original identifier.
func (s *SQLiteStore) UpsertUserRule(ctx context.Context, rule models.Rule) (*models.Rule, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO user_rules (` + userRuleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, bank, pattern, pattern_type) DO UPDATE SET
			category    = excluded.category,
			subcategory = excluded.subcategory,
			priority    = excluded.priority,
			active      = excluded.active,
			updated_at  = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		s.ids.NewID(), rule.UserID, rule.Bank, rule.Pattern, string(rule.PatternType),
		rule.Category, rule.Subcategory, rule.Priority, rule.Active, string(rule.Origin),
		now, now)
	if err != nil {
		return nil, &parsererror.PersistenceError{Op: "user_rules.upsert", Err: err}
	}

	var stored models.Rule
	err = s.db.QueryRowContext(ctx,
		`SELECT `+userRuleColumns+` FROM user_rules WHERE user_id = ? AND bank = ? AND pattern = ? AND pattern_type = ?`,
		rule.UserID, rule.Bank, rule.Pattern, string(rule.PatternType)).
		Scan(&stored.ID, &stored.UserID, &stored.Bank, &stored.Pattern, &stored.PatternType,
			&stored.Category, &stored.Subcategory, &stored.Priority, &stored.Active,
			&stored.Origin, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, &parsererror.PersistenceError{Op: "user_rules.reload", Err: err}
	}
	return &stored, nil
}

// DeactivateUserRule marks a user rule inactive.
func (s *SQLiteStore) DeactivateUserRule(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE user_rules SET active = 0, updated_at = ? WHERE user_id = ? AND id = ?`,
		time.Now().UTC(), userID, id)
	if err != nil {
		return &parsererror.PersistenceError{Op: "user_rules.deactivate", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &parsererror.PersistenceError{Op: "user_rules.deactivate", Err: err}
	}
	if affected == 0 {
		return fmt.Errorf("user rule %s not found", id)
	}
	return nil
}

// SeedBankRules inserts bank rules, skipping any (bank, pattern) that
// already exists, so repeated seeding is idempotent.
func (s *SQLiteStore) SeedBankRules(ctx context.Context, rules []models.Rule) (int, error) {
	now := time.Now().UTC()
	inserted := 0
	for _, rule := range rules {
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO bank_rules (`+bankRuleColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (bank, pattern) DO NOTHING`,
			s.ids.NewID(), rule.Bank, rule.Pattern, string(rule.PatternType),
			rule.Category, rule.Subcategory, rule.Priority, true, true,
			string(models.OriginSeed), now, now)
		if err != nil {
			return inserted, &parsererror.PersistenceError{Op: "bank_rules.seed", Err: err}
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, &parsererror.PersistenceError{Op: "bank_rules.seed", Err: err}
		}
		inserted += int(affected)
	}
	s.logger.Info("Seeded bank rules",
		logging.Field{Key: "requested", Value: len(rules)},
		logging.Field{Key: "inserted", Value: inserted})
	return inserted, nil
}

// CountSince counts the user's usage events from since onward.
func (s *SQLiteStore) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usage_events WHERE user_id = ? AND occurred_at >= ?`,
		userID, since).Scan(&count)
	if err != nil {
		return 0, &parsererror.PersistenceError{Op: "usage.count", Err: err}
	}
	return count, nil
}

// Reserve records a usage event if the user is under limit, as one
// transaction. The immediate write lock taken at BEGIN serializes
// concurrent reservations, so two requests can never both take the last
// slot.
func (s *SQLiteStore) Reserve(ctx context.Context, userID string, since time.Time, limit int) (bool, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, &parsererror.PersistenceError{Op: "usage.reserve", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usage_events WHERE user_id = ? AND occurred_at >= ?`,
		userID, since).Scan(&count)
	if err != nil {
		return false, 0, &parsererror.PersistenceError{Op: "usage.reserve", Err: err}
	}

	if limit > 0 && count >= limit {
		return false, count, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO usage_events (user_id, occurred_at) VALUES (?, ?)`,
		userID, time.Now().UTC())
	if err != nil {
		return false, count, &parsererror.PersistenceError{Op: "usage.reserve", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return false, count, &parsererror.PersistenceError{Op: "usage.reserve", Err: err}
	}
	return true, count, nil
}

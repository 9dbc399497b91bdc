// Package service wires the statement pipeline: parser dispatch, assembly,
// quota admission and categorization, in that order.
package service

import (
	"context"

	"github.com/appContable/statement-core/internal/assembler"
	"github.com/appContable/statement-core/internal/categorizer"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
	"github.com/appContable/statement-core/internal/parser"
	"github.com/appContable/statement-core/internal/quota"
)

// Service executes parse requests as independent, stateless units of work.
// Shared state lives behind the rule and usage stores only.
type Service struct {
	logger    logging.Logger
	assembler *assembler.Assembler
	engine    *categorizer.Engine
	guard     *quota.Guard
	opts      parser.Options
}

// New creates a Service.
func New(logger logging.Logger, asm *assembler.Assembler, engine *categorizer.Engine, guard *quota.Guard, opts parser.Options) *Service {
	return &Service{
		logger:    logger,
		assembler: asm,
		engine:    engine,
		guard:     guard,
		opts:      opts,
	}
}

// Process runs one statement through the full pipeline. Quota is taken only
// after a successful parse, so a failed parse never consumes a slot, and a
// canceled context aborts before any usage is recorded.
func (s *Service) Process(ctx context.Context, userID, bank, text string) (*models.ParseResult, error) {
	p, err := parser.New(bank, s.logger, s.opts)
	if err != nil {
		return nil, err
	}

	stmt, stats, err := p.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	result := s.assembler.Assemble(stmt, userID, *stats)

	if err := s.guard.Admit(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.engine.Apply(ctx, &result.Statement, bank, userID); err != nil {
		return nil, err
	}

	s.logger.Info("Statement processed",
		logging.Field{Key: "bank", Value: bank},
		logging.Field{Key: "user", Value: userID},
		logging.Field{Key: "accounts", Value: len(result.Statement.Accounts)},
		logging.Field{Key: "rows_skipped", Value: result.Stats.RowsSkipped})
	return result, nil
}

package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/models"
)

// BatchRequest is one statement text within a batch run.
type BatchRequest struct {
	Name   string
	UserID string
	Bank   string
	Text   string
}

// BatchResult pairs a request with its outcome. Err is set when that
// statement failed; other statements in the batch are unaffected.
type BatchResult struct {
	Name   string
	Result *models.ParseResult
	Err    error
}

// ProcessBatch runs requests through a bounded worker pool so one large
// statement cannot starve the rest. Results keep the order of requests.
// Individual failures are reported per result; only context cancellation
// aborts the whole batch.
func (s *Service) ProcessBatch(ctx context.Context, requests []BatchRequest, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(requests))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.Process(ctx, req.UserID, req.Bank, req.Text)
			results[i] = BatchResult{Name: req.Name, Result: result, Err: err}
			if err != nil {
				s.logger.WithError(err).Warn("Batch item failed",
					logging.Field{Key: "name", Value: req.Name})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package container wires the application dependencies: storage, the
// categorization engine, the quota guard and the processing service.
package container

import (
	"fmt"
	"io"

	"github.com/appContable/statement-core/internal/assembler"
	"github.com/appContable/statement-core/internal/categorizer"
	"github.com/appContable/statement-core/internal/config"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/parser"
	"github.com/appContable/statement-core/internal/quota"
	"github.com/appContable/statement-core/internal/rulestore"
	"github.com/appContable/statement-core/internal/service"
)

// Container holds the shared application dependencies. Commands reach the
// pipeline through it instead of constructing their own stores.
type Container struct {
	Config  *config.Config
	Logger  logging.Logger
	Rules   rulestore.RuleStore
	Usage   rulestore.UsageStore
	Engine  *categorizer.Engine
	Guard   *quota.Guard
	Service *service.Service

	closer io.Closer
}

// New builds a container backed by the SQLite store named in the config.
func New(cfg *config.Config, logger logging.Logger) (*Container, error) {
	store, err := rulestore.OpenSQLite(cfg.Store.Path, rulestore.NewIDCodec(cfg.RuleIDFormat()), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule store: %w", err)
	}

	engine := categorizer.NewEngine(store, logger)
	guard := quota.NewGuard(store, cfg.Quota.MonthlyLimit, logger)
	asm := assembler.New(logger)
	opts := parser.Options{MaxSkipRatio: cfg.Parser.MaxSkipRatio}.WithDefaults()

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Rules:   store,
		Usage:   store,
		Engine:  engine,
		Guard:   guard,
		Service: service.New(logger, asm, engine, guard, opts),
		closer:  store,
	}, nil
}

// NewInMemory builds a container over the in-memory store. Used by tests and
// by callers that do not want a database file.
func NewInMemory(cfg *config.Config, logger logging.Logger) *Container {
	store := rulestore.NewMemoryStore(rulestore.NewIDCodec(cfg.RuleIDFormat()))

	engine := categorizer.NewEngine(store, logger)
	guard := quota.NewGuard(store, cfg.Quota.MonthlyLimit, logger)
	asm := assembler.New(logger)
	opts := parser.Options{MaxSkipRatio: cfg.Parser.MaxSkipRatio}.WithDefaults()

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Rules:   store,
		Usage:   store,
		Engine:  engine,
		Guard:   guard,
		Service: service.New(logger, asm, engine, guard, opts),
	}
}

// Close releases the backing store, if any.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

package parser

import (
	"sort"
	"sync"

	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/parsererror"
)

// Factory builds a parser instance for one bank.
type Factory func(logger logging.Logger, opts Options) Parser

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a bank parser factory to the registry. Bank packages call it
// from init, like database/sql drivers. Registering the same code twice
// panics: that is a programming error, not a runtime condition.
func Register(bank string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[bank]; dup {
		panic("parser: Register called twice for bank " + bank)
	}
	registry[bank] = factory
}

// New returns a parser for the given bank code. The match is case-sensitive.
func New(bank string, logger logging.Logger, opts Options) (Parser, error) {
	registryMu.RLock()
	factory, ok := registry[bank]
	registryMu.RUnlock()
	if !ok {
		return nil, &parsererror.UnsupportedBankError{Bank: bank}
	}
	return factory(logger, opts.WithDefaults()), nil
}

// Banks lists the registered bank codes, sorted.
func Banks() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	banks := make([]string, 0, len(registry))
	for bank := range registry {
		banks = append(banks, bank)
	}
	sort.Strings(banks)
	return banks
}

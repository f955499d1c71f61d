package engine

import (
	"io"
	"log/slog"

	"github.com/Future-Scholars/paperlib-sync/internal/store"
)

// Engine is the local-first synchronization engine: idempotent entity
// lifecycle, field-level Last-Write-Wins merging, and payload dispatch.
//
// Every operation is a single transactional unit of work against the store.
// The engine holds no mutable state of its own, so concurrent calls from
// different callers (local edits and replicated changes arriving together)
// are safe; conflicting writers are serialized at the storage layer.
//
// INVARIANTS:
//   - Field-version rows are written only inside engine transactions
//   - A field's primary-table value always equals its version-row value
//   - Version timestamps per (entity, field) never decrease
type Engine struct {
	store *store.Store
	clock Clock
	log   *slog.Logger
}

// Option configures engine parameters.
type Option func(*Engine)

// WithClock replaces the engine's clock. Tests use FixedClock for
// deterministic delete/create bookkeeping stamps.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the structured logger. Stale-change drops log at Debug;
// nothing else is logged on the happy path.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an Engine over the given store.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		clock: SystemClock{},
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

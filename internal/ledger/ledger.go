// Package ledger applies circlefund operations to the account store.
//
// Every mutating operation runs to completion inside one store transaction
// under a process-wide lock, so its effects are equivalent to a serial
// order and a failed operation leaves every touched account unchanged.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmynk/circlefund/internal/storage"
)

// Clock is the single time source for every time-gated transition.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Observer is notified after every mutating operation.
type Observer interface {
	OperationCompleted(op string, err error)
}

// Config holds the principals with ledger-wide privileges.
type Config struct {
	// Admin owns the treasury, revenue params and automation state when the
	// ledger bootstraps them, and may distribute any circle's pot.
	Admin string

	// Oracles may attest DeFi activity scores.
	Oracles []string

	// Verifiers may verify social proofs.
	Verifiers []string

	// AutomationMinInterval seeds the automation state on bootstrap.
	AutomationMinInterval time.Duration
}

func (c Config) isOracle(principal string) bool {
	return principal != "" && slices.Contains(c.Oracles, principal)
}

func (c Config) isVerifier(principal string) bool {
	return principal != "" && slices.Contains(c.Verifiers, principal)
}

// Ledger is the authoritative state machine over a storage.Store.
type Ledger struct {
	store    storage.Store
	clock    Clock
	cfg      Config
	observer Observer

	mu sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithObserver registers an operation observer.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

// New creates a ledger over store.
func New(store storage.Store, cfg Config, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		clock: SystemClock{},
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.clock.Now()
}

// update runs fn as one serialized, atomic operation.
func (l *Ledger) update(ctx context.Context, op string, fn func(s *session) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	at := l.clock.Now()
	err := l.store.Update(ctx, func(tx storage.Tx) error {
		s := newSession(ctx, tx, at, l.cfg)
		if err := fn(s); err != nil {
			return err
		}
		return s.flush()
	})

	if err != nil {
		slog.Debug("ledger operation rejected", "op", op, "error", err)
	}
	if l.observer != nil {
		l.observer.OperationCompleted(op, err)
	}
	return err
}

// view runs fn against a read-only snapshot.
func (l *Ledger) view(ctx context.Context, fn func(s *session) error) error {
	return l.store.View(ctx, func(tx storage.Tx) error {
		return fn(newSession(ctx, tx, l.clock.Now(), l.cfg))
	})
}

// notFound translates a storage miss into the given ledger error.
func notFound(err error, sentinel error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return sentinel
	}
	return err
}

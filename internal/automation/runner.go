// Package automation drives the ledger's scheduled triggers from a cron loop.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/circlefund/internal/ledger"
	"github.com/mmynk/circlefund/internal/models"
)

// Observer receives the outcome of each dispatched trigger and sweep.
type Observer interface {
	TriggerCompleted(kind models.AutomationKind, success bool)
	SweepCompleted(d time.Duration)
}

// Runner periodically sweeps the ledger for due triggers and dispatches them
// as the automation authority.
type Runner struct {
	ledger    *ledger.Ledger
	authority string
	spec      string
	timeout   time.Duration
	observer  Observer

	cron *cron.Cron
}

// NewRunner creates a runner that sweeps on the given cron spec
// (for example "@every 1m"). observer may be nil.
func NewRunner(l *ledger.Ledger, authority, spec string, observer Observer) *Runner {
	return &Runner{
		ledger:    l,
		authority: authority,
		spec:      spec,
		timeout:   30 * time.Second,
		observer:  observer,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start schedules the sweep and starts the cron loop in its own goroutine.
func (r *Runner) Start() error {
	_, err := r.cron.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.Sweep(ctx); err != nil {
			slog.Error("Automation sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule automation sweep %q: %w", r.spec, err)
	}

	r.cron.Start()
	slog.Info("Automation runner started", "spec", r.spec, "authority", r.authority)
	return nil
}

// Stop halts the cron loop and returns a context that is done once any
// running sweep has finished.
func (r *Runner) Stop() context.Context {
	return r.cron.Stop()
}

// Sweep dispatches every due trigger once and returns how many produced an
// event. Triggers rejected by the scheduler (disabled, too frequent) are
// skipped; a storage failure stops the sweep.
func (r *Runner) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		if r.observer != nil {
			r.observer.SweepCompleted(time.Since(start))
		}
	}()

	due, err := r.ledger.DueTriggers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list due triggers: %w", err)
	}

	dispatched := 0
	for _, d := range due {
		event, err := r.dispatch(ctx, d)
		if err != nil {
			var lerr *models.Error
			if !errors.As(err, &lerr) {
				return dispatched, fmt.Errorf("failed to run %s trigger for circle %s: %w", d.Kind, d.CircleID, err)
			}
			slog.Debug("Automation trigger skipped", "circle_id", d.CircleID, "kind", d.Kind, "reason", lerr.Code)
			continue
		}

		dispatched++
		if r.observer != nil {
			r.observer.TriggerCompleted(d.Kind, event.Success)
		}
	}

	if len(due) > 0 {
		slog.Info("Automation sweep completed", "due", len(due), "dispatched", dispatched)
	}
	return dispatched, nil
}

func (r *Runner) dispatch(ctx context.Context, d ledger.DueTrigger) (*models.AutomationEvent, error) {
	switch d.Kind {
	case models.AutomationCollection:
		return r.ledger.TriggerCollection(ctx, d.CircleID, r.authority)
	case models.AutomationDistribution:
		return r.ledger.TriggerDistribution(ctx, d.CircleID, r.authority)
	case models.AutomationPenalty:
		return r.ledger.TriggerPenalty(ctx, d.CircleID, r.authority)
	default:
		return nil, fmt.Errorf("unknown trigger kind %q", d.Kind)
	}
}

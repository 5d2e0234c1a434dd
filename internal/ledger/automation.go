package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/storage"
	"github.com/mmynk/circlefund/internal/trust"
)

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// InitializeAutomationState creates the scheduler singleton.
func (l *Ledger) InitializeAutomationState(ctx context.Context, authority, queueRef string, minInterval time.Duration) (*models.AutomationState, error) {
	if authority == "" {
		return nil, models.ErrUnauthorized
	}

	var state *models.AutomationState
	err := l.update(ctx, "initialize_automation_state", func(s *session) error {
		var err error
		state, err = s.initAutomationState(authority, queueRef, minInterval)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Automation state initialized", "authority", authority, "min_interval", minInterval)
	return state, nil
}

func (s *session) initAutomationState(authority, queueRef string, minInterval time.Duration) (*models.AutomationState, error) {
	if minInterval < 0 {
		return nil, models.ErrInvalidAutomationConfig
	}
	if _, err := s.tx.GetAutomationState(s.ctx); err == nil {
		return nil, models.ErrAlreadyInitialized
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	state := &models.AutomationState{
		Authority:   authority,
		QueueRef:    queueRef,
		Enabled:     true,
		MinInterval: seconds(minInterval),
		LastCheck:   s.now,
	}
	return state, s.tx.PutAutomationState(s.ctx, state)
}

func (s *session) automationState() (*models.AutomationState, error) {
	state, err := s.tx.GetAutomationState(s.ctx)
	if err != nil {
		return nil, notFound(err, models.ErrNotInitialized)
	}
	return state, nil
}

// AutomationParams selects which triggers a circle's automation runs.
type AutomationParams struct {
	JobRef         string
	AutoCollect    bool
	AutoDistribute bool
	AutoPenalty    bool
}

// SetupCircleAutomation derives the circle's trigger schedules from its
// creation time. The automation authority or the circle creator may call it.
func (l *Ledger) SetupCircleAutomation(ctx context.Context, circleID, caller string, params AutomationParams) (*models.CircleAutomation, error) {
	var automation *models.CircleAutomation
	err := l.update(ctx, "setup_circle_automation", func(s *session) error {
		state, err := s.automationState()
		if err != nil {
			return err
		}
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if caller == "" || (caller != state.Authority && caller != c.Creator) {
			return models.ErrUnauthorized
		}

		if _, err := s.tx.GetCircleAutomation(ctx, circleID); err == nil {
			return models.ErrAutomationAlreadyConfigured
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		automation = &models.CircleAutomation{
			CircleID:             circleID,
			JobRef:               params.JobRef,
			AutoCollect:          params.AutoCollect,
			AutoDistribute:       params.AutoDistribute,
			AutoPenalty:          params.AutoPenalty,
			ContributionSchedule: calculator.MonthlySchedule(c.CreatedAt, c.DurationMonths, 0),
			DistributionSchedule: calculator.MonthlySchedule(c.CreatedAt, c.DurationMonths, models.DistributionOffsetSeconds),
			PenaltySchedule:      calculator.MonthlySchedule(c.CreatedAt, c.DurationMonths, models.PenaltyOffsetSeconds),
			CircleCreatedAt:      c.CreatedAt,
		}
		if err := s.tx.PutCircleAutomation(ctx, automation); err != nil {
			return err
		}

		state.ActiveJobs++
		if err := s.tx.PutAutomationState(ctx, state); err != nil {
			return err
		}
		return s.tx.AppendAutomationEvent(ctx, &models.AutomationEvent{
			CircleID:  circleID,
			Kind:      models.EventScheduleUpdate,
			Timestamp: s.now,
			Success:   true,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Circle automation configured", "circle_id", circleID, "job_ref", params.JobRef)
	return automation, nil
}

// isTimeFor reports whether kind's next unconsumed schedule slot is due.
func isTimeFor(a *models.CircleAutomation, kind models.AutomationKind, now int64) bool {
	enabled, schedule, next, _ := a.Slot(kind)
	if !enabled || next == nil || *next >= len(schedule) {
		return false
	}
	return now >= schedule[*next]
}

// IsTimeFor reports whether the circle's kind trigger is due now.
func (l *Ledger) IsTimeFor(ctx context.Context, circleID string, kind models.AutomationKind) (bool, error) {
	if !kind.Valid() {
		return false, models.ErrInvalidAutomationConfig
	}
	var due bool
	err := l.view(ctx, func(s *session) error {
		a, err := s.tx.GetCircleAutomation(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrAutomationNotFound)
		}
		due = isTimeFor(a, kind, s.now)
		return nil
	})
	return due, err
}

// DueTrigger names one circle trigger that is ready to run.
type DueTrigger struct {
	CircleID string
	Kind     models.AutomationKind
}

// DueTriggers lists every configured trigger whose next slot is due, in
// collection, distribution, penalty order per circle.
func (l *Ledger) DueTriggers(ctx context.Context) ([]DueTrigger, error) {
	var due []DueTrigger
	err := l.view(ctx, func(s *session) error {
		automations, err := s.tx.ListCircleAutomations(ctx)
		if err != nil {
			return err
		}
		for _, a := range automations {
			for _, kind := range []models.AutomationKind{
				models.AutomationCollection,
				models.AutomationDistribution,
				models.AutomationPenalty,
			} {
				if isTimeFor(a, kind, s.now) {
					due = append(due, DueTrigger{CircleID: a.CircleID, Kind: kind})
				}
			}
		}
		return nil
	})
	return due, err
}

// TriggerCollection consumes the next collection slot. From the second month
// on it closes the previous month with a payout round unless that month's
// distribution already closed it.
func (l *Ledger) TriggerCollection(ctx context.Context, circleID, caller string) (*models.AutomationEvent, error) {
	return l.trigger(ctx, circleID, caller, models.AutomationCollection, func(s *session, _ *models.CircleAutomation, month int) error {
		if month == 0 {
			return nil
		}
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if c.CurrentMonth >= month {
			return nil
		}
		return s.payoutRound(c)
	})
}

// TriggerDistribution consumes the next distribution slot and pays that
// month's pot to the rotation recipient, closing the month. Auction circles
// settle their ended auction first; a month nobody won falls back to the
// rotation. When the final penalty slot is still ahead, completion waits for
// it.
func (l *Ledger) TriggerDistribution(ctx context.Context, circleID, caller string) (*models.AutomationEvent, error) {
	return l.trigger(ctx, circleID, caller, models.AutomationDistribution, func(s *session, a *models.CircleAutomation, month int) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		s.holdCompletion = month == c.LastMonth() && a.AutoPenalty && a.NextPenalty <= month

		if c.PayoutMethod == models.PayoutAuction {
			auction, err := s.tx.GetAuction(ctx, circleID)
			switch {
			case err == nil && !auction.Settled:
				if _, err := s.settleAuction(c); err != nil {
					return err
				}
			case err != nil && !errors.Is(err, storage.ErrNotFound):
				return err
			}
		}
		return s.distributeMonth(c, month)
	})
}

// distributeMonth pays month's pot to the rotation recipient and closes the
// month. An outstanding pot from an earlier payout round is paid first. An
// empty pot closes without a payout.
func (s *session) distributeMonth(c *models.Circle, month int) error {
	if c.PendingPayoutMonth != nil && *c.PendingPayoutMonth < month {
		if err := s.distributeToRotation(c); err != nil {
			return err
		}
	}

	e, err := s.escrow(c.ID)
	if err != nil {
		return err
	}
	pot := e.Pot(month)
	if pot == nil {
		return models.ErrNoContributionsToDistribute
	}
	if c.CurrentMonth <= month {
		c.CurrentMonth = month + 1
	}

	if !pot.Distributed {
		if pot.Collected == 0 {
			pot.Distributed = true
		} else {
			if err := s.requireNoAuction(c, month); err != nil {
				return err
			}
			recipient := ""
			if c.PendingPayoutMonth != nil && *c.PendingPayoutMonth == month {
				recipient = c.NextPayoutRecipient
			}
			if recipient == "" {
				if recipient, err = s.rotationRecipient(c); err != nil {
					return err
				}
				if recipient == "" {
					return models.ErrMemberNotFound
				}
			}
			m, err := s.activeMember(c.ID, recipient)
			if err != nil {
				return err
			}
			if err := s.payOut(c, e, month, m); err != nil {
				return err
			}
		}
	}

	if month == c.LastMonth() && c.IsActive() && !s.holdCompletion {
		return s.completeCircle(c, e)
	}
	return nil
}

// distributeToRotation pays the pending pot of the last payout round.
func (s *session) distributeToRotation(c *models.Circle) error {
	if c.PendingPayoutMonth == nil {
		return models.ErrNoContributionsToDistribute
	}
	recipient := c.NextPayoutRecipient
	if recipient == "" {
		var err error
		if recipient, err = s.rotationRecipient(c); err != nil {
			return err
		}
		if recipient == "" {
			return models.ErrMemberNotFound
		}
	}
	m, err := s.activeMember(c.ID, recipient)
	if err != nil {
		return err
	}
	e, err := s.escrow(c.ID)
	if err != nil {
		return err
	}
	return s.payOut(c, e, *c.PendingPayoutMonth, m)
}

// TriggerPenalty consumes the next penalty slot, slashing every active
// member who missed that month's contribution. The final slot completes a
// circle whose last pot has been paid.
func (l *Ledger) TriggerPenalty(ctx context.Context, circleID, caller string) (*models.AutomationEvent, error) {
	return l.trigger(ctx, circleID, caller, models.AutomationPenalty, func(s *session, _ *models.CircleAutomation, month int) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if err := s.enforcePenalties(c, month); err != nil {
			return err
		}
		if month != c.LastMonth() {
			return nil
		}
		e, err := s.escrow(c.ID)
		if err != nil {
			return err
		}
		if pot := e.Pot(month); pot != nil && pot.Distributed {
			return s.completeCircle(c, e)
		}
		return nil
	})
}

// enforcePenalties slashes floor(contribution × penalty_rate / 10000),
// bounded by the remaining stake, from each active member without a
// contribution for month.
func (s *session) enforcePenalties(c *models.Circle, month int) error {
	e, err := s.escrow(c.ID)
	if err != nil {
		return err
	}

	for _, principal := range c.Members {
		m, err := s.member(c.ID, principal)
		if err != nil {
			return err
		}
		if !m.IsActive() || m.ContributedFor(month) {
			continue
		}

		penalty, err := calculator.Penalty(c.ContributionAmount, c.PenaltyRate, m.StakeAmount)
		if err != nil {
			return err
		}
		if penalty > 0 {
			if err := releaseStake(e, penalty); err != nil {
				return err
			}
			m.StakeAmount -= penalty
			if m.Penalties, err = calculator.Add(m.Penalties, penalty); err != nil {
				return err
			}
			if err := s.creditTreasury(c.ID, month, penalty, feePenalty); err != nil {
				return err
			}
			if err := s.journal(c.ID, principal, models.EntryPenalty, penalty, month); err != nil {
				return err
			}
		}
		m.ContributionsMissed++

		ts, err := s.trustScore(principal)
		if err != nil {
			return err
		}
		if ts != nil {
			ts.MissedContributions++
			trust.Recompute(ts, s.now)
			m.TrustScore, m.TrustTier = ts.Score, ts.Tier
		}

		slog.Info("Penalty enforced", "circle_id", c.ID, "member", principal, "month", month, "amount", penalty)
	}
	return nil
}

var eventKinds = map[models.AutomationKind]models.AutomationEventKind{
	models.AutomationCollection:   models.EventContributionCollection,
	models.AutomationDistribution: models.EventPayoutDistribution,
	models.AutomationPenalty:      models.EventPenaltyEnforcement,
}

// trigger checks the automation preconditions for kind, runs fn for the due
// month inside a savepoint and records the outcome. A failing fn is rolled
// back and recorded; the schedule pointer advances either way.
func (l *Ledger) trigger(ctx context.Context, circleID, caller string, kind models.AutomationKind, fn func(s *session, a *models.CircleAutomation, month int) error) (*models.AutomationEvent, error) {
	var event *models.AutomationEvent
	err := l.update(ctx, "trigger_"+string(kind), func(s *session) error {
		state, err := s.automationState()
		if err != nil {
			return err
		}
		if caller == "" || caller != state.Authority {
			return models.ErrUnauthorized
		}
		if !state.Enabled {
			return models.ErrAutomationDisabled
		}

		a, err := s.tx.GetCircleAutomation(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrAutomationNotFound)
		}
		_, _, next, last := a.Slot(kind)
		if *last != 0 && s.now-*last < state.MinInterval {
			return models.ErrAutomationTooFrequent
		}
		if !isTimeFor(a, kind, s.now) {
			return models.ErrAutomationNotScheduled
		}

		month := *next
		runErr := s.tx.Savepoint(ctx, func() error {
			sub := newSession(ctx, s.tx, s.at, s.cfg)
			if err := fn(sub, a, month); err != nil {
				return err
			}
			return sub.flush()
		})
		if runErr != nil && models.KindOf(runErr) == models.KindUnknown {
			// Storage failures abort the trigger instead of being recorded.
			return runErr
		}

		event = &models.AutomationEvent{
			CircleID:  circleID,
			Kind:      eventKinds[kind],
			Month:     month,
			Timestamp: s.now,
			Success:   runErr == nil,
		}
		if runErr != nil {
			event.Error = runErr.Error()
		}
		if err := s.tx.AppendAutomationEvent(ctx, event); err != nil {
			return err
		}

		*next++
		*last = s.now
		if err := s.tx.PutCircleAutomation(ctx, a); err != nil {
			return err
		}
		state.LastCheck = s.now
		return s.tx.PutAutomationState(ctx, state)
	})
	if err != nil {
		return nil, err
	}

	if event.Success {
		slog.Info("Automation trigger ran", "circle_id", circleID, "kind", kind, "month", event.Month)
	} else {
		slog.Warn("Automation trigger failed", "circle_id", circleID, "kind", kind, "month", event.Month, "error", event.Error)
	}
	return event, nil
}

// UpdateAutomationSettings toggles the scheduler and optionally changes the
// minimum interval between triggers of one kind.
func (l *Ledger) UpdateAutomationSettings(ctx context.Context, caller string, enabled bool, minInterval *time.Duration) (*models.AutomationState, error) {
	if minInterval != nil && *minInterval < 0 {
		return nil, models.ErrInvalidAutomationConfig
	}

	var state *models.AutomationState
	err := l.update(ctx, "update_automation_settings", func(s *session) error {
		st, err := s.automationState()
		if err != nil {
			return err
		}
		if caller == "" || caller != st.Authority {
			return models.ErrUnauthorized
		}
		st.Enabled = enabled
		if minInterval != nil {
			st.MinInterval = seconds(*minInterval)
		}
		state = st
		return s.tx.PutAutomationState(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Automation settings updated", "enabled", state.Enabled, "min_interval_seconds", state.MinInterval)
	return state, nil
}

// GetAutomationState returns the scheduler singleton.
func (l *Ledger) GetAutomationState(ctx context.Context) (*models.AutomationState, error) {
	var state *models.AutomationState
	err := l.view(ctx, func(s *session) error {
		var err error
		state, err = s.automationState()
		return err
	})
	return state, err
}

// GetCircleAutomation returns a circle's trigger schedules.
func (l *Ledger) GetCircleAutomation(ctx context.Context, circleID string) (*models.CircleAutomation, error) {
	var automation *models.CircleAutomation
	err := l.view(ctx, func(s *session) error {
		a, err := s.tx.GetCircleAutomation(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrAutomationNotFound)
		}
		automation = a
		return nil
	})
	return automation, err
}

// ListAutomationEvents returns a circle's trigger history, oldest first.
func (l *Ledger) ListAutomationEvents(ctx context.Context, circleID string) ([]models.AutomationEvent, error) {
	var events []models.AutomationEvent
	err := l.view(ctx, func(s *session) error {
		var err error
		events, err = s.tx.ListAutomationEvents(ctx, circleID)
		return err
	})
	return events, err
}

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/circlefund/internal/models"
)

func setupAutomation(t *testing.T, l *Ledger, c *models.Circle) {
	t.Helper()
	_, err := l.SetupCircleAutomation(context.Background(), c.ID, c.Creator, AutomationParams{
		JobRef:         "job-" + c.ID,
		AutoCollect:    true,
		AutoDistribute: true,
		AutoPenalty:    true,
	})
	if err != nil {
		t.Fatalf("SetupCircleAutomation failed: %v", err)
	}
}

func TestSetupCircleAutomation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")

	_, err := l.SetupCircleAutomation(ctx, c.ID, "bob", AutomationParams{AutoCollect: true})
	wantErr(t, err, models.ErrUnauthorized)

	a, err := l.SetupCircleAutomation(ctx, c.ID, admin, AutomationParams{JobRef: "job-1", AutoCollect: true, AutoPenalty: true})
	if err != nil {
		t.Fatalf("SetupCircleAutomation failed: %v", err)
	}
	if len(a.ContributionSchedule) != 3 || len(a.DistributionSchedule) != 3 || len(a.PenaltySchedule) != 3 {
		t.Fatalf("schedules = %v %v %v", a.ContributionSchedule, a.DistributionSchedule, a.PenaltySchedule)
	}
	if a.DistributionSchedule[0]-a.ContributionSchedule[0] != models.DistributionOffsetSeconds {
		t.Errorf("distribution offset = %d", a.DistributionSchedule[0]-a.ContributionSchedule[0])
	}
	if a.PenaltySchedule[2]-c.CreatedAt != 2*models.SecondsPerMonth+models.PenaltyOffsetSeconds {
		t.Errorf("penalty slot 2 = %d", a.PenaltySchedule[2])
	}

	_, err = l.SetupCircleAutomation(ctx, c.ID, "alice", AutomationParams{})
	wantErr(t, err, models.ErrAutomationAlreadyConfigured)

	state, err := l.GetAutomationState(ctx)
	if err != nil {
		t.Fatalf("GetAutomationState failed: %v", err)
	}
	if state.ActiveJobs != 1 {
		t.Errorf("ActiveJobs = %d, want 1", state.ActiveJobs)
	}

	events, err := l.ListAutomationEvents(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListAutomationEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Kind != models.EventScheduleUpdate {
		t.Errorf("events = %+v, want one schedule update", events)
	}

	due, err := l.IsTimeFor(ctx, c.ID, models.AutomationDistribution)
	if err != nil {
		t.Fatalf("IsTimeFor failed: %v", err)
	}
	if due {
		t.Error("distribution is disabled but reported due")
	}
	due, err = l.IsTimeFor(ctx, c.ID, models.AutomationCollection)
	if err != nil {
		t.Fatalf("IsTimeFor failed: %v", err)
	}
	if !due {
		t.Error("collection slot 0 should be due at creation")
	}
}

func TestAutomatedCircle(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")
	setupAutomation(t, l, c)

	_, err := l.TriggerCollection(ctx, c.ID, "alice")
	wantErr(t, err, models.ErrUnauthorized)

	due, err := l.DueTriggers(ctx)
	if err != nil {
		t.Fatalf("DueTriggers failed: %v", err)
	}
	if len(due) != 1 || due[0].Kind != models.AutomationCollection {
		t.Fatalf("DueTriggers = %+v, want collection only", due)
	}

	// Month 0 opens; only alice pays.
	event, err := l.TriggerCollection(ctx, c.ID, admin)
	if err != nil {
		t.Fatalf("TriggerCollection failed: %v", err)
	}
	if !event.Success || event.Month != 0 || event.Kind != models.EventContributionCollection {
		t.Errorf("event = %+v", event)
	}
	contributeAll(t, l, c, "alice")

	_, err = l.TriggerCollection(ctx, c.ID, admin)
	wantErr(t, err, models.ErrAutomationTooFrequent)

	clock.Advance(2 * time.Hour)
	_, err = l.TriggerCollection(ctx, c.ID, admin)
	wantErr(t, err, models.ErrAutomationNotScheduled)

	// Day 25: month 0's pot goes to alice, first in the rotation.
	clock.Advance(25*24*time.Hour - 2*time.Hour)
	event, err = l.TriggerDistribution(ctx, c.ID, admin)
	if err != nil {
		t.Fatalf("TriggerDistribution failed: %v", err)
	}
	if !event.Success || event.Month != 0 || event.Kind != models.EventPayoutDistribution {
		t.Fatalf("distribution event = %+v", event)
	}

	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if !e.MonthlyPots[0].Distributed || e.MonthlyPots[0].DistributedTo != "alice" || e.MonthlyPots[0].DistributedAmount != 995_000 {
		t.Errorf("pot 0 = %+v, want 995000 paid to alice", e.MonthlyPots[0])
	}
	got, err := l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.CurrentMonth != 1 || got.PendingPayoutMonth != nil {
		t.Errorf("circle month %d pending %v, want month 0 closed", got.CurrentMonth, got.PendingPayoutMonth)
	}

	// The month is closed, so bob can no longer pay into it.
	_, err = l.Contribute(ctx, c.ID, "bob", c.ContributionAmount)
	wantErr(t, err, models.ErrPotAlreadyDistributed)

	// Day 27: bob missed month 0.
	clock.Advance(2 * 24 * time.Hour)
	event, err = l.TriggerPenalty(ctx, c.ID, admin)
	if err != nil {
		t.Fatalf("TriggerPenalty failed: %v", err)
	}
	if !event.Success {
		t.Fatalf("penalty event = %+v", event)
	}

	bob, err := l.GetMember(ctx, c.ID, "bob")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if bob.StakeAmount != 1_900_000 || bob.Penalties != 100_000 || bob.ContributionsMissed != 1 {
		t.Errorf("bob = stake %d penalties %d missed %d", bob.StakeAmount, bob.Penalties, bob.ContributionsMissed)
	}
	alice, err := l.GetMember(ctx, c.ID, "alice")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if alice.StakeAmount != 2_000_000 || alice.ContributionsMissed != 0 {
		t.Errorf("alice = stake %d missed %d", alice.StakeAmount, alice.ContributionsMissed)
	}
	assertConserved(t, l, c.ID)

	// Day 30: month 0 is already closed, so the collection has nothing to do.
	clock.Advance(3 * 24 * time.Hour)
	event, err = l.TriggerCollection(ctx, c.ID, admin)
	if err != nil {
		t.Fatalf("TriggerCollection failed: %v", err)
	}
	if !event.Success || event.Month != 1 {
		t.Errorf("collection event = %+v", event)
	}
	got, err = l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.CurrentMonth != 1 || got.PendingPayoutMonth != nil {
		t.Errorf("circle month %d pending %v after collection", got.CurrentMonth, got.PendingPayoutMonth)
	}

	treasury, err := l.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury failed: %v", err)
	}
	if treasury.PenaltyFees != 100_000 || treasury.DistributionFees != 5_000 {
		t.Errorf("treasury = %+v", treasury)
	}

	events, err := l.ListAutomationEvents(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListAutomationEvents failed: %v", err)
	}
	if len(events) != 5 {
		t.Errorf("recorded %d events, want 5", len(events))
	}

	a, err := l.GetCircleAutomation(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircleAutomation failed: %v", err)
	}
	if a.NextCollection != 2 || a.NextDistribution != 1 || a.NextPenalty != 1 {
		t.Errorf("pointers = %d/%d/%d, want 2/1/1", a.NextCollection, a.NextDistribution, a.NextPenalty)
	}
}

// dispatch runs one due trigger as the automation authority.
func dispatch(t *testing.T, l *Ledger, d DueTrigger) *models.AutomationEvent {
	t.Helper()
	ctx := context.Background()
	var (
		event *models.AutomationEvent
		err   error
	)
	switch d.Kind {
	case models.AutomationCollection:
		event, err = l.TriggerCollection(ctx, d.CircleID, admin)
	case models.AutomationDistribution:
		event, err = l.TriggerDistribution(ctx, d.CircleID, admin)
	case models.AutomationPenalty:
		event, err = l.TriggerPenalty(ctx, d.CircleID, admin)
	}
	if err != nil {
		t.Fatalf("trigger %s failed: %v", d.Kind, err)
	}
	return event
}

// runAutomation steps the clock hourly for days, letting pay contribute at the
// start of each circle month, and dispatches every trigger as it falls due.
func runAutomation(t *testing.T, l *Ledger, clock *fakeClock, c *models.Circle, days int, pay func(month int)) []*models.AutomationEvent {
	t.Helper()
	var events []*models.AutomationEvent
	for hour := 0; hour <= days*24; hour++ {
		if hour%(30*24) == 0 && hour/(30*24) < c.DurationMonths {
			pay(hour / (30 * 24))
		}
		due, err := l.DueTriggers(context.Background())
		if err != nil {
			t.Fatalf("DueTriggers failed: %v", err)
		}
		for _, d := range due {
			events = append(events, dispatch(t, l, d))
		}
		clock.Advance(time.Hour)
	}
	return events
}

func TestAutomatedCircleCompletes(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")
	setupAutomation(t, l, c)

	events := runAutomation(t, l, clock, c, 100, func(int) { contributeAll(t, l, c, "alice", "bob") })

	// Three slots of each kind, all successful, each labelled with the month
	// it acted on.
	if len(events) != 9 {
		t.Fatalf("ran %d triggers, want 9", len(events))
	}
	months := map[models.AutomationEventKind]int{}
	for _, ev := range events {
		if !ev.Success {
			t.Errorf("event %+v failed", ev)
		}
		if ev.Month != months[ev.Kind] {
			t.Errorf("%s event month = %d, want %d", ev.Kind, ev.Month, months[ev.Kind])
		}
		months[ev.Kind]++
	}

	got, err := l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.Status != models.CircleCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}

	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	wantTo := []string{"alice", "bob", "alice"}
	for i, pot := range e.MonthlyPots {
		if !pot.Distributed || pot.DistributedTo != wantTo[i] || pot.DistributedAmount != 1_990_000 {
			t.Errorf("pot %d = %+v, want 1990000 paid to %s", i, pot, wantTo[i])
		}
	}
	if e.TotalAmount != 0 || e.TotalStaked != 0 {
		t.Errorf("escrow still holds %d (staked %d)", e.TotalAmount, e.TotalStaked)
	}
	assertConserved(t, l, c.ID)

	for _, m := range []string{"alice", "bob"} {
		member, err := l.GetMember(ctx, c.ID, m)
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if member.StakeAmount != 0 || member.Penalties != 0 {
			t.Errorf("%s = stake %d penalties %d, want refunded", m, member.StakeAmount, member.Penalties)
		}
	}

	treasury, err := l.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury failed: %v", err)
	}
	if treasury.DistributionFees != 30_000 {
		t.Errorf("DistributionFees = %d, want 30000", treasury.DistributionFees)
	}
}

func TestAutomatedCirclePenalizesFinalMonth(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")
	setupAutomation(t, l, c)

	// bob skips the last month; his penalty lands before the stakes are
	// refunded.
	runAutomation(t, l, clock, c, 100, func(month int) {
		contributeAll(t, l, c, "alice")
		if month < 2 {
			contributeAll(t, l, c, "bob")
		}
	})

	got, err := l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.Status != models.CircleCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}

	bob, err := l.GetMember(ctx, c.ID, "bob")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if bob.Penalties != 100_000 || bob.ContributionsMissed != 1 {
		t.Errorf("bob = penalties %d missed %d, want the final month penalized", bob.Penalties, bob.ContributionsMissed)
	}

	treasury, err := l.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury failed: %v", err)
	}
	if treasury.PenaltyFees != 100_000 {
		t.Errorf("PenaltyFees = %d, want 100000", treasury.PenaltyFees)
	}
	assertConserved(t, l, c.ID)
}

func TestAutomatedCircleEmptyFinalMonth(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")
	_, err := l.SetupCircleAutomation(ctx, c.ID, c.Creator, AutomationParams{
		AutoCollect:    true,
		AutoDistribute: true,
	})
	if err != nil {
		t.Fatalf("SetupCircleAutomation failed: %v", err)
	}

	// Nobody pays in the last month: the final distribution closes the empty
	// pot and completes the circle on its own.
	runAutomation(t, l, clock, c, 100, func(month int) {
		if month < 2 {
			contributeAll(t, l, c, "alice", "bob")
		}
	})

	got, err := l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.Status != models.CircleCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if !e.MonthlyPots[2].Distributed || e.MonthlyPots[2].DistributedAmount != 0 {
		t.Errorf("pot 2 = %+v, want closed without a payout", e.MonthlyPots[2])
	}
	if e.TotalAmount != 0 {
		t.Errorf("escrow still holds %d", e.TotalAmount)
	}
}

func TestUpdateAutomationSettings(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")
	setupAutomation(t, l, c)

	_, err := l.UpdateAutomationSettings(ctx, "alice", false, nil)
	wantErr(t, err, models.ErrUnauthorized)

	negative := -time.Second
	_, err = l.UpdateAutomationSettings(ctx, admin, true, &negative)
	wantErr(t, err, models.ErrInvalidAutomationConfig)

	state, err := l.UpdateAutomationSettings(ctx, admin, false, nil)
	if err != nil {
		t.Fatalf("UpdateAutomationSettings failed: %v", err)
	}
	if state.Enabled || state.MinInterval != 3600 {
		t.Errorf("state = %+v", state)
	}

	_, err = l.TriggerCollection(ctx, c.ID, admin)
	wantErr(t, err, models.ErrAutomationDisabled)

	zero := time.Duration(0)
	if _, err := l.UpdateAutomationSettings(ctx, admin, true, &zero); err != nil {
		t.Fatalf("UpdateAutomationSettings failed: %v", err)
	}
	if _, err := l.TriggerCollection(ctx, c.ID, admin); err != nil {
		t.Fatalf("TriggerCollection failed: %v", err)
	}

	_, err = l.TriggerCollection(ctx, "missing", admin)
	wantErr(t, err, models.ErrAutomationNotFound)
}

func TestRevenueParams(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	p, err := l.GetRevenueParams(ctx)
	if err != nil {
		t.Fatalf("GetRevenueParams failed: %v", err)
	}
	if p.DistributionFeeRate != 50 || p.AuctionFeeRate != 25 || p.ManagementFeeRate != 200 {
		t.Errorf("defaults = %d/%d/%d, want 50/25/200", p.DistributionFeeRate, p.AuctionFeeRate, p.ManagementFeeRate)
	}
	if p.ManagementFeeInterval != models.SecondsPerMonth {
		t.Errorf("ManagementFeeInterval = %d, want %d", p.ManagementFeeInterval, models.SecondsPerMonth)
	}

	rate := uint16(100)
	tooHigh := uint16(1001)
	hour := time.Hour
	tests := []struct {
		name   string
		caller string
		update RevenueUpdate
		want   error
	}{
		{"not the authority", "alice", RevenueUpdate{DistributionFeeRate: &rate}, models.ErrUnauthorized},
		{"auction rate too high", admin, RevenueUpdate{AuctionFeeRate: &tooHigh}, models.ErrInvalidFeeRate},
		{"management rate too high", admin, RevenueUpdate{ManagementFeeRate: &tooHigh}, models.ErrInvalidFeeRate},
		{"interval under a day", admin, RevenueUpdate{ManagementFeeInterval: &hour}, models.ErrInvalidFeeInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.UpdateRevenueParams(ctx, tt.caller, tt.update)
			wantErr(t, err, tt.want)
		})
	}

	week := 7 * 24 * time.Hour
	p, err = l.UpdateRevenueParams(ctx, admin, RevenueUpdate{DistributionFeeRate: &rate, ManagementFeeInterval: &week})
	if err != nil {
		t.Fatalf("UpdateRevenueParams failed: %v", err)
	}
	if p.DistributionFeeRate != 100 || p.AuctionFeeRate != 25 {
		t.Errorf("rates = %d/%d, want 100/25", p.DistributionFeeRate, p.AuctionFeeRate)
	}
	if p.ManagementFeeInterval != 7*24*60*60 {
		t.Errorf("ManagementFeeInterval = %d, want one week", p.ManagementFeeInterval)
	}

	// The new rate applies to the next payout.
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")
	contributeAll(t, l, c, "alice", "bob")
	pot, err := l.DistributePot(ctx, c.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("DistributePot failed: %v", err)
	}
	if pot.DistributedAmount != 1_980_000 {
		t.Errorf("DistributedAmount = %d, want 1980000", pot.DistributedAmount)
	}
}

package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/circlefund/internal/models"
)

func TestInitializeCircleValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(p *CircleParams)
		want   error
	}{
		{"zero duration", func(p *CircleParams) { p.DurationMonths = 0 }, models.ErrInvalidDuration},
		{"duration too long", func(p *CircleParams) { p.DurationMonths = 25 }, models.ErrInvalidDuration},
		{"zero members", func(p *CircleParams) { p.MaxMembers = 0 }, models.ErrInvalidMaxMembers},
		{"too many members", func(p *CircleParams) { p.MaxMembers = 21 }, models.ErrInvalidMaxMembers},
		{"zero contribution", func(p *CircleParams) { p.ContributionAmount = 0 }, models.ErrInvalidContributionAmount},
		{"penalty above 100%", func(p *CircleParams) { p.PenaltyRate = 10001 }, models.ErrInvalidPenaltyRate},
		{"unknown payout method", func(p *CircleParams) { p.PayoutMethod = "lottery" }, models.ErrUnknownPayoutMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := defaultParams()
			tt.modify(&params)
			_, err := l.InitializeCircle(ctx, "alice", params)
			wantErr(t, err, tt.want)
		})
	}
}

func TestInitializeCircle(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()

	c, err := l.InitializeCircle(ctx, "alice", defaultParams())
	if err != nil {
		t.Fatalf("InitializeCircle failed: %v", err)
	}
	if c.Status != models.CircleActive || c.CurrentMonth != 0 || c.CurrentMembers != 0 {
		t.Errorf("unexpected new circle: %+v", c)
	}
	if c.PayoutMethod != models.PayoutFixedRotation {
		t.Errorf("PayoutMethod = %s, want fixed_rotation", c.PayoutMethod)
	}
	if len(c.ContributionSchedule) != 3 || c.ContributionSchedule[1]-c.ContributionSchedule[0] != models.SecondsPerMonth {
		t.Errorf("ContributionSchedule = %v", c.ContributionSchedule)
	}

	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if len(e.MonthlyPots) != 3 || e.TotalAmount != 0 {
		t.Errorf("unexpected new escrow: %+v", e)
	}

	// Same creator at the same instant derives the same ID.
	_, err = l.InitializeCircle(ctx, "alice", defaultParams())
	wantErr(t, err, models.ErrCircleExists)

	clock.Advance(1)
	if _, err := l.InitializeCircle(ctx, "alice", defaultParams()); err != nil {
		t.Fatalf("InitializeCircle after clock advance failed: %v", err)
	}

	circles, err := l.ListCircles(ctx)
	if err != nil {
		t.Fatalf("ListCircles failed: %v", err)
	}
	if len(circles) != 2 {
		t.Errorf("ListCircles returned %d circles, want 2", len(circles))
	}
}

func TestCircleScenario(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	c, err := l.InitializeCircle(ctx, "alice", defaultParams())
	if err != nil {
		t.Fatalf("InitializeCircle failed: %v", err)
	}

	_, err = l.JoinCircle(ctx, c.ID, "alice", 1_999_999)
	wantErr(t, err, models.ErrInsufficientStake)

	for _, m := range []string{"alice", "bob"} {
		member, err := l.JoinCircle(ctx, c.ID, m, 2_000_000)
		if err != nil {
			t.Fatalf("JoinCircle(%s) failed: %v", m, err)
		}
		if member.TrustTier != models.TierNewcomer {
			t.Errorf("%s tier = %s, want newcomer", m, member.TrustTier)
		}
	}

	_, err = l.JoinCircle(ctx, c.ID, "carol", 2_000_000)
	wantErr(t, err, models.ErrCircleFull)

	contributeAll(t, l, c, "alice", "bob")

	got, err := l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.TotalPot != 2_000_000 {
		t.Errorf("TotalPot = %d, want 2000000", got.TotalPot)
	}
	if got.CurrentMembers != 2 {
		t.Errorf("CurrentMembers = %d, want 2", got.CurrentMembers)
	}

	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if e.TotalAmount != 6_000_000 {
		t.Errorf("escrow TotalAmount = %d, want 6000000", e.TotalAmount)
	}
	if e.TotalStaked != 4_000_000 {
		t.Errorf("escrow TotalStaked = %d, want 4000000", e.TotalStaked)
	}
	if e.MonthlyPots[0].Collected != 2_000_000 || len(e.MonthlyPots[0].Contributions) != 2 {
		t.Errorf("pot 0 = %+v", e.MonthlyPots[0])
	}
	assertConserved(t, l, c.ID)
}

func TestJoinCircleErrors(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice")

	_, err := l.JoinCircle(ctx, c.ID, "alice", 2_000_000)
	wantErr(t, err, models.ErrMemberAlreadyExists)

	_, err = l.JoinCircle(ctx, "missing", "bob", 2_000_000)
	wantErr(t, err, models.ErrCircleNotFound)

	if _, err := l.LeaveCircle(ctx, c.ID, "alice"); err != nil {
		t.Fatalf("LeaveCircle failed: %v", err)
	}
	_, err = l.JoinCircle(ctx, c.ID, "alice", 2_000_000)
	wantErr(t, err, models.ErrMemberAlreadyExists)
}

func TestJoinCircleUsesTrustTier(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.InitializeTrustScore(ctx, "bob"); err != nil {
		t.Fatalf("InitializeTrustScore failed: %v", err)
	}
	if _, err := l.UpdateDefiActivity(ctx, oracle, "bob", 200); err != nil {
		t.Fatalf("UpdateDefiActivity failed: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if _, err := l.AddSocialProof(ctx, "bob", "github", id); err != nil {
			t.Fatalf("AddSocialProof failed: %v", err)
		}
		if _, err := l.VerifySocialProof(ctx, verifier, "bob", "github", id); err != nil {
			t.Fatalf("VerifySocialProof failed: %v", err)
		}
	}

	ts, err := l.GetTrustScore(ctx, "bob")
	if err != nil {
		t.Fatalf("GetTrustScore failed: %v", err)
	}
	if ts.Score != 260 || ts.Tier != models.TierSilver {
		t.Fatalf("score = %d tier = %s, want 260 silver", ts.Score, ts.Tier)
	}

	c := newTestCircle(t, l, defaultParams())

	_, err = l.JoinCircle(ctx, c.ID, "bob", 1_499_999)
	wantErr(t, err, models.ErrInsufficientStake)

	m, err := l.JoinCircle(ctx, c.ID, "bob", 1_500_000)
	if err != nil {
		t.Fatalf("JoinCircle failed: %v", err)
	}
	if m.TrustTier != models.TierSilver || m.TrustScore != 260 {
		t.Errorf("member tier = %s score = %d, want silver 260", m.TrustTier, m.TrustScore)
	}

	ts, err = l.GetTrustScore(ctx, "bob")
	if err != nil {
		t.Fatalf("GetTrustScore failed: %v", err)
	}
	if ts.CirclesJoined != 1 {
		t.Errorf("CirclesJoined = %d, want 1", ts.CirclesJoined)
	}
}

func TestContribute(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")

	tests := []struct {
		name      string
		principal string
		amount    uint64
		want      error
	}{
		{"wrong amount", "alice", 999_999, models.ErrInvalidContributionAmount},
		{"non-member", "carol", 1_000_000, models.ErrMemberNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Contribute(ctx, c.ID, tt.principal, tt.amount)
			wantErr(t, err, tt.want)
		})
	}

	m, err := l.Contribute(ctx, c.ID, "alice", 1_000_000)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if m.ContributionHistory[0] != 1_000_000 {
		t.Errorf("ContributionHistory = %v", m.ContributionHistory)
	}

	_, err = l.Contribute(ctx, c.ID, "alice", 1_000_000)
	wantErr(t, err, models.ErrContributionAlreadyMade)

	clock.Advance(month)
	m, err = l.Contribute(ctx, c.ID, "alice", 1_000_000)
	if err != nil {
		t.Fatalf("Contribute in month 1 failed: %v", err)
	}
	if m.ContributionHistory[1] != 1_000_000 {
		t.Errorf("ContributionHistory = %v", m.ContributionHistory)
	}

	// Contributions past the last month count toward the last month.
	clock.Advance(5 * month)
	if _, err := l.Contribute(ctx, c.ID, "bob", 1_000_000); err != nil {
		t.Fatalf("late Contribute failed: %v", err)
	}
	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if e.MonthlyPots[2].Collected != 1_000_000 {
		t.Errorf("pot 2 collected = %d, want 1000000", e.MonthlyPots[2].Collected)
	}
	assertConserved(t, l, c.ID)
}

func TestContributeUpdatesTrustScore(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.InitializeTrustScore(ctx, "bob"); err != nil {
		t.Fatalf("InitializeTrustScore failed: %v", err)
	}
	c := newTestCircle(t, l, defaultParams(), "bob")

	m, err := l.Contribute(ctx, c.ID, "bob", 1_000_000)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	ts, err := l.GetTrustScore(ctx, "bob")
	if err != nil {
		t.Fatalf("GetTrustScore failed: %v", err)
	}
	if ts.ContributionsMade != 1 || ts.TotalContributions != 1_000_000 {
		t.Errorf("counters = %d/%d, want 1/1000000", ts.ContributionsMade, ts.TotalContributions)
	}
	if ts.PaymentHistoryScore != 400 {
		t.Errorf("PaymentHistoryScore = %d, want 400", ts.PaymentHistoryScore)
	}
	if m.TrustScore != ts.Score || m.TrustTier != ts.Tier {
		t.Errorf("member cache = %d/%s, trust score = %d/%s", m.TrustScore, m.TrustTier, ts.Score, ts.Tier)
	}
}

func TestLeaveCircle(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")
	contributeAll(t, l, c, "alice", "bob")

	m, err := l.LeaveCircle(ctx, c.ID, "bob")
	if err != nil {
		t.Fatalf("LeaveCircle failed: %v", err)
	}
	if m.Status != models.MemberExited || m.StakeAmount != 0 || m.ContributionHistory[0] != 0 {
		t.Errorf("unexpected exited member: %+v", m)
	}

	got, err := l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.CurrentMembers != 1 || got.HasMember("bob") {
		t.Errorf("roster = %v (%d)", got.Members, got.CurrentMembers)
	}
	if got.TotalPot != 1_000_000 {
		t.Errorf("TotalPot = %d, want 1000000", got.TotalPot)
	}

	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if e.TotalAmount != 3_000_000 {
		t.Errorf("escrow TotalAmount = %d, want 3000000", e.TotalAmount)
	}
	assertConserved(t, l, c.ID)

	_, err = l.LeaveCircle(ctx, c.ID, "bob")
	wantErr(t, err, models.ErrMemberNotActive)

	_, err = l.Contribute(ctx, c.ID, "bob", 1_000_000)
	wantErr(t, err, models.ErrMemberNotActive)

	// A freed seat can be taken by someone new.
	if _, err := l.JoinCircle(ctx, c.ID, "carol", 2_000_000); err != nil {
		t.Fatalf("JoinCircle(carol) failed: %v", err)
	}

	positions, fees, err := l.CirclePositions(ctx, c.ID)
	if err != nil {
		t.Fatalf("CirclePositions failed: %v", err)
	}
	if fees != 0 {
		t.Errorf("fees = %d, want 0", fees)
	}
	for _, p := range positions {
		if p.Principal == "bob" && p.NetPosition != 0 {
			t.Errorf("bob net position = %d, want 0", p.NetPosition)
		}
	}
}

func TestListMembers(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, defaultParams(), "alice", "bob")

	members, err := l.ListMembers(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 || members[0].Authority != "alice" || members[1].Authority != "bob" {
		t.Errorf("ListMembers = %v", members)
	}

	if _, err := l.ListMembers(ctx, "missing"); !errors.Is(err, models.ErrCircleNotFound) {
		t.Errorf("ListMembers(missing) error = %v, want CircleNotFound", err)
	}
}

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/circlefund/internal/models"
)

func auctionParams() CircleParams {
	return CircleParams{
		ContributionAmount: 1_000_000,
		DurationMonths:     2,
		MaxMembers:         3,
		PayoutMethod:       models.PayoutAuction,
	}
}

func TestCreateAuctionValidation(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, auctionParams(), "alice", "bob", "carol")
	contributeAll(t, l, c, "alice", "bob", "carol")

	tests := []struct {
		name      string
		circleID  string
		initiator string
		params    AuctionParams
		want      error
	}{
		{"zero pot", c.ID, "alice", AuctionParams{0, 1, 24}, models.ErrNoPotAvailableForAuction},
		{"zero duration", c.ID, "alice", AuctionParams{1000, 1, 0}, models.ErrInvalidAuctionDuration},
		{"duration too long", c.ID, "alice", AuctionParams{1000, 1, 73}, models.ErrInvalidAuctionDuration},
		{"starting bid above pot", c.ID, "alice", AuctionParams{1000, 1001, 24}, models.ErrInvalidStartingBid},
		{"pot above escrow", c.ID, "alice", AuctionParams{3_000_001, 1, 24}, models.ErrInsufficientEscrow},
		{"non-member", c.ID, "dave", AuctionParams{1000, 1, 24}, models.ErrMemberNotFound},
		{"missing circle", "missing", "alice", AuctionParams{1000, 1, 24}, models.ErrCircleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreateAuction(ctx, tt.circleID, tt.initiator, tt.params)
			wantErr(t, err, tt.want)
		})
	}

	clock.Advance(time.Second)
	fixed := newTestCircle(t, l, defaultParams(), "alice", "bob")
	contributeAll(t, l, fixed, "alice")
	_, err := l.CreateAuction(ctx, fixed.ID, "alice", AuctionParams{1000, 1, 24})
	wantErr(t, err, models.ErrInvalidPayoutMethod)
}

func TestAuctionLifecycle(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, auctionParams(), "alice", "bob", "carol")
	contributeAll(t, l, c, "alice", "bob", "carol")

	a, err := l.CreateAuction(ctx, c.ID, "alice", AuctionParams{PotAmount: 3_000_000, StartingBid: 100_000, DurationHours: 24})
	if err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}
	if a.HighestBid != 100_000 || a.HighestBidder != "" || a.Status != models.AuctionActive || a.PayoutMonth != 0 {
		t.Fatalf("new auction = %+v", a)
	}

	_, err = l.CreateAuction(ctx, c.ID, "bob", AuctionParams{PotAmount: 1_000, StartingBid: 1, DurationHours: 1})
	wantErr(t, err, models.ErrAuctionInProgress)

	_, err = l.DistributePot(ctx, c.ID, "alice", "bob")
	wantErr(t, err, models.ErrAuctionInProgress)

	if _, err := l.BidForPayout(ctx, c.ID, "bob", 200_000); err != nil {
		t.Fatalf("BidForPayout(bob) failed: %v", err)
	}

	bids := []struct {
		bidder string
		amount uint64
		want   error
	}{
		{"carol", 150_000, models.ErrBidTooLow},
		{"carol", 200_000, models.ErrBidTooLow},
		{"alice", 500_000, models.ErrCannotBidOnOwnAuction},
		{"carol", 3_000_001, models.ErrBidExceedsPot},
		{"dave", 500_000, models.ErrMemberNotFound},
	}
	for _, b := range bids {
		_, err := l.PlaceBid(ctx, c.ID, b.bidder, b.amount)
		wantErr(t, err, b.want)
	}

	a, err = l.PlaceBid(ctx, c.ID, "carol", 300_000)
	if err != nil {
		t.Fatalf("PlaceBid(carol) failed: %v", err)
	}
	if a.HighestBid != 300_000 || a.HighestBidder != "carol" || a.BidCount != 2 {
		t.Errorf("auction after bids = %+v", a)
	}

	list, err := l.ListBids(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListBids failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListBids returned %d bids, want 2", len(list))
	}
	for _, b := range list {
		if b.IsHighest != (b.Bidder == "carol") {
			t.Errorf("bid %s IsHighest = %v", b.Bidder, b.IsHighest)
		}
	}

	_, err = l.SettleAuction(ctx, c.ID)
	wantErr(t, err, models.ErrAuctionNotEnded)

	clock.Advance(24 * time.Hour)
	_, err = l.PlaceBid(ctx, c.ID, "bob", 400_000)
	wantErr(t, err, models.ErrAuctionHasEnded)

	a, err = l.SettleAuction(ctx, c.ID)
	if err != nil {
		t.Fatalf("SettleAuction failed: %v", err)
	}
	// 3,000,000 - 300,000 bid = 2,700,000 less 50 bps.
	if !a.Settled || a.WinningPayout != 2_686_500 {
		t.Errorf("settled auction = %+v, want payout 2686500", a)
	}

	_, err = l.SettleAuction(ctx, c.ID)
	wantErr(t, err, models.ErrAuctionAlreadySettled)

	_, err = l.PlaceBid(ctx, c.ID, "bob", 400_000)
	wantErr(t, err, models.ErrAuctionNotActive)

	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	// The bid less the 25 bps auction fee carries into month 1.
	if e.MonthlyPots[1].Collected != 299_250 || e.MonthlyPots[1].Carried != 299_250 {
		t.Errorf("pot 1 = %+v, want 299250 carried", e.MonthlyPots[1])
	}
	if !e.MonthlyPots[0].Distributed || e.MonthlyPots[0].DistributedTo != "carol" {
		t.Errorf("pot 0 = %+v, want distributed to carol", e.MonthlyPots[0])
	}
	assertConserved(t, l, c.ID)

	treasury, err := l.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury failed: %v", err)
	}
	if treasury.DistributionFees != 13_500 || treasury.AuctionFees != 750 {
		t.Errorf("treasury = %+v, want 13500 distribution and 750 auction fees", treasury)
	}

	// Month 1, the last: a second auction completes the circle.
	clock.Advance(month)
	contributeAll(t, l, c, "alice", "bob", "carol")

	if _, err := l.CreateAuction(ctx, c.ID, "bob", AuctionParams{PotAmount: 3_000_000, StartingBid: 10, DurationHours: 1}); err != nil {
		t.Fatalf("second CreateAuction failed: %v", err)
	}
	_, err = l.PlaceBid(ctx, c.ID, "carol", 1_000)
	wantErr(t, err, models.ErrMemberAlreadyReceivedPot)
	if _, err := l.PlaceBid(ctx, c.ID, "alice", 1_000); err != nil {
		t.Fatalf("PlaceBid(alice) failed: %v", err)
	}

	clock.Advance(time.Hour)
	if _, err := l.SettleAuction(ctx, c.ID); err != nil {
		t.Fatalf("second SettleAuction failed: %v", err)
	}

	got, err := l.GetCircle(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCircle failed: %v", err)
	}
	if got.Status != models.CircleCompleted {
		t.Errorf("Status = %s, want completed", got.Status)
	}
	assertConserved(t, l, c.ID)

	e, err = l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if e.TotalAmount != 0 {
		t.Errorf("escrow TotalAmount = %d, want 0", e.TotalAmount)
	}

	treasury, err = l.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury failed: %v", err)
	}
	// 750 + 2 bid fee + 998 bid remainder + 299,250 unauctioned carry.
	if treasury.AuctionFees != 301_000 {
		t.Errorf("AuctionFees = %d, want 301000", treasury.AuctionFees)
	}
}

func TestSettleAuctionWithoutBids(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	c := newTestCircle(t, l, auctionParams(), "alice", "bob")
	contributeAll(t, l, c, "alice", "bob")

	if _, err := l.CreateAuction(ctx, c.ID, "alice", AuctionParams{PotAmount: 2_000_000, StartingBid: 1, DurationHours: 1}); err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}
	clock.Advance(time.Hour)

	a, err := l.SettleAuction(ctx, c.ID)
	if err != nil {
		t.Fatalf("SettleAuction failed: %v", err)
	}
	if !a.Settled || a.WinningPayout != 0 {
		t.Errorf("auction = %+v, want settled without payout", a)
	}

	e, err := l.GetEscrow(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetEscrow failed: %v", err)
	}
	if e.MonthlyPots[0].Distributed || e.MonthlyPots[0].Collected != 2_000_000 {
		t.Errorf("pot 0 = %+v, want untouched", e.MonthlyPots[0])
	}

	// The slot is free again.
	if _, err := l.CreateAuction(ctx, c.ID, "bob", AuctionParams{PotAmount: 2_000_000, StartingBid: 1, DurationHours: 1}); err != nil {
		t.Fatalf("CreateAuction after settlement failed: %v", err)
	}
}

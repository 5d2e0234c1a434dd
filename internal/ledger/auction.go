package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/keys"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/storage"
)

// AuctionParams configures a new auction.
type AuctionParams struct {
	PotAmount     uint64
	StartingBid   uint64
	DurationHours int
}

// CreateAuction opens bidding on the pending payout month's pot, or the
// current contribution month's pot when no payout is pending.
func (l *Ledger) CreateAuction(ctx context.Context, circleID, initiator string, params AuctionParams) (*models.Auction, error) {
	if params.PotAmount == 0 {
		return nil, models.ErrNoPotAvailableForAuction
	}
	if params.DurationHours <= 0 || params.DurationHours > models.MaxAuctionHours {
		return nil, models.ErrInvalidAuctionDuration
	}
	if params.StartingBid == 0 || params.StartingBid > params.PotAmount {
		return nil, models.ErrInvalidStartingBid
	}

	var auction *models.Auction
	err := l.update(ctx, "create_auction", func(s *session) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if c.PayoutMethod != models.PayoutAuction {
			return models.ErrInvalidPayoutMethod
		}
		if _, err := s.activeMember(circleID, initiator); err != nil {
			return err
		}

		existing, err := s.tx.GetAuction(ctx, circleID)
		switch {
		case err == nil && !existing.Settled:
			return models.ErrAuctionInProgress
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return err
		}

		month := s.contributionMonth(c)
		if c.PendingPayoutMonth != nil {
			month = *c.PendingPayoutMonth
		}
		e, err := s.escrow(circleID)
		if err != nil {
			return err
		}
		pot := e.Pot(month)
		if pot == nil || pot.Distributed {
			return models.ErrPotAlreadyDistributed
		}
		if params.PotAmount > pot.Collected {
			return models.ErrInsufficientEscrow
		}

		auction = &models.Auction{
			ID:          keys.AuctionID(circleID, s.now),
			CircleID:    circleID,
			Initiator:   initiator,
			PayoutMonth: month,
			PotAmount:   params.PotAmount,
			StartingBid: params.StartingBid,
			HighestBid:  params.StartingBid,
			Status:      models.AuctionActive,
			StartTime:   s.now,
			EndTime:     s.now + int64(params.DurationHours)*3600,
		}
		return s.tx.PutAuction(ctx, auction)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Auction created", "circle_id", circleID, "auction_id", auction.ID, "month", auction.PayoutMonth, "pot", auction.PotAmount)
	return auction, nil
}

// PlaceBid raises the highest bid on the circle's active auction. A bid is
// the discount the bidder accepts on the pot in exchange for receiving it.
func (l *Ledger) PlaceBid(ctx context.Context, circleID, bidder string, amount uint64) (*models.Auction, error) {
	var auction *models.Auction
	err := l.update(ctx, "place_bid", func(s *session) error {
		a, err := s.tx.GetAuction(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrAuctionNotFound)
		}
		if a.Status != models.AuctionActive || a.Settled {
			return models.ErrAuctionNotActive
		}
		if a.Ended(s.now) {
			return models.ErrAuctionHasEnded
		}
		if bidder == a.Initiator {
			return models.ErrCannotBidOnOwnAuction
		}

		m, err := s.activeMember(circleID, bidder)
		if err != nil {
			return err
		}
		if m.HasReceivedPot {
			return models.ErrMemberAlreadyReceivedPot
		}
		if amount <= a.HighestBid {
			return models.ErrBidTooLow
		}
		if amount > a.PotAmount {
			return models.ErrBidExceedsPot
		}
		if m.StakeAmount < calculator.MinimumBidStake(amount) {
			return models.ErrInsufficientStakeForBid
		}

		if a.HighestBidder != "" && a.HighestBidder != bidder {
			prev, err := s.tx.GetBid(ctx, a.ID, a.HighestBidder)
			if err != nil {
				return err
			}
			prev.IsHighest = false
			if err := s.tx.PutBid(ctx, prev); err != nil {
				return err
			}
		}

		if err := s.tx.PutBid(ctx, &models.Bid{
			AuctionID:   a.ID,
			Bidder:      bidder,
			Amount:      amount,
			BidderStake: m.StakeAmount,
			IsHighest:   true,
			Timestamp:   s.now,
		}); err != nil {
			return err
		}

		a.HighestBid = amount
		a.HighestBidder = bidder
		a.BidCount++
		auction = a
		return s.tx.PutAuction(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Bid placed", "circle_id", circleID, "auction_id", auction.ID, "bidder", bidder, "amount", amount)
	return auction, nil
}

// SettleAuction closes an ended auction and pays the winner.
func (l *Ledger) SettleAuction(ctx context.Context, circleID string) (*models.Auction, error) {
	var auction *models.Auction
	err := l.update(ctx, "settle_auction", func(s *session) error {
		c, err := s.circle(circleID)
		if err != nil {
			return err
		}
		auction, err = s.settleAuction(c)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Auction settled", "circle_id", circleID, "auction_id", auction.ID, "winner", auction.HighestBidder, "payout", auction.WinningPayout)
	return auction, nil
}

// settleAuction pays the winner pot − bid less the distribution fee. The bid
// less the auction fee, plus any part of the pot that was not auctioned,
// carries into the next month's pot, or into the treasury after the last
// month.
func (s *session) settleAuction(c *models.Circle) (*models.Auction, error) {
	a, err := s.tx.GetAuction(s.ctx, c.ID)
	if err != nil {
		return nil, notFound(err, models.ErrAuctionNotFound)
	}
	if a.Settled {
		return nil, models.ErrAuctionAlreadySettled
	}
	if !a.Ended(s.now) {
		return nil, models.ErrAuctionNotEnded
	}

	a.Settled = true
	a.Status = models.AuctionSettled
	a.SettledAt = s.now

	if a.HighestBidder != "" && c.IsActive() {
		payout, err := s.payAuctionWinner(c, a)
		if err != nil {
			return nil, err
		}
		a.WinningPayout = payout
	}

	if err := s.tx.PutAuction(s.ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *session) payAuctionWinner(c *models.Circle, a *models.Auction) (uint64, error) {
	winner, err := s.member(c.ID, a.HighestBidder)
	if err != nil {
		return 0, err
	}
	if !winner.IsActive() || winner.HasReceivedPot {
		return 0, nil
	}

	e, err := s.escrow(c.ID)
	if err != nil {
		return 0, err
	}
	pot := e.Pot(a.PayoutMonth)
	if pot == nil || pot.Distributed || pot.Collected == 0 {
		return 0, nil
	}
	params, err := s.revenueParams()
	if err != nil {
		return 0, err
	}

	potAmount := min(a.PotAmount, pot.Collected)
	bid := min(a.HighestBid, potAmount)

	net, fee, err := calculator.SplitFee(potAmount-bid, params.DistributionFeeRate)
	if err != nil {
		return 0, err
	}
	bidFee, err := calculator.Fee(bid, params.AuctionFeeRate)
	if err != nil {
		return 0, err
	}

	if err := releasePot(e, pot, net+fee); err != nil {
		return 0, err
	}
	if err := s.journal(c.ID, winner.Authority, models.EntryPayout, net, a.PayoutMonth); err != nil {
		return 0, err
	}
	if err := s.creditTreasury(c.ID, a.PayoutMonth, fee, feeDistribution); err != nil {
		return 0, err
	}
	if err := releasePot(e, pot, bidFee); err != nil {
		return 0, err
	}
	if err := s.creditTreasury(c.ID, a.PayoutMonth, bidFee, feeAuction); err != nil {
		return 0, err
	}

	carry := pot.Collected
	next := e.Pot(a.PayoutMonth + 1)
	if next == nil || next.Distributed {
		if err := releasePot(e, pot, carry); err != nil {
			return 0, err
		}
		if err := s.creditTreasury(c.ID, a.PayoutMonth, carry, feeAuction); err != nil {
			return 0, err
		}
	} else {
		pot.Collected = 0
		if next.Collected, err = calculator.Add(next.Collected, carry); err != nil {
			return 0, err
		}
		if next.Carried, err = calculator.Add(next.Carried, carry); err != nil {
			return 0, err
		}
	}

	pot.Distributed = true
	pot.DistributedTo = winner.Authority
	pot.DistributedAmount = net

	month := a.PayoutMonth
	winner.HasReceivedPot = true
	winner.PayoutClaimed = true
	winner.PayoutMonth = &month
	if c.PendingPayoutMonth != nil && *c.PendingPayoutMonth == month {
		c.PendingPayoutMonth = nil
	}
	if c.NextPayoutRecipient == winner.Authority {
		c.NextPayoutRecipient = ""
	}

	if month == c.LastMonth() && !s.holdCompletion {
		if err := s.completeCircle(c, e); err != nil {
			return 0, err
		}
	}
	return net, nil
}

// GetAuction returns the auction occupying the circle's slot.
func (l *Ledger) GetAuction(ctx context.Context, circleID string) (*models.Auction, error) {
	var auction *models.Auction
	err := l.view(ctx, func(s *session) error {
		a, err := s.tx.GetAuction(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrAuctionNotFound)
		}
		auction = a
		return nil
	})
	return auction, err
}

// ListBids returns every bid on the circle's current auction.
func (l *Ledger) ListBids(ctx context.Context, circleID string) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := l.view(ctx, func(s *session) error {
		a, err := s.tx.GetAuction(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrAuctionNotFound)
		}
		bids, err = s.tx.ListBids(ctx, a.ID)
		return err
	})
	return bids, err
}

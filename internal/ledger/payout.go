package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/storage"
	"github.com/mmynk/circlefund/internal/trust"
)

// ProcessPayoutRound closes the current month once a full month has elapsed
// since it opened. The closed month's pot becomes the pending payout; for
// fixed-rotation circles the next recipient is chosen here.
func (l *Ledger) ProcessPayoutRound(ctx context.Context, circleID string) (*models.Circle, error) {
	var circle *models.Circle
	err := l.update(ctx, "process_payout_round", func(s *session) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if err := s.payoutRound(c); err != nil {
			return err
		}
		circle = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Payout round processed", "circle_id", circleID, "current_month", circle.CurrentMonth, "recipient", circle.NextPayoutRecipient)
	return circle, nil
}

func (s *session) payoutRound(c *models.Circle) error {
	if !c.IsActive() {
		return models.ErrCircleNotActive
	}
	if calculator.MonthsElapsed(c.CreatedAt, s.now) <= c.CurrentMonth {
		return models.ErrTooEarlyForPayout
	}

	e, err := s.escrow(c.ID)
	if err != nil {
		return err
	}

	if c.PendingPayoutMonth != nil {
		pot := e.Pot(*c.PendingPayoutMonth)
		if pot != nil && !pot.Distributed {
			if pot.Collected > 0 {
				return models.ErrPayoutPending
			}
			pot.Distributed = true
		}
		c.PendingPayoutMonth = nil
		c.NextPayoutRecipient = ""
	}
	if c.CurrentMonth > c.LastMonth() {
		return s.completeCircle(c, e)
	}

	closed := c.CurrentMonth
	c.CurrentMonth++

	pot := e.Pot(closed)
	if pot.Collected == 0 {
		pot.Distributed = true
		if closed == c.LastMonth() {
			return s.completeCircle(c, e)
		}
		return nil
	}

	c.PendingPayoutMonth = &closed
	if c.PayoutMethod == models.PayoutFixedRotation {
		recipient, err := s.rotationRecipient(c)
		if err != nil {
			return err
		}
		c.NextPayoutRecipient = recipient
	}
	return nil
}

// rotationRecipient picks the first roster member who has not yet received a
// pot. When every member has been paid a new cycle starts.
func (s *session) rotationRecipient(c *models.Circle) (string, error) {
	roster := make([]*models.Member, 0, len(c.Members))
	for _, principal := range c.Members {
		m, err := s.member(c.ID, principal)
		if err != nil {
			return "", err
		}
		if !m.IsActive() {
			continue
		}
		if !m.HasReceivedPot {
			return m.Authority, nil
		}
		roster = append(roster, m)
	}
	if len(roster) == 0 {
		return "", nil
	}

	for _, m := range roster {
		m.HasReceivedPot = false
		m.PayoutClaimed = false
	}
	return roster[0].Authority, nil
}

// ClaimPayout pays the pending pot to the member whose turn it is.
func (l *Ledger) ClaimPayout(ctx context.Context, circleID, principal string) (*models.MonthlyPot, error) {
	var paid models.MonthlyPot
	err := l.update(ctx, "claim_payout", func(s *session) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if principal == "" || c.NextPayoutRecipient != principal || c.PendingPayoutMonth == nil {
			return models.ErrNotYourTurn
		}
		m, err := s.activeMember(circleID, principal)
		if err != nil {
			return err
		}
		e, err := s.escrow(circleID)
		if err != nil {
			return err
		}

		month := *c.PendingPayoutMonth
		if err := s.payOut(c, e, month, m); err != nil {
			return err
		}
		paid = *e.Pot(month)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Payout claimed", "circle_id", circleID, "member", principal, "month", paid.Month, "amount", paid.DistributedAmount)
	return &paid, nil
}

// DistributePot pays a pot to recipient on the authority of the circle
// creator or the ledger admin. The pending payout month is paid when set,
// otherwise the current contribution month.
func (l *Ledger) DistributePot(ctx context.Context, circleID, caller, recipient string) (*models.MonthlyPot, error) {
	var paid models.MonthlyPot
	err := l.update(ctx, "distribute_pot", func(s *session) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if caller == "" || (caller != c.Creator && caller != s.cfg.Admin) {
			return models.ErrUnauthorized
		}
		m, err := s.activeMember(circleID, recipient)
		if err != nil {
			return err
		}
		if m.HasReceivedPot {
			return models.ErrMemberAlreadyReceivedPot
		}
		e, err := s.escrow(circleID)
		if err != nil {
			return err
		}

		month := s.contributionMonth(c)
		if c.PendingPayoutMonth != nil {
			month = *c.PendingPayoutMonth
		}
		if err := s.requireNoAuction(c, month); err != nil {
			return err
		}
		if err := s.payOut(c, e, month, m); err != nil {
			return err
		}
		paid = *e.Pot(month)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Pot distributed", "circle_id", circleID, "recipient", recipient, "month", paid.Month, "amount", paid.DistributedAmount)
	return &paid, nil
}

// requireNoAuction fails while an unsettled auction targets month.
func (s *session) requireNoAuction(c *models.Circle, month int) error {
	a, err := s.tx.GetAuction(s.ctx, c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !a.Settled && a.PayoutMonth == month {
		return models.ErrAuctionInProgress
	}
	return nil
}

// payOut transfers month's pot to m less the distribution fee.
func (s *session) payOut(c *models.Circle, e *models.CircleEscrow, month int, m *models.Member) error {
	pot := e.Pot(month)
	if pot == nil {
		return models.ErrNoContributionsToDistribute
	}
	if pot.Distributed {
		return models.ErrPotAlreadyDistributed
	}
	if pot.Collected == 0 {
		return models.ErrNoContributionsToDistribute
	}

	params, err := s.revenueParams()
	if err != nil {
		return err
	}
	gross := pot.Collected
	net, fee, err := calculator.SplitFee(gross, params.DistributionFeeRate)
	if err != nil {
		return err
	}

	if err := releasePot(e, pot, gross); err != nil {
		return err
	}
	pot.Distributed = true
	pot.DistributedTo = m.Authority
	pot.DistributedAmount = net

	if err := s.journal(c.ID, m.Authority, models.EntryPayout, net, month); err != nil {
		return err
	}
	if err := s.creditTreasury(c.ID, month, fee, feeDistribution); err != nil {
		return err
	}

	m.HasReceivedPot = true
	m.PayoutClaimed = true
	m.PayoutMonth = &month

	if c.NextPayoutRecipient == m.Authority {
		c.NextPayoutRecipient = ""
	}
	if c.PendingPayoutMonth != nil && *c.PendingPayoutMonth == month {
		c.PendingPayoutMonth = nil
	}

	if month == c.LastMonth() && !s.holdCompletion {
		return s.completeCircle(c, e)
	}
	return nil
}

// completeCircle closes the circle: contributions still sitting in unpaid pots
// go back to their payers, carried auction discounts go to the treasury and
// every active member's stake is refunded.
func (s *session) completeCircle(c *models.Circle, e *models.CircleEscrow) error {
	for _, principal := range c.Members {
		m, err := s.member(c.ID, principal)
		if err != nil {
			return err
		}
		if _, err := s.refundContributions(c, e, m); err != nil {
			return err
		}
	}

	for i := range e.MonthlyPots {
		pot := &e.MonthlyPots[i]
		if pot.Distributed || pot.Collected == 0 {
			continue
		}
		leftover := pot.Collected
		if err := releasePot(e, pot, leftover); err != nil {
			return err
		}
		if err := s.creditTreasury(c.ID, pot.Month, leftover, feeAuction); err != nil {
			return err
		}
		pot.Distributed = true
	}

	for _, principal := range c.Members {
		m, err := s.member(c.ID, principal)
		if err != nil {
			return err
		}
		if !m.IsActive() {
			continue
		}
		if err := s.refundStake(c, e, m); err != nil {
			return err
		}

		ts, err := s.trustScore(principal)
		if err != nil {
			return err
		}
		if ts != nil {
			ts.CirclesCompleted++
			trust.Recompute(ts, s.now)
			m.TrustScore, m.TrustTier = ts.Score, ts.Tier
		}
	}

	c.Status = models.CircleCompleted
	c.NextPayoutRecipient = ""
	c.PendingPayoutMonth = nil
	slog.Info("Circle completed", "circle_id", c.ID)
	return nil
}

// BidForPayout places a bid on the circle's active auction. It is only
// available to auction-method circles.
func (l *Ledger) BidForPayout(ctx context.Context, circleID, bidder string, amount uint64) (*models.Auction, error) {
	var method models.PayoutMethod
	err := l.view(ctx, func(s *session) error {
		c, err := s.circle(circleID)
		if err != nil {
			return err
		}
		method = c.PayoutMethod
		return nil
	})
	if err != nil {
		return nil, err
	}
	if method != models.PayoutAuction {
		return nil, models.ErrInvalidPayoutMethod
	}
	return l.PlaceBid(ctx, circleID, bidder, amount)
}

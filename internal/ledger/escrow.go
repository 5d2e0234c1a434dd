package ledger

import (
	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/models"
)

// Escrow movements. Each helper keeps TotalAmount equal to TotalStaked plus
// the undistributed pots, and to TotalDeposited minus TotalWithdrawn.

func depositStake(e *models.CircleEscrow, amount uint64) error {
	staked, err := calculator.Add(e.TotalStaked, amount)
	if err != nil {
		return err
	}
	if err := deposit(e, amount); err != nil {
		return err
	}
	e.TotalStaked = staked
	return nil
}

func depositContribution(e *models.CircleEscrow, month int, member string, amount uint64, now int64) error {
	pot := e.Pot(month)
	if pot == nil {
		return models.ErrInvalidContributionAmount
	}
	collected, err := calculator.Add(pot.Collected, amount)
	if err != nil {
		return err
	}
	if err := deposit(e, amount); err != nil {
		return err
	}
	pot.Collected = collected
	pot.Contributions = append(pot.Contributions, models.MemberContribution{
		Member:    member,
		Amount:    amount,
		Timestamp: now,
	})
	return nil
}

func deposit(e *models.CircleEscrow, amount uint64) error {
	total, err := calculator.Add(e.TotalAmount, amount)
	if err != nil {
		return err
	}
	deposited, err := calculator.Add(e.TotalDeposited, amount)
	if err != nil {
		return err
	}
	e.TotalAmount, e.TotalDeposited = total, deposited
	return nil
}

// withdraw debits amount from the escrow balance after checking it is covered.
func withdraw(e *models.CircleEscrow, amount uint64) error {
	if amount > e.TotalAmount {
		return models.ErrInsufficientEscrow
	}
	withdrawn, err := calculator.Add(e.TotalWithdrawn, amount)
	if err != nil {
		return err
	}
	e.TotalAmount -= amount
	e.TotalWithdrawn = withdrawn
	return nil
}

// releaseStake withdraws part of the staked balance.
func releaseStake(e *models.CircleEscrow, amount uint64) error {
	if amount > e.TotalStaked {
		return models.ErrInsufficientEscrow
	}
	if err := withdraw(e, amount); err != nil {
		return err
	}
	e.TotalStaked -= amount
	return nil
}

// releasePot withdraws amount from an undistributed pot.
func releasePot(e *models.CircleEscrow, pot *models.MonthlyPot, amount uint64) error {
	if amount > pot.Collected {
		return models.ErrInsufficientEscrow
	}
	if err := withdraw(e, amount); err != nil {
		return err
	}
	pot.Collected -= amount
	return nil
}

type feeKind int

const (
	feeDistribution feeKind = iota
	feeAuction
	feePenalty
	feeManagement
)

// creditTreasury books amount to the treasury under kind and journals it
// against circleID.
func (s *session) creditTreasury(circleID string, month int, amount uint64, kind feeKind) error {
	if amount == 0 {
		return nil
	}
	t, err := s.loadTreasury()
	if err != nil {
		return err
	}

	balance, err := calculator.Add(t.Balance, amount)
	if err != nil {
		return err
	}
	total, err := calculator.Add(t.TotalFeesCollected, amount)
	if err != nil {
		return err
	}

	var bucket *uint64
	switch kind {
	case feeDistribution:
		bucket = &t.DistributionFees
	case feeAuction:
		bucket = &t.AuctionFees
	case feePenalty:
		bucket = &t.PenaltyFees
	case feeManagement:
		bucket = &t.ManagementFees
	}
	updated, err := calculator.Add(*bucket, amount)
	if err != nil {
		return err
	}

	t.Balance, t.TotalFeesCollected, *bucket = balance, total, updated

	if kind == feePenalty || kind == feeManagement {
		// Charged to a member's stake and journaled against them by the caller.
		return nil
	}
	return s.journal(circleID, t.Authority, models.EntryFee, amount, month)
}

// refundContributions returns every contribution principal holds in an
// undistributed pot and reports how much was refunded.
func (s *session) refundContributions(c *models.Circle, e *models.CircleEscrow, m *models.Member) (uint64, error) {
	var refunded uint64
	for i := range e.MonthlyPots {
		pot := &e.MonthlyPots[i]
		if pot.Distributed {
			continue
		}

		kept := pot.Contributions[:0]
		for _, contrib := range pot.Contributions {
			if contrib.Member != m.Authority {
				kept = append(kept, contrib)
				continue
			}
			if err := releasePot(e, pot, contrib.Amount); err != nil {
				return 0, err
			}
			if err := s.journal(c.ID, m.Authority, models.EntryContributionRefund, contrib.Amount, pot.Month); err != nil {
				return 0, err
			}
			if pot.Month < len(m.ContributionHistory) {
				m.ContributionHistory[pot.Month] = 0
			}
			refunded += contrib.Amount
		}
		pot.Contributions = kept
	}

	pot, err := calculator.Sub(c.TotalPot, refunded)
	if err != nil {
		return 0, err
	}
	c.TotalPot = pot
	return refunded, nil
}

// refundStake returns the member's whole stake.
func (s *session) refundStake(c *models.Circle, e *models.CircleEscrow, m *models.Member) error {
	if m.StakeAmount == 0 {
		return nil
	}
	if err := releaseStake(e, m.StakeAmount); err != nil {
		return err
	}
	if err := s.journal(c.ID, m.Authority, models.EntryStakeRefund, m.StakeAmount, s.contributionMonth(c)); err != nil {
		return err
	}
	m.StakeAmount = 0
	return nil
}

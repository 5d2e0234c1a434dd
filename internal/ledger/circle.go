package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/keys"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/storage"
	"github.com/mmynk/circlefund/internal/trust"
)

// CircleParams configures a new circle.
type CircleParams struct {
	ContributionAmount uint64
	DurationMonths     int
	MaxMembers         int
	PenaltyRate        uint16
	PayoutMethod       models.PayoutMethod // defaults to fixed rotation
}

func (p *CircleParams) validate() error {
	if p.DurationMonths < models.MinDurationMonths || p.DurationMonths > models.MaxDurationMonths {
		return models.ErrInvalidDuration
	}
	if p.MaxMembers < models.MinMembers || p.MaxMembers > models.MaxMembers {
		return models.ErrInvalidMaxMembers
	}
	if p.ContributionAmount == 0 {
		return models.ErrInvalidContributionAmount
	}
	if p.PenaltyRate > models.MaxBasisPoints {
		return models.ErrInvalidPenaltyRate
	}
	if p.PayoutMethod == "" {
		p.PayoutMethod = models.PayoutFixedRotation
	}
	if !p.PayoutMethod.Valid() {
		return models.ErrUnknownPayoutMethod
	}
	return nil
}

// InitializeCircle creates an Active circle at month 0 together with its
// escrow of DurationMonths empty pots.
func (l *Ledger) InitializeCircle(ctx context.Context, creator string, params CircleParams) (*models.Circle, error) {
	if creator == "" {
		return nil, models.ErrUnauthorized
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	var circle *models.Circle
	err := l.update(ctx, "initialize_circle", func(s *session) error {
		id := keys.CircleID(creator, s.at.UnixNano())
		_, err := s.tx.GetCircle(ctx, id)
		if err == nil {
			return models.ErrCircleExists
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		circle = &models.Circle{
			ID:                   id,
			Creator:              creator,
			ContributionAmount:   params.ContributionAmount,
			DurationMonths:       params.DurationMonths,
			MaxMembers:           params.MaxMembers,
			PenaltyRate:          params.PenaltyRate,
			Members:              []string{},
			PayoutMethod:         params.PayoutMethod,
			Status:               models.CircleActive,
			ContributionSchedule: calculator.MonthlySchedule(s.now, params.DurationMonths, 0),
			PayoutSchedule:       calculator.MonthlySchedule(s.now, params.DurationMonths, models.DistributionOffsetSeconds),
			CreatedAt:            s.now,
		}

		escrow := &models.CircleEscrow{
			CircleID:          id,
			MonthlyPots:       make([]models.MonthlyPot, params.DurationMonths),
			LastManagementFee: s.now,
		}
		for m := range escrow.MonthlyPots {
			escrow.MonthlyPots[m] = models.MonthlyPot{Month: m, Contributions: []models.MemberContribution{}}
		}

		s.trackCircle(circle)
		s.trackEscrow(escrow)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Circle initialized", "circle_id", circle.ID, "creator", creator, "duration_months", circle.DurationMonths)
	return circle, nil
}

// JoinCircle stakes collateral into escrow and adds principal to the roster.
// The stake must cover the required stake for the principal's trust tier,
// which is Newcomer when the principal has no trust score.
func (l *Ledger) JoinCircle(ctx context.Context, circleID, principal string, stake uint64) (*models.Member, error) {
	if principal == "" {
		return nil, models.ErrUnauthorized
	}

	var member *models.Member
	err := l.update(ctx, "join_circle", func(s *session) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		if c.CurrentMembers >= c.MaxMembers {
			return models.ErrCircleFull
		}
		if _, err := s.member(circleID, principal); err == nil {
			return models.ErrMemberAlreadyExists
		} else if !errors.Is(err, models.ErrMemberNotFound) {
			return err
		}

		tier, score := models.TierNewcomer, uint16(0)
		ts, err := s.trustScore(principal)
		if err != nil {
			return err
		}
		if ts != nil {
			tier, score = ts.Tier, ts.Score
		}

		required, err := calculator.RequiredStake(c.ContributionAmount, tier)
		if err != nil {
			return err
		}
		if stake < required {
			return fmt.Errorf("%w: need %d for tier %s, got %d", models.ErrInsufficientStake, required, tier, stake)
		}

		e, err := s.escrow(circleID)
		if err != nil {
			return err
		}
		if err := depositStake(e, stake); err != nil {
			return err
		}
		if err := s.journal(circleID, principal, models.EntryStakeIn, stake, s.contributionMonth(c)); err != nil {
			return err
		}

		member = &models.Member{
			CircleID:            circleID,
			Authority:           principal,
			StakeAmount:         stake,
			TrustTier:           tier,
			TrustScore:          score,
			ContributionHistory: make([]uint64, c.DurationMonths),
			Status:              models.MemberActive,
			JoinedAt:            s.now,
		}
		s.trackMember(member)

		c.Members = append(c.Members, principal)
		c.CurrentMembers++

		if ts != nil {
			ts.CirclesJoined++
			trust.Recompute(ts, s.now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Member joined circle", "circle_id", circleID, "member", principal, "stake", stake, "tier", member.TrustTier)
	return member, nil
}

// Contribute records the member's payment for the current month.
func (l *Ledger) Contribute(ctx context.Context, circleID, principal string, amount uint64) (*models.Member, error) {
	var member *models.Member
	err := l.update(ctx, "contribute", func(s *session) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		m, err := s.activeMember(circleID, principal)
		if err != nil {
			return err
		}
		if amount != c.ContributionAmount {
			return fmt.Errorf("%w: expected %d, got %d", models.ErrInvalidContributionAmount, c.ContributionAmount, amount)
		}

		month := s.contributionMonth(c)
		if m.ContributedFor(month) {
			return models.ErrContributionAlreadyMade
		}

		e, err := s.escrow(circleID)
		if err != nil {
			return err
		}
		if pot := e.Pot(month); pot != nil && pot.Distributed {
			return models.ErrPotAlreadyDistributed
		}
		if err := depositContribution(e, month, principal, amount, s.now); err != nil {
			return err
		}
		if c.TotalPot, err = calculator.Add(c.TotalPot, amount); err != nil {
			return err
		}
		m.ContributionHistory[month] = amount

		if err := s.journal(circleID, principal, models.EntryContributionIn, amount, month); err != nil {
			return err
		}

		ts, err := s.trustScore(principal)
		if err != nil {
			return err
		}
		if ts != nil {
			if ts.TotalContributions, err = calculator.Add(ts.TotalContributions, amount); err != nil {
				return err
			}
			ts.ContributionsMade++
			trust.Recompute(ts, s.now)
			m.TrustScore, m.TrustTier = ts.Score, ts.Tier
		}

		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Contribution recorded", "circle_id", circleID, "member", principal, "amount", amount)
	return member, nil
}

// LeaveCircle returns the member's stake and any contributions still held in
// undistributed pots, then removes the member from the roster.
func (l *Ledger) LeaveCircle(ctx context.Context, circleID, principal string) (*models.Member, error) {
	var member *models.Member
	err := l.update(ctx, "leave_circle", func(s *session) error {
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		m, err := s.activeMember(circleID, principal)
		if err != nil {
			return err
		}
		e, err := s.escrow(circleID)
		if err != nil {
			return err
		}

		if err := s.refundStake(c, e, m); err != nil {
			return err
		}
		if _, err := s.refundContributions(c, e, m); err != nil {
			return err
		}

		m.Status = models.MemberExited
		c.RemoveMember(principal)
		if c.NextPayoutRecipient == principal {
			c.NextPayoutRecipient = ""
		}

		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Member left circle", "circle_id", circleID, "member", principal)
	return member, nil
}

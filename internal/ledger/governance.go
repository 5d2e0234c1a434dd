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

// ProposalParams describes a new governance proposal.
type ProposalParams struct {
	Title              string
	Description        string
	Type               models.ProposalType
	VotingHours        int
	ExecutionThreshold uint64
	Payload            models.ProposalPayload
}

func (p ProposalParams) validate() error {
	if !p.Type.Valid() {
		return models.ErrInvalidProposalType
	}
	if p.VotingHours <= 0 || p.VotingHours > models.MaxVotingHours {
		return models.ErrInvalidVotingPeriod
	}
	if p.Title == "" || len(p.Title) > models.MaxTitleLength || len(p.Description) > models.MaxDescriptionLength {
		return models.ErrInvalidProposal
	}

	switch p.Type {
	case models.ProposalInterestRateChange:
		if p.Payload.NewInterestRate == nil || *p.Payload.NewInterestRate > models.MaxBasisPoints {
			return models.ErrInvalidProposal
		}
	case models.ProposalCircleParameter:
		if p.Payload.NewPayoutMethod == nil || !p.Payload.NewPayoutMethod.Valid() {
			return models.ErrInvalidProposal
		}
	}
	return nil
}

// CreateProposal opens a vote in the circle's proposal slot.
func (l *Ledger) CreateProposal(ctx context.Context, circleID, proposer string, params ProposalParams) (*models.GovernanceProposal, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var proposal *models.GovernanceProposal
	err := l.update(ctx, "create_proposal", func(s *session) error {
		if _, err := s.activeCircle(circleID); err != nil {
			return err
		}
		if _, err := s.activeMember(circleID, proposer); err != nil {
			return err
		}

		existing, err := s.tx.GetProposal(ctx, circleID)
		switch {
		case err == nil && !existing.Resolved():
			return models.ErrProposalInProgress
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return err
		}

		proposal = &models.GovernanceProposal{
			ID:                 keys.ProposalID(circleID, s.now),
			CircleID:           circleID,
			Proposer:           proposer,
			Title:              params.Title,
			Description:        params.Description,
			ProposalType:       params.Type,
			Status:             models.ProposalActive,
			ExecutionThreshold: params.ExecutionThreshold,
			Payload:            params.Payload,
			VotingStart:        s.now,
			VotingEnd:          s.now + int64(params.VotingHours)*3600,
		}
		return s.tx.PutProposal(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Proposal created", "circle_id", circleID, "proposal_id", proposal.ID, "type", proposal.ProposalType, "voting_end", proposal.VotingEnd)
	return proposal, nil
}

// CastVote records voter's ballot weighted by the integer square root of
// the voting power committed.
func (l *Ledger) CastVote(ctx context.Context, circleID, voter string, support bool, power uint64) (*models.Vote, error) {
	if power == 0 {
		return nil, models.ErrInsufficientVotingPower
	}

	var vote *models.Vote
	err := l.update(ctx, "cast_vote", func(s *session) error {
		p, err := s.tx.GetProposal(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrProposalNotFound)
		}
		if p.Resolved() {
			return models.ErrProposalNotActive
		}
		if s.now >= p.VotingEnd {
			return models.ErrVotingPeriodEnded
		}

		m, err := s.activeMember(circleID, voter)
		if err != nil {
			return err
		}
		if power > m.StakeAmount {
			return models.ErrInsufficientVotingPower
		}

		if _, err := s.tx.GetVote(ctx, p.ID, voter); err == nil {
			return models.ErrAlreadyVoted
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		weight := calculator.QuadraticWeight(power)
		if support {
			if p.VotesFor, err = calculator.Add(p.VotesFor, power); err != nil {
				return err
			}
			if p.QuadraticVotesFor, err = calculator.Add(p.QuadraticVotesFor, weight); err != nil {
				return err
			}
		} else {
			if p.VotesAgainst, err = calculator.Add(p.VotesAgainst, power); err != nil {
				return err
			}
			if p.QuadraticVotesAgainst, err = calculator.Add(p.QuadraticVotesAgainst, weight); err != nil {
				return err
			}
		}
		if p.TotalVotingPower, err = calculator.Add(p.TotalVotingPower, power); err != nil {
			return err
		}

		vote = &models.Vote{
			ProposalID:      p.ID,
			Voter:           voter,
			Support:         support,
			VotingPower:     power,
			QuadraticWeight: weight,
			Timestamp:       s.now,
		}
		if err := s.tx.PutVote(ctx, vote); err != nil {
			return err
		}
		return s.tx.PutProposal(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Vote cast", "circle_id", circleID, "voter", voter, "support", support, "weight", vote.QuadraticWeight)
	return vote, nil
}

// ExecuteProposal resolves a proposal after voting closes. It passes when
// the quadratic tally for exceeds both the execution threshold and the
// quadratic tally against.
func (l *Ledger) ExecuteProposal(ctx context.Context, circleID string) (*models.GovernanceProposal, error) {
	var proposal *models.GovernanceProposal
	err := l.update(ctx, "execute_proposal", func(s *session) error {
		p, err := s.tx.GetProposal(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrProposalNotFound)
		}
		if p.Executed {
			return models.ErrAlreadyExecuted
		}
		if s.now < p.VotingEnd {
			return models.ErrVotingStillOpen
		}

		passed := p.QuadraticVotesFor > p.ExecutionThreshold && p.QuadraticVotesFor > p.QuadraticVotesAgainst
		if passed {
			applied, err := s.applyProposal(p)
			if err != nil {
				return err
			}
			p.Status = models.ProposalPassed
			if applied {
				p.Status = models.ProposalExecuted
			}
		} else {
			p.Status = models.ProposalRejected
		}
		p.Executed = true
		p.ExecutedAt = s.now

		proposal = p
		return s.tx.PutProposal(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Proposal resolved", "circle_id", circleID, "proposal_id", proposal.ID, "status", proposal.Status)
	return proposal, nil
}

// applyProposal writes a passed proposal's payload to its circle and reports
// whether anything changed on the ledger. The circle must still be active.
func (s *session) applyProposal(p *models.GovernanceProposal) (bool, error) {
	switch p.ProposalType {
	case models.ProposalInterestRateChange:
		c, err := s.activeCircle(p.CircleID)
		if err != nil {
			return false, err
		}
		c.PenaltyRate = *p.Payload.NewInterestRate
		return true, nil
	case models.ProposalCircleParameter:
		c, err := s.activeCircle(p.CircleID)
		if err != nil {
			return false, err
		}
		c.PayoutMethod = *p.Payload.NewPayoutMethod
		return true, nil
	}
	return false, nil
}

// GetProposal returns the proposal occupying the circle's slot.
func (l *Ledger) GetProposal(ctx context.Context, circleID string) (*models.GovernanceProposal, error) {
	var proposal *models.GovernanceProposal
	err := l.view(ctx, func(s *session) error {
		p, err := s.tx.GetProposal(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrProposalNotFound)
		}
		proposal = p
		return nil
	})
	return proposal, err
}

// GetVote returns voter's ballot on the circle's current proposal.
func (l *Ledger) GetVote(ctx context.Context, circleID, voter string) (*models.Vote, error) {
	var vote *models.Vote
	err := l.view(ctx, func(s *session) error {
		p, err := s.tx.GetProposal(ctx, circleID)
		if err != nil {
			return notFound(err, models.ErrProposalNotFound)
		}
		v, err := s.tx.GetVote(ctx, p.ID, voter)
		if err != nil {
			return notFound(err, models.ErrMemberNotFound)
		}
		vote = v
		return nil
	})
	return vote, err
}

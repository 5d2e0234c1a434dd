package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/ledger"
	"github.com/mmynk/circlefund/pkg/api"
)

var _ api.GovernanceServiceHandler = (*GovernanceService)(nil)

// GovernanceService implements the Connect GovernanceService.
type GovernanceService struct {
	ledger *ledger.Ledger
}

// NewGovernanceService creates a new GovernanceService over the given ledger.
func NewGovernanceService(l *ledger.Ledger) *GovernanceService {
	return &GovernanceService{ledger: l}
}

// CreateProposal opens a proposal in the circle's governance slot.
func (s *GovernanceService) CreateProposal(ctx context.Context, req *connect.Request[api.CreateProposalRequest]) (*connect.Response[api.ProposalResponse], error) {
	proposer, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateProposal request received",
		"circle_id", req.Msg.CircleID,
		"proposer", proposer,
		"type", req.Msg.ProposalType,
		"voting_hours", req.Msg.VotingHours,
	)

	proposal, err := s.ledger.CreateProposal(ctx, req.Msg.CircleID, proposer, ledger.ProposalParams{
		Title:              req.Msg.Title,
		Description:        req.Msg.Description,
		Type:               req.Msg.ProposalType,
		VotingHours:        req.Msg.VotingHours,
		ExecutionThreshold: req.Msg.ExecutionThreshold,
		Payload:            req.Msg.Payload,
	})
	if err != nil {
		return nil, toConnectError("CreateProposal", err, "circle_id", req.Msg.CircleID, "proposer", proposer)
	}

	slog.Info("Proposal created", "circle_id", req.Msg.CircleID, "proposal_id", proposal.ID)

	return connect.NewResponse(&api.ProposalResponse{Proposal: proposal}), nil
}

// CastVote records the caller's quadratic vote on the active proposal.
func (s *GovernanceService) CastVote(ctx context.Context, req *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	voter, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CastVote request received",
		"circle_id", req.Msg.CircleID,
		"voter", voter,
		"support", req.Msg.Support,
		"power", req.Msg.Power,
	)

	vote, err := s.ledger.CastVote(ctx, req.Msg.CircleID, voter, req.Msg.Support, req.Msg.Power)
	if err != nil {
		return nil, toConnectError("CastVote", err, "circle_id", req.Msg.CircleID, "voter", voter)
	}

	slog.Info("CastVote successful", "circle_id", req.Msg.CircleID, "voter", voter, "weight", vote.QuadraticWeight)

	return connect.NewResponse(&api.CastVoteResponse{Vote: vote}), nil
}

// ExecuteProposal tallies a proposal whose voting period has closed.
func (s *GovernanceService) ExecuteProposal(ctx context.Context, req *connect.Request[api.ExecuteProposalRequest]) (*connect.Response[api.ProposalResponse], error) {
	slog.Info("ExecuteProposal request received", "circle_id", req.Msg.CircleID)

	proposal, err := s.ledger.ExecuteProposal(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("ExecuteProposal", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("ExecuteProposal successful",
		"circle_id", req.Msg.CircleID,
		"proposal_id", proposal.ID,
		"status", proposal.Status,
		"for", proposal.QuadraticVotesFor,
		"against", proposal.QuadraticVotesAgainst,
	)

	return connect.NewResponse(&api.ProposalResponse{Proposal: proposal}), nil
}

// GetProposal retrieves the proposal occupying a circle's slot.
func (s *GovernanceService) GetProposal(ctx context.Context, req *connect.Request[api.GetProposalRequest]) (*connect.Response[api.ProposalResponse], error) {
	slog.Info("GetProposal request received", "circle_id", req.Msg.CircleID)

	proposal, err := s.ledger.GetProposal(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("GetProposal", err, "circle_id", req.Msg.CircleID)
	}

	return connect.NewResponse(&api.ProposalResponse{Proposal: proposal}), nil
}

// GetVote retrieves a voter's ballot on the circle's current proposal.
func (s *GovernanceService) GetVote(ctx context.Context, req *connect.Request[api.GetVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	slog.Info("GetVote request received", "circle_id", req.Msg.CircleID, "voter", req.Msg.Voter)

	vote, err := s.ledger.GetVote(ctx, req.Msg.CircleID, req.Msg.Voter)
	if err != nil {
		return nil, toConnectError("GetVote", err, "circle_id", req.Msg.CircleID, "voter", req.Msg.Voter)
	}

	return connect.NewResponse(&api.CastVoteResponse{Vote: vote}), nil
}

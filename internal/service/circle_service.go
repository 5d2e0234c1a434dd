package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/ledger"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/pkg/api"
)

var _ api.CircleServiceHandler = (*CircleService)(nil)

// CircleService implements the Connect CircleService.
type CircleService struct {
	ledger *ledger.Ledger
}

// NewCircleService creates a new CircleService over the given ledger.
func NewCircleService(l *ledger.Ledger) *CircleService {
	return &CircleService{ledger: l}
}

// InitializeCircle creates a circle owned by the caller.
func (s *CircleService) InitializeCircle(ctx context.Context, req *connect.Request[api.InitializeCircleRequest]) (*connect.Response[api.InitializeCircleResponse], error) {
	creator, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("InitializeCircle request received",
		"creator", creator,
		"contribution_amount", req.Msg.ContributionAmount,
		"duration_months", req.Msg.DurationMonths,
		"max_members", req.Msg.MaxMembers,
		"payout_method", req.Msg.PayoutMethod,
	)

	circle, err := s.ledger.InitializeCircle(ctx, creator, ledger.CircleParams{
		ContributionAmount: req.Msg.ContributionAmount,
		DurationMonths:     req.Msg.DurationMonths,
		MaxMembers:         req.Msg.MaxMembers,
		PenaltyRate:        req.Msg.PenaltyRate,
		PayoutMethod:       req.Msg.PayoutMethod,
	})
	if err != nil {
		return nil, toConnectError("InitializeCircle", err, "creator", creator)
	}

	slog.Info("Circle created", "circle_id", circle.ID)

	return connect.NewResponse(&api.InitializeCircleResponse{Circle: circle}), nil
}

// JoinCircle adds the caller to a circle, depositing their stake.
func (s *CircleService) JoinCircle(ctx context.Context, req *connect.Request[api.JoinCircleRequest]) (*connect.Response[api.JoinCircleResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("JoinCircle request received", "circle_id", req.Msg.CircleID, "principal", principal, "stake", req.Msg.Stake)

	member, err := s.ledger.JoinCircle(ctx, req.Msg.CircleID, principal, req.Msg.Stake)
	if err != nil {
		return nil, toConnectError("JoinCircle", err, "circle_id", req.Msg.CircleID, "principal", principal)
	}

	slog.Info("JoinCircle successful", "circle_id", req.Msg.CircleID, "principal", principal)

	return connect.NewResponse(&api.JoinCircleResponse{Member: member}), nil
}

// Contribute pays the caller's contribution for the current month.
func (s *CircleService) Contribute(ctx context.Context, req *connect.Request[api.ContributeRequest]) (*connect.Response[api.ContributeResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Contribute request received", "circle_id", req.Msg.CircleID, "principal", principal, "amount", req.Msg.Amount)

	member, err := s.ledger.Contribute(ctx, req.Msg.CircleID, principal, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("Contribute", err, "circle_id", req.Msg.CircleID, "principal", principal)
	}

	slog.Info("Contribute successful", "circle_id", req.Msg.CircleID, "principal", principal, "missed", member.ContributionsMissed)

	return connect.NewResponse(&api.ContributeResponse{Member: member}), nil
}

// LeaveCircle exits the caller from a circle.
func (s *CircleService) LeaveCircle(ctx context.Context, req *connect.Request[api.LeaveCircleRequest]) (*connect.Response[api.LeaveCircleResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("LeaveCircle request received", "circle_id", req.Msg.CircleID, "principal", principal)

	member, err := s.ledger.LeaveCircle(ctx, req.Msg.CircleID, principal)
	if err != nil {
		return nil, toConnectError("LeaveCircle", err, "circle_id", req.Msg.CircleID, "principal", principal)
	}

	slog.Info("LeaveCircle successful", "circle_id", req.Msg.CircleID, "principal", principal)

	return connect.NewResponse(&api.LeaveCircleResponse{Member: member}), nil
}

// ProcessPayoutRound closes the current month. Anyone may call it.
func (s *CircleService) ProcessPayoutRound(ctx context.Context, req *connect.Request[api.ProcessPayoutRoundRequest]) (*connect.Response[api.ProcessPayoutRoundResponse], error) {
	slog.Info("ProcessPayoutRound request received", "circle_id", req.Msg.CircleID)

	circle, err := s.ledger.ProcessPayoutRound(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("ProcessPayoutRound", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("ProcessPayoutRound successful",
		"circle_id", circle.ID,
		"current_month", circle.CurrentMonth,
		"next_recipient", circle.NextPayoutRecipient,
		"status", circle.Status,
	)

	return connect.NewResponse(&api.ProcessPayoutRoundResponse{Circle: circle}), nil
}

// ClaimPayout pays the pending pot to the caller when it is their turn.
func (s *CircleService) ClaimPayout(ctx context.Context, req *connect.Request[api.ClaimPayoutRequest]) (*connect.Response[api.ClaimPayoutResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ClaimPayout request received", "circle_id", req.Msg.CircleID, "principal", principal)

	pot, err := s.ledger.ClaimPayout(ctx, req.Msg.CircleID, principal)
	if err != nil {
		return nil, toConnectError("ClaimPayout", err, "circle_id", req.Msg.CircleID, "principal", principal)
	}

	slog.Info("ClaimPayout successful", "circle_id", req.Msg.CircleID, "month", pot.Month, "amount", pot.DistributedAmount)

	return connect.NewResponse(&api.ClaimPayoutResponse{Pot: pot}), nil
}

// DistributePot pays the current month's pot to a chosen recipient.
func (s *CircleService) DistributePot(ctx context.Context, req *connect.Request[api.DistributePotRequest]) (*connect.Response[api.DistributePotResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DistributePot request received", "circle_id", req.Msg.CircleID, "caller", principal, "recipient", req.Msg.Recipient)

	pot, err := s.ledger.DistributePot(ctx, req.Msg.CircleID, principal, req.Msg.Recipient)
	if err != nil {
		return nil, toConnectError("DistributePot", err, "circle_id", req.Msg.CircleID, "recipient", req.Msg.Recipient)
	}

	slog.Info("DistributePot successful", "circle_id", req.Msg.CircleID, "month", pot.Month, "amount", pot.DistributedAmount)

	return connect.NewResponse(&api.DistributePotResponse{Pot: pot}), nil
}

// GetCircle retrieves a circle by ID.
func (s *CircleService) GetCircle(ctx context.Context, req *connect.Request[api.GetCircleRequest]) (*connect.Response[api.GetCircleResponse], error) {
	slog.Info("GetCircle request received", "circle_id", req.Msg.CircleID)

	circle, err := s.ledger.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("GetCircle", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("GetCircle successful", "circle_id", circle.ID, "members", circle.CurrentMembers)

	return connect.NewResponse(&api.GetCircleResponse{Circle: circle}), nil
}

// ListCircles retrieves all circles.
func (s *CircleService) ListCircles(ctx context.Context, req *connect.Request[api.ListCirclesRequest]) (*connect.Response[api.ListCirclesResponse], error) {
	slog.Info("ListCircles request received")

	circles, err := s.ledger.ListCircles(ctx)
	if err != nil {
		return nil, toConnectError("ListCircles", err)
	}

	slog.Info("ListCircles successful", "count", len(circles))

	return connect.NewResponse(&api.ListCirclesResponse{Circles: circles}), nil
}

// GetEscrow retrieves a circle's escrow.
func (s *CircleService) GetEscrow(ctx context.Context, req *connect.Request[api.GetEscrowRequest]) (*connect.Response[api.GetEscrowResponse], error) {
	slog.Info("GetEscrow request received", "circle_id", req.Msg.CircleID)

	escrow, err := s.ledger.GetEscrow(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("GetEscrow", err, "circle_id", req.Msg.CircleID)
	}

	return connect.NewResponse(&api.GetEscrowResponse{Escrow: escrow}), nil
}

// GetMember retrieves one member record.
func (s *CircleService) GetMember(ctx context.Context, req *connect.Request[api.GetMemberRequest]) (*connect.Response[api.GetMemberResponse], error) {
	slog.Info("GetMember request received", "circle_id", req.Msg.CircleID, "principal", req.Msg.Principal)

	member, err := s.ledger.GetMember(ctx, req.Msg.CircleID, req.Msg.Principal)
	if err != nil {
		return nil, toConnectError("GetMember", err, "circle_id", req.Msg.CircleID, "principal", req.Msg.Principal)
	}

	return connect.NewResponse(&api.GetMemberResponse{Member: member}), nil
}

// ListMembers retrieves every member record of a circle, including exited ones.
func (s *CircleService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	slog.Info("ListMembers request received", "circle_id", req.Msg.CircleID)

	members, err := s.ledger.ListMembers(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("ListMembers", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("ListMembers successful", "circle_id", req.Msg.CircleID, "count", len(members))

	return connect.NewResponse(&api.ListMembersResponse{Members: members}), nil
}

// ListLedgerEntries retrieves the escrow journal of a circle.
func (s *CircleService) ListLedgerEntries(ctx context.Context, req *connect.Request[api.ListLedgerEntriesRequest]) (*connect.Response[api.ListLedgerEntriesResponse], error) {
	slog.Info("ListLedgerEntries request received", "circle_id", req.Msg.CircleID)

	entries, err := s.ledger.ListLedgerEntries(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("ListLedgerEntries", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("ListLedgerEntries successful", "circle_id", req.Msg.CircleID, "count", len(entries))

	return connect.NewResponse(&api.ListLedgerEntriesResponse{Entries: entries}), nil
}

// GetPositions replays the journal into per-member money positions.
func (s *CircleService) GetPositions(ctx context.Context, req *connect.Request[api.GetPositionsRequest]) (*connect.Response[api.GetPositionsResponse], error) {
	slog.Info("GetPositions request received", "circle_id", req.Msg.CircleID)

	positions, fees, err := s.ledger.CirclePositions(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("GetPositions", err, "circle_id", req.Msg.CircleID)
	}

	resp := &api.GetPositionsResponse{
		Positions: make([]api.Position, len(positions)),
		Fees:      fees,
	}
	for i, p := range positions {
		resp.Positions[i] = api.Position{
			Principal:   p.Principal,
			Staked:      p.Staked,
			Contributed: p.Contributed,
			Refunded:    p.Refunded,
			Received:    p.Received,
			Penalized:   p.Penalized,
			Managed:     p.Managed,
			NetPosition: p.NetPosition,
		}
	}

	slog.Info("GetPositions successful", "circle_id", req.Msg.CircleID, "members", len(positions), "fees", fees)

	return connect.NewResponse(resp), nil
}

// CreateAuction opens an auction for the current month's pot.
func (s *CircleService) CreateAuction(ctx context.Context, req *connect.Request[api.CreateAuctionRequest]) (*connect.Response[api.CreateAuctionResponse], error) {
	initiator, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateAuction request received",
		"circle_id", req.Msg.CircleID,
		"initiator", initiator,
		"pot_amount", req.Msg.PotAmount,
		"starting_bid", req.Msg.StartingBid,
		"duration_hours", req.Msg.DurationHours,
	)

	auction, err := s.ledger.CreateAuction(ctx, req.Msg.CircleID, initiator, ledger.AuctionParams{
		PotAmount:     req.Msg.PotAmount,
		StartingBid:   req.Msg.StartingBid,
		DurationHours: req.Msg.DurationHours,
	})
	if err != nil {
		return nil, toConnectError("CreateAuction", err, "circle_id", req.Msg.CircleID, "initiator", initiator)
	}

	slog.Info("Auction created", "circle_id", req.Msg.CircleID, "auction_id", auction.ID, "month", auction.PayoutMonth)

	return connect.NewResponse(&api.CreateAuctionResponse{Auction: auction}), nil
}

// PlaceBid bids on the circle's active auction.
func (s *CircleService) PlaceBid(ctx context.Context, req *connect.Request[api.PlaceBidRequest]) (*connect.Response[api.PlaceBidResponse], error) {
	return s.bid(ctx, "PlaceBid", req, s.ledger.PlaceBid)
}

// BidForPayout bids on the active auction of an auction-method circle.
func (s *CircleService) BidForPayout(ctx context.Context, req *connect.Request[api.PlaceBidRequest]) (*connect.Response[api.PlaceBidResponse], error) {
	return s.bid(ctx, "BidForPayout", req, s.ledger.BidForPayout)
}

type bidFunc func(ctx context.Context, circleID, bidder string, amount uint64) (*models.Auction, error)

func (s *CircleService) bid(ctx context.Context, op string, req *connect.Request[api.PlaceBidRequest], place bidFunc) (*connect.Response[api.PlaceBidResponse], error) {
	bidder, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info(op+" request received", "circle_id", req.Msg.CircleID, "bidder", bidder, "amount", req.Msg.Amount)

	auction, err := place(ctx, req.Msg.CircleID, bidder, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(op, err, "circle_id", req.Msg.CircleID, "bidder", bidder)
	}

	slog.Info(op+" successful", "circle_id", req.Msg.CircleID, "highest_bid", auction.HighestBid, "bids", auction.BidCount)

	return connect.NewResponse(&api.PlaceBidResponse{Auction: auction}), nil
}

// SettleAuction pays the winner of an ended auction. Anyone may call it.
func (s *CircleService) SettleAuction(ctx context.Context, req *connect.Request[api.SettleAuctionRequest]) (*connect.Response[api.SettleAuctionResponse], error) {
	slog.Info("SettleAuction request received", "circle_id", req.Msg.CircleID)

	auction, err := s.ledger.SettleAuction(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("SettleAuction", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("SettleAuction successful",
		"circle_id", req.Msg.CircleID,
		"winner", auction.HighestBidder,
		"payout", auction.WinningPayout,
	)

	return connect.NewResponse(&api.SettleAuctionResponse{Auction: auction}), nil
}

// GetAuction retrieves the auction occupying a circle's slot.
func (s *CircleService) GetAuction(ctx context.Context, req *connect.Request[api.GetAuctionRequest]) (*connect.Response[api.GetAuctionResponse], error) {
	slog.Info("GetAuction request received", "circle_id", req.Msg.CircleID)

	auction, err := s.ledger.GetAuction(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("GetAuction", err, "circle_id", req.Msg.CircleID)
	}

	return connect.NewResponse(&api.GetAuctionResponse{Auction: auction}), nil
}

// ListBids retrieves the bids on a circle's current auction.
func (s *CircleService) ListBids(ctx context.Context, req *connect.Request[api.ListBidsRequest]) (*connect.Response[api.ListBidsResponse], error) {
	slog.Info("ListBids request received", "circle_id", req.Msg.CircleID)

	bids, err := s.ledger.ListBids(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("ListBids", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("ListBids successful", "circle_id", req.Msg.CircleID, "count", len(bids))

	return connect.NewResponse(&api.ListBidsResponse{Bids: bids}), nil
}

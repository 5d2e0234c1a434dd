// Package api defines the circlefund RPC messages, procedure names, Connect
// handlers and clients. Messages travel as JSON.
package api

import "github.com/mmynk/circlefund/internal/models"

// CircleService messages.

type InitializeCircleRequest struct {
	ContributionAmount uint64              `json:"contribution_amount"`
	DurationMonths     int                 `json:"duration_months"`
	MaxMembers         int                 `json:"max_members"`
	PenaltyRate        uint16              `json:"penalty_rate"`
	PayoutMethod       models.PayoutMethod `json:"payout_method,omitempty"`
}

type InitializeCircleResponse struct {
	Circle *models.Circle `json:"circle"`
}

type JoinCircleRequest struct {
	CircleID string `json:"circle_id"`
	Stake    uint64 `json:"stake"`
}

type JoinCircleResponse struct {
	Member *models.Member `json:"member"`
}

type ContributeRequest struct {
	CircleID string `json:"circle_id"`
	Amount   uint64 `json:"amount"`
}

type ContributeResponse struct {
	Member *models.Member `json:"member"`
}

type LeaveCircleRequest struct {
	CircleID string `json:"circle_id"`
}

type LeaveCircleResponse struct {
	Member *models.Member `json:"member"`
}

type ProcessPayoutRoundRequest struct {
	CircleID string `json:"circle_id"`
}

type ProcessPayoutRoundResponse struct {
	Circle *models.Circle `json:"circle"`
}

type ClaimPayoutRequest struct {
	CircleID string `json:"circle_id"`
}

type ClaimPayoutResponse struct {
	Pot *models.MonthlyPot `json:"pot"`
}

type DistributePotRequest struct {
	CircleID  string `json:"circle_id"`
	Recipient string `json:"recipient"`
}

type DistributePotResponse struct {
	Pot *models.MonthlyPot `json:"pot"`
}

type GetCircleRequest struct {
	CircleID string `json:"circle_id"`
}

type GetCircleResponse struct {
	Circle *models.Circle `json:"circle"`
}

type ListCirclesRequest struct{}

type ListCirclesResponse struct {
	Circles []*models.Circle `json:"circles"`
}

type GetEscrowRequest struct {
	CircleID string `json:"circle_id"`
}

type GetEscrowResponse struct {
	Escrow *models.CircleEscrow `json:"escrow"`
}

type GetMemberRequest struct {
	CircleID  string `json:"circle_id"`
	Principal string `json:"principal"`
}

type GetMemberResponse struct {
	Member *models.Member `json:"member"`
}

type ListMembersRequest struct {
	CircleID string `json:"circle_id"`
}

type ListMembersResponse struct {
	Members []*models.Member `json:"members"`
}

type ListLedgerEntriesRequest struct {
	CircleID string `json:"circle_id"`
}

type ListLedgerEntriesResponse struct {
	Entries []models.LedgerEntry `json:"entries"`
}

// Position is one member's replayed money flow in a circle.
type Position struct {
	Principal   string `json:"principal"`
	Staked      uint64 `json:"staked"`
	Contributed uint64 `json:"contributed"`
	Refunded    uint64 `json:"refunded"`
	Received    uint64 `json:"received"`
	Penalized   uint64 `json:"penalized"`
	Managed     uint64 `json:"managed"`
	NetPosition int64  `json:"net_position"`
}

type GetPositionsRequest struct {
	CircleID string `json:"circle_id"`
}

type GetPositionsResponse struct {
	Positions []Position `json:"positions"`
	Fees      uint64     `json:"fees"`
}

type CreateAuctionRequest struct {
	CircleID      string `json:"circle_id"`
	PotAmount     uint64 `json:"pot_amount"`
	StartingBid   uint64 `json:"starting_bid"`
	DurationHours int    `json:"duration_hours"`
}

type CreateAuctionResponse struct {
	Auction *models.Auction `json:"auction"`
}

type PlaceBidRequest struct {
	CircleID string `json:"circle_id"`
	Amount   uint64 `json:"amount"`
}

type PlaceBidResponse struct {
	Auction *models.Auction `json:"auction"`
}

type SettleAuctionRequest struct {
	CircleID string `json:"circle_id"`
}

type SettleAuctionResponse struct {
	Auction *models.Auction `json:"auction"`
}

type GetAuctionRequest struct {
	CircleID string `json:"circle_id"`
}

type GetAuctionResponse struct {
	Auction *models.Auction `json:"auction"`
}

type ListBidsRequest struct {
	CircleID string `json:"circle_id"`
}

type ListBidsResponse struct {
	Bids []*models.Bid `json:"bids"`
}

// TrustService messages.

type InitializeTrustScoreRequest struct{}

type TrustScoreResponse struct {
	TrustScore *models.TrustScore `json:"trust_score"`
}

type RecomputeTrustScoreRequest struct {
	Principal string `json:"principal"`
}

type AddSocialProofRequest struct {
	ProofType  string `json:"proof_type"`
	Identifier string `json:"identifier"`
}

type VerifySocialProofRequest struct {
	Principal  string `json:"principal"`
	ProofType  string `json:"proof_type"`
	Identifier string `json:"identifier"`
}

type UpdateDefiActivityRequest struct {
	Principal string `json:"principal"`
	Score     uint16 `json:"score"`
}

type GetTrustScoreRequest struct {
	Principal string `json:"principal"`
}

// GovernanceService messages.

type CreateProposalRequest struct {
	CircleID           string                 `json:"circle_id"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	ProposalType       models.ProposalType    `json:"proposal_type"`
	VotingHours        int                    `json:"voting_hours"`
	ExecutionThreshold uint64                 `json:"execution_threshold"`
	Payload            models.ProposalPayload `json:"payload"`
}

type ProposalResponse struct {
	Proposal *models.GovernanceProposal `json:"proposal"`
}

type CastVoteRequest struct {
	CircleID string `json:"circle_id"`
	Support  bool   `json:"support"`
	Power    uint64 `json:"power"`
}

type CastVoteResponse struct {
	Vote *models.Vote `json:"vote"`
}

type ExecuteProposalRequest struct {
	CircleID string `json:"circle_id"`
}

type GetProposalRequest struct {
	CircleID string `json:"circle_id"`
}

type GetVoteRequest struct {
	CircleID string `json:"circle_id"`
	Voter    string `json:"voter"`
}

// AutomationService messages.

type InitializeAutomationStateRequest struct {
	QueueRef           string `json:"queue_ref"`
	MinIntervalSeconds int64  `json:"min_interval_seconds"`
}

type AutomationStateResponse struct {
	State *models.AutomationState `json:"state"`
}

type SetupCircleAutomationRequest struct {
	CircleID       string `json:"circle_id"`
	JobRef         string `json:"job_ref"`
	AutoCollect    bool   `json:"auto_collect"`
	AutoDistribute bool   `json:"auto_distribute"`
	AutoPenalty    bool   `json:"auto_penalty"`
}

type CircleAutomationResponse struct {
	Automation *models.CircleAutomation `json:"automation"`
}

type TriggerRequest struct {
	CircleID string `json:"circle_id"`
}

type TriggerResponse struct {
	Event *models.AutomationEvent `json:"event"`
}

type UpdateAutomationSettingsRequest struct {
	Enabled            bool   `json:"enabled"`
	MinIntervalSeconds *int64 `json:"min_interval_seconds,omitempty"`
}

type GetAutomationStateRequest struct{}

type GetCircleAutomationRequest struct {
	CircleID string `json:"circle_id"`
}

type ListAutomationEventsRequest struct {
	CircleID string `json:"circle_id"`
}

type ListAutomationEventsResponse struct {
	Events []models.AutomationEvent `json:"events"`
}

type IsTimeForRequest struct {
	CircleID string                `json:"circle_id"`
	Kind     models.AutomationKind `json:"kind"`
}

type IsTimeForResponse struct {
	Due bool `json:"due"`
}

// TreasuryService messages.

type InitializeTreasuryRequest struct{}

type TreasuryResponse struct {
	Treasury *models.Treasury `json:"treasury"`
}

type InitializeRevenueParamsRequest struct{}

type RevenueParamsResponse struct {
	Params *models.RevenueParams `json:"params"`
}

type UpdateRevenueParamsRequest struct {
	DistributionFeeRate          *uint16 `json:"distribution_fee_rate,omitempty"`
	AuctionFeeRate               *uint16 `json:"auction_fee_rate,omitempty"`
	ManagementFeeRate            *uint16 `json:"management_fee_rate,omitempty"`
	ManagementFeeIntervalSeconds *int64  `json:"management_fee_interval_seconds,omitempty"`
}

type GetTreasuryRequest struct{}

type GetRevenueParamsRequest struct{}

type CollectManagementFeesRequest struct {
	CircleID string `json:"circle_id"`
}

type CollectManagementFeesResponse struct {
	Collection *models.ManagementFeeCollection `json:"collection"`
}

type CreateRevenueReportRequest struct {
	PeriodStart int64 `json:"period_start"`
	PeriodEnd   int64 `json:"period_end"`
}

type GetRevenueReportRequest struct {
	PeriodStart int64 `json:"period_start"`
	PeriodEnd   int64 `json:"period_end"`
}

type RevenueReportResponse struct {
	Report *models.RevenueReport `json:"report"`
}

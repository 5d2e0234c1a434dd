package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// CircleServiceHandler serves circle, escrow, payout and auction procedures.
type CircleServiceHandler interface {
	InitializeCircle(context.Context, *connect.Request[InitializeCircleRequest]) (*connect.Response[InitializeCircleResponse], error)
	JoinCircle(context.Context, *connect.Request[JoinCircleRequest]) (*connect.Response[JoinCircleResponse], error)
	Contribute(context.Context, *connect.Request[ContributeRequest]) (*connect.Response[ContributeResponse], error)
	LeaveCircle(context.Context, *connect.Request[LeaveCircleRequest]) (*connect.Response[LeaveCircleResponse], error)
	ProcessPayoutRound(context.Context, *connect.Request[ProcessPayoutRoundRequest]) (*connect.Response[ProcessPayoutRoundResponse], error)
	ClaimPayout(context.Context, *connect.Request[ClaimPayoutRequest]) (*connect.Response[ClaimPayoutResponse], error)
	DistributePot(context.Context, *connect.Request[DistributePotRequest]) (*connect.Response[DistributePotResponse], error)
	GetCircle(context.Context, *connect.Request[GetCircleRequest]) (*connect.Response[GetCircleResponse], error)
	ListCircles(context.Context, *connect.Request[ListCirclesRequest]) (*connect.Response[ListCirclesResponse], error)
	GetEscrow(context.Context, *connect.Request[GetEscrowRequest]) (*connect.Response[GetEscrowResponse], error)
	GetMember(context.Context, *connect.Request[GetMemberRequest]) (*connect.Response[GetMemberResponse], error)
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	ListLedgerEntries(context.Context, *connect.Request[ListLedgerEntriesRequest]) (*connect.Response[ListLedgerEntriesResponse], error)
	GetPositions(context.Context, *connect.Request[GetPositionsRequest]) (*connect.Response[GetPositionsResponse], error)
	CreateAuction(context.Context, *connect.Request[CreateAuctionRequest]) (*connect.Response[CreateAuctionResponse], error)
	PlaceBid(context.Context, *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error)
	BidForPayout(context.Context, *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error)
	SettleAuction(context.Context, *connect.Request[SettleAuctionRequest]) (*connect.Response[SettleAuctionResponse], error)
	GetAuction(context.Context, *connect.Request[GetAuctionRequest]) (*connect.Response[GetAuctionResponse], error)
	ListBids(context.Context, *connect.Request[ListBidsRequest]) (*connect.Response[ListBidsResponse], error)
}

// TrustServiceHandler serves trust score procedures.
type TrustServiceHandler interface {
	InitializeTrustScore(context.Context, *connect.Request[InitializeTrustScoreRequest]) (*connect.Response[TrustScoreResponse], error)
	RecomputeTrustScore(context.Context, *connect.Request[RecomputeTrustScoreRequest]) (*connect.Response[TrustScoreResponse], error)
	AddSocialProof(context.Context, *connect.Request[AddSocialProofRequest]) (*connect.Response[TrustScoreResponse], error)
	VerifySocialProof(context.Context, *connect.Request[VerifySocialProofRequest]) (*connect.Response[TrustScoreResponse], error)
	UpdateDefiActivity(context.Context, *connect.Request[UpdateDefiActivityRequest]) (*connect.Response[TrustScoreResponse], error)
	GetTrustScore(context.Context, *connect.Request[GetTrustScoreRequest]) (*connect.Response[TrustScoreResponse], error)
}

// GovernanceServiceHandler serves proposal and voting procedures.
type GovernanceServiceHandler interface {
	CreateProposal(context.Context, *connect.Request[CreateProposalRequest]) (*connect.Response[ProposalResponse], error)
	CastVote(context.Context, *connect.Request[CastVoteRequest]) (*connect.Response[CastVoteResponse], error)
	ExecuteProposal(context.Context, *connect.Request[ExecuteProposalRequest]) (*connect.Response[ProposalResponse], error)
	GetProposal(context.Context, *connect.Request[GetProposalRequest]) (*connect.Response[ProposalResponse], error)
	GetVote(context.Context, *connect.Request[GetVoteRequest]) (*connect.Response[CastVoteResponse], error)
}

// AutomationServiceHandler serves scheduler procedures.
type AutomationServiceHandler interface {
	InitializeAutomationState(context.Context, *connect.Request[InitializeAutomationStateRequest]) (*connect.Response[AutomationStateResponse], error)
	SetupCircleAutomation(context.Context, *connect.Request[SetupCircleAutomationRequest]) (*connect.Response[CircleAutomationResponse], error)
	TriggerCollection(context.Context, *connect.Request[TriggerRequest]) (*connect.Response[TriggerResponse], error)
	TriggerDistribution(context.Context, *connect.Request[TriggerRequest]) (*connect.Response[TriggerResponse], error)
	TriggerPenalty(context.Context, *connect.Request[TriggerRequest]) (*connect.Response[TriggerResponse], error)
	UpdateAutomationSettings(context.Context, *connect.Request[UpdateAutomationSettingsRequest]) (*connect.Response[AutomationStateResponse], error)
	GetAutomationState(context.Context, *connect.Request[GetAutomationStateRequest]) (*connect.Response[AutomationStateResponse], error)
	GetCircleAutomation(context.Context, *connect.Request[GetCircleAutomationRequest]) (*connect.Response[CircleAutomationResponse], error)
	ListAutomationEvents(context.Context, *connect.Request[ListAutomationEventsRequest]) (*connect.Response[ListAutomationEventsResponse], error)
	IsTimeFor(context.Context, *connect.Request[IsTimeForRequest]) (*connect.Response[IsTimeForResponse], error)
}

// TreasuryServiceHandler serves treasury, revenue parameter and revenue
// report procedures.
type TreasuryServiceHandler interface {
	InitializeTreasury(context.Context, *connect.Request[InitializeTreasuryRequest]) (*connect.Response[TreasuryResponse], error)
	InitializeRevenueParams(context.Context, *connect.Request[InitializeRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error)
	UpdateRevenueParams(context.Context, *connect.Request[UpdateRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error)
	GetTreasury(context.Context, *connect.Request[GetTreasuryRequest]) (*connect.Response[TreasuryResponse], error)
	GetRevenueParams(context.Context, *connect.Request[GetRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error)
	CollectManagementFees(context.Context, *connect.Request[CollectManagementFeesRequest]) (*connect.Response[CollectManagementFeesResponse], error)
	CreateRevenueReport(context.Context, *connect.Request[CreateRevenueReportRequest]) (*connect.Response[RevenueReportResponse], error)
	GetRevenueReport(context.Context, *connect.Request[GetRevenueReportRequest]) (*connect.Response[RevenueReportResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewCircleServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewCircleServiceHandler(svc CircleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, CircleServiceInitializeCircleProcedure, svc.InitializeCircle, opts)
	handle(mux, CircleServiceJoinCircleProcedure, svc.JoinCircle, opts)
	handle(mux, CircleServiceContributeProcedure, svc.Contribute, opts)
	handle(mux, CircleServiceLeaveCircleProcedure, svc.LeaveCircle, opts)
	handle(mux, CircleServiceProcessPayoutRoundProcedure, svc.ProcessPayoutRound, opts)
	handle(mux, CircleServiceClaimPayoutProcedure, svc.ClaimPayout, opts)
	handle(mux, CircleServiceDistributePotProcedure, svc.DistributePot, opts)
	handle(mux, CircleServiceGetCircleProcedure, svc.GetCircle, opts)
	handle(mux, CircleServiceListCirclesProcedure, svc.ListCircles, opts)
	handle(mux, CircleServiceGetEscrowProcedure, svc.GetEscrow, opts)
	handle(mux, CircleServiceGetMemberProcedure, svc.GetMember, opts)
	handle(mux, CircleServiceListMembersProcedure, svc.ListMembers, opts)
	handle(mux, CircleServiceListLedgerEntriesProcedure, svc.ListLedgerEntries, opts)
	handle(mux, CircleServiceGetPositionsProcedure, svc.GetPositions, opts)
	handle(mux, CircleServiceCreateAuctionProcedure, svc.CreateAuction, opts)
	handle(mux, CircleServicePlaceBidProcedure, svc.PlaceBid, opts)
	handle(mux, CircleServiceBidForPayoutProcedure, svc.BidForPayout, opts)
	handle(mux, CircleServiceSettleAuctionProcedure, svc.SettleAuction, opts)
	handle(mux, CircleServiceGetAuctionProcedure, svc.GetAuction, opts)
	handle(mux, CircleServiceListBidsProcedure, svc.ListBids, opts)
	return "/" + CircleServiceName + "/", mux
}

// NewTrustServiceHandler builds an HTTP handler for the trust service.
func NewTrustServiceHandler(svc TrustServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, TrustServiceInitializeTrustScoreProcedure, svc.InitializeTrustScore, opts)
	handle(mux, TrustServiceRecomputeTrustScoreProcedure, svc.RecomputeTrustScore, opts)
	handle(mux, TrustServiceAddSocialProofProcedure, svc.AddSocialProof, opts)
	handle(mux, TrustServiceVerifySocialProofProcedure, svc.VerifySocialProof, opts)
	handle(mux, TrustServiceUpdateDefiActivityProcedure, svc.UpdateDefiActivity, opts)
	handle(mux, TrustServiceGetTrustScoreProcedure, svc.GetTrustScore, opts)
	return "/" + TrustServiceName + "/", mux
}

// NewGovernanceServiceHandler builds an HTTP handler for the governance service.
func NewGovernanceServiceHandler(svc GovernanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, GovernanceServiceCreateProposalProcedure, svc.CreateProposal, opts)
	handle(mux, GovernanceServiceCastVoteProcedure, svc.CastVote, opts)
	handle(mux, GovernanceServiceExecuteProposalProcedure, svc.ExecuteProposal, opts)
	handle(mux, GovernanceServiceGetProposalProcedure, svc.GetProposal, opts)
	handle(mux, GovernanceServiceGetVoteProcedure, svc.GetVote, opts)
	return "/" + GovernanceServiceName + "/", mux
}

// NewAutomationServiceHandler builds an HTTP handler for the automation service.
func NewAutomationServiceHandler(svc AutomationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, AutomationServiceInitializeAutomationStateProcedure, svc.InitializeAutomationState, opts)
	handle(mux, AutomationServiceSetupCircleAutomationProcedure, svc.SetupCircleAutomation, opts)
	handle(mux, AutomationServiceTriggerCollectionProcedure, svc.TriggerCollection, opts)
	handle(mux, AutomationServiceTriggerDistributionProcedure, svc.TriggerDistribution, opts)
	handle(mux, AutomationServiceTriggerPenaltyProcedure, svc.TriggerPenalty, opts)
	handle(mux, AutomationServiceUpdateAutomationSettingsProcedure, svc.UpdateAutomationSettings, opts)
	handle(mux, AutomationServiceGetAutomationStateProcedure, svc.GetAutomationState, opts)
	handle(mux, AutomationServiceGetCircleAutomationProcedure, svc.GetCircleAutomation, opts)
	handle(mux, AutomationServiceListAutomationEventsProcedure, svc.ListAutomationEvents, opts)
	handle(mux, AutomationServiceIsTimeForProcedure, svc.IsTimeFor, opts)
	return "/" + AutomationServiceName + "/", mux
}

// NewTreasuryServiceHandler builds an HTTP handler for the treasury service.
func NewTreasuryServiceHandler(svc TreasuryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, TreasuryServiceInitializeTreasuryProcedure, svc.InitializeTreasury, opts)
	handle(mux, TreasuryServiceInitializeRevenueParamsProcedure, svc.InitializeRevenueParams, opts)
	handle(mux, TreasuryServiceUpdateRevenueParamsProcedure, svc.UpdateRevenueParams, opts)
	handle(mux, TreasuryServiceGetTreasuryProcedure, svc.GetTreasury, opts)
	handle(mux, TreasuryServiceGetRevenueParamsProcedure, svc.GetRevenueParams, opts)
	handle(mux, TreasuryServiceCollectManagementFeesProcedure, svc.CollectManagementFees, opts)
	handle(mux, TreasuryServiceCreateRevenueReportProcedure, svc.CreateRevenueReport, opts)
	handle(mux, TreasuryServiceGetRevenueReportProcedure, svc.GetRevenueReport, opts)
	return "/" + TreasuryServiceName + "/", mux
}

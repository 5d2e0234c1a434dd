package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// client holds what every procedure call needs to reach the server.
type client struct {
	httpClient connect.HTTPClient
	baseURL    string
	opts       []connect.ClientOption
}

func newClient(httpClient connect.HTTPClient, baseURL string, opts []connect.ClientOption) *client {
	return &client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		opts:       append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...),
	}
}

func call[Req, Res any](ctx context.Context, c *client, procedure string, req *connect.Request[Req]) (*connect.Response[Res], error) {
	return connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, c.opts...).CallUnary(ctx, req)
}

// CircleServiceClient calls the CircleService procedures.
type CircleServiceClient struct {
	c *client
}

// NewCircleServiceClient constructs a client for the CircleService at baseURL.
func NewCircleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CircleServiceClient {
	return &CircleServiceClient{c: newClient(httpClient, baseURL, opts)}
}

func (c *CircleServiceClient) InitializeCircle(ctx context.Context, req *connect.Request[InitializeCircleRequest]) (*connect.Response[InitializeCircleResponse], error) {
	return call[InitializeCircleRequest, InitializeCircleResponse](ctx, c.c, CircleServiceInitializeCircleProcedure, req)
}

func (c *CircleServiceClient) JoinCircle(ctx context.Context, req *connect.Request[JoinCircleRequest]) (*connect.Response[JoinCircleResponse], error) {
	return call[JoinCircleRequest, JoinCircleResponse](ctx, c.c, CircleServiceJoinCircleProcedure, req)
}

func (c *CircleServiceClient) Contribute(ctx context.Context, req *connect.Request[ContributeRequest]) (*connect.Response[ContributeResponse], error) {
	return call[ContributeRequest, ContributeResponse](ctx, c.c, CircleServiceContributeProcedure, req)
}

func (c *CircleServiceClient) LeaveCircle(ctx context.Context, req *connect.Request[LeaveCircleRequest]) (*connect.Response[LeaveCircleResponse], error) {
	return call[LeaveCircleRequest, LeaveCircleResponse](ctx, c.c, CircleServiceLeaveCircleProcedure, req)
}

func (c *CircleServiceClient) ProcessPayoutRound(ctx context.Context, req *connect.Request[ProcessPayoutRoundRequest]) (*connect.Response[ProcessPayoutRoundResponse], error) {
	return call[ProcessPayoutRoundRequest, ProcessPayoutRoundResponse](ctx, c.c, CircleServiceProcessPayoutRoundProcedure, req)
}

func (c *CircleServiceClient) ClaimPayout(ctx context.Context, req *connect.Request[ClaimPayoutRequest]) (*connect.Response[ClaimPayoutResponse], error) {
	return call[ClaimPayoutRequest, ClaimPayoutResponse](ctx, c.c, CircleServiceClaimPayoutProcedure, req)
}

func (c *CircleServiceClient) DistributePot(ctx context.Context, req *connect.Request[DistributePotRequest]) (*connect.Response[DistributePotResponse], error) {
	return call[DistributePotRequest, DistributePotResponse](ctx, c.c, CircleServiceDistributePotProcedure, req)
}

func (c *CircleServiceClient) GetCircle(ctx context.Context, req *connect.Request[GetCircleRequest]) (*connect.Response[GetCircleResponse], error) {
	return call[GetCircleRequest, GetCircleResponse](ctx, c.c, CircleServiceGetCircleProcedure, req)
}

func (c *CircleServiceClient) ListCircles(ctx context.Context, req *connect.Request[ListCirclesRequest]) (*connect.Response[ListCirclesResponse], error) {
	return call[ListCirclesRequest, ListCirclesResponse](ctx, c.c, CircleServiceListCirclesProcedure, req)
}

func (c *CircleServiceClient) GetEscrow(ctx context.Context, req *connect.Request[GetEscrowRequest]) (*connect.Response[GetEscrowResponse], error) {
	return call[GetEscrowRequest, GetEscrowResponse](ctx, c.c, CircleServiceGetEscrowProcedure, req)
}

func (c *CircleServiceClient) GetMember(ctx context.Context, req *connect.Request[GetMemberRequest]) (*connect.Response[GetMemberResponse], error) {
	return call[GetMemberRequest, GetMemberResponse](ctx, c.c, CircleServiceGetMemberProcedure, req)
}

func (c *CircleServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return call[ListMembersRequest, ListMembersResponse](ctx, c.c, CircleServiceListMembersProcedure, req)
}

func (c *CircleServiceClient) ListLedgerEntries(ctx context.Context, req *connect.Request[ListLedgerEntriesRequest]) (*connect.Response[ListLedgerEntriesResponse], error) {
	return call[ListLedgerEntriesRequest, ListLedgerEntriesResponse](ctx, c.c, CircleServiceListLedgerEntriesProcedure, req)
}

func (c *CircleServiceClient) GetPositions(ctx context.Context, req *connect.Request[GetPositionsRequest]) (*connect.Response[GetPositionsResponse], error) {
	return call[GetPositionsRequest, GetPositionsResponse](ctx, c.c, CircleServiceGetPositionsProcedure, req)
}

func (c *CircleServiceClient) CreateAuction(ctx context.Context, req *connect.Request[CreateAuctionRequest]) (*connect.Response[CreateAuctionResponse], error) {
	return call[CreateAuctionRequest, CreateAuctionResponse](ctx, c.c, CircleServiceCreateAuctionProcedure, req)
}

func (c *CircleServiceClient) PlaceBid(ctx context.Context, req *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error) {
	return call[PlaceBidRequest, PlaceBidResponse](ctx, c.c, CircleServicePlaceBidProcedure, req)
}

func (c *CircleServiceClient) BidForPayout(ctx context.Context, req *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error) {
	return call[PlaceBidRequest, PlaceBidResponse](ctx, c.c, CircleServiceBidForPayoutProcedure, req)
}

func (c *CircleServiceClient) SettleAuction(ctx context.Context, req *connect.Request[SettleAuctionRequest]) (*connect.Response[SettleAuctionResponse], error) {
	return call[SettleAuctionRequest, SettleAuctionResponse](ctx, c.c, CircleServiceSettleAuctionProcedure, req)
}

func (c *CircleServiceClient) GetAuction(ctx context.Context, req *connect.Request[GetAuctionRequest]) (*connect.Response[GetAuctionResponse], error) {
	return call[GetAuctionRequest, GetAuctionResponse](ctx, c.c, CircleServiceGetAuctionProcedure, req)
}

func (c *CircleServiceClient) ListBids(ctx context.Context, req *connect.Request[ListBidsRequest]) (*connect.Response[ListBidsResponse], error) {
	return call[ListBidsRequest, ListBidsResponse](ctx, c.c, CircleServiceListBidsProcedure, req)
}

// TrustServiceClient calls the TrustService procedures.
type TrustServiceClient struct {
	c *client
}

// NewTrustServiceClient constructs a client for the TrustService at baseURL.
func NewTrustServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TrustServiceClient {
	return &TrustServiceClient{c: newClient(httpClient, baseURL, opts)}
}

func (c *TrustServiceClient) InitializeTrustScore(ctx context.Context, req *connect.Request[InitializeTrustScoreRequest]) (*connect.Response[TrustScoreResponse], error) {
	return call[InitializeTrustScoreRequest, TrustScoreResponse](ctx, c.c, TrustServiceInitializeTrustScoreProcedure, req)
}

func (c *TrustServiceClient) RecomputeTrustScore(ctx context.Context, req *connect.Request[RecomputeTrustScoreRequest]) (*connect.Response[TrustScoreResponse], error) {
	return call[RecomputeTrustScoreRequest, TrustScoreResponse](ctx, c.c, TrustServiceRecomputeTrustScoreProcedure, req)
}

func (c *TrustServiceClient) AddSocialProof(ctx context.Context, req *connect.Request[AddSocialProofRequest]) (*connect.Response[TrustScoreResponse], error) {
	return call[AddSocialProofRequest, TrustScoreResponse](ctx, c.c, TrustServiceAddSocialProofProcedure, req)
}

func (c *TrustServiceClient) VerifySocialProof(ctx context.Context, req *connect.Request[VerifySocialProofRequest]) (*connect.Response[TrustScoreResponse], error) {
	return call[VerifySocialProofRequest, TrustScoreResponse](ctx, c.c, TrustServiceVerifySocialProofProcedure, req)
}

func (c *TrustServiceClient) UpdateDefiActivity(ctx context.Context, req *connect.Request[UpdateDefiActivityRequest]) (*connect.Response[TrustScoreResponse], error) {
	return call[UpdateDefiActivityRequest, TrustScoreResponse](ctx, c.c, TrustServiceUpdateDefiActivityProcedure, req)
}

func (c *TrustServiceClient) GetTrustScore(ctx context.Context, req *connect.Request[GetTrustScoreRequest]) (*connect.Response[TrustScoreResponse], error) {
	return call[GetTrustScoreRequest, TrustScoreResponse](ctx, c.c, TrustServiceGetTrustScoreProcedure, req)
}

// GovernanceServiceClient calls the GovernanceService procedures.
type GovernanceServiceClient struct {
	c *client
}

// NewGovernanceServiceClient constructs a client for the GovernanceService at baseURL.
func NewGovernanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GovernanceServiceClient {
	return &GovernanceServiceClient{c: newClient(httpClient, baseURL, opts)}
}

func (c *GovernanceServiceClient) CreateProposal(ctx context.Context, req *connect.Request[CreateProposalRequest]) (*connect.Response[ProposalResponse], error) {
	return call[CreateProposalRequest, ProposalResponse](ctx, c.c, GovernanceServiceCreateProposalProcedure, req)
}

func (c *GovernanceServiceClient) CastVote(ctx context.Context, req *connect.Request[CastVoteRequest]) (*connect.Response[CastVoteResponse], error) {
	return call[CastVoteRequest, CastVoteResponse](ctx, c.c, GovernanceServiceCastVoteProcedure, req)
}

func (c *GovernanceServiceClient) ExecuteProposal(ctx context.Context, req *connect.Request[ExecuteProposalRequest]) (*connect.Response[ProposalResponse], error) {
	return call[ExecuteProposalRequest, ProposalResponse](ctx, c.c, GovernanceServiceExecuteProposalProcedure, req)
}

func (c *GovernanceServiceClient) GetProposal(ctx context.Context, req *connect.Request[GetProposalRequest]) (*connect.Response[ProposalResponse], error) {
	return call[GetProposalRequest, ProposalResponse](ctx, c.c, GovernanceServiceGetProposalProcedure, req)
}

func (c *GovernanceServiceClient) GetVote(ctx context.Context, req *connect.Request[GetVoteRequest]) (*connect.Response[CastVoteResponse], error) {
	return call[GetVoteRequest, CastVoteResponse](ctx, c.c, GovernanceServiceGetVoteProcedure, req)
}

// AutomationServiceClient calls the AutomationService procedures.
type AutomationServiceClient struct {
	c *client
}

// NewAutomationServiceClient constructs a client for the AutomationService at baseURL.
func NewAutomationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AutomationServiceClient {
	return &AutomationServiceClient{c: newClient(httpClient, baseURL, opts)}
}

func (c *AutomationServiceClient) InitializeAutomationState(ctx context.Context, req *connect.Request[InitializeAutomationStateRequest]) (*connect.Response[AutomationStateResponse], error) {
	return call[InitializeAutomationStateRequest, AutomationStateResponse](ctx, c.c, AutomationServiceInitializeAutomationStateProcedure, req)
}

func (c *AutomationServiceClient) SetupCircleAutomation(ctx context.Context, req *connect.Request[SetupCircleAutomationRequest]) (*connect.Response[CircleAutomationResponse], error) {
	return call[SetupCircleAutomationRequest, CircleAutomationResponse](ctx, c.c, AutomationServiceSetupCircleAutomationProcedure, req)
}

func (c *AutomationServiceClient) TriggerCollection(ctx context.Context, req *connect.Request[TriggerRequest]) (*connect.Response[TriggerResponse], error) {
	return call[TriggerRequest, TriggerResponse](ctx, c.c, AutomationServiceTriggerCollectionProcedure, req)
}

func (c *AutomationServiceClient) TriggerDistribution(ctx context.Context, req *connect.Request[TriggerRequest]) (*connect.Response[TriggerResponse], error) {
	return call[TriggerRequest, TriggerResponse](ctx, c.c, AutomationServiceTriggerDistributionProcedure, req)
}

func (c *AutomationServiceClient) TriggerPenalty(ctx context.Context, req *connect.Request[TriggerRequest]) (*connect.Response[TriggerResponse], error) {
	return call[TriggerRequest, TriggerResponse](ctx, c.c, AutomationServiceTriggerPenaltyProcedure, req)
}

func (c *AutomationServiceClient) UpdateAutomationSettings(ctx context.Context, req *connect.Request[UpdateAutomationSettingsRequest]) (*connect.Response[AutomationStateResponse], error) {
	return call[UpdateAutomationSettingsRequest, AutomationStateResponse](ctx, c.c, AutomationServiceUpdateAutomationSettingsProcedure, req)
}

func (c *AutomationServiceClient) GetAutomationState(ctx context.Context, req *connect.Request[GetAutomationStateRequest]) (*connect.Response[AutomationStateResponse], error) {
	return call[GetAutomationStateRequest, AutomationStateResponse](ctx, c.c, AutomationServiceGetAutomationStateProcedure, req)
}

func (c *AutomationServiceClient) GetCircleAutomation(ctx context.Context, req *connect.Request[GetCircleAutomationRequest]) (*connect.Response[CircleAutomationResponse], error) {
	return call[GetCircleAutomationRequest, CircleAutomationResponse](ctx, c.c, AutomationServiceGetCircleAutomationProcedure, req)
}

func (c *AutomationServiceClient) ListAutomationEvents(ctx context.Context, req *connect.Request[ListAutomationEventsRequest]) (*connect.Response[ListAutomationEventsResponse], error) {
	return call[ListAutomationEventsRequest, ListAutomationEventsResponse](ctx, c.c, AutomationServiceListAutomationEventsProcedure, req)
}

func (c *AutomationServiceClient) IsTimeFor(ctx context.Context, req *connect.Request[IsTimeForRequest]) (*connect.Response[IsTimeForResponse], error) {
	return call[IsTimeForRequest, IsTimeForResponse](ctx, c.c, AutomationServiceIsTimeForProcedure, req)
}

// TreasuryServiceClient calls the TreasuryService procedures.
type TreasuryServiceClient struct {
	c *client
}

// NewTreasuryServiceClient constructs a client for the TreasuryService at baseURL.
func NewTreasuryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TreasuryServiceClient {
	return &TreasuryServiceClient{c: newClient(httpClient, baseURL, opts)}
}

func (c *TreasuryServiceClient) InitializeTreasury(ctx context.Context, req *connect.Request[InitializeTreasuryRequest]) (*connect.Response[TreasuryResponse], error) {
	return call[InitializeTreasuryRequest, TreasuryResponse](ctx, c.c, TreasuryServiceInitializeTreasuryProcedure, req)
}

func (c *TreasuryServiceClient) InitializeRevenueParams(ctx context.Context, req *connect.Request[InitializeRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error) {
	return call[InitializeRevenueParamsRequest, RevenueParamsResponse](ctx, c.c, TreasuryServiceInitializeRevenueParamsProcedure, req)
}

func (c *TreasuryServiceClient) UpdateRevenueParams(ctx context.Context, req *connect.Request[UpdateRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error) {
	return call[UpdateRevenueParamsRequest, RevenueParamsResponse](ctx, c.c, TreasuryServiceUpdateRevenueParamsProcedure, req)
}

func (c *TreasuryServiceClient) GetTreasury(ctx context.Context, req *connect.Request[GetTreasuryRequest]) (*connect.Response[TreasuryResponse], error) {
	return call[GetTreasuryRequest, TreasuryResponse](ctx, c.c, TreasuryServiceGetTreasuryProcedure, req)
}

func (c *TreasuryServiceClient) GetRevenueParams(ctx context.Context, req *connect.Request[GetRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error) {
	return call[GetRevenueParamsRequest, RevenueParamsResponse](ctx, c.c, TreasuryServiceGetRevenueParamsProcedure, req)
}

func (c *TreasuryServiceClient) CollectManagementFees(ctx context.Context, req *connect.Request[CollectManagementFeesRequest]) (*connect.Response[CollectManagementFeesResponse], error) {
	return call[CollectManagementFeesRequest, CollectManagementFeesResponse](ctx, c.c, TreasuryServiceCollectManagementFeesProcedure, req)
}

func (c *TreasuryServiceClient) CreateRevenueReport(ctx context.Context, req *connect.Request[CreateRevenueReportRequest]) (*connect.Response[RevenueReportResponse], error) {
	return call[CreateRevenueReportRequest, RevenueReportResponse](ctx, c.c, TreasuryServiceCreateRevenueReportProcedure, req)
}

func (c *TreasuryServiceClient) GetRevenueReport(ctx context.Context, req *connect.Request[GetRevenueReportRequest]) (*connect.Response[RevenueReportResponse], error) {
	return call[GetRevenueReportRequest, RevenueReportResponse](ctx, c.c, TreasuryServiceGetRevenueReportProcedure, req)
}

package api

// Fully-qualified service names.
const (
	CircleServiceName     = "circlefund.v1.CircleService"
	TrustServiceName      = "circlefund.v1.TrustService"
	GovernanceServiceName = "circlefund.v1.GovernanceService"
	AutomationServiceName = "circlefund.v1.AutomationService"
	TreasuryServiceName   = "circlefund.v1.TreasuryService"
)

// CircleService procedures.
const (
	CircleServiceInitializeCircleProcedure   = "/" + CircleServiceName + "/InitializeCircle"
	CircleServiceJoinCircleProcedure         = "/" + CircleServiceName + "/JoinCircle"
	CircleServiceContributeProcedure         = "/" + CircleServiceName + "/Contribute"
	CircleServiceLeaveCircleProcedure        = "/" + CircleServiceName + "/LeaveCircle"
	CircleServiceProcessPayoutRoundProcedure = "/" + CircleServiceName + "/ProcessPayoutRound"
	CircleServiceClaimPayoutProcedure        = "/" + CircleServiceName + "/ClaimPayout"
	CircleServiceDistributePotProcedure      = "/" + CircleServiceName + "/DistributePot"
	CircleServiceGetCircleProcedure          = "/" + CircleServiceName + "/GetCircle"
	CircleServiceListCirclesProcedure        = "/" + CircleServiceName + "/ListCircles"
	CircleServiceGetEscrowProcedure          = "/" + CircleServiceName + "/GetEscrow"
	CircleServiceGetMemberProcedure          = "/" + CircleServiceName + "/GetMember"
	CircleServiceListMembersProcedure        = "/" + CircleServiceName + "/ListMembers"
	CircleServiceListLedgerEntriesProcedure  = "/" + CircleServiceName + "/ListLedgerEntries"
	CircleServiceGetPositionsProcedure       = "/" + CircleServiceName + "/GetPositions"
	CircleServiceCreateAuctionProcedure      = "/" + CircleServiceName + "/CreateAuction"
	CircleServicePlaceBidProcedure           = "/" + CircleServiceName + "/PlaceBid"
	CircleServiceBidForPayoutProcedure       = "/" + CircleServiceName + "/BidForPayout"
	CircleServiceSettleAuctionProcedure      = "/" + CircleServiceName + "/SettleAuction"
	CircleServiceGetAuctionProcedure         = "/" + CircleServiceName + "/GetAuction"
	CircleServiceListBidsProcedure           = "/" + CircleServiceName + "/ListBids"
)

// TrustService procedures.
const (
	TrustServiceInitializeTrustScoreProcedure = "/" + TrustServiceName + "/InitializeTrustScore"
	TrustServiceRecomputeTrustScoreProcedure  = "/" + TrustServiceName + "/RecomputeTrustScore"
	TrustServiceAddSocialProofProcedure       = "/" + TrustServiceName + "/AddSocialProof"
	TrustServiceVerifySocialProofProcedure    = "/" + TrustServiceName + "/VerifySocialProof"
	TrustServiceUpdateDefiActivityProcedure   = "/" + TrustServiceName + "/UpdateDefiActivity"
	TrustServiceGetTrustScoreProcedure        = "/" + TrustServiceName + "/GetTrustScore"
)

// GovernanceService procedures.
const (
	GovernanceServiceCreateProposalProcedure  = "/" + GovernanceServiceName + "/CreateProposal"
	GovernanceServiceCastVoteProcedure        = "/" + GovernanceServiceName + "/CastVote"
	GovernanceServiceExecuteProposalProcedure = "/" + GovernanceServiceName + "/ExecuteProposal"
	GovernanceServiceGetProposalProcedure     = "/" + GovernanceServiceName + "/GetProposal"
	GovernanceServiceGetVoteProcedure         = "/" + GovernanceServiceName + "/GetVote"
)

// AutomationService procedures.
const (
	AutomationServiceInitializeAutomationStateProcedure = "/" + AutomationServiceName + "/InitializeAutomationState"
	AutomationServiceSetupCircleAutomationProcedure     = "/" + AutomationServiceName + "/SetupCircleAutomation"
	AutomationServiceTriggerCollectionProcedure         = "/" + AutomationServiceName + "/TriggerCollection"
	AutomationServiceTriggerDistributionProcedure       = "/" + AutomationServiceName + "/TriggerDistribution"
	AutomationServiceTriggerPenaltyProcedure            = "/" + AutomationServiceName + "/TriggerPenalty"
	AutomationServiceUpdateAutomationSettingsProcedure  = "/" + AutomationServiceName + "/UpdateAutomationSettings"
	AutomationServiceGetAutomationStateProcedure        = "/" + AutomationServiceName + "/GetAutomationState"
	AutomationServiceGetCircleAutomationProcedure       = "/" + AutomationServiceName + "/GetCircleAutomation"
	AutomationServiceListAutomationEventsProcedure      = "/" + AutomationServiceName + "/ListAutomationEvents"
	AutomationServiceIsTimeForProcedure                 = "/" + AutomationServiceName + "/IsTimeFor"
)

// TreasuryService procedures.
const (
	TreasuryServiceInitializeTreasuryProcedure      = "/" + TreasuryServiceName + "/InitializeTreasury"
	TreasuryServiceInitializeRevenueParamsProcedure = "/" + TreasuryServiceName + "/InitializeRevenueParams"
	TreasuryServiceUpdateRevenueParamsProcedure     = "/" + TreasuryServiceName + "/UpdateRevenueParams"
	TreasuryServiceGetTreasuryProcedure             = "/" + TreasuryServiceName + "/GetTreasury"
	TreasuryServiceGetRevenueParamsProcedure        = "/" + TreasuryServiceName + "/GetRevenueParams"
	TreasuryServiceCollectManagementFeesProcedure   = "/" + TreasuryServiceName + "/CollectManagementFees"
	TreasuryServiceCreateRevenueReportProcedure     = "/" + TreasuryServiceName + "/CreateRevenueReport"
	TreasuryServiceGetRevenueReportProcedure        = "/" + TreasuryServiceName + "/GetRevenueReport"
)

package models

import "errors"

// Kind classifies a ledger error so callers can tell bad input apart from
// lifecycle violations and permission failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindState
	KindAuthorization
	KindNotFound
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a named ledger failure. Every rejected operation returns exactly
// one of the sentinels below, possibly wrapped with extra context.
type Error struct {
	Code string
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.msg
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Code: code, Kind: kind, msg: msg}
}

// KindOf returns the category of err, or KindUnknown when err is not a ledger error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the error code of err, or an empty string when err is not a ledger error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Validation errors.
var (
	ErrInvalidDuration           = newError(KindValidation, "InvalidDuration", "duration must be between 1 and 24 months")
	ErrInvalidMaxMembers         = newError(KindValidation, "InvalidMaxMembers", "max members must be between 1 and 20")
	ErrInvalidContributionAmount = newError(KindValidation, "InvalidContributionAmount", "contribution amount is invalid")
	ErrInvalidPenaltyRate        = newError(KindValidation, "InvalidPenaltyRate", "penalty rate cannot exceed 10000 basis points")
	ErrUnknownPayoutMethod       = newError(KindValidation, "UnknownPayoutMethod", "payout method is not recognized")
	ErrInsufficientStake         = newError(KindValidation, "InsufficientStake", "stake is below the required amount")
	ErrOutOfRange                = newError(KindValidation, "OutOfRange", "value is out of range")
	ErrInvalidSocialProof        = newError(KindValidation, "InvalidSocialProof", "social proof is invalid")
	ErrNoPotAvailableForAuction  = newError(KindValidation, "NoPotAvailableForAuction", "auction pot must be positive")
	ErrInvalidAuctionDuration    = newError(KindValidation, "InvalidAuctionDuration", "auction duration must be between 1 and 72 hours")
	ErrInvalidStartingBid        = newError(KindValidation, "InvalidStartingBid", "starting bid must be positive and at most the pot")
	ErrBidTooLow                 = newError(KindValidation, "BidTooLow", "bid must exceed the current highest bid")
	ErrBidExceedsPot             = newError(KindValidation, "BidExceedsPot", "bid cannot exceed the auctioned pot")
	ErrInsufficientStakeForBid   = newError(KindValidation, "InsufficientStakeForBid", "stake must cover a tenth of the bid")
	ErrInvalidProposalType       = newError(KindValidation, "InvalidProposalType", "proposal type is not recognized")
	ErrInvalidProposal           = newError(KindValidation, "InvalidProposal", "proposal text or payload is invalid")
	ErrInvalidVotingPeriod       = newError(KindValidation, "InvalidVotingPeriod", "voting period must be between 1 and 168 hours")
	ErrInsufficientVotingPower   = newError(KindValidation, "InsufficientVotingPower", "voting power is insufficient")
	ErrInvalidAutomationConfig   = newError(KindValidation, "InvalidAutomationConfig", "automation configuration is invalid")
	ErrInvalidFeeRate            = newError(KindValidation, "InvalidFeeRate", "fee rate cannot exceed 1000 basis points")
	ErrInvalidFeeInterval        = newError(KindValidation, "InvalidFeeInterval", "management fee interval must be at least one day")
	ErrInvalidRevenueReport      = newError(KindValidation, "InvalidRevenueReportPeriod", "report period must end after it starts")
)

// State errors.
var (
	ErrCircleExists                = newError(KindState, "CircleExists", "circle already exists")
	ErrCircleFull                  = newError(KindState, "CircleFull", "circle is at capacity")
	ErrCircleNotActive             = newError(KindState, "CircleNotActive", "circle is not active")
	ErrMemberAlreadyExists         = newError(KindState, "MemberAlreadyExists", "principal is already a member of this circle")
	ErrMemberNotActive             = newError(KindState, "MemberNotActive", "member is not active")
	ErrContributionAlreadyMade     = newError(KindState, "ContributionAlreadyMade", "contribution for this month already made")
	ErrTooEarlyForPayout           = newError(KindState, "TooEarlyForPayout", "payout round is not due yet")
	ErrPayoutPending               = newError(KindState, "PayoutPending", "previous payout has not been made")
	ErrInvalidPayoutMethod         = newError(KindState, "InvalidPayoutMethod", "operation not allowed for this payout method")
	ErrMemberAlreadyReceivedPot    = newError(KindState, "MemberAlreadyReceivedPot", "member already received the pot this cycle")
	ErrPotAlreadyDistributed       = newError(KindState, "PotAlreadyDistributed", "pot already distributed")
	ErrNoContributionsToDistribute = newError(KindState, "NoContributionsToDistribute", "no contributions to distribute")
	ErrInsufficientEscrow          = newError(KindState, "InsufficientEscrow", "escrow balance is insufficient")
	ErrAuctionInProgress           = newError(KindState, "AuctionInProgress", "an auction is already in progress")
	ErrAuctionNotActive            = newError(KindState, "AuctionNotActive", "auction is not active")
	ErrAuctionHasEnded             = newError(KindState, "AuctionHasEnded", "auction has ended")
	ErrAuctionNotEnded             = newError(KindState, "AuctionNotEnded", "auction has not ended")
	ErrAuctionAlreadySettled       = newError(KindState, "AuctionAlreadySettled", "auction already settled")
	ErrProposalInProgress          = newError(KindState, "ProposalInProgress", "a proposal is already in progress")
	ErrProposalNotActive           = newError(KindState, "ProposalNotActive", "proposal is not active")
	ErrVotingPeriodEnded           = newError(KindState, "VotingPeriodEnded", "voting period has ended")
	ErrVotingStillOpen             = newError(KindState, "VotingStillOpen", "voting period is still open")
	ErrAlreadyVoted                = newError(KindState, "AlreadyVoted", "voter already voted on this proposal")
	ErrAlreadyExecuted             = newError(KindState, "AlreadyExecuted", "proposal already executed")
	ErrDuplicateProof              = newError(KindState, "DuplicateProof", "social proof already exists")
	ErrTrustScoreExists            = newError(KindState, "TrustScoreExists", "trust score already initialized")
	ErrAlreadyInitialized          = newError(KindState, "AlreadyInitialized", "account already initialized")
	ErrAutomationAlreadyConfigured = newError(KindState, "AutomationAlreadyConfigured", "circle automation already configured")
	ErrAutomationDisabled          = newError(KindState, "AutomationDisabled", "automation is disabled")
	ErrAutomationTooFrequent       = newError(KindState, "AutomationTooFrequent", "automation triggered too frequently")
	ErrAutomationNotScheduled      = newError(KindState, "AutomationNotScheduled", "automation is not scheduled yet")
	ErrFeeCollectionTooFrequent    = newError(KindState, "RevenueCollectionTooFrequent", "management fee collected too recently")
)

// Authorization errors.
var (
	ErrUnauthorized          = newError(KindAuthorization, "Unauthorized", "caller is not authorized")
	ErrNotYourTurn           = newError(KindAuthorization, "NotYourTurn", "caller is not the next payout recipient")
	ErrCannotBidOnOwnAuction = newError(KindAuthorization, "CannotBidOnOwnAuction", "initiator cannot bid on their own auction")
)

// Not-found errors.
var (
	ErrCircleNotFound     = newError(KindNotFound, "CircleNotFound", "circle not found")
	ErrMemberNotFound     = newError(KindNotFound, "MemberNotFound", "member not found")
	ErrTrustScoreNotFound = newError(KindNotFound, "TrustScoreNotFound", "trust score not found")
	ErrProofNotFound      = newError(KindNotFound, "ProofNotFound", "social proof not found")
	ErrProposalNotFound   = newError(KindNotFound, "ProposalNotFound", "proposal not found")
	ErrAuctionNotFound    = newError(KindNotFound, "AuctionNotFound", "auction not found")
	ErrAutomationNotFound = newError(KindNotFound, "AutomationNotFound", "automation not configured")
	ErrNotInitialized     = newError(KindNotFound, "NotInitialized", "account not initialized")
	ErrReportNotFound     = newError(KindNotFound, "RevenueReportNotFound", "revenue report not found")
)

// ErrArithmeticOverflow aborts an operation whose balance math would wrap.
var ErrArithmeticOverflow = newError(KindFatal, "ArithmeticOverflow", "arithmetic overflow")

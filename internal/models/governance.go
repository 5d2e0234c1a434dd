package models

type ProposalType string

const (
	ProposalInterestRateChange ProposalType = "interest_rate_change"
	ProposalCircleParameter    ProposalType = "circle_parameter"
	ProposalTreasury           ProposalType = "treasury"
)

func (t ProposalType) Valid() bool {
	switch t {
	case ProposalInterestRateChange, ProposalCircleParameter, ProposalTreasury:
		return true
	}
	return false
}

type ProposalStatus string

const (
	ProposalActive   ProposalStatus = "active"
	ProposalPassed   ProposalStatus = "passed"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExecuted ProposalStatus = "executed"
)

// Proposal limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxVotingHours       = 7 * 24
)

// ProposalPayload carries the parameter change a proposal applies when it passes.
type ProposalPayload struct {
	NewInterestRate *uint16       `json:"new_interest_rate,omitempty"`
	NewPayoutMethod *PayoutMethod `json:"new_payout_method,omitempty"`
}

// GovernanceProposal is a circle-level parameter change put to a quadratic vote.
type GovernanceProposal struct {
	ID                    string          `json:"id"`
	CircleID              string          `json:"circle_id"`
	Proposer              string          `json:"proposer"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	ProposalType          ProposalType    `json:"proposal_type"`
	Status                ProposalStatus  `json:"status"`
	VotesFor              uint64          `json:"votes_for"`
	VotesAgainst          uint64          `json:"votes_against"`
	QuadraticVotesFor     uint64          `json:"quadratic_votes_for"`
	QuadraticVotesAgainst uint64          `json:"quadratic_votes_against"`
	TotalVotingPower      uint64          `json:"total_voting_power"`
	ExecutionThreshold    uint64          `json:"execution_threshold"`
	Payload               ProposalPayload `json:"payload"`
	VotingStart           int64           `json:"voting_start"`
	VotingEnd             int64           `json:"voting_end"`
	Executed              bool            `json:"executed"`
	ExecutedAt            int64           `json:"executed_at,omitempty"`
}

// Resolved reports whether the proposal no longer occupies its circle's slot.
func (p *GovernanceProposal) Resolved() bool {
	return p.Executed || p.Status != ProposalActive
}

// Vote is one voter's ballot on one proposal.
type Vote struct {
	ProposalID      string `json:"proposal_id"`
	Voter           string `json:"voter"`
	Support         bool   `json:"support"`
	VotingPower     uint64 `json:"voting_power"`
	QuadraticWeight uint64 `json:"quadratic_weight"`
	Timestamp       int64  `json:"timestamp"`
}

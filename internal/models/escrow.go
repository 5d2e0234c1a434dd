package models

// MemberContribution is one payment into a monthly pot.
type MemberContribution struct {
	Member    string `json:"member"`
	Amount    uint64 `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// MonthlyPot is the slice of escrow collected for a single month.
type MonthlyPot struct {
	Month         int                  `json:"month"`
	Collected     uint64               `json:"collected"`
	Contributions []MemberContribution `json:"contributions"`

	// Carried is the part of Collected that arrived from a settled auction
	// rather than from member contributions.
	Carried uint64 `json:"carried"`

	Distributed       bool   `json:"distributed"`
	DistributedTo     string `json:"distributed_to,omitempty"`
	DistributedAmount uint64 `json:"distributed_amount"`
}

// CircleEscrow is the pooled balance backing a circle's stakes and contributions.
//
// TotalAmount always equals TotalStaked plus the Collected amount of every
// undistributed pot, and TotalDeposited minus TotalWithdrawn.
type CircleEscrow struct {
	CircleID       string       `json:"circle_id"`
	TotalAmount    uint64       `json:"total_amount"`
	TotalStaked    uint64       `json:"total_staked"`
	TotalDeposited uint64       `json:"total_deposited"`
	TotalWithdrawn uint64       `json:"total_withdrawn"`
	MonthlyPots    []MonthlyPot `json:"monthly_pots"`

	// LastManagementFee is when stakes were last charged the management fee.
	LastManagementFee int64 `json:"last_management_fee"`
}

// Pot returns the pot for month, or nil when month is outside the circle.
func (e *CircleEscrow) Pot(month int) *MonthlyPot {
	if month < 0 || month >= len(e.MonthlyPots) {
		return nil
	}
	return &e.MonthlyPots[month]
}

// UndistributedBalance sums Collected across pots that have not been paid out.
func (e *CircleEscrow) UndistributedBalance() uint64 {
	var total uint64
	for _, p := range e.MonthlyPots {
		if !p.Distributed {
			total += p.Collected
		}
	}
	return total
}

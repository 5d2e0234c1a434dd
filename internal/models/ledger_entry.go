package models

// EntryKind names a movement of funds into or out of a circle's escrow.
type EntryKind string

const (
	EntryStakeIn            EntryKind = "stake_in"
	EntryContributionIn     EntryKind = "contribution_in"
	EntryStakeRefund        EntryKind = "stake_refund"
	EntryContributionRefund EntryKind = "contribution_refund"
	EntryPayout             EntryKind = "payout"
	EntryFee                EntryKind = "fee"
	EntryPenalty            EntryKind = "penalty"
	EntryManagementFee      EntryKind = "management_fee"
)

// Inbound reports whether the entry moved funds into escrow.
func (k EntryKind) Inbound() bool {
	return k == EntryStakeIn || k == EntryContributionIn
}

// LedgerEntry journals one escrow movement. Principal is the member the funds
// belong to, except for fees, which name the treasury authority.
type LedgerEntry struct {
	ID         string    `json:"id"`
	CircleID   string    `json:"circle_id"`
	Principal  string    `json:"principal"`
	Kind       EntryKind `json:"kind"`
	Amount     uint64    `json:"amount"`
	Month      int       `json:"month"`
	OccurredAt int64     `json:"occurred_at"`
}

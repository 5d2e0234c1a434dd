package models

type MemberStatus string

const (
	MemberActive MemberStatus = "active"
	MemberExited MemberStatus = "exited"
)

// Member is one principal's participation in one circle.
type Member struct {
	CircleID    string    `json:"circle_id"`
	Authority   string    `json:"authority"`
	StakeAmount uint64    `json:"stake_amount"`
	TrustTier   TrustTier `json:"trust_tier"`
	TrustScore  uint16    `json:"trust_score"`

	// ContributionHistory holds the amount contributed for each month,
	// indexed by month. Zero means no contribution for that month.
	ContributionHistory []uint64 `json:"contribution_history"`

	Penalties           uint64       `json:"penalties"`
	ContributionsMissed int          `json:"contributions_missed"`
	HasReceivedPot      bool         `json:"has_received_pot"`
	PayoutClaimed       bool         `json:"payout_claimed"`
	PayoutMonth         *int         `json:"payout_month,omitempty"`
	Status              MemberStatus `json:"status"`
	JoinedAt            int64        `json:"joined_at"`
}

func (m *Member) IsActive() bool {
	return m.Status == MemberActive
}

// ContributedFor reports whether the member paid in for month.
func (m *Member) ContributedFor(month int) bool {
	return month >= 0 && month < len(m.ContributionHistory) && m.ContributionHistory[month] > 0
}

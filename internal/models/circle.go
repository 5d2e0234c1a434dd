package models

// PayoutMethod decides who receives each month's pot.
type PayoutMethod string

const (
	PayoutFixedRotation PayoutMethod = "fixed_rotation"
	PayoutAuction       PayoutMethod = "auction"
)

// Valid reports whether m is a known payout method.
func (m PayoutMethod) Valid() bool {
	return m == PayoutFixedRotation || m == PayoutAuction
}

type CircleStatus string

const (
	CircleActive    CircleStatus = "active"
	CircleCompleted CircleStatus = "completed"
	CircleDefaulted CircleStatus = "defaulted"
)

// Circle bounds.
const (
	MinDurationMonths = 1
	MaxDurationMonths = 24
	MinMembers        = 1
	MaxMembers        = 20
	MaxBasisPoints    = 10000
	SecondsPerMonth   = 30 * 24 * 60 * 60
)

// Circle is a fixed-membership, fixed-duration rotating savings group.
type Circle struct {
	ID                 string       `json:"id"`
	Creator            string       `json:"creator"`
	ContributionAmount uint64       `json:"contribution_amount"`
	DurationMonths     int          `json:"duration_months"`
	MaxMembers         int          `json:"max_members"`
	PenaltyRate        uint16       `json:"penalty_rate"`
	CurrentMembers     int          `json:"current_members"`
	CurrentMonth       int          `json:"current_month"`
	TotalPot           uint64       `json:"total_pot"`
	Members            []string     `json:"members"`
	PayoutMethod       PayoutMethod `json:"payout_method"`

	// NextPayoutRecipient is set by a fixed-rotation payout round and
	// cleared once that member claims. Empty means no recipient is pending.
	NextPayoutRecipient string `json:"next_payout_recipient,omitempty"`

	// PendingPayoutMonth is the month closed by the last payout round whose
	// pot has not been paid out yet.
	PendingPayoutMonth *int `json:"pending_payout_month,omitempty"`

	Status               CircleStatus `json:"status"`
	ContributionSchedule []int64      `json:"contribution_schedule"`
	PayoutSchedule       []int64      `json:"payout_schedule"`
	CreatedAt            int64        `json:"created_at"`
	UpdatedAt            int64        `json:"updated_at"`
}

// IsActive reports whether the circle still accepts state transitions.
func (c *Circle) IsActive() bool {
	return c.Status == CircleActive
}

// HasMember reports whether principal is on the circle's roster.
func (c *Circle) HasMember(principal string) bool {
	for _, m := range c.Members {
		if m == principal {
			return true
		}
	}
	return false
}

// RemoveMember drops principal from the roster, returning false if absent.
func (c *Circle) RemoveMember(principal string) bool {
	for i, m := range c.Members {
		if m == principal {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			c.CurrentMembers--
			return true
		}
	}
	return false
}

// LastMonth returns the index of the circle's final month.
func (c *Circle) LastMonth() int {
	return c.DurationMonths - 1
}

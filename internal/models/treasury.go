package models

// Fee defaults and limits, in basis points.
const (
	DefaultDistributionFeeRate = 50
	DefaultAuctionFeeRate      = 25
	DefaultManagementFeeRate   = 200
	MaxFeeRate                 = 1000
)

// Management fee timing, in seconds.
const (
	DefaultManagementFeeInterval = SecondsPerMonth
	MinManagementFeeInterval     = 24 * 60 * 60
	SecondsPerYear               = 365 * 24 * 60 * 60
)

// Treasury collects protocol fees and penalties.
type Treasury struct {
	Authority                   string `json:"authority"`
	Balance                     uint64 `json:"balance"`
	TotalFeesCollected          uint64 `json:"total_fees_collected"`
	DistributionFees            uint64 `json:"distribution_fees"`
	AuctionFees                 uint64 `json:"auction_fees"`
	PenaltyFees                 uint64 `json:"penalty_fees"`
	ManagementFees              uint64 `json:"management_fees"`
	LastManagementFeeCollection int64  `json:"last_management_fee_collection"`
	CreatedAt                   int64  `json:"created_at"`
}

// RevenueParams sets the protocol fee rates. ManagementFeeRate is annual;
// ManagementFeeInterval is the minimum gap between collections on one circle.
type RevenueParams struct {
	Authority             string `json:"authority"`
	DistributionFeeRate   uint16 `json:"distribution_fee_rate"`
	AuctionFeeRate        uint16 `json:"auction_fee_rate"`
	ManagementFeeRate     uint16 `json:"management_fee_rate"`
	ManagementFeeInterval int64  `json:"management_fee_interval"`
	LastUpdated           int64  `json:"last_updated"`
}

// ManagementFeeCollection is the outcome of charging one circle's stakes.
type ManagementFeeCollection struct {
	CircleID     string `json:"circle_id"`
	Amount       uint64 `json:"amount"`
	ManagedStake uint64 `json:"managed_stake"`
	Elapsed      int64  `json:"elapsed"`
	CollectedAt  int64  `json:"collected_at"`
}

// RevenueReport summarizes treasury income and circle activity for the
// half-open period [PeriodStart, PeriodEnd).
type RevenueReport struct {
	PeriodStart             int64  `json:"period_start"`
	PeriodEnd               int64  `json:"period_end"`
	TotalPeriodFees         uint64 `json:"total_period_fees"`
	PeriodManagementFees    uint64 `json:"period_management_fees"`
	PeriodPenalties         uint64 `json:"period_penalties"`
	TotalDistributions      uint64 `json:"total_distributions"`
	ActiveCircles           uint32 `json:"active_circles"`
	TotalManagedStake       uint64 `json:"total_managed_stake"`
	CumulativeFeesCollected uint64 `json:"cumulative_fees_collected"`
	CreatedBy               string `json:"created_by"`
	CreatedAt               int64  `json:"created_at"`
}

package models

type AuctionStatus string

const (
	AuctionActive  AuctionStatus = "active"
	AuctionSettled AuctionStatus = "settled"
)

const MaxAuctionHours = 72

// Auction sells early access to one month's pot to the highest bidder.
type Auction struct {
	ID            string        `json:"id"`
	CircleID      string        `json:"circle_id"`
	Initiator     string        `json:"initiator"`
	PayoutMonth   int           `json:"payout_month"`
	PotAmount     uint64        `json:"pot_amount"`
	StartingBid   uint64        `json:"starting_bid"`
	HighestBid    uint64        `json:"highest_bid"`
	HighestBidder string        `json:"highest_bidder,omitempty"`
	Status        AuctionStatus `json:"status"`
	Settled       bool          `json:"settled"`
	BidCount      uint32        `json:"bid_count"`
	StartTime     int64         `json:"start_time"`
	EndTime       int64         `json:"end_time"`
	SettledAt     int64         `json:"settled_at,omitempty"`
	WinningPayout uint64        `json:"winning_payout"`
}

// Ended reports whether bidding has closed at now.
func (a *Auction) Ended(now int64) bool {
	return now >= a.EndTime
}

// Bid is one bidder's standing offer in an auction.
type Bid struct {
	AuctionID   string `json:"auction_id"`
	Bidder      string `json:"bidder"`
	Amount      uint64 `json:"amount"`
	BidderStake uint64 `json:"bidder_stake"`
	IsHighest   bool   `json:"is_highest"`
	Timestamp   int64  `json:"timestamp"`
}

// Package keys derives the deterministic identifiers and storage keys of
// ledger accounts.
package keys

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Account kinds, also used as key prefixes.
const (
	KindCircle           = "circle"
	KindEscrow           = "escrow"
	KindMember           = "member"
	KindTrustScore       = "trust"
	KindProposal         = "proposal"
	KindVote             = "vote"
	KindAuction          = "auction"
	KindBid              = "bid"
	KindCircleAutomation = "automation"
	KindAutomationState  = "automation_state"
	KindTreasury         = "treasury"
	KindRevenueParams    = "revenue_params"
	KindRevenueReport    = "revenue_report"
)

// circleNamespace scopes proposal and auction IDs derived from a circle.
var circleNamespace = uuid.MustParse("5b8f2f0e-6f0c-4c3e-9a51-2d7e4c1a9b60")

// CircleID derives a circle identifier from its creator and creation time.
func CircleID(creator string, createdAt int64) string {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(createdAt))

	h, _ := blake2b.New256(nil)
	h.Write([]byte(KindCircle))
	h.Write([]byte(creator))
	h.Write(ts[:])
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// ProposalID derives a proposal identifier from its circle and voting start.
func ProposalID(circleID string, votingStart int64) string {
	return uuid.NewSHA1(circleNamespace, []byte(KindProposal+":"+circleID+":"+strconv.FormatInt(votingStart, 10))).String()
}

// AuctionID derives an auction identifier from its circle and start time.
func AuctionID(circleID string, startTime int64) string {
	return uuid.NewSHA1(circleNamespace, []byte(KindAuction+":"+circleID+":"+strconv.FormatInt(startTime, 10))).String()
}

func join(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, ':')
		}
		b = append(b, p...)
	}
	return string(b)
}

func Circle(circleID string) string { return join(KindCircle, circleID) }
func Escrow(circleID string) string { return join(KindEscrow, circleID) }
func Proposal(circleID string) string { return join(KindProposal, circleID) }
func Auction(circleID string) string { return join(KindAuction, circleID) }
func TrustScore(principal string) string { return join(KindTrustScore, principal) }

func CircleAutomation(circleID string) string {
	return join(KindCircleAutomation, circleID)
}

func Member(circleID, principal string) string {
	return join(KindMember, circleID, principal)
}

func Vote(proposalID, voter string) string {
	return join(KindVote, proposalID, voter)
}

func Bid(auctionID, bidder string) string {
	return join(KindBid, auctionID, bidder)
}

// BidPrefix is the key prefix shared by every bid in an auction.
func BidPrefix(auctionID string) string {
	return join(KindBid, auctionID, "")
}

func AutomationState() string { return KindAutomationState }
func Treasury() string { return KindTreasury }
func RevenueParams() string { return KindRevenueParams }

// RevenueReport keys a report by its period bounds.
func RevenueReport(periodStart, periodEnd int64) string {
	return join(KindRevenueReport, strconv.FormatInt(periodStart, 10), strconv.FormatInt(periodEnd, 10))
}

package sqlite

import (
	"context"

	"github.com/mmynk/circlefund/internal/keys"
	"github.com/mmynk/circlefund/internal/models"
)

const listByKind = "SELECT data FROM accounts WHERE kind = ? ORDER BY rowid"

func (t *sqliteTx) GetCircle(ctx context.Context, circleID string) (*models.Circle, error) {
	return getAccount[models.Circle](ctx, t.tx, keys.Circle(circleID))
}

func (t *sqliteTx) PutCircle(ctx context.Context, circle *models.Circle) error {
	return t.putAccount(ctx, keys.Circle(circle.ID), keys.KindCircle, circle.ID, circle)
}

// ListCircles returns every circle in creation order.
func (t *sqliteTx) ListCircles(ctx context.Context) ([]*models.Circle, error) {
	return selectAccounts[models.Circle](ctx, t.tx, listByKind, keys.KindCircle)
}

func (t *sqliteTx) GetEscrow(ctx context.Context, circleID string) (*models.CircleEscrow, error) {
	return getAccount[models.CircleEscrow](ctx, t.tx, keys.Escrow(circleID))
}

func (t *sqliteTx) PutEscrow(ctx context.Context, escrow *models.CircleEscrow) error {
	return t.putAccount(ctx, keys.Escrow(escrow.CircleID), keys.KindEscrow, escrow.CircleID, escrow)
}

func (t *sqliteTx) GetMember(ctx context.Context, circleID, principal string) (*models.Member, error) {
	return getAccount[models.Member](ctx, t.tx, keys.Member(circleID, principal))
}

func (t *sqliteTx) PutMember(ctx context.Context, member *models.Member) error {
	return t.putAccount(ctx, keys.Member(member.CircleID, member.Authority), keys.KindMember, member.CircleID, member)
}

// ListMembers returns every member record of a circle, exited ones included,
// in join order.
func (t *sqliteTx) ListMembers(ctx context.Context, circleID string) ([]*models.Member, error) {
	return selectAccounts[models.Member](ctx, t.tx,
		"SELECT data FROM accounts WHERE kind = ? AND circle_id = ? ORDER BY rowid",
		keys.KindMember, circleID,
	)
}

func (t *sqliteTx) GetTrustScore(ctx context.Context, principal string) (*models.TrustScore, error) {
	return getAccount[models.TrustScore](ctx, t.tx, keys.TrustScore(principal))
}

func (t *sqliteTx) PutTrustScore(ctx context.Context, score *models.TrustScore) error {
	return t.putAccount(ctx, keys.TrustScore(score.Authority), keys.KindTrustScore, "", score)
}

func (t *sqliteTx) GetProposal(ctx context.Context, circleID string) (*models.GovernanceProposal, error) {
	return getAccount[models.GovernanceProposal](ctx, t.tx, keys.Proposal(circleID))
}

func (t *sqliteTx) PutProposal(ctx context.Context, proposal *models.GovernanceProposal) error {
	return t.putAccount(ctx, keys.Proposal(proposal.CircleID), keys.KindProposal, proposal.CircleID, proposal)
}

func (t *sqliteTx) GetVote(ctx context.Context, proposalID, voter string) (*models.Vote, error) {
	return getAccount[models.Vote](ctx, t.tx, keys.Vote(proposalID, voter))
}

func (t *sqliteTx) PutVote(ctx context.Context, vote *models.Vote) error {
	return t.putAccount(ctx, keys.Vote(vote.ProposalID, vote.Voter), keys.KindVote, "", vote)
}

func (t *sqliteTx) GetAuction(ctx context.Context, circleID string) (*models.Auction, error) {
	return getAccount[models.Auction](ctx, t.tx, keys.Auction(circleID))
}

func (t *sqliteTx) PutAuction(ctx context.Context, auction *models.Auction) error {
	return t.putAccount(ctx, keys.Auction(auction.CircleID), keys.KindAuction, auction.CircleID, auction)
}

func (t *sqliteTx) GetBid(ctx context.Context, auctionID, bidder string) (*models.Bid, error) {
	return getAccount[models.Bid](ctx, t.tx, keys.Bid(auctionID, bidder))
}

func (t *sqliteTx) PutBid(ctx context.Context, bid *models.Bid) error {
	return t.putAccount(ctx, keys.Bid(bid.AuctionID, bid.Bidder), keys.KindBid, "", bid)
}

// ListBids returns the bids of one auction in the order they were first placed.
func (t *sqliteTx) ListBids(ctx context.Context, auctionID string) ([]*models.Bid, error) {
	prefix := keys.BidPrefix(auctionID)
	return selectAccounts[models.Bid](ctx, t.tx,
		"SELECT data FROM accounts WHERE kind = ? AND substr(key, 1, ?) = ? ORDER BY rowid",
		keys.KindBid, len(prefix), prefix,
	)
}

func (t *sqliteTx) GetAutomationState(ctx context.Context) (*models.AutomationState, error) {
	return getAccount[models.AutomationState](ctx, t.tx, keys.AutomationState())
}

func (t *sqliteTx) PutAutomationState(ctx context.Context, state *models.AutomationState) error {
	return t.putAccount(ctx, keys.AutomationState(), keys.KindAutomationState, "", state)
}

func (t *sqliteTx) GetCircleAutomation(ctx context.Context, circleID string) (*models.CircleAutomation, error) {
	return getAccount[models.CircleAutomation](ctx, t.tx, keys.CircleAutomation(circleID))
}

func (t *sqliteTx) PutCircleAutomation(ctx context.Context, automation *models.CircleAutomation) error {
	return t.putAccount(ctx, keys.CircleAutomation(automation.CircleID), keys.KindCircleAutomation, automation.CircleID, automation)
}

func (t *sqliteTx) ListCircleAutomations(ctx context.Context) ([]*models.CircleAutomation, error) {
	return selectAccounts[models.CircleAutomation](ctx, t.tx, listByKind, keys.KindCircleAutomation)
}

func (t *sqliteTx) GetTreasury(ctx context.Context) (*models.Treasury, error) {
	return getAccount[models.Treasury](ctx, t.tx, keys.Treasury())
}

func (t *sqliteTx) PutTreasury(ctx context.Context, treasury *models.Treasury) error {
	return t.putAccount(ctx, keys.Treasury(), keys.KindTreasury, "", treasury)
}

func (t *sqliteTx) GetRevenueParams(ctx context.Context) (*models.RevenueParams, error) {
	return getAccount[models.RevenueParams](ctx, t.tx, keys.RevenueParams())
}

func (t *sqliteTx) PutRevenueParams(ctx context.Context, params *models.RevenueParams) error {
	return t.putAccount(ctx, keys.RevenueParams(), keys.KindRevenueParams, "", params)
}

func (t *sqliteTx) GetRevenueReport(ctx context.Context, periodStart, periodEnd int64) (*models.RevenueReport, error) {
	return getAccount[models.RevenueReport](ctx, t.tx, keys.RevenueReport(periodStart, periodEnd))
}

func (t *sqliteTx) PutRevenueReport(ctx context.Context, report *models.RevenueReport) error {
	return t.putAccount(ctx, keys.RevenueReport(report.PeriodStart, report.PeriodEnd), keys.KindRevenueReport, "", report)
}

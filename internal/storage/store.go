// Package storage provides abstractions for the durable ledger account store.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/circlefund/internal/models"
)

// ErrNotFound is returned (wrapped) by Tx getters when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// Store is a keyed account store with atomic read-modify-write transactions.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger.
type Store interface {
	// Update runs fn in a read-write transaction. If fn returns an error,
	// every write made through tx is discarded.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn in a transaction that is always rolled back.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the set of typed account operations available inside a transaction.
// Getters return an error wrapping ErrNotFound when the account is absent.
type Tx interface {
	GetCircle(ctx context.Context, circleID string) (*models.Circle, error)
	PutCircle(ctx context.Context, circle *models.Circle) error
	ListCircles(ctx context.Context) ([]*models.Circle, error)

	GetEscrow(ctx context.Context, circleID string) (*models.CircleEscrow, error)
	PutEscrow(ctx context.Context, escrow *models.CircleEscrow) error

	GetMember(ctx context.Context, circleID, principal string) (*models.Member, error)
	PutMember(ctx context.Context, member *models.Member) error
	ListMembers(ctx context.Context, circleID string) ([]*models.Member, error)

	GetTrustScore(ctx context.Context, principal string) (*models.TrustScore, error)
	PutTrustScore(ctx context.Context, score *models.TrustScore) error

	// GetProposal returns the proposal occupying the circle's slot.
	GetProposal(ctx context.Context, circleID string) (*models.GovernanceProposal, error)
	PutProposal(ctx context.Context, proposal *models.GovernanceProposal) error
	GetVote(ctx context.Context, proposalID, voter string) (*models.Vote, error)
	PutVote(ctx context.Context, vote *models.Vote) error

	// GetAuction returns the auction occupying the circle's slot.
	GetAuction(ctx context.Context, circleID string) (*models.Auction, error)
	PutAuction(ctx context.Context, auction *models.Auction) error
	GetBid(ctx context.Context, auctionID, bidder string) (*models.Bid, error)
	PutBid(ctx context.Context, bid *models.Bid) error
	ListBids(ctx context.Context, auctionID string) ([]*models.Bid, error)

	GetAutomationState(ctx context.Context) (*models.AutomationState, error)
	PutAutomationState(ctx context.Context, state *models.AutomationState) error
	GetCircleAutomation(ctx context.Context, circleID string) (*models.CircleAutomation, error)
	PutCircleAutomation(ctx context.Context, automation *models.CircleAutomation) error
	ListCircleAutomations(ctx context.Context) ([]*models.CircleAutomation, error)

	GetTreasury(ctx context.Context) (*models.Treasury, error)
	PutTreasury(ctx context.Context, treasury *models.Treasury) error
	GetRevenueParams(ctx context.Context) (*models.RevenueParams, error)
	PutRevenueParams(ctx context.Context, params *models.RevenueParams) error
	GetRevenueReport(ctx context.Context, periodStart, periodEnd int64) (*models.RevenueReport, error)
	PutRevenueReport(ctx context.Context, report *models.RevenueReport) error

	// AppendLedgerEntry journals an escrow movement. Entries are listed in
	// insertion order.
	AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
	ListLedgerEntries(ctx context.Context, circleID string) ([]models.LedgerEntry, error)

	AppendAutomationEvent(ctx context.Context, event *models.AutomationEvent) error
	ListAutomationEvents(ctx context.Context, circleID string) ([]models.AutomationEvent, error)

	// Savepoint runs fn as a nested atomic unit: if fn fails, its writes are
	// undone while the enclosing transaction stays usable.
	Savepoint(ctx context.Context, fn func() error) error
}

package ledger

import (
	"context"

	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/models"
)

// GetCircle returns a circle snapshot.
func (l *Ledger) GetCircle(ctx context.Context, circleID string) (*models.Circle, error) {
	var circle *models.Circle
	err := l.view(ctx, func(s *session) error {
		var err error
		circle, err = s.circle(circleID)
		return err
	})
	return circle, err
}

// ListCircles returns every circle in creation order.
func (l *Ledger) ListCircles(ctx context.Context) ([]*models.Circle, error) {
	var circles []*models.Circle
	err := l.view(ctx, func(s *session) error {
		var err error
		circles, err = s.tx.ListCircles(ctx)
		return err
	})
	return circles, err
}

// GetEscrow returns a circle's escrow snapshot.
func (l *Ledger) GetEscrow(ctx context.Context, circleID string) (*models.CircleEscrow, error) {
	var escrow *models.CircleEscrow
	err := l.view(ctx, func(s *session) error {
		var err error
		escrow, err = s.escrow(circleID)
		return err
	})
	return escrow, err
}

func (l *Ledger) GetMember(ctx context.Context, circleID, principal string) (*models.Member, error) {
	var member *models.Member
	err := l.view(ctx, func(s *session) error {
		var err error
		member, err = s.member(circleID, principal)
		return err
	})
	return member, err
}

// ListMembers returns every member record of a circle, exited ones included.
func (l *Ledger) ListMembers(ctx context.Context, circleID string) ([]*models.Member, error) {
	var members []*models.Member
	err := l.view(ctx, func(s *session) error {
		if _, err := s.circle(circleID); err != nil {
			return err
		}
		var err error
		members, err = s.tx.ListMembers(ctx, circleID)
		return err
	})
	return members, err
}

func (l *Ledger) GetTrustScore(ctx context.Context, principal string) (*models.TrustScore, error) {
	var score *models.TrustScore
	err := l.view(ctx, func(s *session) error {
		var err error
		score, err = s.existingTrustScore(principal)
		return err
	})
	return score, err
}

// ListLedgerEntries returns a circle's escrow journal in order.
func (l *Ledger) ListLedgerEntries(ctx context.Context, circleID string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := l.view(ctx, func(s *session) error {
		if _, err := s.circle(circleID); err != nil {
			return err
		}
		var err error
		entries, err = s.tx.ListLedgerEntries(ctx, circleID)
		return err
	})
	return entries, err
}

// CirclePositions summarizes each principal's money in and out of a circle
// from its journal, together with the fees the treasury took.
func (l *Ledger) CirclePositions(ctx context.Context, circleID string) ([]calculator.MemberPosition, uint64, error) {
	entries, err := l.ListLedgerEntries(ctx, circleID)
	if err != nil {
		return nil, 0, err
	}
	return calculator.CirclePositions(entries)
}

package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/keys"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/storage"
)

// session is the unit of work of one operation. Accounts are loaded once,
// mutated in memory and written back together by flush, so a nested helper
// always sees the same copy as its caller.
type session struct {
	ctx context.Context
	tx  storage.Tx
	at  time.Time
	now int64
	cfg Config

	circles  map[string]*models.Circle
	escrows  map[string]*models.CircleEscrow
	members  map[string]*models.Member
	scores   map[string]*models.TrustScore
	treasury *models.Treasury
	params   *models.RevenueParams

	// holdCompletion leaves a circle open after its last pot is paid so the
	// final penalty slot can still run.
	holdCompletion bool

	// order keeps writes in load order so new rows keep a stable rowid order.
	order []func() error
}

func newSession(ctx context.Context, tx storage.Tx, at time.Time, cfg Config) *session {
	return &session{
		ctx:     ctx,
		tx:      tx,
		at:      at,
		now:     at.Unix(),
		cfg:     cfg,
		circles: make(map[string]*models.Circle),
		escrows: make(map[string]*models.CircleEscrow),
		members: make(map[string]*models.Member),
		scores:  make(map[string]*models.TrustScore),
	}
}

// flush writes back every account the session loaded or created.
func (s *session) flush() error {
	for _, put := range s.order {
		if err := put(); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) circle(circleID string) (*models.Circle, error) {
	if c, ok := s.circles[circleID]; ok {
		return c, nil
	}
	c, err := s.tx.GetCircle(s.ctx, circleID)
	if err != nil {
		return nil, notFound(err, models.ErrCircleNotFound)
	}
	s.trackCircle(c)
	return c, nil
}

// activeCircle loads a circle and requires it to be Active.
func (s *session) activeCircle(circleID string) (*models.Circle, error) {
	c, err := s.circle(circleID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, models.ErrCircleNotActive
	}
	return c, nil
}

func (s *session) trackCircle(c *models.Circle) {
	s.circles[c.ID] = c
	s.order = append(s.order, func() error {
		c.UpdatedAt = s.now
		return s.tx.PutCircle(s.ctx, c)
	})
}

func (s *session) escrow(circleID string) (*models.CircleEscrow, error) {
	if e, ok := s.escrows[circleID]; ok {
		return e, nil
	}
	e, err := s.tx.GetEscrow(s.ctx, circleID)
	if err != nil {
		return nil, notFound(err, models.ErrCircleNotFound)
	}
	s.trackEscrow(e)
	return e, nil
}

func (s *session) trackEscrow(e *models.CircleEscrow) {
	s.escrows[e.CircleID] = e
	s.order = append(s.order, func() error { return s.tx.PutEscrow(s.ctx, e) })
}

func (s *session) member(circleID, principal string) (*models.Member, error) {
	key := keys.Member(circleID, principal)
	if m, ok := s.members[key]; ok {
		return m, nil
	}
	m, err := s.tx.GetMember(s.ctx, circleID, principal)
	if err != nil {
		return nil, notFound(err, models.ErrMemberNotFound)
	}
	s.trackMember(m)
	return m, nil
}

// activeMember loads a member and requires it to be Active.
func (s *session) activeMember(circleID, principal string) (*models.Member, error) {
	m, err := s.member(circleID, principal)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, models.ErrMemberNotActive
	}
	return m, nil
}

func (s *session) trackMember(m *models.Member) {
	s.members[keys.Member(m.CircleID, m.Authority)] = m
	s.order = append(s.order, func() error { return s.tx.PutMember(s.ctx, m) })
}

// trustScore returns the principal's trust score, or nil if none exists.
func (s *session) trustScore(principal string) (*models.TrustScore, error) {
	if ts, ok := s.scores[principal]; ok {
		return ts, nil
	}
	ts, err := s.tx.GetTrustScore(s.ctx, principal)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.trackTrustScore(ts)
	return ts, nil
}

func (s *session) trackTrustScore(ts *models.TrustScore) {
	s.scores[ts.Authority] = ts
	s.order = append(s.order, func() error { return s.tx.PutTrustScore(s.ctx, ts) })
}

func (s *session) loadTreasury() (*models.Treasury, error) {
	if s.treasury != nil {
		return s.treasury, nil
	}
	t, err := s.tx.GetTreasury(s.ctx)
	if err != nil {
		return nil, notFound(err, models.ErrNotInitialized)
	}
	s.treasury = t
	s.order = append(s.order, func() error { return s.tx.PutTreasury(s.ctx, t) })
	return t, nil
}

func (s *session) revenueParams() (*models.RevenueParams, error) {
	if s.params != nil {
		return s.params, nil
	}
	p, err := s.tx.GetRevenueParams(s.ctx)
	if err != nil {
		return nil, notFound(err, models.ErrNotInitialized)
	}
	s.params = p
	s.order = append(s.order, func() error { return s.tx.PutRevenueParams(s.ctx, p) })
	return p, nil
}

// journal appends an escrow movement for circle.
func (s *session) journal(circleID, principal string, kind models.EntryKind, amount uint64, month int) error {
	if amount == 0 {
		return nil
	}
	return s.tx.AppendLedgerEntry(s.ctx, &models.LedgerEntry{
		CircleID:   circleID,
		Principal:  principal,
		Kind:       kind,
		Amount:     amount,
		Month:      month,
		OccurredAt: s.now,
	})
}

// contributionMonth is the month a contribution made now counts toward.
func (s *session) contributionMonth(c *models.Circle) int {
	return calculator.ContributionMonth(c.CreatedAt, s.now, c.DurationMonths)
}

package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/circlefund/internal/calculator"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/storage"
)

// CollectManagementFees charges the annual management fee, prorated over the
// time since the circle's last collection, against each active member's
// stake and books it to the treasury. Only the treasury authority may
// collect, and at most once per management fee interval per circle.
func (l *Ledger) CollectManagementFees(ctx context.Context, caller, circleID string) (*models.ManagementFeeCollection, error) {
	var collection *models.ManagementFeeCollection
	err := l.update(ctx, "collect_management_fees", func(s *session) error {
		t, err := s.loadTreasury()
		if err != nil {
			return err
		}
		if caller == "" || caller != t.Authority {
			return models.ErrUnauthorized
		}
		params, err := s.revenueParams()
		if err != nil {
			return err
		}
		c, err := s.activeCircle(circleID)
		if err != nil {
			return err
		}
		e, err := s.escrow(circleID)
		if err != nil {
			return err
		}

		last := e.LastManagementFee
		if last == 0 {
			last = c.CreatedAt
		}
		elapsed := s.now - last
		if elapsed < params.ManagementFeeInterval {
			return models.ErrFeeCollectionTooFrequent
		}

		collection = &models.ManagementFeeCollection{
			CircleID:     circleID,
			ManagedStake: e.TotalStaked,
			Elapsed:      elapsed,
			CollectedAt:  s.now,
		}
		month := s.contributionMonth(c)
		for _, principal := range c.Members {
			m, err := s.member(circleID, principal)
			if err != nil {
				return err
			}
			if !m.IsActive() || m.StakeAmount == 0 {
				continue
			}
			fee, err := calculator.ManagementFee(m.StakeAmount, params.ManagementFeeRate, elapsed)
			if err != nil {
				return err
			}
			if fee == 0 {
				continue
			}
			if err := releaseStake(e, fee); err != nil {
				return err
			}
			m.StakeAmount -= fee
			if err := s.journal(circleID, principal, models.EntryManagementFee, fee, month); err != nil {
				return err
			}
			if collection.Amount, err = calculator.Add(collection.Amount, fee); err != nil {
				return err
			}
		}
		if err := s.creditTreasury(circleID, month, collection.Amount, feeManagement); err != nil {
			return err
		}

		e.LastManagementFee = s.now
		t.LastManagementFeeCollection = s.now
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Management fees collected", "circle_id", circleID,
		"amount", collection.Amount, "managed_stake", collection.ManagedStake, "elapsed", collection.Elapsed)
	return collection, nil
}

// CreateRevenueReport records fee income and payouts journaled in
// [periodStart, periodEnd) across all circles, with a snapshot of the
// currently active circles and their stake. One report exists per period.
func (l *Ledger) CreateRevenueReport(ctx context.Context, caller string, periodStart, periodEnd int64) (*models.RevenueReport, error) {
	if periodStart >= periodEnd {
		return nil, models.ErrInvalidRevenueReport
	}

	var report *models.RevenueReport
	err := l.update(ctx, "create_revenue_report", func(s *session) error {
		t, err := s.loadTreasury()
		if err != nil {
			return err
		}
		if caller == "" || caller != t.Authority {
			return models.ErrUnauthorized
		}
		if _, err := s.tx.GetRevenueReport(s.ctx, periodStart, periodEnd); err == nil {
			return models.ErrAlreadyInitialized
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		report = &models.RevenueReport{
			PeriodStart:             periodStart,
			PeriodEnd:               periodEnd,
			CumulativeFeesCollected: t.TotalFeesCollected,
			CreatedBy:               caller,
			CreatedAt:               s.now,
		}
		if err := s.tallyRevenue(report); err != nil {
			return err
		}
		return s.tx.PutRevenueReport(s.ctx, report)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Revenue report created", "period_start", periodStart, "period_end", periodEnd,
		"total_period_fees", report.TotalPeriodFees, "active_circles", report.ActiveCircles)
	return report, nil
}

// tallyRevenue fills the period totals of report from every circle's journal.
func (s *session) tallyRevenue(report *models.RevenueReport) error {
	circles, err := s.tx.ListCircles(s.ctx)
	if err != nil {
		return err
	}

	add := func(dst *uint64, amount uint64) error {
		sum, err := calculator.Add(*dst, amount)
		*dst = sum
		return err
	}
	for _, c := range circles {
		if c.IsActive() {
			report.ActiveCircles++
			e, err := s.escrow(c.ID)
			if err != nil {
				return err
			}
			if err := add(&report.TotalManagedStake, e.TotalStaked); err != nil {
				return err
			}
		}

		entries, err := s.tx.ListLedgerEntries(s.ctx, c.ID)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.OccurredAt < report.PeriodStart || entry.OccurredAt >= report.PeriodEnd {
				continue
			}
			switch entry.Kind {
			case models.EntryFee:
				err = add(&report.TotalPeriodFees, entry.Amount)
			case models.EntryManagementFee:
				if err = add(&report.TotalPeriodFees, entry.Amount); err == nil {
					err = add(&report.PeriodManagementFees, entry.Amount)
				}
			case models.EntryPenalty:
				if err = add(&report.TotalPeriodFees, entry.Amount); err == nil {
					err = add(&report.PeriodPenalties, entry.Amount)
				}
			case models.EntryPayout:
				err = add(&report.TotalDistributions, entry.Amount)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// GetRevenueReport returns the report stored for the period.
func (l *Ledger) GetRevenueReport(ctx context.Context, periodStart, periodEnd int64) (*models.RevenueReport, error) {
	var report *models.RevenueReport
	err := l.view(ctx, func(s *session) error {
		r, err := s.tx.GetRevenueReport(s.ctx, periodStart, periodEnd)
		if err != nil {
			return notFound(err, models.ErrReportNotFound)
		}
		report = r
		return nil
	})
	return report, err
}

package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/storage"
)

// InitializeTreasury creates the treasury singleton owned by authority.
func (l *Ledger) InitializeTreasury(ctx context.Context, authority string) (*models.Treasury, error) {
	if authority == "" {
		return nil, models.ErrUnauthorized
	}

	var treasury *models.Treasury
	err := l.update(ctx, "initialize_treasury", func(s *session) error {
		var err error
		treasury, err = s.initTreasury(authority)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Treasury initialized", "authority", authority)
	return treasury, nil
}

func (s *session) initTreasury(authority string) (*models.Treasury, error) {
	if _, err := s.tx.GetTreasury(s.ctx); err == nil {
		return nil, models.ErrAlreadyInitialized
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	t := &models.Treasury{Authority: authority, LastManagementFeeCollection: s.now, CreatedAt: s.now}
	return t, s.tx.PutTreasury(s.ctx, t)
}

// InitializeRevenueParams creates the fee-rate singleton with default rates.
func (l *Ledger) InitializeRevenueParams(ctx context.Context, authority string) (*models.RevenueParams, error) {
	if authority == "" {
		return nil, models.ErrUnauthorized
	}

	var params *models.RevenueParams
	err := l.update(ctx, "initialize_revenue_params", func(s *session) error {
		var err error
		params, err = s.initRevenueParams(authority)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Revenue params initialized", "authority", authority,
		"distribution_fee_rate", params.DistributionFeeRate, "auction_fee_rate", params.AuctionFeeRate,
		"management_fee_rate", params.ManagementFeeRate)
	return params, nil
}

func (s *session) initRevenueParams(authority string) (*models.RevenueParams, error) {
	if _, err := s.tx.GetRevenueParams(s.ctx); err == nil {
		return nil, models.ErrAlreadyInitialized
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	p := &models.RevenueParams{
		Authority:             authority,
		DistributionFeeRate:   models.DefaultDistributionFeeRate,
		AuctionFeeRate:        models.DefaultAuctionFeeRate,
		ManagementFeeRate:     models.DefaultManagementFeeRate,
		ManagementFeeInterval: models.DefaultManagementFeeInterval,
		LastUpdated:           s.now,
	}
	return p, s.tx.PutRevenueParams(s.ctx, p)
}

// RevenueUpdate holds the revenue params to change. Nil fields stay as they
// are.
type RevenueUpdate struct {
	DistributionFeeRate   *uint16
	AuctionFeeRate        *uint16
	ManagementFeeRate     *uint16
	ManagementFeeInterval *time.Duration
}

func (u RevenueUpdate) validate() error {
	for _, rate := range []*uint16{u.DistributionFeeRate, u.AuctionFeeRate, u.ManagementFeeRate} {
		if rate != nil && *rate > models.MaxFeeRate {
			return models.ErrInvalidFeeRate
		}
	}
	if u.ManagementFeeInterval != nil && u.ManagementFeeInterval.Seconds() < models.MinManagementFeeInterval {
		return models.ErrInvalidFeeInterval
	}
	return nil
}

// UpdateRevenueParams changes the fee rates and the management fee interval.
func (l *Ledger) UpdateRevenueParams(ctx context.Context, caller string, update RevenueUpdate) (*models.RevenueParams, error) {
	if err := update.validate(); err != nil {
		return nil, err
	}

	var params *models.RevenueParams
	err := l.update(ctx, "update_revenue_params", func(s *session) error {
		p, err := s.revenueParams()
		if err != nil {
			return err
		}
		if caller == "" || caller != p.Authority {
			return models.ErrUnauthorized
		}
		if update.DistributionFeeRate != nil {
			p.DistributionFeeRate = *update.DistributionFeeRate
		}
		if update.AuctionFeeRate != nil {
			p.AuctionFeeRate = *update.AuctionFeeRate
		}
		if update.ManagementFeeRate != nil {
			p.ManagementFeeRate = *update.ManagementFeeRate
		}
		if update.ManagementFeeInterval != nil {
			p.ManagementFeeInterval = int64(update.ManagementFeeInterval.Seconds())
		}
		p.LastUpdated = s.now
		params = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Revenue params updated",
		"distribution_fee_rate", params.DistributionFeeRate, "auction_fee_rate", params.AuctionFeeRate,
		"management_fee_rate", params.ManagementFeeRate, "management_fee_interval", params.ManagementFeeInterval)
	return params, nil
}

// GetTreasury returns the treasury singleton.
func (l *Ledger) GetTreasury(ctx context.Context) (*models.Treasury, error) {
	var treasury *models.Treasury
	err := l.view(ctx, func(s *session) error {
		var err error
		treasury, err = s.loadTreasury()
		return err
	})
	return treasury, err
}

// GetRevenueParams returns the fee-rate singleton.
func (l *Ledger) GetRevenueParams(ctx context.Context) (*models.RevenueParams, error) {
	var params *models.RevenueParams
	err := l.view(ctx, func(s *session) error {
		var err error
		params, err = s.revenueParams()
		return err
	})
	return params, err
}

// Bootstrap creates whichever of the treasury, revenue params and automation
// state singletons are missing, owned by the configured admin.
func (l *Ledger) Bootstrap(ctx context.Context) error {
	if l.cfg.Admin == "" {
		return models.ErrUnauthorized
	}

	return l.update(ctx, "bootstrap", func(s *session) error {
		created := []string{}
		if _, err := s.initTreasury(s.cfg.Admin); err == nil {
			created = append(created, "treasury")
		} else if !errors.Is(err, models.ErrAlreadyInitialized) {
			return err
		}
		if _, err := s.initRevenueParams(s.cfg.Admin); err == nil {
			created = append(created, "revenue_params")
		} else if !errors.Is(err, models.ErrAlreadyInitialized) {
			return err
		}
		if _, err := s.initAutomationState(s.cfg.Admin, "", s.cfg.AutomationMinInterval); err == nil {
			created = append(created, "automation_state")
		} else if !errors.Is(err, models.ErrAlreadyInitialized) {
			return err
		}

		if len(created) > 0 {
			slog.Info("Ledger bootstrapped", "admin", s.cfg.Admin, "created", created)
		}
		return nil
	})
}

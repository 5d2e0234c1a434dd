package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/ledger"
	"github.com/mmynk/circlefund/pkg/api"
)

var _ api.TreasuryServiceHandler = (*TreasuryService)(nil)

// TreasuryService implements the Connect TreasuryService.
type TreasuryService struct {
	ledger *ledger.Ledger
}

// NewTreasuryService creates a new TreasuryService over the given ledger.
func NewTreasuryService(l *ledger.Ledger) *TreasuryService {
	return &TreasuryService{ledger: l}
}

func (s *TreasuryService) InitializeTreasury(ctx context.Context, req *connect.Request[api.InitializeTreasuryRequest]) (*connect.Response[api.TreasuryResponse], error) {
	authority, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("InitializeTreasury request received", "authority", authority)

	treasury, err := s.ledger.InitializeTreasury(ctx, authority)
	if err != nil {
		return nil, toConnectError("InitializeTreasury", err, "authority", authority)
	}

	return connect.NewResponse(&api.TreasuryResponse{Treasury: treasury}), nil
}

func (s *TreasuryService) InitializeRevenueParams(ctx context.Context, req *connect.Request[api.InitializeRevenueParamsRequest]) (*connect.Response[api.RevenueParamsResponse], error) {
	authority, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("InitializeRevenueParams request received", "authority", authority)

	params, err := s.ledger.InitializeRevenueParams(ctx, authority)
	if err != nil {
		return nil, toConnectError("InitializeRevenueParams", err, "authority", authority)
	}

	return connect.NewResponse(&api.RevenueParamsResponse{Params: params}), nil
}

// UpdateRevenueParams changes the fee rates and the management fee interval.
// Omitted fields stay as they are.
func (s *TreasuryService) UpdateRevenueParams(ctx context.Context, req *connect.Request[api.UpdateRevenueParamsRequest]) (*connect.Response[api.RevenueParamsResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateRevenueParams request received", "caller", principal)

	update := ledger.RevenueUpdate{
		DistributionFeeRate: req.Msg.DistributionFeeRate,
		AuctionFeeRate:      req.Msg.AuctionFeeRate,
		ManagementFeeRate:   req.Msg.ManagementFeeRate,
	}
	if secs := req.Msg.ManagementFeeIntervalSeconds; secs != nil {
		interval := time.Duration(*secs) * time.Second
		update.ManagementFeeInterval = &interval
	}
	params, err := s.ledger.UpdateRevenueParams(ctx, principal, update)
	if err != nil {
		return nil, toConnectError("UpdateRevenueParams", err, "caller", principal)
	}

	slog.Info("UpdateRevenueParams successful",
		"distribution_fee_rate", params.DistributionFeeRate,
		"auction_fee_rate", params.AuctionFeeRate,
		"management_fee_rate", params.ManagementFeeRate,
		"management_fee_interval", params.ManagementFeeInterval,
	)

	return connect.NewResponse(&api.RevenueParamsResponse{Params: params}), nil
}

func (s *TreasuryService) GetTreasury(ctx context.Context, req *connect.Request[api.GetTreasuryRequest]) (*connect.Response[api.TreasuryResponse], error) {
	slog.Info("GetTreasury request received")

	treasury, err := s.ledger.GetTreasury(ctx)
	if err != nil {
		return nil, toConnectError("GetTreasury", err)
	}

	return connect.NewResponse(&api.TreasuryResponse{Treasury: treasury}), nil
}

func (s *TreasuryService) GetRevenueParams(ctx context.Context, req *connect.Request[api.GetRevenueParamsRequest]) (*connect.Response[api.RevenueParamsResponse], error) {
	slog.Info("GetRevenueParams request received")

	params, err := s.ledger.GetRevenueParams(ctx)
	if err != nil {
		return nil, toConnectError("GetRevenueParams", err)
	}

	return connect.NewResponse(&api.RevenueParamsResponse{Params: params}), nil
}

// CollectManagementFees charges a circle's stakes the prorated management fee.
func (s *TreasuryService) CollectManagementFees(ctx context.Context, req *connect.Request[api.CollectManagementFeesRequest]) (*connect.Response[api.CollectManagementFeesResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CollectManagementFees request received", "caller", principal, "circle_id", req.Msg.CircleID)

	collection, err := s.ledger.CollectManagementFees(ctx, principal, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("CollectManagementFees", err, "circle_id", req.Msg.CircleID)
	}

	return connect.NewResponse(&api.CollectManagementFeesResponse{Collection: collection}), nil
}

func (s *TreasuryService) CreateRevenueReport(ctx context.Context, req *connect.Request[api.CreateRevenueReportRequest]) (*connect.Response[api.RevenueReportResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateRevenueReport request received", "caller", principal,
		"period_start", req.Msg.PeriodStart, "period_end", req.Msg.PeriodEnd)

	report, err := s.ledger.CreateRevenueReport(ctx, principal, req.Msg.PeriodStart, req.Msg.PeriodEnd)
	if err != nil {
		return nil, toConnectError("CreateRevenueReport", err,
			"period_start", req.Msg.PeriodStart, "period_end", req.Msg.PeriodEnd)
	}

	return connect.NewResponse(&api.RevenueReportResponse{Report: report}), nil
}

func (s *TreasuryService) GetRevenueReport(ctx context.Context, req *connect.Request[api.GetRevenueReportRequest]) (*connect.Response[api.RevenueReportResponse], error) {
	slog.Info("GetRevenueReport request received", "period_start", req.Msg.PeriodStart, "period_end", req.Msg.PeriodEnd)

	report, err := s.ledger.GetRevenueReport(ctx, req.Msg.PeriodStart, req.Msg.PeriodEnd)
	if err != nil {
		return nil, toConnectError("GetRevenueReport", err)
	}

	return connect.NewResponse(&api.RevenueReportResponse{Report: report}), nil
}

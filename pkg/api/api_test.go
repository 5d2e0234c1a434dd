package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/models"
)

type stubTreasury struct {
	params *models.RevenueParams
}

var errUnimplemented = errors.New("not implemented by stub")

func (s *stubTreasury) InitializeTreasury(ctx context.Context, req *connect.Request[InitializeTreasuryRequest]) (*connect.Response[TreasuryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (s *stubTreasury) InitializeRevenueParams(ctx context.Context, req *connect.Request[InitializeRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (s *stubTreasury) GetRevenueParams(ctx context.Context, req *connect.Request[GetRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error) {
	return connect.NewResponse(&RevenueParamsResponse{Params: s.params}), nil
}

func (s *stubTreasury) GetTreasury(ctx context.Context, req *connect.Request[GetTreasuryRequest]) (*connect.Response[TreasuryResponse], error) {
	return connect.NewResponse(&TreasuryResponse{Treasury: &models.Treasury{Authority: "admin", Balance: 20_000}}), nil
}

func (s *stubTreasury) UpdateRevenueParams(ctx context.Context, req *connect.Request[UpdateRevenueParamsRequest]) (*connect.Response[RevenueParamsResponse], error) {
	if req.Msg.DistributionFeeRate == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("distribution fee rate required"))
	}
	s.params.DistributionFeeRate = *req.Msg.DistributionFeeRate
	return connect.NewResponse(&RevenueParamsResponse{Params: s.params}), nil
}

func (s *stubTreasury) CollectManagementFees(ctx context.Context, req *connect.Request[CollectManagementFeesRequest]) (*connect.Response[CollectManagementFeesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (s *stubTreasury) CreateRevenueReport(ctx context.Context, req *connect.Request[CreateRevenueReportRequest]) (*connect.Response[RevenueReportResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (s *stubTreasury) GetRevenueReport(ctx context.Context, req *connect.Request[GetRevenueReportRequest]) (*connect.Response[RevenueReportResponse], error) {
	return connect.NewResponse(&RevenueReportResponse{Report: &models.RevenueReport{PeriodStart: req.Msg.PeriodStart, PeriodEnd: req.Msg.PeriodEnd}}), nil
}

func setupStubServer(t *testing.T) (*TreasuryServiceClient, *stubTreasury) {
	t.Helper()
	stub := &stubTreasury{params: &models.RevenueParams{Authority: "admin"}}

	mux := http.NewServeMux()
	path, handler := NewTreasuryServiceHandler(stub)
	if path != "/"+TreasuryServiceName+"/" {
		t.Fatalf("handler path = %q", path)
	}
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewTreasuryServiceClient(http.DefaultClient, server.URL), stub
}

func TestJSONRoundTrip(t *testing.T) {
	client, stub := setupStubServer(t)
	ctx := context.Background()

	resp, err := client.GetTreasury(ctx, connect.NewRequest(&GetTreasuryRequest{}))
	if err != nil {
		t.Fatalf("GetTreasury failed: %v", err)
	}
	if resp.Msg.Treasury.Balance != 20_000 || resp.Msg.Treasury.Authority != "admin" {
		t.Errorf("treasury = %+v", resp.Msg.Treasury)
	}

	rate := uint16(75)
	updated, err := client.UpdateRevenueParams(ctx, connect.NewRequest(&UpdateRevenueParamsRequest{DistributionFeeRate: &rate}))
	if err != nil {
		t.Fatalf("UpdateRevenueParams failed: %v", err)
	}
	if updated.Msg.Params.DistributionFeeRate != 75 || stub.params.DistributionFeeRate != 75 {
		t.Errorf("params = %+v", updated.Msg.Params)
	}

	report, err := client.GetRevenueReport(ctx, connect.NewRequest(&GetRevenueReportRequest{PeriodStart: 100, PeriodEnd: 200}))
	if err != nil {
		t.Fatalf("GetRevenueReport failed: %v", err)
	}
	if report.Msg.Report.PeriodStart != 100 || report.Msg.Report.PeriodEnd != 200 {
		t.Errorf("report = %+v", report.Msg.Report)
	}

	_, err = client.CollectManagementFees(ctx, connect.NewRequest(&CollectManagementFeesRequest{CircleID: "c1"}))
	if connect.CodeOf(err) != connect.CodeUnimplemented {
		t.Errorf("expected Unimplemented, got %v", err)
	}
}

func TestErrorCodePropagates(t *testing.T) {
	client, _ := setupStubServer(t)

	_, err := client.UpdateRevenueParams(context.Background(), connect.NewRequest(&UpdateRevenueParamsRequest{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if !strings.Contains(err.Error(), "distribution fee rate required") {
		t.Errorf("error = %v", err)
	}
}

func TestCodecEmptyPayload(t *testing.T) {
	var req UpdateRevenueParamsRequest
	if err := (Codec{}).Unmarshal(nil, &req); err != nil {
		t.Fatalf("Unmarshal(nil) failed: %v", err)
	}
	if err := (Codec{}).Unmarshal([]byte("{"), &req); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/ledger"
	"github.com/mmynk/circlefund/pkg/api"
)

var _ api.TrustServiceHandler = (*TrustService)(nil)

// TrustService implements the Connect TrustService.
type TrustService struct {
	ledger *ledger.Ledger
}

// NewTrustService creates a new TrustService over the given ledger.
func NewTrustService(l *ledger.Ledger) *TrustService {
	return &TrustService{ledger: l}
}

// InitializeTrustScore creates the caller's trust score.
func (s *TrustService) InitializeTrustScore(ctx context.Context, req *connect.Request[api.InitializeTrustScoreRequest]) (*connect.Response[api.TrustScoreResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("InitializeTrustScore request received", "principal", principal)

	ts, err := s.ledger.InitializeTrustScore(ctx, principal)
	if err != nil {
		return nil, toConnectError("InitializeTrustScore", err, "principal", principal)
	}

	slog.Info("InitializeTrustScore successful", "principal", principal)

	return connect.NewResponse(&api.TrustScoreResponse{TrustScore: ts}), nil
}

// RecomputeTrustScore refreshes a principal's score from its counters.
func (s *TrustService) RecomputeTrustScore(ctx context.Context, req *connect.Request[api.RecomputeTrustScoreRequest]) (*connect.Response[api.TrustScoreResponse], error) {
	slog.Info("RecomputeTrustScore request received", "principal", req.Msg.Principal)

	ts, err := s.ledger.RecomputeTrustScore(ctx, req.Msg.Principal)
	if err != nil {
		return nil, toConnectError("RecomputeTrustScore", err, "principal", req.Msg.Principal)
	}

	slog.Info("RecomputeTrustScore successful", "principal", req.Msg.Principal, "score", ts.Score, "tier", ts.Tier)

	return connect.NewResponse(&api.TrustScoreResponse{TrustScore: ts}), nil
}

// AddSocialProof attaches an unverified social proof to the caller's score.
func (s *TrustService) AddSocialProof(ctx context.Context, req *connect.Request[api.AddSocialProofRequest]) (*connect.Response[api.TrustScoreResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddSocialProof request received", "principal", principal, "proof_type", req.Msg.ProofType)

	ts, err := s.ledger.AddSocialProof(ctx, principal, req.Msg.ProofType, req.Msg.Identifier)
	if err != nil {
		return nil, toConnectError("AddSocialProof", err, "principal", principal)
	}

	slog.Info("AddSocialProof successful", "principal", principal, "proofs", len(ts.SocialProofs))

	return connect.NewResponse(&api.TrustScoreResponse{TrustScore: ts}), nil
}

// VerifySocialProof marks a proof verified. The caller must be a verifier.
func (s *TrustService) VerifySocialProof(ctx context.Context, req *connect.Request[api.VerifySocialProofRequest]) (*connect.Response[api.TrustScoreResponse], error) {
	verifier, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("VerifySocialProof request received",
		"verifier", verifier,
		"principal", req.Msg.Principal,
		"proof_type", req.Msg.ProofType,
	)

	ts, err := s.ledger.VerifySocialProof(ctx, verifier, req.Msg.Principal, req.Msg.ProofType, req.Msg.Identifier)
	if err != nil {
		return nil, toConnectError("VerifySocialProof", err, "verifier", verifier, "principal", req.Msg.Principal)
	}

	slog.Info("VerifySocialProof successful", "principal", req.Msg.Principal, "score", ts.Score)

	return connect.NewResponse(&api.TrustScoreResponse{TrustScore: ts}), nil
}

// UpdateDefiActivity records an oracle's DeFi activity attestation.
func (s *TrustService) UpdateDefiActivity(ctx context.Context, req *connect.Request[api.UpdateDefiActivityRequest]) (*connect.Response[api.TrustScoreResponse], error) {
	oracle, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateDefiActivity request received", "oracle", oracle, "principal", req.Msg.Principal, "score", req.Msg.Score)

	ts, err := s.ledger.UpdateDefiActivity(ctx, oracle, req.Msg.Principal, req.Msg.Score)
	if err != nil {
		return nil, toConnectError("UpdateDefiActivity", err, "oracle", oracle, "principal", req.Msg.Principal)
	}

	slog.Info("UpdateDefiActivity successful", "principal", req.Msg.Principal, "score", ts.Score, "tier", ts.Tier)

	return connect.NewResponse(&api.TrustScoreResponse{TrustScore: ts}), nil
}

// GetTrustScore retrieves a principal's trust score.
func (s *TrustService) GetTrustScore(ctx context.Context, req *connect.Request[api.GetTrustScoreRequest]) (*connect.Response[api.TrustScoreResponse], error) {
	slog.Info("GetTrustScore request received", "principal", req.Msg.Principal)

	ts, err := s.ledger.GetTrustScore(ctx, req.Msg.Principal)
	if err != nil {
		return nil, toConnectError("GetTrustScore", err, "principal", req.Msg.Principal)
	}

	return connect.NewResponse(&api.TrustScoreResponse{TrustScore: ts}), nil
}

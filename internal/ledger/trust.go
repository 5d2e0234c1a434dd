package ledger

import (
	"context"
	"log/slog"

	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/internal/trust"
)

func (s *session) existingTrustScore(principal string) (*models.TrustScore, error) {
	ts, err := s.trustScore(principal)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, models.ErrTrustScoreNotFound
	}
	return ts, nil
}

// InitializeTrustScore creates principal's zeroed trust score.
func (l *Ledger) InitializeTrustScore(ctx context.Context, principal string) (*models.TrustScore, error) {
	if principal == "" {
		return nil, models.ErrUnauthorized
	}

	var score *models.TrustScore
	err := l.update(ctx, "initialize_trust_score", func(s *session) error {
		existing, err := s.trustScore(principal)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.ErrTrustScoreExists
		}
		score = trust.New(principal, s.now)
		s.trackTrustScore(score)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Trust score initialized", "principal", principal)
	return score, nil
}

// RecomputeTrustScore rederives the score from its counters.
func (l *Ledger) RecomputeTrustScore(ctx context.Context, principal string) (*models.TrustScore, error) {
	var score *models.TrustScore
	err := l.update(ctx, "recompute_trust_score", func(s *session) error {
		ts, err := s.existingTrustScore(principal)
		if err != nil {
			return err
		}
		trust.Recompute(ts, s.now)
		score = ts
		return nil
	})
	return score, err
}

// AddSocialProof attaches an unverified proof to the caller's own score.
func (l *Ledger) AddSocialProof(ctx context.Context, principal, proofType, identifier string) (*models.TrustScore, error) {
	var score *models.TrustScore
	err := l.update(ctx, "add_social_proof", func(s *session) error {
		ts, err := s.existingTrustScore(principal)
		if err != nil {
			return err
		}
		if err := trust.AddSocialProof(ts, proofType, identifier, s.now); err != nil {
			return err
		}
		score = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Social proof added", "principal", principal, "proof_type", proofType)
	return score, nil
}

// VerifySocialProof marks one of principal's proofs verified. Only a
// configured verifier may call it.
func (l *Ledger) VerifySocialProof(ctx context.Context, verifier, principal, proofType, identifier string) (*models.TrustScore, error) {
	if !l.cfg.isVerifier(verifier) {
		return nil, models.ErrUnauthorized
	}

	var score *models.TrustScore
	err := l.update(ctx, "verify_social_proof", func(s *session) error {
		ts, err := s.existingTrustScore(principal)
		if err != nil {
			return err
		}
		if err := trust.VerifySocialProof(ts, proofType, identifier, s.now); err != nil {
			return err
		}
		score = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Social proof verified", "principal", principal, "proof_type", proofType, "verifier", verifier, "score", score.Score)
	return score, nil
}

// UpdateDefiActivity records an oracle's DeFi activity attestation.
func (l *Ledger) UpdateDefiActivity(ctx context.Context, oracle, principal string, value uint16) (*models.TrustScore, error) {
	if !l.cfg.isOracle(oracle) {
		return nil, models.ErrUnauthorized
	}

	var score *models.TrustScore
	err := l.update(ctx, "update_defi_activity", func(s *session) error {
		ts, err := s.existingTrustScore(principal)
		if err != nil {
			return err
		}
		if err := trust.SetDefiActivity(ts, value, s.now); err != nil {
			return err
		}
		score = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("DeFi activity updated", "principal", principal, "value", value, "score", score.Score)
	return score, nil
}

// Package trust computes reputation scores, tiers and social-proof state.
// Functions here are pure over a models.TrustScore; persistence and
// authorization belong to the ledger.
package trust

import (
	"github.com/mmynk/circlefund/internal/models"
)

// Component weights and caps.
const (
	MaxPaymentHistoryScore = 400
	MaxCompletionScore     = 300
	MaxDefiActivityScore   = 200
	MaxSocialProofScore    = 100
	PointsPerVerifiedProof = 20
	MaxScore               = 1000

	MaxSocialProofs     = 5
	MaxProofFieldLength = 32
)

// Tier thresholds.
const (
	SilverThreshold   = 250
	GoldThreshold     = 500
	PlatinumThreshold = 750
)

// New returns a zeroed trust score for principal.
func New(principal string, now int64) *models.TrustScore {
	return &models.TrustScore{
		Authority:    principal,
		Tier:         models.TierNewcomer,
		SocialProofs: []models.SocialProof{},
		LastUpdated:  now,
	}
}

// TierFor maps a total score onto its tier.
func TierFor(score uint16) models.TrustTier {
	switch {
	case score >= PlatinumThreshold:
		return models.TierPlatinum
	case score >= GoldThreshold:
		return models.TierGold
	case score >= SilverThreshold:
		return models.TierSilver
	default:
		return models.TierNewcomer
	}
}

// Recompute derives every component and the total from the score's counters.
// Calling it twice without changing inputs yields the same result.
func Recompute(ts *models.TrustScore, now int64) {
	ts.PaymentHistoryScore = paymentHistoryScore(ts.ContributionsMade, ts.MissedContributions)
	ts.CompletionScore = completionScore(ts.CirclesCompleted, ts.CirclesJoined)
	ts.DefiActivityScore = min(ts.DefiActivityScore, MaxDefiActivityScore)
	ts.SocialProofScore = socialProofScore(ts.VerifiedProofs())

	ts.Score = ts.PaymentHistoryScore + ts.CompletionScore + ts.DefiActivityScore + ts.SocialProofScore
	ts.Tier = TierFor(ts.Score)
	ts.LastUpdated = now
}

func paymentHistoryScore(made, missed uint32) uint16 {
	total := uint64(made) + uint64(missed)
	if total == 0 {
		return 0
	}
	return uint16(MaxPaymentHistoryScore * uint64(made) / total)
}

func completionScore(completed, joined uint32) uint16 {
	if joined == 0 {
		return 0
	}
	completed = min(completed, joined)
	return uint16(MaxCompletionScore * uint64(completed) / uint64(joined))
}

func socialProofScore(verified int) uint16 {
	return uint16(min(verified*PointsPerVerifiedProof, MaxSocialProofScore))
}

// AddSocialProof attaches an unverified proof.
func AddSocialProof(ts *models.TrustScore, proofType, identifier string, now int64) error {
	if proofType == "" || identifier == "" ||
		len(proofType) > MaxProofFieldLength || len(identifier) > MaxProofFieldLength {
		return models.ErrInvalidSocialProof
	}
	if ts.FindProof(proofType, identifier) != nil {
		return models.ErrDuplicateProof
	}
	if len(ts.SocialProofs) >= MaxSocialProofs {
		return models.ErrInvalidSocialProof
	}

	ts.SocialProofs = append(ts.SocialProofs, models.SocialProof{
		ProofType:  proofType,
		Identifier: identifier,
		Timestamp:  now,
	})
	ts.LastUpdated = now
	return nil
}

// VerifySocialProof marks a proof verified and recomputes the score.
func VerifySocialProof(ts *models.TrustScore, proofType, identifier string, now int64) error {
	p := ts.FindProof(proofType, identifier)
	if p == nil {
		return models.ErrProofNotFound
	}
	p.Verified = true
	Recompute(ts, now)
	return nil
}

// SetDefiActivity replaces the externally attested DeFi component.
func SetDefiActivity(ts *models.TrustScore, value uint16, now int64) error {
	if value > MaxDefiActivityScore {
		return models.ErrOutOfRange
	}
	ts.DefiActivityScore = value
	Recompute(ts, now)
	return nil
}

package calculator

import "github.com/mmynk/circlefund/internal/models"

// StakeMultiplier returns the collateral multiplier for tier as a percentage.
func StakeMultiplier(tier models.TrustTier) uint64 {
	switch tier {
	case models.TierPlatinum:
		return 75
	case models.TierGold:
		return 100
	case models.TierSilver:
		return 150
	default:
		return 200
	}
}

// RequiredStake computes ceil(base * multiplier(tier)). Every stake check in
// the ledger goes through this function.
func RequiredStake(base uint64, tier models.TrustTier) (uint64, error) {
	return MulDivCeil(base, StakeMultiplier(tier), 100)
}

// MinimumBidStake is the stake a member must hold to place a bid of amount.
func MinimumBidStake(amount uint64) uint64 {
	return amount / 10
}

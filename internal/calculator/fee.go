package calculator

import "github.com/mmynk/circlefund/internal/models"

// Fee returns floor(amount * rate / 10000) where rate is in basis points.
func Fee(amount uint64, rate uint16) (uint64, error) {
	return MulDiv(amount, uint64(rate), basisPoints)
}

// SplitFee returns the fee on amount and what remains for the recipient.
func SplitFee(amount uint64, rate uint16) (net, fee uint64, err error) {
	fee, err = Fee(amount, rate)
	if err != nil {
		return 0, 0, err
	}
	net, err = Sub(amount, fee)
	return net, fee, err
}

// ManagementFee prorates the annual fee on stake over elapsed seconds:
// floor(floor(stake * rate / 10000) * elapsed / year).
func ManagementFee(stake uint64, rate uint16, elapsed int64) (uint64, error) {
	if elapsed <= 0 {
		return 0, nil
	}
	annual, err := Fee(stake, rate)
	if err != nil {
		return 0, err
	}
	return MulDiv(annual, uint64(elapsed), models.SecondsPerYear)
}

// Penalty is the amount slashed from a stake for one missed contribution,
// bounded by the stake itself.
func Penalty(contribution uint64, rate uint16, stake uint64) (uint64, error) {
	if rate > models.MaxBasisPoints {
		return 0, models.ErrInvalidPenaltyRate
	}
	p, err := Fee(contribution, rate)
	if err != nil {
		return 0, err
	}
	return min(p, stake), nil
}

package calculator

import (
	"github.com/holiman/uint256"

	"github.com/mmynk/circlefund/internal/models"
)

const basisPoints = 10000

// Add returns a + b, failing with ErrArithmeticOverflow instead of wrapping.
func Add(a, b uint64) (uint64, error) {
	sum, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(a), uint256.NewInt(b))
	if overflow || !sum.IsUint64() {
		return 0, models.ErrArithmeticOverflow
	}
	return sum.Uint64(), nil
}

// Sub returns a - b, failing with ErrArithmeticOverflow when b > a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, models.ErrArithmeticOverflow
	}
	return a - b, nil
}

// MulDiv returns floor(a * b / d) computed at 256 bits, failing when the
// result does not fit in a uint64 or d is zero.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, models.ErrArithmeticOverflow
	}
	q, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(a), uint256.NewInt(b), uint256.NewInt(d))
	if overflow || !q.IsUint64() {
		return 0, models.ErrArithmeticOverflow
	}
	return q.Uint64(), nil
}

// MulDivCeil returns ceil(a * b / d).
func MulDivCeil(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, models.ErrArithmeticOverflow
	}
	num := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	den := uint256.NewInt(d)
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(num, den, r)
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, models.ErrArithmeticOverflow
	}
	return q.Uint64(), nil
}

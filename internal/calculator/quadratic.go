package calculator

import "github.com/holiman/uint256"

// QuadraticWeight returns floor(sqrt(power)). The integer square root is
// exact, so perfect squares never round down.
func QuadraticWeight(power uint64) uint64 {
	return new(uint256.Int).Sqrt(uint256.NewInt(power)).Uint64()
}

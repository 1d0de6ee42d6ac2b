package points

import (
	"errors"
	"math"
	"math/bits"

	"github.com/holiman/uint256"
)

// Scale is the number of smallest-denomination units per whole payout token.
const Scale uint64 = 1_000_000_000

// maxPersistable bounds results so balances stay representable as a
// Postgres BIGINT.
const maxPersistable uint64 = math.MaxInt64

var (
	ErrInvalidRate = errors.New("conversion rate must be positive")
	ErrOverflow    = errors.New("value out of range")
)

// PayoutAmount converts a points balance into smallest-denomination payout
// units: floor(points * Scale / rate), with rate expressed as points per
// whole token. The intermediate product is computed in 256-bit precision so
// it never wraps.
func PayoutAmount(pointsBalance, rate uint64) (uint64, error) {
	if rate == 0 {
		return 0, ErrInvalidRate
	}

	amount := new(uint256.Int).Mul(
		uint256.NewInt(pointsBalance),
		uint256.NewInt(Scale),
	)
	amount.Div(amount, uint256.NewInt(rate))

	if !amount.IsUint64() || amount.Uint64() > maxPersistable {
		return 0, ErrOverflow
	}
	return amount.Uint64(), nil
}

// CheckedAdd returns a+b or ErrOverflow when the sum exceeds the
// persistable range. Counters never wrap silently.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 || sum > maxPersistable {
		return 0, ErrOverflow
	}
	return sum, nil
}

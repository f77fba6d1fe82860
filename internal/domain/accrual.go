package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatePrecision is the fixed-point scale for interest rates and growth
// factors. A locked rate of RatePrecision means 100% growth per second.
var RatePrecision = decimal.New(1, 18)

// maxGrowthFactor bounds the scaled factor; anything past a billion-fold
// growth is a corrupt rate or timestamp, not a balance.
var maxGrowthFactor = RatePrecision.Mul(decimal.New(1, 9))

// GrowthFactor returns the scaled linear growth factor for a locked rate
// over an elapsed duration: RatePrecision + rate * seconds. The rate is
// fractional growth per second, scaled by RatePrecision. The caller supplies
// the elapsed time; this function has no clock.
func GrowthFactor(lockedRate decimal.Decimal, elapsed time.Duration) (decimal.Decimal, error) {
	if elapsed < 0 {
		return decimal.Zero, ErrArithmeticOverflow
	}

	if lockedRate.IsNegative() {
		return decimal.Zero, ErrNegativeRate
	}

	if elapsed == 0 || lockedRate.IsZero() {
		return RatePrecision, nil
	}

	seconds := decimal.New(elapsed.Nanoseconds(), -9)

	factor := RatePrecision.Add(lockedRate.Mul(seconds))
	if factor.GreaterThan(maxGrowthFactor) {
		return decimal.Zero, ErrArithmeticOverflow
	}

	return factor, nil
}

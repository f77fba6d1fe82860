package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateState is the single protocol-wide rate assigned to newly-funded
// accounts. Once initialized it is non-increasing over the lifetime of the
// ledger; the starting rate itself may be any non-negative value.
type RateState struct {
	Rate        decimal.Decimal
	UpdatedAt   time.Time
	Initialized bool
}

// ValidateLowering checks the governor's monotonicity rule against a
// proposed replacement rate. A ledger whose rate was never initialized
// accepts any non-negative starting rate.
func (s *RateState) ValidateLowering(newRate decimal.Decimal) error {
	if newRate.IsNegative() {
		return ErrNegativeRate
	}

	if s.Initialized && newRate.GreaterThan(s.Rate) {
		return ErrRateIncreaseRejected
	}

	return nil
}

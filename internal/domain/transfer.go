package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer records a claim movement between two accounts on this ledger.
// Amount is the resolved value, after any "all" sentinel was settled and
// resolved.
type Transfer struct {
	CreatedAt     time.Time
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	InheritedRate bool
}

// Validate validates a resolved transfer.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}

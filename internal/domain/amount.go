package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a tagged transfer/burn amount: either an exact value or the
// "everything" sentinel. All is resolved against the post-settlement
// principal by the operation that consumes it, never against a stale
// projection.
type Amount struct {
	value decimal.Decimal
	all   bool
}

// Exact returns an Amount for a concrete value.
func Exact(value decimal.Decimal) Amount {
	return Amount{value: value}
}

// All returns the "transfer/burn everything" sentinel.
func All() Amount {
	return Amount{all: true}
}

// IsAll reports whether this is the everything sentinel.
func (a Amount) IsAll() bool {
	return a.all
}

// Value returns the exact value; zero for the sentinel.
func (a Amount) Value() decimal.Decimal {
	return a.value
}

// Resolve returns the concrete amount against a settled principal.
func (a Amount) Resolve(settledPrincipal decimal.Decimal) decimal.Decimal {
	if a.all {
		return settledPrincipal
	}

	return a.value
}

// Validate rejects negative exact amounts. Zero-amount policy differs per
// operation, so it is checked by the caller.
func (a Amount) Validate() error {
	if !a.all && a.value.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}

// MarshalJSON encodes the sentinel as the string "all" and exact values as
// decimal strings.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.all {
		return json.Marshal("all")
	}

	return json.Marshal(a.value.String())
}

// UnmarshalJSON accepts "all", a decimal string, or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), "all") {
			*a = All()
			return nil
		}

		v, err := decimal.NewFromString(s)
		if err != nil {
			return ErrInvalidAmount
		}

		*a = Exact(v)

		return nil
	}

	var v decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return ErrInvalidAmount
	}

	*a = Exact(v)

	return nil
}

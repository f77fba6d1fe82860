package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds an interest-accruing claim. Principal is the settled token
// amount; interest accrued since LastSettledAt is only visible through
// EffectiveBalanceAt until the next settlement materializes it.
type Account struct {
	ID            string
	Principal     decimal.Decimal
	LockedRate    decimal.Decimal
	LastSettledAt time.Time
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount returns a never-funded account: zero principal, zero rate.
func NewAccount(id string, now time.Time) *Account {
	return &Account{
		ID:            id,
		Principal:     decimal.Zero,
		LockedRate:    decimal.Zero,
		LastSettledAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Funded reports whether the account has ever been funded. The locked rate
// is captured at first funding and stays positive afterwards, even if the
// balance later returns to zero.
func (a *Account) Funded() bool {
	return a.LockedRate.IsPositive()
}

// EffectiveBalanceAt projects the balance at now without mutating state:
// floor(principal * growthFactor / RatePrecision).
func (a *Account) EffectiveBalanceAt(now time.Time) (decimal.Decimal, error) {
	if a.Principal.IsZero() {
		return decimal.Zero, nil
	}

	factor, err := GrowthFactor(a.LockedRate, now.Sub(a.LastSettledAt))
	if err != nil {
		return decimal.Zero, err
	}

	balance, _ := a.Principal.Mul(factor).QuoRem(RatePrecision, 0)

	return balance, nil
}

// Settle materializes interest accrued since LastSettledAt into Principal
// and stamps the settlement time. It returns the accrued amount. Settling
// twice at the same instant is a no-op on the second call.
//
// Every balance-affecting operation must settle first; nothing else may
// read accrued interest.
func (a *Account) Settle(now time.Time) (decimal.Decimal, error) {
	current, err := a.EffectiveBalanceAt(now)
	if err != nil {
		return decimal.Zero, err
	}

	accrued := current.Sub(a.Principal)
	a.Principal = current
	a.LastSettledAt = now

	return accrued, nil
}

// ValidateDebit checks that a settled account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Principal) {
		return ErrInsufficientBalance
	}

	return nil
}

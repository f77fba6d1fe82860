package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooWeak  = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MaxAccountIDLength = 128
	MaxMintAmount      = "1000000000000000" // 1e15 token units
	MinPasswordLength  = 8
	MaxPasswordLength  = 128
)

var (
	accountIDRegex = regexp.MustCompile(`^[A-Za-z0-9:_.-]+$`)
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateAccountID validates an account identifier. Accounts are created
// lazily, so the id is the only handle callers ever present.
func ValidateAccountID(id string) error {
	if id == "" || len(id) > MaxAccountIDLength {
		return ErrInvalidAccountID
	}

	if !accountIDRegex.MatchString(id) {
		return ErrInvalidAccountID
	}

	return nil
}

// ValidateMintAmount validates a deposit or inbound mint amount. Amounts
// are whole token units.
func ValidateMintAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}

	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxMintAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMintAmount)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

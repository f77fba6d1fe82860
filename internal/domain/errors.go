package domain

import "errors"

var (
	// Ledger errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("amount exceeds settled principal")
	ErrZeroAmount          = errors.New("amount must not be zero")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrArithmeticOverflow  = errors.New("accrual arithmetic overflow")
	ErrTransferNotFound    = errors.New("transfer not found")

	// Rate governor errors
	ErrRateIncreaseRejected = errors.New("global rate can only be lowered")
	ErrNegativeRate         = errors.New("rate must not be negative")

	// Custody errors
	ErrCustodyTransferFailed = errors.New("custody asset transfer failed")

	// Bridge errors
	ErrPeerNotAllowed  = errors.New("peer ledger not in allow-list")
	ErrMalformedPacket = errors.New("malformed cross-ledger packet")
)

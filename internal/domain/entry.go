package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a journal line.
type EntryKind string

const (
	EntryKindInterest    EntryKind = "interest"
	EntryKindDeposit     EntryKind = "deposit"
	EntryKindRedeem      EntryKind = "redeem"
	EntryKindTransferOut EntryKind = "transfer_out"
	EntryKindTransferIn  EntryKind = "transfer_in"
	EntryKindBridgeOut   EntryKind = "bridge_out"
	EntryKindBridgeIn    EntryKind = "bridge_in"
)

// Entry is a single journal line against an account's principal. Settled
// interest shows up as its own entry, so the journal reproduces the
// principal exactly.
type Entry struct {
	CreatedAt       time.Time
	ID              string
	AccountID       string
	RefID           string
	Kind            EntryKind
	Amount          decimal.Decimal
	PrincipalBefore decimal.Decimal
	PrincipalAfter  decimal.Decimal
	AccountVersion  int64
}

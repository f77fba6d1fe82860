package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

// AccountResponse represents an account projection in API responses. The
// effective balance is computed at read time; principal is what storage
// holds.
type AccountResponse struct {
	AccountID        string          `json:"account_id"`
	EffectiveBalance decimal.Decimal `json:"effective_balance"`
	Principal        decimal.Decimal `json:"principal"`
	LockedRate       decimal.Decimal `json:"locked_rate"`
	LastSettledAt    time.Time       `json:"last_settled_at"`
}

// AccountFromView converts an account projection to a response.
func AccountFromView(v *usecase.AccountView) *AccountResponse {
	return &AccountResponse{
		AccountID:        v.AccountID,
		EffectiveBalance: v.EffectiveBalance,
		Principal:        v.Principal,
		LockedRate:       v.LockedRate,
		LastSettledAt:    v.LastSettledAt,
	}
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	InheritedRate bool            `json:"inherited_rate"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		InheritedRate: t.InheritedRate,
		CreatedAt:     t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	RefID           string          `json:"ref_id"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	PrincipalBefore decimal.Decimal `json:"principal_before"`
	PrincipalAfter  decimal.Decimal `json:"principal_after"`
	AccountVersion  int64           `json:"account_version"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		AccountID:       e.AccountID,
		RefID:           e.RefID,
		Kind:            string(e.Kind),
		Amount:          e.Amount,
		PrincipalBefore: e.PrincipalBefore,
		PrincipalAfter:  e.PrincipalAfter,
		AccountVersion:  e.AccountVersion,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// RateResponse represents the global rate state.
type RateResponse struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at,omitzero"`
}

// RateFromDomain converts rate state to a response.
func RateFromDomain(s *domain.RateState) *RateResponse {
	return &RateResponse{
		Rate:      s.Rate,
		UpdatedAt: s.UpdatedAt,
	}
}

// PacketResponse represents a sent bridge packet.
type PacketResponse struct {
	PacketID           string          `json:"packet_id"`
	Amount             decimal.Decimal `json:"amount"`
	SourceLockedRate   decimal.Decimal `json:"source_locked_rate"`
	DestinationAccount string          `json:"destination_account"`
}

// PacketFromDomain converts a domain packet to a response.
func PacketFromDomain(p *domain.Packet) *PacketResponse {
	return &PacketResponse{
		PacketID:           p.ID,
		Amount:             p.Amount,
		SourceLockedRate:   p.SourceLockedRate,
		DestinationAccount: p.DestinationAccount,
	}
}

// RedeemResponse reports the resolved debit of a redemption or burn.
type RedeemResponse struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// UserResponse represents a user in API responses. The hash never leaves
// the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// TokenResponse carries an issued JWT.
type TokenResponse struct {
	Token     string        `json:"token"`
	User      *UserResponse `json:"user"`
	ExpiresIn int64         `json:"expires_in"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

// DepositRequest represents a request to deposit the underlying asset.
// Deposits are always exact; the "all" sentinel has no meaning here.
type DepositRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(actor *domain.User) usecase.DepositInput {
	return usecase.DepositInput{
		Actor:     actor,
		AccountID: r.AccountID,
		Amount:    r.Amount,
	}
}

// RedeemRequest represents a request to redeem claims for the underlying
// asset. Amount accepts a decimal string or "all".
type RedeemRequest struct {
	AccountID string        `json:"account_id"`
	Amount    domain.Amount `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *RedeemRequest) ToUseCaseInput(actor *domain.User) usecase.RedeemInput {
	return usecase.RedeemInput{
		Actor:     actor,
		AccountID: r.AccountID,
		Amount:    r.Amount,
	}
}

// CreateTransferRequest represents a request to move claims between two
// accounts on this ledger.
type CreateTransferRequest struct {
	FromAccountID string        `json:"from_account_id"`
	ToAccountID   string        `json:"to_account_id"`
	Amount        domain.Amount `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(actor *domain.User) usecase.TransferInput {
	return usecase.TransferInput{
		Actor:         actor,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
	}
}

// SetRateRequest represents a request to replace the global rate.
type SetRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// ToUseCaseInput converts to use case input.
func (r *SetRateRequest) ToUseCaseInput(actor *domain.User) usecase.SetRateInput {
	return usecase.SetRateInput{
		Actor: actor,
		Rate:  r.Rate,
	}
}

// SendPacketRequest represents a request to burn claims toward a peer
// ledger.
type SendPacketRequest struct {
	AccountID          string        `json:"account_id"`
	PeerID             string        `json:"peer_id"`
	DestinationAccount string        `json:"destination_account"`
	Amount             domain.Amount `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *SendPacketRequest) ToUseCaseInput(actor *domain.User) usecase.SendPacketInput {
	return usecase.SendPacketInput{
		Actor:              actor,
		AccountID:          r.AccountID,
		Amount:             r.Amount,
		PeerID:             r.PeerID,
		DestinationAccount: r.DestinationAccount,
	}
}

// LoginRequest represents an authentication request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest represents a request to create a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput(actor *domain.User) usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Actor:    actor,
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

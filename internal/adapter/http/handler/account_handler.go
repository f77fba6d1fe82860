package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/adapter/http/dto"
	"github.com/iho/yieldledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetAccountView(ctx context.Context, accountID string) (*usecase.AccountView, error)
	BalanceOf(ctx context.Context, accountID string) (decimal.Decimal, error)
	PrincipalOf(ctx context.Context, accountID string) (decimal.Decimal, error)
	AccountRateOf(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	ledgerUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerUC AccountService) *AccountHandler {
	return &AccountHandler{ledgerUC: ledgerUC}
}

// Get projects an account at the current instant. Unknown ids read as
// never-funded accounts with a zero balance.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	view, err := h.ledgerUC.GetAccountView(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromView(view))
}

// Balance returns the effective balance projected at now.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	h.scalar(w, r, "balance", h.ledgerUC.BalanceOf)
}

// Principal returns the settled principal without accrued interest.
func (h *AccountHandler) Principal(w http.ResponseWriter, r *http.Request) {
	h.scalar(w, r, "principal", h.ledgerUC.PrincipalOf)
}

// Rate returns the account's locked per-second rate.
func (h *AccountHandler) Rate(w http.ResponseWriter, r *http.Request) {
	h.scalar(w, r, "locked_rate", h.ledgerUC.AccountRateOf)
}

func (h *AccountHandler) scalar(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	read func(ctx context.Context, accountID string) (decimal.Decimal, error),
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	value, err := read(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to read account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_id": id,
		field:        value,
	})
}

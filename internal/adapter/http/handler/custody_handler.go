package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/yieldledger/internal/adapter/http/dto"
	"github.com/iho/yieldledger/internal/adapter/http/middleware"
	"github.com/iho/yieldledger/internal/usecase"
)

// CustodyHandler handles deposits and redemptions of the underlying asset.
type CustodyHandler struct {
	custodyUC *usecase.CustodyUseCase
}

// NewCustodyHandler creates a new CustodyHandler.
func NewCustodyHandler(custodyUC *usecase.CustodyUseCase) *CustodyHandler {
	return &CustodyHandler{custodyUC: custodyUC}
}

// Deposit pulls the underlying asset into custody and mints the claim.
func (h *CustodyHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	acc, err := h.custodyUC.Deposit(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to deposit", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"account_id":  acc.ID,
		"principal":   acc.Principal,
		"locked_rate": acc.LockedRate,
	})
}

// Redeem debits the ledger and pays out the underlying asset. The response
// carries the resolved amount, which for "all" includes interest settled in
// the same instant.
func (h *CustodyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount, err := h.custodyUC.Redeem(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to redeem", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RedeemResponse{
		AccountID: req.AccountID,
		Amount:    amount,
	})
}

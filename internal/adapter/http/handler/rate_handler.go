package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/yieldledger/internal/adapter/http/dto"
	"github.com/iho/yieldledger/internal/adapter/http/middleware"
	"github.com/iho/yieldledger/internal/usecase"
)

// RateHandler handles global rate governance.
type RateHandler struct {
	rateUC *usecase.RateUseCase
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateUC *usecase.RateUseCase) *RateHandler {
	return &RateHandler{rateUC: rateUC}
}

// Get returns the current global rate.
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rateUC.GetGlobalRate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rate": rate})
}

// Set replaces the global rate. Raising it is rejected; accounts funded
// before the change keep their locked rate either way.
func (h *RateHandler) Set(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.SetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	state, err := h.rateUC.SetGlobalRate(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to set rate", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RateFromDomain(state))
}

package handler

import (
	"net/http"

	"github.com/iho/yieldledger/internal/usecase"
)

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	reconUC *usecase.ReconciliationUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconUC *usecase.ReconciliationUseCase) *LedgerHandler {
	return &LedgerHandler{reconUC: reconUC}
}

// CheckConsistency walks all accounts and reports invariant violations.
// An inconsistent ledger answers 409 with the violation list.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, report)
}

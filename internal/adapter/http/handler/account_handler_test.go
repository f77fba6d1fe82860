package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
)

func TestAccountGetReturnsAccruedBalance(t *testing.T) {
	f := newHandlerFixture()
	f.accountRepo.Put(&domain.Account{
		ID:            "alice",
		Principal:     decimal.NewFromInt(100_000),
		LockedRate:    decimal.New(5, 10),
		LastSettledAt: testStart,
	})
	f.clock.Advance(time.Hour)

	mux := chi.NewRouter()
	mux.Get("/accounts/{id}", NewAccountHandler(f.ledgerUC).Get)

	req := httptest.NewRequest(http.MethodGet, "/accounts/alice", nil)
	rec := doRequest(mux, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccountID        string `json:"account_id"`
		EffectiveBalance string `json:"effective_balance"`
		Principal        string `json:"principal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.AccountID != "alice" {
		t.Errorf("expected alice, got %s", resp.AccountID)
	}
	// One hour of accrual on 100000 at rate 5e-10/s adds 18 units.
	if resp.EffectiveBalance != "100018" {
		t.Errorf("expected effective balance 100018, got %s", resp.EffectiveBalance)
	}
	// Reads never settle, so principal stays put.
	if resp.Principal != "100000" {
		t.Errorf("expected principal 100000, got %s", resp.Principal)
	}
}

func TestAccountGetUnknownIDReadsEmpty(t *testing.T) {
	f := newHandlerFixture()

	mux := chi.NewRouter()
	mux.Get("/accounts/{id}", NewAccountHandler(f.ledgerUC).Get)

	req := httptest.NewRequest(http.MethodGet, "/accounts/nobody", nil)
	rec := doRequest(mux, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown account, got %d", rec.Code)
	}

	var resp struct {
		EffectiveBalance string `json:"effective_balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.EffectiveBalance != "0" {
		t.Errorf("expected zero balance, got %s", resp.EffectiveBalance)
	}
}

func TestAccountGetInvalidID(t *testing.T) {
	f := newHandlerFixture()

	mux := chi.NewRouter()
	mux.Get("/accounts/{id}", NewAccountHandler(f.ledgerUC).Get)

	req := httptest.NewRequest(http.MethodGet, "/accounts/%20", nil)
	rec := doRequest(mux, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountScalarReads(t *testing.T) {
	f := newHandlerFixture()
	f.accountRepo.Put(&domain.Account{
		ID:            "alice",
		Principal:     decimal.NewFromInt(100_000),
		LockedRate:    decimal.New(5, 10),
		LastSettledAt: testStart,
	})
	f.clock.Advance(time.Hour)

	h := NewAccountHandler(f.ledgerUC)
	mux := chi.NewRouter()
	mux.Get("/accounts/{id}/balance", h.Balance)
	mux.Get("/accounts/{id}/principal", h.Principal)
	mux.Get("/accounts/{id}/rate", h.Rate)

	tests := []struct {
		path  string
		field string
		want  string
	}{
		{"/accounts/alice/balance", "balance", "100018"},
		{"/accounts/alice/principal", "principal", "100000"},
		{"/accounts/alice/rate", "locked_rate", "50000000000"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := doRequest(mux, req, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", tt.path, rec.Code, rec.Body.String())
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: failed to decode response: %v", tt.path, err)
		}
		if resp[tt.field] != tt.want {
			t.Errorf("%s: expected %s %s, got %s", tt.path, tt.field, tt.want, resp[tt.field])
		}
		if resp["account_id"] != "alice" {
			t.Errorf("%s: expected account_id alice, got %s", tt.path, resp["account_id"])
		}
	}
}

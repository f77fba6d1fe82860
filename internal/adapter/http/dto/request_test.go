package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
)

func TestRedeemRequestDecodesExactAmount(t *testing.T) {
	var req RedeemRequest
	if err := json.Unmarshal([]byte(`{"account_id":"alice","amount":"150.5"}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if req.AccountID != "alice" {
		t.Errorf("expected account alice, got %s", req.AccountID)
	}
	if req.Amount.IsAll() {
		t.Error("expected exact amount, got sentinel")
	}
	if !req.Amount.Value().Equal(decimal.RequireFromString("150.5")) {
		t.Errorf("expected 150.5, got %s", req.Amount.Value())
	}
}

func TestRedeemRequestDecodesAllSentinel(t *testing.T) {
	var req RedeemRequest
	if err := json.Unmarshal([]byte(`{"account_id":"alice","amount":"all"}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !req.Amount.IsAll() {
		t.Error("expected the all sentinel")
	}
}

func TestTransferRequestToUseCaseInput(t *testing.T) {
	actor := &domain.User{ID: "op", Role: domain.RoleOperator}
	req := CreateTransferRequest{
		FromAccountID: "alice",
		ToAccountID:   "bob",
		Amount:        domain.Exact(decimal.NewFromInt(100)),
	}

	input := req.ToUseCaseInput(actor)

	if input.Actor != actor {
		t.Error("expected actor to be carried through")
	}
	if input.FromAccountID != "alice" || input.ToAccountID != "bob" {
		t.Errorf("unexpected accounts: %s -> %s", input.FromAccountID, input.ToAccountID)
	}
	if !input.Amount.Value().Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected amount 100, got %s", input.Amount.Value())
	}
}

func TestCreateUserRequestToUseCaseInput(t *testing.T) {
	actor := &domain.User{ID: "admin", Role: domain.RoleAdmin}
	req := CreateUserRequest{
		Email:    "new@example.com",
		Name:     "New User",
		Password: "password123",
		Role:     "viewer",
	}

	input := req.ToUseCaseInput(actor)

	if input.Role != domain.RoleViewer {
		t.Errorf("expected viewer role, got %s", input.Role)
	}
	if input.Actor != actor {
		t.Error("expected actor to be carried through")
	}
}

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

func TestZeroRateAccruesNothing(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	// rate never set; deposits lock at zero
	s.deposit(ctx, t, "alice", 100_000)

	s.clock.Advance(24 * time.Hour)

	view, err := s.ledgerUC.GetAccountView(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to read account: %v", err)
	}
	if !view.EffectiveBalance.Equal(decimal.NewFromInt(100_000)) {
		t.Errorf("expected no accrual at zero rate, got %s", view.EffectiveBalance)
	}
}

func TestDepositZeroRejectedBeforeCustody(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	_, err := s.custodyUC.Deposit(ctx, usecase.DepositInput{
		Actor:     operator,
		AccountID: "alice",
		Amount:    decimal.Zero,
	})
	if !errors.Is(err, domain.ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}

	if len(s.gateway.Collects) != 0 {
		t.Errorf("expected custody untouched, got %d collect calls", len(s.gateway.Collects))
	}
}

func TestRedeemAllOnEmptyAccountIsNoop(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	redeemed, err := s.custodyUC.Redeem(ctx, usecase.RedeemInput{
		Actor:     operator,
		AccountID: "never-funded",
		Amount:    domain.All(),
	})
	if err != nil {
		t.Fatalf("expected noop, got error: %v", err)
	}
	if !redeemed.IsZero() {
		t.Errorf("expected zero redeemed, got %s", redeemed)
	}
	if len(s.gateway.Disburses) != 0 {
		t.Errorf("expected no disburse for zero redemption, got %d", len(s.gateway.Disburses))
	}
}

func TestViewerCannotMoveFunds(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	viewer := &domain.User{ID: "user-viewer", Role: domain.RoleViewer, Active: true}

	_, err := s.custodyUC.Deposit(ctx, usecase.DepositInput{
		Actor:     viewer,
		AccountID: "alice",
		Amount:    decimal.NewFromInt(1_000),
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for viewer deposit, got %v", err)
	}

	_, err = s.ledgerUC.Transfer(ctx, usecase.TransferInput{
		Actor:         viewer,
		FromAccountID: "alice",
		ToAccountID:   "bob",
		Amount:        domain.Exact(decimal.NewFromInt(100)),
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for viewer transfer, got %v", err)
	}
}

func TestInvalidAccountIDRejected(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	_, err := s.custodyUC.Deposit(ctx, usecase.DepositInput{
		Actor:     operator,
		AccountID: "   ",
		Amount:    decimal.NewFromInt(1_000),
	})
	if !errors.Is(err, domain.ErrInvalidAccountID) {
		t.Fatalf("expected ErrInvalidAccountID, got %v", err)
	}
}

func TestAccrualAcrossSettlementBoundaries(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	s.setRate(ctx, t, testRate)
	s.deposit(ctx, t, "alice", 100_000)

	// two separate hours with a settlement in between compound once
	s.clock.Advance(time.Hour)
	s.deposit(ctx, t, "alice", 1) // settles the first hour

	s.clock.Advance(time.Hour)

	view, err := s.ledgerUC.GetAccountView(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to read account: %v", err)
	}

	// first hour settles 18 into principal; the second hour accrues on
	// 100019, which still truncates to 18
	if !view.EffectiveBalance.Equal(decimal.NewFromInt(100_037)) {
		t.Errorf("expected effective balance 100037, got %s", view.EffectiveBalance)
	}
}

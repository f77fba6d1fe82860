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

func TestStartingRateSeedsFreshLedger(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	seeded, err := s.rateUC.InitializeRate(ctx, testRate)
	if err != nil {
		t.Fatalf("failed to initialize rate: %v", err)
	}
	if !seeded {
		t.Fatal("expected a fresh ledger to seed the starting rate")
	}

	rate, err := s.rateUC.GetGlobalRate(ctx)
	if err != nil {
		t.Fatalf("failed to read rate: %v", err)
	}
	if !rate.Equal(testRate) {
		t.Errorf("expected rate %s, got %s", testRate, rate)
	}

	// a restart with a different INITIAL_RATE is a no-op
	seeded, err = s.rateUC.InitializeRate(ctx, testRate.Mul(decimal.NewFromInt(2)))
	if err != nil {
		t.Fatalf("failed on repeat initialize: %v", err)
	}
	if seeded {
		t.Error("expected repeat initialization to be a no-op")
	}

	rate, err = s.rateUC.GetGlobalRate(ctx)
	if err != nil {
		t.Fatalf("failed to read rate: %v", err)
	}
	if !rate.Equal(testRate) {
		t.Errorf("expected rate unchanged at %s, got %s", testRate, rate)
	}

	// accrual works off the seeded rate
	s.deposit(ctx, t, "alice", 100_000)
	s.clock.Advance(time.Hour)

	balance, err := s.ledgerUC.BalanceOf(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(100_018)) {
		t.Errorf("expected balance 100018, got %s", balance)
	}
}

func TestGlobalRateOnlyLowers(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	s.setRate(ctx, t, testRate)

	_, err := s.rateUC.SetGlobalRate(ctx, usecase.SetRateInput{
		Actor: admin,
		Rate:  testRate.Mul(decimal.NewFromInt(2)),
	})
	if !errors.Is(err, domain.ErrRateIncreaseRejected) {
		t.Fatalf("expected ErrRateIncreaseRejected, got %v", err)
	}

	// the rejected update left state untouched
	rate, err := s.rateUC.GetGlobalRate(ctx)
	if err != nil {
		t.Fatalf("failed to read rate: %v", err)
	}
	if !rate.Equal(testRate) {
		t.Errorf("expected rate unchanged at %s, got %s", testRate, rate)
	}
}

func TestLoweringRateKeepsExistingLocks(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	s.setRate(ctx, t, testRate)
	s.deposit(ctx, t, "alice", 100_000)

	lowered := decimal.New(1, 10)
	s.setRate(ctx, t, lowered)

	// alice keeps the rate she locked at deposit time
	view, err := s.ledgerUC.GetAccountView(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to read alice: %v", err)
	}
	if !view.LockedRate.Equal(testRate) {
		t.Errorf("expected alice to keep %s, got %s", testRate, view.LockedRate)
	}

	// new depositors lock the lowered rate
	bob := s.deposit(ctx, t, "bob", 50_000)
	if !bob.LockedRate.Equal(lowered) {
		t.Errorf("expected bob locked at %s, got %s", lowered, bob.LockedRate)
	}
}

func TestSetRateRequiresGovernor(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	_, err := s.rateUC.SetGlobalRate(ctx, usecase.SetRateInput{
		Actor: operator,
		Rate:  testRate,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNegativeRateRejected(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()

	_, err := s.rateUC.SetGlobalRate(ctx, usecase.SetRateInput{
		Actor: admin,
		Rate:  decimal.NewFromInt(-1),
	})
	if !errors.Is(err, domain.ErrNegativeRate) {
		t.Fatalf("expected ErrNegativeRate, got %v", err)
	}
}

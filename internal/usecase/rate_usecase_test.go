package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
	"github.com/iho/yieldledger/internal/usecase/mocks"
)

var admin = &domain.User{ID: "user-admin", Role: domain.RoleAdmin}

func newRateUseCase() (*usecase.RateUseCase, *mocks.MockRateRepository, *mocks.MockCache) {
	rates := mocks.NewMockRateRepository()
	cache := mocks.NewMockCache()

	uc := usecase.NewRateUseCase(
		mocks.NewMockTransactionManager(),
		rates,
		mocks.NewMockOutboxRepository(),
		cache,
		mocks.NewMockIDGenerator(),
		mocks.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	)

	return uc, rates, cache
}

func TestRateUseCase_SetGlobalRate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		current decimal.Decimal
		next    decimal.Decimal
		actor   *domain.User
		wantErr error
	}{
		{
			name:    "lowering accepted",
			current: decimal.New(5, 10),
			next:    decimal.New(3, 10),
			actor:   admin,
		},
		{
			name:    "same rate accepted",
			current: decimal.New(5, 10),
			next:    decimal.New(5, 10),
			actor:   admin,
		},
		{
			name:    "lowering to zero accepted",
			current: decimal.New(5, 10),
			next:    decimal.Zero,
			actor:   admin,
		},
		{
			name:    "raise rejected",
			current: decimal.New(3, 10),
			next:    decimal.New(5, 10),
			actor:   admin,
			wantErr: domain.ErrRateIncreaseRejected,
		},
		{
			name:    "negative rejected",
			current: decimal.New(3, 10),
			next:    decimal.New(-1, 10),
			actor:   admin,
			wantErr: domain.ErrNegativeRate,
		},
		{
			name:    "operator cannot govern",
			current: decimal.New(5, 10),
			next:    decimal.New(3, 10),
			actor:   operator,
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "nil actor",
			current: decimal.New(5, 10),
			next:    decimal.New(3, 10),
			wantErr: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, rates, _ := newRateUseCase()
			rates.SetRate(tt.current)

			state, err := uc.SetGlobalRate(ctx, usecase.SetRateInput{Actor: tt.actor, Rate: tt.next})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SetGlobalRate() error = %v, want %v", err, tt.wantErr)
				}

				// a rejected update leaves the stored rate untouched
				stored, gerr := uc.GetGlobalRate(ctx)
				if gerr != nil {
					t.Fatalf("GetGlobalRate() error = %v", gerr)
				}
				if !stored.Equal(tt.current) {
					t.Errorf("stored rate = %s, want unchanged %s", stored, tt.current)
				}
				return
			}

			if err != nil {
				t.Fatalf("SetGlobalRate() error = %v", err)
			}

			if !state.Rate.Equal(tt.next) {
				t.Errorf("state rate = %s, want %s", state.Rate, tt.next)
			}
		})
	}
}

func TestRateUseCase_FirstRateEstablishesStartingLevel(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newRateUseCase()

	// a fresh ledger has no rate row yet, so the first set is not a raise
	state, err := uc.SetGlobalRate(ctx, usecase.SetRateInput{Actor: admin, Rate: decimal.New(5, 10)})
	if err != nil {
		t.Fatalf("SetGlobalRate() on fresh ledger error = %v", err)
	}
	if !state.Rate.Equal(decimal.New(5, 10)) {
		t.Errorf("state rate = %s, want 5e10", state.Rate)
	}

	// monotonicity binds from then on
	_, err = uc.SetGlobalRate(ctx, usecase.SetRateInput{Actor: admin, Rate: decimal.New(9, 10)})
	if !errors.Is(err, domain.ErrRateIncreaseRejected) {
		t.Errorf("raise after first set error = %v, want %v", err, domain.ErrRateIncreaseRejected)
	}
}

func TestRateUseCase_InitializeRate(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newRateUseCase()

	seeded, err := uc.InitializeRate(ctx, decimal.New(5, 10))
	if err != nil {
		t.Fatalf("InitializeRate() error = %v", err)
	}
	if !seeded {
		t.Fatal("InitializeRate() seeded = false on fresh ledger, want true")
	}

	// a restart with a different starting rate never moves an existing one
	seeded, err = uc.InitializeRate(ctx, decimal.New(9, 10))
	if err != nil {
		t.Fatalf("InitializeRate() second call error = %v", err)
	}
	if seeded {
		t.Error("InitializeRate() seeded = true on initialized ledger, want false")
	}

	rate, err := uc.GetGlobalRate(ctx)
	if err != nil {
		t.Fatalf("GetGlobalRate() error = %v", err)
	}
	if !rate.Equal(decimal.New(5, 10)) {
		t.Errorf("rate = %s, want the first seed 5e10", rate)
	}
}

func TestRateUseCase_InitializeRateRejectsNegative(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newRateUseCase()

	if _, err := uc.InitializeRate(ctx, decimal.New(-1, 10)); !errors.Is(err, domain.ErrNegativeRate) {
		t.Errorf("InitializeRate() error = %v, want %v", err, domain.ErrNegativeRate)
	}
}

func TestRateUseCase_RateOnlyEverDecreases(t *testing.T) {
	ctx := context.Background()
	uc, rates, _ := newRateUseCase()

	rates.SetRate(decimal.New(9, 10))

	steps := []decimal.Decimal{
		decimal.New(7, 10),
		decimal.New(7, 10),
		decimal.New(2, 10),
		decimal.Zero,
	}

	for i, next := range steps {
		if _, err := uc.SetGlobalRate(ctx, usecase.SetRateInput{Actor: admin, Rate: next}); err != nil {
			t.Fatalf("step %d: SetGlobalRate(%s) error = %v", i, next, err)
		}
	}

	// once at zero, anything positive is a raise
	_, err := uc.SetGlobalRate(ctx, usecase.SetRateInput{Actor: admin, Rate: decimal.New(1, 0)})
	if !errors.Is(err, domain.ErrRateIncreaseRejected) {
		t.Errorf("raise from zero error = %v, want %v", err, domain.ErrRateIncreaseRejected)
	}
}

func TestRateUseCase_GetGlobalRateCaches(t *testing.T) {
	ctx := context.Background()
	uc, rates, cache := newRateUseCase()

	rates.SetRate(decimal.New(5, 10))

	repoReads := 0
	rates.GetFunc = func(ctx context.Context) (*domain.RateState, error) {
		repoReads++
		return &domain.RateState{Rate: decimal.New(5, 10)}, nil
	}

	for i := 0; i < 3; i++ {
		rate, err := uc.GetGlobalRate(ctx)
		if err != nil {
			t.Fatalf("GetGlobalRate() error = %v", err)
		}
		if !rate.Equal(decimal.New(5, 10)) {
			t.Errorf("rate = %s, want 5e10", rate)
		}
	}

	if repoReads != 1 {
		t.Errorf("repository reads = %d, want 1 with warm cache", repoReads)
	}

	cached, err := cache.Get(ctx, usecase.RateCacheKey)
	if err != nil {
		t.Fatalf("cache.Get() error = %v", err)
	}
	if cached == "" {
		t.Error("cache is empty after read-through")
	}
}

func TestRateUseCase_SetGlobalRateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	uc, rates, cache := newRateUseCase()

	rates.SetRate(decimal.New(5, 10))

	if _, err := uc.GetGlobalRate(ctx); err != nil {
		t.Fatalf("GetGlobalRate() error = %v", err)
	}

	if _, err := uc.SetGlobalRate(ctx, usecase.SetRateInput{Actor: admin, Rate: decimal.New(3, 10)}); err != nil {
		t.Fatalf("SetGlobalRate() error = %v", err)
	}

	cached, err := cache.Get(ctx, usecase.RateCacheKey)
	if err != nil {
		t.Fatalf("cache.Get() error = %v", err)
	}
	if cached != "" {
		t.Errorf("cache = %q after update, want invalidated", cached)
	}

	rate, err := uc.GetGlobalRate(ctx)
	if err != nil {
		t.Fatalf("GetGlobalRate() error = %v", err)
	}
	if !rate.Equal(decimal.New(3, 10)) {
		t.Errorf("rate = %s, want 3e10", rate)
	}
}

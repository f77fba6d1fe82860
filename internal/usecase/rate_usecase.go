package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
)

// RateUseCase is the rate governor: it owns the single global rate and
// enforces that it only ever goes down. Newly-funded accounts lock whatever
// the rate is at their first mint.
type RateUseCase struct {
	txManager  TransactionManager
	rateRepo   RateRepository
	outboxRepo OutboxRepository
	cache      Cache
	idGen      IDGenerator
	clock      Clock
}

// NewRateUseCase creates a new RateUseCase.
func NewRateUseCase(
	txManager TransactionManager,
	rateRepo RateRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	clock Clock,
) *RateUseCase {
	return &RateUseCase{
		txManager:  txManager,
		rateRepo:   rateRepo,
		outboxRepo: outboxRepo,
		cache:      cache,
		idGen:      idGen,
		clock:      clock,
	}
}

// SetRateInput represents input for replacing the global rate.
type SetRateInput struct {
	Actor *domain.User
	Rate  decimal.Decimal
}

// SetGlobalRate replaces the global rate. Once a rate exists, anything above
// the current one is rejected and leaves state unchanged; only the governor
// role may call.
func (uc *RateUseCase) SetGlobalRate(ctx context.Context, input SetRateInput) (*domain.RateState, error) {
	if input.Actor == nil || !input.Actor.Role.CanGovernRate() {
		return nil, domain.ErrUnauthorized
	}

	now := uc.clock.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	state, err := uc.rateRepo.GetForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := state.ValidateLowering(input.Rate); err != nil {
		return nil, err
	}

	previous := state.Rate

	if err := uc.rateRepo.Set(ctx, tx, input.Rate, now); err != nil {
		return nil, err
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   domain.AggregateTypeRate,
		AggregateType: domain.AggregateTypeRate,
		EventType:     domain.EventTypeRateUpdated,
		Payload: map[string]any{
			"previous_rate": previous.String(),
			"new_rate":      input.Rate.String(),
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		// best effort; the TTL bounds staleness if the delete fails
		_ = uc.cache.Delete(ctx, RateCacheKey)
	}

	return &domain.RateState{Rate: input.Rate, UpdatedAt: now, Initialized: true}, nil
}

// InitializeRate establishes the starting global rate on a ledger that has
// never had one. Restarts are no-ops: once the rate exists, a different
// starting value does not move it and monotonic lowering governs from then
// on. Reports whether this call seeded the rate.
func (uc *RateUseCase) InitializeRate(ctx context.Context, rate decimal.Decimal) (bool, error) {
	if rate.IsNegative() {
		return false, domain.ErrNegativeRate
	}

	now := uc.clock.Now()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	state, err := uc.rateRepo.GetForUpdate(ctx, tx)
	if err != nil {
		return false, err
	}

	if state.Initialized {
		return false, nil
	}

	if err := uc.rateRepo.Set(ctx, tx, rate, now); err != nil {
		return false, err
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   domain.AggregateTypeRate,
		AggregateType: domain.AggregateTypeRate,
		EventType:     domain.EventTypeRateUpdated,
		Payload: map[string]any{
			"previous_rate": "",
			"new_rate":      rate.String(),
		},
		CreatedAt: now,
	})
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, RateCacheKey)
	}

	return true, nil
}

// GetGlobalRate returns the current global rate, cached briefly.
func (uc *RateUseCase) GetGlobalRate(ctx context.Context) (decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, RateCacheKey); err == nil && cached != "" {
			if rate, err := decimal.NewFromString(cached); err == nil {
				return rate, nil
			}
		}
	}

	state, err := uc.rateRepo.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, RateCacheKey, state.Rate.String(), RateCacheTTL)
	}

	return state.Rate, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
)

// CustodyUseCase bridges the custody facade and the ledger: deposits of the
// underlying asset become mints, redemptions become burns followed by a
// custodial payout.
type CustodyUseCase struct {
	ledger      *LedgerUseCase
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	gateway     CustodyGateway
	idGen       IDGenerator
	clock       Clock
}

// NewCustodyUseCase creates a new CustodyUseCase.
func NewCustodyUseCase(
	ledger *LedgerUseCase,
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	gateway CustodyGateway,
	idGen IDGenerator,
	clock Clock,
) *CustodyUseCase {
	return &CustodyUseCase{
		ledger:      ledger,
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		gateway:     gateway,
		idGen:       idGen,
		clock:       clock,
	}
}

// DepositInput represents input for depositing the underlying asset.
type DepositInput struct {
	Actor     *domain.User
	AccountID string
	Amount    decimal.Decimal
}

// Deposit pulls the underlying asset into custody and mints the equivalent
// claim. A zero deposit is rejected before touching custody.
func (uc *CustodyUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Account, error) {
	if input.Actor == nil || !input.Actor.Role.CanMoveFunds() {
		return nil, domain.ErrUnauthorized
	}

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return nil, err
	}

	if err := domain.ValidateMintAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := uc.gateway.Collect(ctx, input.AccountID, input.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCustodyTransferFailed, err)
	}

	return uc.ledger.Mint(ctx, MintInput{
		Actor:     input.Actor,
		AccountID: input.AccountID,
		Amount:    input.Amount,
	})
}

// RedeemInput represents input for redeeming claims for the underlying
// asset.
type RedeemInput struct {
	Actor     *domain.User
	AccountID string
	Amount    domain.Amount
}

// Redeem settles and debits the ledger, then pays out the underlying asset
// as the very last step. A failed payout rolls back the whole operation,
// debit included: the ledger never records a redemption the custody side
// did not honor. The "all" sentinel resolves against the post-settlement
// balance, so redeeming everything always leaves exactly zero.
func (uc *CustodyUseCase) Redeem(ctx context.Context, input RedeemInput) (decimal.Decimal, error) {
	if input.Actor == nil || !input.Actor.Role.CanMoveFunds() {
		return decimal.Zero, domain.ErrUnauthorized
	}

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return decimal.Zero, err
	}

	now := uc.clock.Now()
	refID := uc.idGen.Generate()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	acc, err := uc.accountRepo.GetOrCreateForUpdate(ctx, tx, input.AccountID, now)
	if err != nil {
		return decimal.Zero, err
	}

	resolved, err := uc.ledger.burnLocked(ctx, tx, acc, input.Amount, domain.EntryKindRedeem, refID, now)
	if err != nil {
		return decimal.Zero, err
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   acc.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeRedeemed,
		Payload: map[string]any{
			"account_id": acc.ID,
			"amount":     resolved.String(),
		},
		CreatedAt: now,
	})
	if err != nil {
		return decimal.Zero, err
	}

	// checks and effects are done; the custodial payout is the one outward
	// interaction, and it must come last so its failure can still revert
	// the debit
	if resolved.IsPositive() {
		if err := uc.gateway.Disburse(ctx, input.AccountID, resolved); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrCustodyTransferFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}

	return resolved, nil
}

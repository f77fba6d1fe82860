package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
)

// LedgerUseCase owns the interest-bearing account ledger: the settlement
// protocol and the mint/burn/transfer primitives built on it. Every
// balance-affecting operation settles first, inside the same transaction as
// the mutation, so no code path ever reads stale accrued interest.
type LedgerUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	rateRepo     RateRepository
	entryRepo    EntryRepository
	transferRepo TransferRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	clock        Clock
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	rateRepo RateRepository,
	entryRepo EntryRepository,
	transferRepo TransferRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		rateRepo:     rateRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		clock:        clock,
	}
}

// writeEntry bumps the account version and records a journal line.
func (uc *LedgerUseCase) writeEntry(
	ctx context.Context,
	tx Transaction,
	acc *domain.Account,
	kind domain.EntryKind,
	refID string,
	amount, before decimal.Decimal,
	now time.Time,
) error {
	acc.Version++

	return uc.entryRepo.Create(ctx, tx, &domain.Entry{
		ID:              uc.idGen.Generate(),
		AccountID:       acc.ID,
		RefID:           refID,
		Kind:            kind,
		Amount:          amount,
		PrincipalBefore: before,
		PrincipalAfter:  acc.Principal,
		AccountVersion:  acc.Version,
		CreatedAt:       now,
	})
}

// settleLocked runs the settlement protocol on a locked account: accrued
// interest becomes principal, stamped with now, and shows up as its own
// journal line when non-zero.
func (uc *LedgerUseCase) settleLocked(ctx context.Context, tx Transaction, acc *domain.Account, refID string, now time.Time) error {
	before := acc.Principal

	accrued, err := acc.Settle(now)
	if err != nil {
		return err
	}

	if accrued.IsZero() {
		return nil
	}

	return uc.writeEntry(ctx, tx, acc, domain.EntryKindInterest, refID, accrued, before, now)
}

// mintLocked credits a settled account. The rate to lock comes from the
// override when supplied (inbound cross-ledger mint), otherwise from the
// global rate, and only for a never-funded account. The override wins even
// on a funded account so that bridged value keeps accruing at its
// originating rate.
func (uc *LedgerUseCase) mintLocked(
	ctx context.Context,
	tx Transaction,
	acc *domain.Account,
	amount decimal.Decimal,
	rateOverride *decimal.Decimal,
	kind domain.EntryKind,
	refID string,
	now time.Time,
) error {
	if err := uc.settleLocked(ctx, tx, acc, refID, now); err != nil {
		return err
	}

	switch {
	case rateOverride != nil:
		if rateOverride.IsNegative() {
			return domain.ErrNegativeRate
		}

		acc.LockedRate = *rateOverride
	case !acc.Funded():
		state, err := uc.rateRepo.Get(ctx)
		if err != nil {
			return err
		}

		acc.LockedRate = state.Rate
	}

	if amount.IsZero() {
		return uc.accountRepo.Save(ctx, tx, acc)
	}

	before := acc.Principal
	acc.Principal = acc.Principal.Add(amount)

	if err := uc.writeEntry(ctx, tx, acc, kind, refID, amount, before, now); err != nil {
		return err
	}

	return uc.accountRepo.Save(ctx, tx, acc)
}

// burnLocked settles and debits an account, resolving the "all" sentinel
// against the post-settlement principal. Resolving before settlement would
// strand accrued interest, so the order here is load-bearing.
func (uc *LedgerUseCase) burnLocked(
	ctx context.Context,
	tx Transaction,
	acc *domain.Account,
	amount domain.Amount,
	kind domain.EntryKind,
	refID string,
	now time.Time,
) (decimal.Decimal, error) {
	if err := amount.Validate(); err != nil {
		return decimal.Zero, err
	}

	if !amount.IsAll() && amount.Value().IsZero() {
		return decimal.Zero, domain.ErrZeroAmount
	}

	if err := uc.settleLocked(ctx, tx, acc, refID, now); err != nil {
		return decimal.Zero, err
	}

	resolved := amount.Resolve(acc.Principal)
	if err := acc.ValidateDebit(resolved); err != nil {
		return decimal.Zero, err
	}

	if resolved.IsZero() {
		// "all" on an empty account
		return decimal.Zero, uc.accountRepo.Save(ctx, tx, acc)
	}

	before := acc.Principal
	acc.Principal = acc.Principal.Sub(resolved)

	if err := uc.writeEntry(ctx, tx, acc, kind, refID, resolved.Neg(), before, now); err != nil {
		return decimal.Zero, err
	}

	return resolved, uc.accountRepo.Save(ctx, tx, acc)
}

// MintInput represents input for minting claims against a deposit.
type MintInput struct {
	Actor     *domain.User
	AccountID string
	Amount    decimal.Decimal
}

// Mint credits freshly deposited value to an account, locking the current
// global rate if the account has never been funded.
func (uc *LedgerUseCase) Mint(ctx context.Context, input MintInput) (*domain.Account, error) {
	if input.Actor == nil || !input.Actor.Role.CanMoveFunds() {
		return nil, domain.ErrUnauthorized
	}

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return nil, err
	}

	if err := domain.ValidateMintAmount(input.Amount); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	refID := uc.idGen.Generate()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acc, err := uc.accountRepo.GetOrCreateForUpdate(ctx, tx, input.AccountID, now)
	if err != nil {
		return nil, err
	}

	if err := uc.mintLocked(ctx, tx, acc, input.Amount, nil, domain.EntryKindDeposit, refID, now); err != nil {
		return nil, err
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   acc.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeDeposited,
		Payload: map[string]any{
			"account_id":  acc.ID,
			"amount":      input.Amount.String(),
			"locked_rate": acc.LockedRate.String(),
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return acc, nil
}

// BurnInput represents input for burning claims.
type BurnInput struct {
	Actor     *domain.User
	AccountID string
	Amount    domain.Amount
}

// Burn settles and debits an account. The returned amount is the resolved
// debit, which for the "all" sentinel includes interest settled in the same
// instant.
func (uc *LedgerUseCase) Burn(ctx context.Context, input BurnInput) (decimal.Decimal, error) {
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

	resolved, err := uc.burnLocked(ctx, tx, acc, input.Amount, domain.EntryKindRedeem, refID, now)
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

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}

	return resolved, nil
}

// TransferInput represents input for transferring claims between accounts.
type TransferInput struct {
	Actor         *domain.User
	FromAccountID string
	ToAccountID   string
	Amount        domain.Amount
}

// Transfer moves a claim between two accounts on this ledger. Both legs are
// settled before the sentinel is resolved or any balance is checked. A
// recipient with zero effective balance inherits the sender's locked rate,
// but only when value actually moves.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	if input.Actor == nil || !input.Actor.Role.CanMoveFunds() {
		return nil, domain.ErrUnauthorized
	}

	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	for _, id := range []string{input.FromAccountID, input.ToAccountID} {
		if err := domain.ValidateAccountID(id); err != nil {
			return nil, err
		}
	}

	if err := input.Amount.Validate(); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	transferID := uc.idGen.Generate()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock in sorted id order to avoid deadlocks between concurrent
	// transfers touching the same pair.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	accounts := make(map[string]*domain.Account, 2)
	for _, id := range ids {
		acc, err := uc.accountRepo.GetOrCreateForUpdate(ctx, tx, id, now)
		if err != nil {
			return nil, err
		}

		accounts[id] = acc
	}

	sender := accounts[input.FromAccountID]
	recipient := accounts[input.ToAccountID]

	if err := uc.settleLocked(ctx, tx, sender, transferID, now); err != nil {
		return nil, err
	}

	if err := uc.settleLocked(ctx, tx, recipient, transferID, now); err != nil {
		return nil, err
	}

	resolved := input.Amount.Resolve(sender.Principal)
	if err := sender.ValidateDebit(resolved); err != nil {
		return nil, err
	}

	inherited := false
	if recipient.Principal.IsZero() && resolved.IsPositive() {
		recipient.LockedRate = sender.LockedRate
		inherited = true
	}

	if resolved.IsPositive() {
		senderBefore := sender.Principal
		sender.Principal = sender.Principal.Sub(resolved)

		if err := uc.writeEntry(ctx, tx, sender, domain.EntryKindTransferOut, transferID, resolved.Neg(), senderBefore, now); err != nil {
			return nil, err
		}

		recipientBefore := recipient.Principal
		recipient.Principal = recipient.Principal.Add(resolved)

		if err := uc.writeEntry(ctx, tx, recipient, domain.EntryKindTransferIn, transferID, resolved, recipientBefore, now); err != nil {
			return nil, err
		}
	}

	transfer := &domain.Transfer{
		ID:            transferID,
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        resolved,
		InheritedRate: inherited,
		CreatedAt:     now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	for _, acc := range accounts {
		if err := uc.accountRepo.Save(ctx, tx, acc); err != nil {
			return nil, err
		}
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeTransferred,
		Payload: map[string]any{
			"transfer_id":     transfer.ID,
			"from_account_id": transfer.FromAccountID,
			"to_account_id":   transfer.ToAccountID,
			"amount":          transfer.Amount.String(),
			"inherited_rate":  transfer.InheritedRate,
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// AccountView is a read-only projection of an account at a point in time.
type AccountView struct {
	AccountID        string
	EffectiveBalance decimal.Decimal
	Principal        decimal.Decimal
	LockedRate       decimal.Decimal
	LastSettledAt    time.Time
}

// GetAccountView projects an account at now without mutating it. Unknown
// ids read as never-funded accounts, since creation is lazy.
func (uc *LedgerUseCase) GetAccountView(ctx context.Context, accountID string) (*AccountView, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	acc, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return &AccountView{AccountID: accountID, LastSettledAt: now}, nil
		}

		return nil, err
	}

	balance, err := acc.EffectiveBalanceAt(now)
	if err != nil {
		return nil, err
	}

	return &AccountView{
		AccountID:        acc.ID,
		EffectiveBalance: balance,
		Principal:        acc.Principal,
		LockedRate:       acc.LockedRate,
		LastSettledAt:    acc.LastSettledAt,
	}, nil
}

// BalanceOf returns the effective balance at now.
func (uc *LedgerUseCase) BalanceOf(ctx context.Context, accountID string) (decimal.Decimal, error) {
	view, err := uc.GetAccountView(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return view.EffectiveBalance, nil
}

// PrincipalOf returns the settled principal, excluding un-settled interest.
func (uc *LedgerUseCase) PrincipalOf(ctx context.Context, accountID string) (decimal.Decimal, error) {
	view, err := uc.GetAccountView(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return view.Principal, nil
}

// AccountRateOf returns the account's locked rate, zero if never funded.
func (uc *LedgerUseCase) AccountRateOf(ctx context.Context, accountID string) (decimal.Decimal, error) {
	view, err := uc.GetAccountView(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return view.LockedRate, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *LedgerUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccount lists transfers touching an account.
func (uc *LedgerUseCase) ListTransfersByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.transferRepo.ListByAccount(ctx, accountID, limit, offset)
}

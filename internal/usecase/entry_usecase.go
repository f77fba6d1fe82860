package usecase

import (
	"context"

	"github.com/iho/yieldledger/internal/domain"
)

// EntryUseCase handles journal entry queries.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{entryRepo: entryRepo}
}

// ListByAccount lists journal entries for an account.
func (uc *EntryUseCase) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.entryRepo.GetByAccount(ctx, accountID, limit, offset)
}

// ListByRef lists the journal entries written by one operation.
func (uc *EntryUseCase) ListByRef(ctx context.Context, refID string) ([]*domain.Entry, error) {
	return uc.entryRepo.GetByRef(ctx, refID)
}

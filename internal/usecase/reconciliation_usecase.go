package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ReconciliationUseCase verifies ledger invariants: every funded account has
// a locked rate, and the journal reproduces each account's principal.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// ConsistencyReport summarizes a reconciliation pass.
type ConsistencyReport struct {
	Consistent      bool            `json:"consistent"`
	AccountsChecked int             `json:"accounts_checked"`
	TotalPrincipal  decimal.Decimal `json:"total_principal"`
	Violations      []string        `json:"violations,omitempty"`
}

const reconcilePageSize = 500

// CheckConsistency walks all accounts and reports invariant violations.
// A non-empty violation list means value was created or destroyed outside
// the settlement protocol.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	report := &ConsistencyReport{Consistent: true}

	for offset := 0; ; offset += reconcilePageSize {
		accounts, err := uc.accountRepo.List(ctx, reconcilePageSize, offset)
		if err != nil {
			return nil, err
		}

		if len(accounts) == 0 {
			break
		}

		for _, acc := range accounts {
			report.AccountsChecked++

			if acc.Principal.IsPositive() && !acc.LockedRate.IsPositive() {
				report.Violations = append(report.Violations,
					fmt.Sprintf("account %s: positive principal %s with zero locked rate", acc.ID, acc.Principal))
			}

			if acc.Principal.IsNegative() {
				report.Violations = append(report.Violations,
					fmt.Sprintf("account %s: negative principal %s", acc.ID, acc.Principal))
			}

			sum, err := uc.entryRepo.SumByAccount(ctx, acc.ID)
			if err != nil {
				return nil, err
			}

			if !sum.Equal(acc.Principal) {
				report.Violations = append(report.Violations,
					fmt.Sprintf("account %s: journal sum %s != principal %s", acc.ID, sum, acc.Principal))
			}
		}

		if len(accounts) < reconcilePageSize {
			break
		}
	}

	total, err := uc.ledgerRepo.TotalPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	report.TotalPrincipal = total
	report.Consistent = len(report.Violations) == 0

	return report, nil
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, account_id, ref_id, kind, amount, principal_before, principal_after, account_version, created_at`

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e         domain.Entry
		kind      string
		amount    pgtype.Numeric
		before    pgtype.Numeric
		after     pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.AccountID, &e.RefID, &kind, &amount, &before, &after, &e.AccountVersion, &createdAt)
	if err != nil {
		return nil, err
	}

	e.Kind = domain.EntryKind(kind)
	e.Amount = numericToDecimal(amount)
	e.PrincipalBefore = numericToDecimal(before)
	e.PrincipalAfter = numericToDecimal(after)
	e.CreatedAt = createdAt.Time

	return &e, nil
}

// Create writes a journal entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO entries (id, account_id, ref_id, kind, amount, principal_before, principal_after, account_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.AccountID,
		entry.RefID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.PrincipalBefore),
		decimalToNumeric(entry.PrincipalAfter),
		entry.AccountVersion,
		timeToPgTimestamptz(entry.CreatedAt))

	return err
}

// GetByAccount retrieves entries for an account, newest first.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE account_id = $1
		 ORDER BY created_at DESC, account_version DESC
		 LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetByRef retrieves the entries a single operation wrote.
func (r *EntryRepository) GetByRef(ctx context.Context, refID string) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE ref_id = $1 ORDER BY account_version`,
		refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SumByAccount sums all entry amounts for an account. A consistent journal
// reproduces the account's principal exactly.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM entries WHERE account_id = $1`,
		accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

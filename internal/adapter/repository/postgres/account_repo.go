package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func txQuerier(tx usecase.Transaction) querier {
	return tx.(*Tx).PgxTx()
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, principal, locked_rate, last_settled_at, version, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		acc           domain.Account
		principal     pgtype.Numeric
		lockedRate    pgtype.Numeric
		lastSettledAt pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(&acc.ID, &principal, &lockedRate, &lastSettledAt, &acc.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	acc.Principal = numericToDecimal(principal)
	acc.LockedRate = numericToDecimal(lockedRate)
	acc.LastSettledAt = lastSettledAt.Time
	acc.CreatedAt = createdAt.Time
	acc.UpdatedAt = updatedAt.Time

	return &acc, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return acc, nil
}

// GetForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return acc, nil
}

// GetOrCreateForUpdate locks the account row, inserting a never-funded
// account first when the id has not been seen.
func (r *AccountRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, id string, now time.Time) (*domain.Account, error) {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`INSERT INTO accounts (id, principal, locked_rate, last_settled_at, version, created_at, updated_at)
		 VALUES ($1, 0, 0, $2, 0, $2, $2)
		 ON CONFLICT (id) DO NOTHING`,
		id, timeToPgTimestamptz(now))
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)

	return scanAccount(row)
}

// Save writes an account's mutable fields within a transaction.
func (r *AccountRepository) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	_, err := txQuerier(tx).Exec(ctx,
		`UPDATE accounts
		 SET principal = $2, locked_rate = $3, last_settled_at = $4, version = $5, updated_at = now()
		 WHERE id = $1`,
		account.ID,
		decimalToNumeric(account.Principal),
		decimalToNumeric(account.LockedRate),
		timeToPgTimestamptz(account.LastSettledAt),
		account.Version)

	return err
}

// List lists accounts with pagination, ordered by id for stable paging.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

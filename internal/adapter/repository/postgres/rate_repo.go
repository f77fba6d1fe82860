package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

// RateRepository implements usecase.RateRepository. The rate lives in a
// single-row table keyed by a constant id.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

func scanRateState(row pgx.Row) (*domain.RateState, error) {
	var (
		rate      pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&rate, &updatedAt); err != nil {
		return nil, err
	}

	return &domain.RateState{
		Rate:        numericToDecimal(rate),
		UpdatedAt:   updatedAt.Time,
		Initialized: true,
	}, nil
}

// Get retrieves the current global rate. Row absence means the ledger was
// never initialized; it reads as an uninitialized zero rate.
func (r *RateRepository) Get(ctx context.Context) (*domain.RateState, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT rate, updated_at FROM rate_state WHERE id = 1`)

	state, err := scanRateState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.RateState{Rate: decimal.Zero}, nil
		}

		return nil, err
	}

	return state, nil
}

// GetForUpdate locks the rate row for the monotonicity check. On an
// uninitialized ledger there is no row to lock yet; the first Set creates it.
func (r *RateRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction) (*domain.RateState, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT rate, updated_at FROM rate_state WHERE id = 1 FOR UPDATE`)

	state, err := scanRateState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.RateState{Rate: decimal.Zero}, nil
		}

		return nil, err
	}

	return state, nil
}

// Set replaces the global rate within a transaction, creating the singleton
// row on first write.
func (r *RateRepository) Set(ctx context.Context, tx usecase.Transaction, rate decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO rate_state (id, rate, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at`,
		decimalToNumeric(rate), timeToPgTimestamptz(updatedAt))

	return err
}

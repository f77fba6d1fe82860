package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetOrCreateForUpdate locks the account row, inserting a never-funded
	// account first if the id has not been seen. Accounts are created
	// lazily and never deleted.
	GetOrCreateForUpdate(ctx context.Context, tx Transaction, id string, now time.Time) (*domain.Account, error)
	Save(ctx context.Context, tx Transaction, account *domain.Account) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// RateRepository defines data access for the global rate state.
type RateRepository interface {
	Get(ctx context.Context) (*domain.RateState, error)
	GetForUpdate(ctx context.Context, tx Transaction) (*domain.RateState, error)
	Set(ctx context.Context, tx Transaction, rate decimal.Decimal, updatedAt time.Time) error
}

// EntryRepository defines data access for journal entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	GetByRef(ctx context.Context, refID string) ([]*domain.Entry, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	TotalPrincipal(ctx context.Context) (decimal.Decimal, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the settlement time. All accrual is computed lazily from
// it; no component keeps its own timer.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations. Get returns an empty string on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key, allowing the operation to be retried.
	Delete(ctx context.Context, key string) error
}

// CustodyGateway is the external custody component holding the underlying
// asset. Collect pulls a deposit in before minting; Disburse pays out after
// a redeem debit. Both sit outside the ledger's transaction boundary.
type CustodyGateway interface {
	Collect(ctx context.Context, accountID string, amount decimal.Decimal) error
	Disburse(ctx context.Context, accountID string, amount decimal.Decimal) error
}

// Messenger delivers cross-ledger packets to a peer ledger. Delivery is
// asynchronous and owned by the relay worker, never awaited by the source
// burn.
type Messenger interface {
	Deliver(ctx context.Context, peerID string, packet *domain.Packet) error
}

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/iho/yieldledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/yieldledger/internal/adapter/repository/redis"
	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
	"github.com/iho/yieldledger/tests/testutil"
)

var (
	admin = &domain.User{
		ID:     "user-admin",
		Email:  "admin@example.com",
		Role:   domain.RoleAdmin,
		Active: true,
	}
	operator = &domain.User{
		ID:     "user-operator",
		Email:  "operator@example.com",
		Role:   domain.RoleOperator,
		Active: true,
	}
)

type custodyCall struct {
	AccountID string
	Amount    decimal.Decimal
}

// recordingGateway acknowledges custody transfers and records them.
type recordingGateway struct {
	mu          sync.Mutex
	Collects    []custodyCall
	Disburses   []custodyCall
	DisburseErr error
}

func (g *recordingGateway) Collect(ctx context.Context, accountID string, amount decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Collects = append(g.Collects, custodyCall{AccountID: accountID, Amount: amount})
	return nil
}

func (g *recordingGateway) Disburse(ctx context.Context, accountID string, amount decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.DisburseErr != nil {
		return g.DisburseErr
	}
	g.Disburses = append(g.Disburses, custodyCall{AccountID: accountID, Amount: amount})
	return nil
}

type suite struct {
	db         *testutil.TestDB
	clock      *testutil.FakeClock
	gateway    *recordingGateway
	outboxRepo usecase.OutboxRepository

	ledgerUC  *usecase.LedgerUseCase
	rateUC    *usecase.RateUseCase
	custodyUC *usecase.CustodyUseCase
	bridgeUC  *usecase.BridgeUseCase
	entryUC   *usecase.EntryUseCase
	reconUC   *usecase.ReconciliationUseCase
}

// newSuite wires the full use case stack over a real database. Redis runs
// in-process via miniredis.
func newSuite(t *testing.T) *suite {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)
	db.TruncateAll(ctx)

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := db.Pool
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	rateRepo := postgresRepo.NewRateRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	rateCache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	clock := testutil.NewFakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	gateway := &recordingGateway{}

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, rateRepo, entryRepo, transferRepo, outboxRepo, idGen, clock)

	return &suite{
		db:         db,
		clock:      clock,
		gateway:    gateway,
		outboxRepo: outboxRepo,
		ledgerUC:   ledgerUC,
		rateUC:     usecase.NewRateUseCase(txManager, rateRepo, outboxRepo, rateCache, idGen, clock),
		custodyUC:  usecase.NewCustodyUseCase(ledgerUC, txManager, accountRepo, outboxRepo, gateway, idGen, clock),
		bridgeUC:   usecase.NewBridgeUseCase(ledgerUC, txManager, accountRepo, outboxRepo, idempotencyStore, idGen, clock, []string{"ledger-b"}),
		entryUC:    usecase.NewEntryUseCase(entryRepo),
		reconUC:    usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerRepo),
	}
}

// setRate establishes or lowers the global rate as the admin. Fails the
// test on error.
func (s *suite) setRate(ctx context.Context, t *testing.T, rate decimal.Decimal) {
	t.Helper()

	if _, err := s.rateUC.SetGlobalRate(ctx, usecase.SetRateInput{Actor: admin, Rate: rate}); err != nil {
		t.Fatalf("failed to set rate: %v", err)
	}
}

// deposit funds an account through the custody flow.
func (s *suite) deposit(ctx context.Context, t *testing.T, accountID string, amount int64) *domain.Account {
	t.Helper()

	acc, err := s.custodyUC.Deposit(ctx, usecase.DepositInput{
		Actor:     operator,
		AccountID: accountID,
		Amount:    decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("failed to deposit into %s: %v", accountID, err)
	}
	return acc
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/yieldledger/internal/adapter/http/middleware"
	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
	"github.com/iho/yieldledger/internal/usecase/mocks"
)

var (
	testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	operator = &domain.User{ID: "op-1", Email: "op@example.com", Role: domain.RoleOperator, Active: true}
	viewer   = &domain.User{ID: "view-1", Email: "view@example.com", Role: domain.RoleViewer, Active: true}
)

// handlerFixture wires real use cases over in-memory mocks so the handlers
// are tested against full operation semantics.
type handlerFixture struct {
	accountRepo *mocks.MockAccountRepository
	rateRepo    *mocks.MockRateRepository
	entryRepo   *mocks.MockEntryRepository
	clock       *mocks.MockClock
	ledgerUC    *usecase.LedgerUseCase
	bridgeUC    *usecase.BridgeUseCase
}

func newHandlerFixture(peers ...string) *handlerFixture {
	accountRepo := mocks.NewMockAccountRepository()
	rateRepo := mocks.NewMockRateRepository()
	entryRepo := mocks.NewMockEntryRepository()
	transferRepo := mocks.NewMockTransferRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	clock := mocks.NewMockClock(testStart)

	ledgerUC := usecase.NewLedgerUseCase(
		txManager, accountRepo, rateRepo, entryRepo, transferRepo, outboxRepo, idGen, clock,
	)

	bridgeUC := usecase.NewBridgeUseCase(
		ledgerUC, txManager, accountRepo, outboxRepo,
		mocks.NewMockIdempotencyStore(), idGen, clock, peers,
	)

	return &handlerFixture{
		accountRepo: accountRepo,
		rateRepo:    rateRepo,
		entryRepo:   entryRepo,
		clock:       clock,
		ledgerUC:    ledgerUC,
		bridgeUC:    bridgeUC,
	}
}

// doRequest routes the request through a chi mux with the actor injected,
// mirroring what the auth middleware does in production.
func doRequest(mux *chi.Mux, req *http.Request, actor *domain.User) *httptest.ResponseRecorder {
	if actor != nil {
		ctx := context.WithValue(req.Context(), middleware.UserContextKey, actor)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

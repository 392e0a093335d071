package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	adaptershttp "github.com/iho/rentledger/internal/adapter/http"
	"github.com/iho/rentledger/internal/adapter/http/handler"
	"github.com/iho/rentledger/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/rentledger/internal/adapter/repository/redis"
	"github.com/iho/rentledger/internal/usecase"
	"github.com/iho/rentledger/tests/testutil"
)

// env bundles a fully wired API server over a real database. Redis is
// stood in by miniredis so only postgres is required to run the suite.
type env struct {
	DB     *testutil.TestDB
	Router http.Handler

	OutboxRepo *postgres.OutboxRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(context.Background())

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	depositRepo := postgres.NewDepositRepository(pool)
	inspectionRepo := postgres.NewInspectionRepository(pool)
	deductionRepo := postgres.NewDeductionRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	tenancyRepo := postgres.NewTenancyRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	directory := usecase.NewCachedTenantDirectory(tenancyRepo, redisrepo.NewCache(redisClient))

	depositUC := usecase.NewDepositUseCase(txManager, depositRepo, inspectionRepo, directory, outboxRepo, auditRepo, idGen, nil)
	inspectionUC := usecase.NewInspectionUseCase(txManager, depositRepo, inspectionRepo, idGen, nil)
	deductionUC := usecase.NewDeductionUseCase(txManager, inspectionRepo, deductionRepo, auditRepo, idGen, nil)
	disputeUC := usecase.NewDisputeUseCase(txManager, inspectionRepo, deductionRepo, outboxRepo, auditRepo, idGen, nil)
	settlementUC := usecase.NewSettlementUseCase(txManager, depositRepo, inspectionRepo, deductionRepo, outboxRepo, auditRepo, idGen, retrier, nil)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		DepositHandler:    handler.NewDepositHandler(depositUC),
		InspectionHandler: handler.NewInspectionHandler(inspectionUC),
		DeductionHandler:  handler.NewDeductionHandler(deductionUC, disputeUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		LedgerHandler:     handler.NewLedgerHandler(reconciliationUC, auditRepo),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  redisrepo.NewIdempotencyStore(redisClient),
	})

	return &env{DB: testDB, Router: router, OutboxRepo: outboxRepo}
}

// do sends a JSON request through the router and returns the recorder.
func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, r)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

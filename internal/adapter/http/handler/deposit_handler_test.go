package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

type depositServiceStub struct {
	createFn        func(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error)
	getByTenantFn   func(ctx context.Context, tenantID string) (*domain.DepositBalance, error)
	getByPropertyFn func(ctx context.Context, propertyID string) (*domain.DepositBalance, error)
	listFn          func(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error)
	deleteFn        func(ctx context.Context, depositID, actorID string) error
}

func (s *depositServiceStub) CreateDeposit(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error) {
	return s.createFn(ctx, input)
}

func (s *depositServiceStub) GetByTenant(ctx context.Context, tenantID string) (*domain.DepositBalance, error) {
	return s.getByTenantFn(ctx, tenantID)
}

func (s *depositServiceStub) GetByProperty(ctx context.Context, propertyID string) (*domain.DepositBalance, error) {
	return s.getByPropertyFn(ctx, propertyID)
}

func (s *depositServiceStub) ListDeposits(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *depositServiceStub) DeleteDeposit(ctx context.Context, depositID, actorID string) error {
	return s.deleteFn(ctx, depositID, actorID)
}

func newDepositStub() *depositServiceStub {
	return &depositServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error) {
			return &domain.DepositBalance{ID: "dep-1"}, nil
		},
		getByTenantFn: func(ctx context.Context, tenantID string) (*domain.DepositBalance, error) {
			return &domain.DepositBalance{ID: "dep-1", TenantID: tenantID}, nil
		},
		getByPropertyFn: func(ctx context.Context, propertyID string) (*domain.DepositBalance, error) {
			return &domain.DepositBalance{ID: "dep-1", PropertyID: propertyID}, nil
		},
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error) {
			return []*domain.DepositBalance{}, nil
		},
		deleteFn: func(ctx context.Context, depositID, actorID string) error { return nil },
	}
}

func TestDepositHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateDepositInput
	stub := newDepositStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error) {
		captured = input
		return &domain.DepositBalance{
			ID:            "dep-1",
			TenantID:      input.TenantID,
			PropertyID:    input.PropertyID,
			DepositAmount: input.DepositAmount,
			Status:        domain.DepositStatusHeld,
		}, nil
	}

	handler := NewDepositHandler(stub)

	body, _ := json.Marshal(dto.CreateDepositRequest{
		TenantID:      "tenant-1",
		PropertyID:    "prop-1",
		ActorID:       "owner-1",
		DepositAmount: "1500.00",
	})

	req := httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if captured.TenantID != "tenant-1" || captured.ActorID != "owner-1" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if !captured.DepositAmount.Equal(decimal.RequireFromString("1500.00")) {
		t.Fatalf("expected amount 1500.00, got %s", captured.DepositAmount)
	}

	var resp dto.DepositResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "dep-1" || resp.Status != string(domain.DepositStatusHeld) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestDepositHandler_Create_InvalidBody(t *testing.T) {
	stub := newDepositStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error) {
		t.Fatal("CreateDeposit should not be called")
		return nil, nil
	}
	handler := NewDepositHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDepositHandler_Create_InvalidAmount(t *testing.T) {
	stub := newDepositStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error) {
		t.Fatal("CreateDeposit should not be called on invalid amount")
		return nil, nil
	}
	handler := NewDepositHandler(stub)

	body, _ := json.Marshal(dto.CreateDepositRequest{TenantID: "t", PropertyID: "p", DepositAmount: "abc"})
	req := httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDepositHandler_Create_CapExceeded(t *testing.T) {
	stub := newDepositStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error) {
		return nil, domain.ErrExceedsLegalCap
	}
	handler := NewDepositHandler(stub)

	body, _ := json.Marshal(dto.CreateDepositRequest{TenantID: "t", PropertyID: "p", DepositAmount: "99999"})
	req := httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cap violation, got %d", rec.Code)
	}
}

func TestDepositHandler_Create_Conflict(t *testing.T) {
	stub := newDepositStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error) {
		return nil, domain.ErrDepositExists
	}
	handler := NewDepositHandler(stub)

	body, _ := json.Marshal(dto.CreateDepositRequest{TenantID: "t", PropertyID: "p", DepositAmount: "100"})
	req := httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDepositHandler_GetByTenant(t *testing.T) {
	handler := NewDepositHandler(newDepositStub())

	req := httptest.NewRequest(http.MethodGet, "/deposits/tenant/tenant-1", nil)
	req = setChiURLParam(req, "tenantID", "tenant-1")
	rec := httptest.NewRecorder()

	handler.GetByTenant(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDepositHandler_GetByTenant_NotFound(t *testing.T) {
	stub := newDepositStub()
	stub.getByTenantFn = func(ctx context.Context, tenantID string) (*domain.DepositBalance, error) {
		return nil, domain.ErrDepositNotFound
	}
	handler := NewDepositHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/deposits/tenant/nobody", nil)
	req = setChiURLParam(req, "tenantID", "nobody")
	rec := httptest.NewRecorder()

	handler.GetByTenant(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDepositHandler_Delete_RefundInProgress(t *testing.T) {
	stub := newDepositStub()
	stub.deleteFn = func(ctx context.Context, depositID, actorID string) error {
		return domain.ErrRefundInProgress
	}
	handler := NewDepositHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/deposits/dep-1?actor_id=owner-1", nil)
	req = setChiURLParam(req, "id", "dep-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDepositHandler_Delete_Success(t *testing.T) {
	var gotActor string
	stub := newDepositStub()
	stub.deleteFn = func(ctx context.Context, depositID, actorID string) error {
		gotActor = actorID
		return nil
	}
	handler := NewDepositHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/deposits/dep-1?actor_id=owner-1", nil)
	req = setChiURLParam(req, "id", "dep-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotActor != "owner-1" {
		t.Fatalf("expected actor owner-1, got %s", gotActor)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

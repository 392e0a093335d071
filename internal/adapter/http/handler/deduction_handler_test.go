package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

type deductionServiceStub struct {
	addFn    func(ctx context.Context, input usecase.AddDeductionInput) (*domain.DeductionItem, error)
	removeFn func(ctx context.Context, deductionID, actorID string) error
	listFn   func(ctx context.Context, inspectionID string) ([]*domain.DeductionItem, error)
}

func (s *deductionServiceStub) AddDeduction(ctx context.Context, input usecase.AddDeductionInput) (*domain.DeductionItem, error) {
	return s.addFn(ctx, input)
}

func (s *deductionServiceStub) RemoveDeduction(ctx context.Context, deductionID, actorID string) error {
	return s.removeFn(ctx, deductionID, actorID)
}

func (s *deductionServiceStub) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.DeductionItem, error) {
	return s.listFn(ctx, inspectionID)
}

type disputeServiceStub struct {
	disputeFn func(ctx context.Context, deductionID, actorID, reason string) error
}

func (s *disputeServiceStub) DisputeDeduction(ctx context.Context, deductionID, actorID, reason string) error {
	return s.disputeFn(ctx, deductionID, actorID, reason)
}

func TestDeductionHandler_Add_Success(t *testing.T) {
	var captured usecase.AddDeductionInput
	handler := NewDeductionHandler(&deductionServiceStub{
		addFn: func(ctx context.Context, input usecase.AddDeductionInput) (*domain.DeductionItem, error) {
			captured = input
			return &domain.DeductionItem{ID: "ded-1", InspectionID: input.InspectionID, Cost: input.Cost}, nil
		},
	}, &disputeServiceStub{})

	body, _ := json.Marshal(dto.AddDeductionRequest{
		ActorID:     "owner-1",
		Description: "broken window",
		Cost:        "150.00",
		Category:    "damage",
	})
	req := httptest.NewRequest(http.MethodPost, "/inspections/insp-1/deductions", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "insp-1")
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.InspectionID != "insp-1" || captured.Description != "broken window" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
}

func TestDeductionHandler_Add_InspectionFinalized(t *testing.T) {
	handler := NewDeductionHandler(&deductionServiceStub{
		addFn: func(ctx context.Context, input usecase.AddDeductionInput) (*domain.DeductionItem, error) {
			return nil, domain.ErrInspectionFinalized
		},
	}, &disputeServiceStub{})

	body, _ := json.Marshal(dto.AddDeductionRequest{Description: "late fee", Cost: "10"})
	req := httptest.NewRequest(http.MethodPost, "/inspections/insp-1/deductions", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "insp-1")
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestDeductionHandler_Dispute_Success(t *testing.T) {
	var gotReason string
	handler := NewDeductionHandler(&deductionServiceStub{}, &disputeServiceStub{
		disputeFn: func(ctx context.Context, deductionID, actorID, reason string) error {
			gotReason = reason
			return nil
		},
	})

	body, _ := json.Marshal(dto.DisputeDeductionRequest{
		ActorID: "tenant-1",
		Reason:  "the carpet was already stained before move-in",
	})
	req := httptest.NewRequest(http.MethodPost, "/deductions/ded-1/dispute", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "ded-1")
	rec := httptest.NewRecorder()

	handler.Dispute(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotReason == "" {
		t.Fatalf("expected reason to propagate")
	}
}

func TestDeductionHandler_Dispute_ReasonTooShort(t *testing.T) {
	handler := NewDeductionHandler(&deductionServiceStub{}, &disputeServiceStub{
		disputeFn: func(ctx context.Context, deductionID, actorID, reason string) error {
			return domain.ErrReasonTooShort
		},
	})

	body, _ := json.Marshal(dto.DisputeDeductionRequest{ActorID: "tenant-1", Reason: "unfair"})
	req := httptest.NewRequest(http.MethodPost, "/deductions/ded-1/dispute", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "ded-1")
	rec := httptest.NewRecorder()

	handler.Dispute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeductionHandler_Dispute_Twice(t *testing.T) {
	handler := NewDeductionHandler(&deductionServiceStub{}, &disputeServiceStub{
		disputeFn: func(ctx context.Context, deductionID, actorID, reason string) error {
			return domain.ErrAlreadyDisputed
		},
	})

	body, _ := json.Marshal(dto.DisputeDeductionRequest{
		ActorID: "tenant-1",
		Reason:  "this charge was never discussed during the walkthrough",
	})
	req := httptest.NewRequest(http.MethodPost, "/deductions/ded-1/dispute", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "ded-1")
	rec := httptest.NewRecorder()

	handler.Dispute(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

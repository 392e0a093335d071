package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// DeductionService defines the behavior needed by DeductionHandler.
type DeductionService interface {
	AddDeduction(ctx context.Context, input usecase.AddDeductionInput) (*domain.DeductionItem, error)
	RemoveDeduction(ctx context.Context, deductionID, actorID string) error
	ListByInspection(ctx context.Context, inspectionID string) ([]*domain.DeductionItem, error)
}

// DisputeService defines the behavior needed for raising disputes.
type DisputeService interface {
	DisputeDeduction(ctx context.Context, deductionID, actorID, reason string) error
}

// DeductionHandler handles deduction-related HTTP requests.
type DeductionHandler struct {
	deductionUC DeductionService
	disputeUC   DisputeService
}

// NewDeductionHandler creates a new DeductionHandler.
func NewDeductionHandler(deductionUC DeductionService, disputeUC DisputeService) *DeductionHandler {
	return &DeductionHandler{deductionUC: deductionUC, disputeUC: disputeUC}
}

// Add itemizes a new charge against an inspection.
func (h *DeductionHandler) Add(w http.ResponseWriter, r *http.Request) {
	inspectionID := chi.URLParam(r, "id")

	var req dto.AddDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(inspectionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cost", err.Error())
		return
	}

	deduction, err := h.deductionUC.AddDeduction(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add deduction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DeductionFromDomain(deduction))
}

// ListByInspection returns the deduction items of one inspection.
func (h *DeductionHandler) ListByInspection(w http.ResponseWriter, r *http.Request) {
	inspectionID := chi.URLParam(r, "id")

	deductions, err := h.deductionUC.ListByInspection(r.Context(), inspectionID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list deductions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDeductionsResponse{
		Deductions: dto.DeductionsFromDomain(deductions),
		Total:      int64(len(deductions)),
	})
}

// Remove deletes a deduction while its inspection is still in progress.
func (h *DeductionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actorID := r.URL.Query().Get("actor_id")

	if err := h.deductionUC.RemoveDeduction(r.Context(), id, actorID); err != nil {
		writeError(w, mapDomainError(err), "failed to remove deduction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Dispute flags a deduction as disputed by the tenant.
func (h *DeductionHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.DisputeDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.disputeUC.DisputeDeduction(r.Context(), id, req.ActorID, req.Reason); err != nil {
		writeError(w, mapDomainError(err), "failed to dispute deduction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/rentledger/internal/adapter/http/dto"
	"github.com/iho/rentledger/internal/domain"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	FinalizeInspection(ctx context.Context, inspectionID, actorID string) (*domain.MoveOutInspection, error)
	ProcessRefund(ctx context.Context, tenantID, propertyID, actorID string) (*domain.DepositBalance, error)
}

// SettlementHandler handles inspection completion and refund processing.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Complete finalizes an inspection and freezes its totals. Repeating the
// call returns the already-completed record with 200 instead of 201.
func (h *SettlementHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CompleteInspectionRequest
	if r.Body != nil {
		// body is optional; an empty one means an anonymous actor
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	inspection, err := h.settlementUC.FinalizeInspection(r.Context(), id, req.ActorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to complete inspection", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InspectionFromDomain(inspection))
}

// Refund moves a deposit to its terminal refund status.
func (h *SettlementHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deposit, err := h.settlementUC.ProcessRefund(r.Context(), req.TenantID, req.PropertyID, req.ActorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to process refund", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

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

// DepositService defines the behavior needed by DepositHandler.
type DepositService interface {
	CreateDeposit(ctx context.Context, input usecase.CreateDepositInput) (*domain.DepositBalance, error)
	GetByTenant(ctx context.Context, tenantID string) (*domain.DepositBalance, error)
	GetByProperty(ctx context.Context, propertyID string) (*domain.DepositBalance, error)
	ListDeposits(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error)
	DeleteDeposit(ctx context.Context, depositID, actorID string) error
}

// DepositHandler handles deposit-related HTTP requests.
type DepositHandler struct {
	depositUC DepositService
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositUC DepositService) *DepositHandler {
	return &DepositHandler{depositUC: depositUC}
}

// Create opens a new deposit escrow record.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deposit amount", err.Error())
		return
	}

	deposit, err := h.depositUC.CreateDeposit(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DepositFromDomain(deposit))
}

// GetByTenant retrieves the active deposit for a tenant.
func (h *DepositHandler) GetByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "missing tenant ID", "")
		return
	}

	deposit, err := h.depositUC.GetByTenant(r.Context(), tenantID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// GetByProperty retrieves the deposit held against a property.
func (h *DepositHandler) GetByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		writeError(w, http.StatusBadRequest, "missing property ID", "")
		return
	}

	deposit, err := h.depositUC.GetByProperty(r.Context(), propertyID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// List lists deposits with pagination.
func (h *DepositHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	deposits, err := h.depositUC.ListDeposits(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list deposits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDepositsResponse{
		Deposits: dto.DepositsFromDomain(deposits),
		Total:    int64(len(deposits)),
	})
}

// Delete removes a deposit that never reached settlement.
func (h *DepositHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deposit ID", "")
		return
	}
	actorID := r.URL.Query().Get("actor_id")

	if err := h.depositUC.DeleteDeposit(r.Context(), id, actorID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete deposit", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

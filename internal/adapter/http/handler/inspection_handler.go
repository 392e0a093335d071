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

// InspectionService defines the behavior needed by InspectionHandler.
type InspectionService interface {
	StartInspection(ctx context.Context, input usecase.StartInspectionInput) (*domain.MoveOutInspection, error)
	GetInspection(ctx context.Context, id string) (*domain.MoveOutInspection, error)
	UpdateChecklistItem(ctx context.Context, inspectionID, item string, condition domain.Condition) error
	UpdateNotes(ctx context.Context, inspectionID, notes string) error
	AddPhotos(ctx context.Context, inspectionID string, photos []string) error
}

// InspectionHandler handles inspection-related HTTP requests.
type InspectionHandler struct {
	inspectionUC InspectionService
}

// NewInspectionHandler creates a new InspectionHandler.
func NewInspectionHandler(inspectionUC InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionUC: inspectionUC}
}

// Start begins a move-out inspection for a tenancy.
func (h *InspectionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	inspection, err := h.inspectionUC.StartInspection(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to start inspection", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.InspectionFromDomain(inspection))
}

// Get retrieves an inspection by ID.
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing inspection ID", "")
		return
	}

	inspection, err := h.inspectionUC.GetInspection(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get inspection", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InspectionFromDomain(inspection))
}

// UpdateChecklist sets the condition rating for one inspection area.
func (h *InspectionHandler) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateChecklistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	err := h.inspectionUC.UpdateChecklistItem(r.Context(), id, req.Item, domain.Condition(req.Condition))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update checklist", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateNotes replaces the inspection notes.
func (h *InspectionHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.inspectionUC.UpdateNotes(r.Context(), id, req.Notes); err != nil {
		writeError(w, mapDomainError(err), "failed to update notes", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPhotos appends photo references to the inspection.
func (h *InspectionHandler) AddPhotos(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AddPhotosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.inspectionUC.AddPhotos(r.Context(), id, req.Photos); err != nil {
		writeError(w, mapDomainError(err), "failed to add photos", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// CreateDepositRequest represents a request to open a deposit escrow record.
type CreateDepositRequest struct {
	TenantID      string `json:"tenant_id"`
	PropertyID    string `json:"property_id"`
	ActorID       string `json:"actor_id"`
	DepositAmount string `json:"deposit_amount"`
	Notes         string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input. The amount arrives as a string
// so the caller's decimal survives the wire untouched.
func (r *CreateDepositRequest) ToUseCaseInput() (usecase.CreateDepositInput, error) {
	amount, err := decimal.NewFromString(r.DepositAmount)
	if err != nil {
		return usecase.CreateDepositInput{}, err
	}

	return usecase.CreateDepositInput{
		TenantID:      r.TenantID,
		PropertyID:    r.PropertyID,
		ActorID:       r.ActorID,
		DepositAmount: amount,
		Notes:         r.Notes,
	}, nil
}

// StartInspectionRequest represents a request to begin a move-out inspection.
type StartInspectionRequest struct {
	TenantID       string            `json:"tenant_id"`
	PropertyID     string            `json:"property_id"`
	InspectorID    string            `json:"inspector_id"`
	InspectionDate *time.Time        `json:"inspection_date,omitempty"`
	Checklist      map[string]string `json:"checklist,omitempty"`
	Photos         []string          `json:"photos,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *StartInspectionRequest) ToUseCaseInput() usecase.StartInspectionInput {
	var checklist map[string]domain.Condition
	if r.Checklist != nil {
		checklist = make(map[string]domain.Condition, len(r.Checklist))
		for item, condition := range r.Checklist {
			checklist[item] = domain.Condition(condition)
		}
	}

	input := usecase.StartInspectionInput{
		TenantID:    r.TenantID,
		PropertyID:  r.PropertyID,
		InspectorID: r.InspectorID,
		Checklist:   checklist,
		Photos:      r.Photos,
		Notes:       r.Notes,
	}
	if r.InspectionDate != nil {
		input.InspectionDate = *r.InspectionDate
	}

	return input
}

// UpdateChecklistItemRequest sets the condition rating for one area.
type UpdateChecklistItemRequest struct {
	Item      string `json:"item"`
	Condition string `json:"condition"`
}

// UpdateNotesRequest replaces the inspection notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// AddPhotosRequest appends photo references to the inspection.
type AddPhotosRequest struct {
	Photos []string `json:"photos"`
}

// CompleteInspectionRequest finalizes an inspection.
type CompleteInspectionRequest struct {
	ActorID string `json:"actor_id"`
}

// AddDeductionRequest represents an itemized charge against the deposit.
type AddDeductionRequest struct {
	ActorID     string   `json:"actor_id"`
	Description string   `json:"description"`
	Cost        string   `json:"cost"`
	Category    string   `json:"category,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	ProofPhotos []string `json:"proof_photos,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddDeductionRequest) ToUseCaseInput(inspectionID string) (usecase.AddDeductionInput, error) {
	cost, err := decimal.NewFromString(r.Cost)
	if err != nil {
		return usecase.AddDeductionInput{}, err
	}

	return usecase.AddDeductionInput{
		InspectionID: inspectionID,
		ActorID:      r.ActorID,
		Description:  r.Description,
		Cost:         cost,
		Category:     r.Category,
		Notes:        r.Notes,
		ProofPhotos:  r.ProofPhotos,
	}, nil
}

// DisputeDeductionRequest records a tenant's objection to a deduction.
type DisputeDeductionRequest struct {
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

// ProcessRefundRequest settles the deposit for a tenancy.
type ProcessRefundRequest struct {
	TenantID   string `json:"tenant_id"`
	PropertyID string `json:"property_id"`
	ActorID    string `json:"actor_id"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
)

// DepositResponse represents a deposit balance in API responses.
type DepositResponse struct {
	ID               string          `json:"id"`
	TenantID         string          `json:"tenant_id"`
	PropertyID       string          `json:"property_id"`
	DepositAmount    decimal.Decimal `json:"deposit_amount"`
	Deductions       decimal.Decimal `json:"deductions"`
	RefundableAmount decimal.Decimal `json:"refundable_amount"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DepositFromDomain converts a domain deposit to a response.
func DepositFromDomain(d *domain.DepositBalance) *DepositResponse {
	return &DepositResponse{
		ID:               d.ID,
		TenantID:         d.TenantID,
		PropertyID:       d.PropertyID,
		DepositAmount:    d.DepositAmount,
		Deductions:       d.Deductions,
		RefundableAmount: d.RefundableAmount,
		Status:           string(d.Status),
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// DepositsFromDomain converts domain deposits to responses.
func DepositsFromDomain(deposits []*domain.DepositBalance) []*DepositResponse {
	result := make([]*DepositResponse, len(deposits))
	for i, d := range deposits {
		result[i] = DepositFromDomain(d)
	}
	return result
}

// ListDepositsResponse wraps a page of deposits.
type ListDepositsResponse struct {
	Deposits []*DepositResponse `json:"deposits"`
	Total    int64              `json:"total"`
}

// InspectionResponse represents a move-out inspection in API responses.
type InspectionResponse struct {
	ID               string            `json:"id"`
	DepositID        string            `json:"deposit_id"`
	TenantID         string            `json:"tenant_id"`
	PropertyID       string            `json:"property_id"`
	InspectorID      string            `json:"inspector_id"`
	InspectionDate   time.Time         `json:"inspection_date"`
	Checklist        map[string]string `json:"checklist"`
	Notes            string            `json:"notes,omitempty"`
	Photos           []string          `json:"photos,omitempty"`
	Status           string            `json:"status"`
	TotalDeductions  decimal.Decimal   `json:"total_deductions"`
	RefundableAmount decimal.Decimal   `json:"refundable_amount"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// InspectionFromDomain converts a domain inspection to a response.
func InspectionFromDomain(i *domain.MoveOutInspection) *InspectionResponse {
	checklist := make(map[string]string, len(i.Checklist))
	for item, condition := range i.Checklist {
		checklist[item] = string(condition)
	}

	return &InspectionResponse{
		ID:               i.ID,
		DepositID:        i.DepositID,
		TenantID:         i.TenantID,
		PropertyID:       i.PropertyID,
		InspectorID:      i.InspectorID,
		InspectionDate:   i.InspectionDate,
		Checklist:        checklist,
		Notes:            i.Notes,
		Photos:           i.Photos,
		Status:           string(i.Status),
		TotalDeductions:  i.TotalDeductions,
		RefundableAmount: i.RefundableAmount,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

// DeductionResponse represents a deduction item in API responses.
type DeductionResponse struct {
	ID            string          `json:"id"`
	InspectionID  string          `json:"inspection_id"`
	Description   string          `json:"description"`
	Cost          decimal.Decimal `json:"cost"`
	Category      string          `json:"category,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ProofPhotos   []string        `json:"proof_photos,omitempty"`
	Disputed      bool            `json:"disputed"`
	DisputeReason *string         `json:"dispute_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DeductionFromDomain converts a domain deduction to a response.
func DeductionFromDomain(d *domain.DeductionItem) *DeductionResponse {
	return &DeductionResponse{
		ID:            d.ID,
		InspectionID:  d.InspectionID,
		Description:   d.Description,
		Cost:          d.Cost,
		Category:      d.Category,
		Notes:         d.Notes,
		ProofPhotos:   d.ProofPhotos,
		Disputed:      d.Disputed,
		DisputeReason: d.DisputeReason,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// DeductionsFromDomain converts domain deductions to responses.
func DeductionsFromDomain(deductions []*domain.DeductionItem) []*DeductionResponse {
	result := make([]*DeductionResponse, len(deductions))
	for i, d := range deductions {
		result[i] = DeductionFromDomain(d)
	}
	return result
}

// ListDeductionsResponse wraps an inspection's deduction items.
type ListDeductionsResponse struct {
	Deductions []*DeductionResponse `json:"deductions"`
	Total      int64                `json:"total"`
}

// AuditLogResponse represents an audit trail entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	ActorID      string         `json:"actor_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit entries to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			ActorID:      l.ActorID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

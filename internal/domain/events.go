package domain

import "time"

// Event types
const (
	EventTypeDepositCreated      = "deposit.created"
	EventTypeDepositRefunded     = "deposit.refunded"
	EventTypeInspectionCompleted = "inspection.completed"
	EventTypeDeductionDisputed   = "deduction.disputed"
)

// Aggregate types
const (
	AggregateTypeDeposit    = "deposit"
	AggregateTypeInspection = "inspection"
	AggregateTypeDeduction  = "deduction"
)

// OutboxEvent represents a notification to be delivered best-effort.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// DepositCreatedEvent payload
type DepositCreatedEvent struct {
	DepositID     string `json:"deposit_id"`
	TenantID      string `json:"tenant_id"`
	PropertyID    string `json:"property_id"`
	DepositAmount string `json:"deposit_amount"`
}

// DepositRefundedEvent payload
type DepositRefundedEvent struct {
	DepositID        string `json:"deposit_id"`
	TenantID         string `json:"tenant_id"`
	PropertyID       string `json:"property_id"`
	RefundableAmount string `json:"refundable_amount"`
	Status           string `json:"status"`
}

// InspectionCompletedEvent payload
type InspectionCompletedEvent struct {
	InspectionID     string `json:"inspection_id"`
	DepositID        string `json:"deposit_id"`
	TenantID         string `json:"tenant_id"`
	TotalDeductions  string `json:"total_deductions"`
	RefundableAmount string `json:"refundable_amount"`
}

// DeductionDisputedEvent payload
type DeductionDisputedEvent struct {
	DeductionID  string `json:"deduction_id"`
	InspectionID string `json:"inspection_id"`
	Reason       string `json:"reason"`
}

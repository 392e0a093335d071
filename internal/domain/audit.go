package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for money-touching operations
type AuditLog struct {
	ID           string
	ActorID      string // Who performed the action
	Action       string // What action (deposit.create, refund.process, etc.)
	ResourceType string // Type of resource (deposit, inspection, deduction)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	AfterState   JSON   // State after the action
	Status       string // success, failure
	ErrorMessage string // If status=failure, the rejection reason
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionDepositCreate AuditAction = "deposit.create"
	AuditActionDepositDelete AuditAction = "deposit.delete"

	AuditActionInspectionStart    AuditAction = "inspection.start"
	AuditActionInspectionComplete AuditAction = "inspection.complete"

	AuditActionDeductionAdd     AuditAction = "deduction.add"
	AuditActionDeductionRemove  AuditAction = "deduction.remove"
	AuditActionDeductionDispute AuditAction = "deduction.dispute"

	AuditActionRefundProcess AuditAction = "refund.process"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

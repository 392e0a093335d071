package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrExceedsLegalCap  = errors.New("deposit exceeds legal cap")
	ErrEmptyDescription = errors.New("deduction description cannot be empty")
	ErrReasonTooShort   = errors.New("dispute reason too short")
	ErrInvalidCondition = errors.New("invalid checklist condition")
	ErrMissingTenancy   = errors.New("tenant and property identifiers are required")

	// Conflict errors
	ErrDepositExists    = errors.New("deposit already exists for tenancy")
	ErrInspectionExists = errors.New("inspection already exists for deposit")
	ErrAlreadyDisputed  = errors.New("deduction already disputed")
	ErrAlreadyRefunded  = errors.New("deposit already refunded")
	ErrRefundInProgress = errors.New("refund in progress or completed")

	// State errors
	ErrInspectionFinalized    = errors.New("inspection is finalized")
	ErrInspectionNotCompleted = errors.New("inspection is not completed")
	ErrInvalidTransition      = errors.New("invalid deposit status transition")

	// Not-found errors
	ErrDepositNotFound    = errors.New("deposit not found")
	ErrInspectionNotFound = errors.New("inspection not found")
	ErrDeductionNotFound  = errors.New("deduction not found")
	ErrTenancyNotFound    = errors.New("tenancy not found")
)

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrExceedsLegalCap) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrReasonTooShort) ||
		errors.Is(err, ErrInvalidCondition) ||
		errors.Is(err, ErrMissingTenancy)
}

// IsConflict reports whether err means the write lost to an earlier one.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDepositExists) ||
		errors.Is(err, ErrInspectionExists) ||
		errors.Is(err, ErrAlreadyDisputed) ||
		errors.Is(err, ErrAlreadyRefunded) ||
		errors.Is(err, ErrRefundInProgress)
}

// IsStateError reports whether err indicates a stale client view of an
// entity state machine.
func IsStateError(err error) bool {
	return errors.Is(err, ErrInspectionFinalized) ||
		errors.Is(err, ErrInspectionNotCompleted) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsNotFound reports whether err is an absent-entity lookup result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDepositNotFound) ||
		errors.Is(err, ErrInspectionNotFound) ||
		errors.Is(err, ErrDeductionNotFound) ||
		errors.Is(err, ErrTenancyNotFound)
}

package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MinDisputeReasonLength separates a substantive dispute from a placeholder.
const MinDisputeReasonLength = 20

// DeductionItem is one itemized charge against a deposit, scoped to an
// inspection. Rows are append-only once the inspection completes; only the
// tenant-controlled dispute pair may change after that, exactly once.
type DeductionItem struct {
	ID            string
	InspectionID  string
	Description   string
	Cost          decimal.Decimal
	Category      string
	Notes         string
	ProofPhotos   []string
	Disputed      bool
	DisputeReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the owner-supplied fields at creation time.
func (d *DeductionItem) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if d.Cost.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDisputeReason enforces the minimum substantive reason length.
func ValidateDisputeReason(reason string) error {
	if len(strings.TrimSpace(reason)) < MinDisputeReasonLength {
		return ErrReasonTooShort
	}
	return nil
}

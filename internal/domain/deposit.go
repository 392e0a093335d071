package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositStatus string

const (
	DepositStatusHeld              DepositStatus = "held"
	DepositStatusPartiallyRefunded DepositStatus = "partially_refunded"
	DepositStatusFullyRefunded     DepositStatus = "fully_refunded"
	DepositStatusForfeited         DepositStatus = "forfeited"
)

// DepositBalance is the escrow record for one tenancy's security deposit.
// Deductions and RefundableAmount are derived: they stay zero and
// DepositAmount until the linked move-out inspection completes.
type DepositBalance struct {
	ID               string
	TenantID         string
	PropertyID       string
	DepositAmount    decimal.Decimal
	Deductions       decimal.Decimal
	RefundableAmount decimal.Decimal
	Status           DepositStatus
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks the fields a caller controls at creation time.
func (d *DepositBalance) Validate() error {
	if d.TenantID == "" || d.PropertyID == "" {
		return ErrMissingTenancy
	}
	if d.DepositAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// Refundable computes max(0, deposit - deductions).
func Refundable(depositAmount, deductions decimal.Decimal) decimal.Decimal {
	refundable := depositAmount.Sub(deductions)
	if refundable.IsNegative() {
		return decimal.Zero
	}
	return refundable
}

// Terminal reports whether the deposit reached a refund end state.
func (d *DepositBalance) Terminal() bool {
	switch d.Status {
	case DepositStatusPartiallyRefunded, DepositStatusFullyRefunded, DepositStatusForfeited:
		return true
	}
	return false
}

// CanTransitionTo checks the refund state machine:
// held/partially_refunded may move to any terminal refund state.
func (d *DepositBalance) CanTransitionTo(next DepositStatus) bool {
	switch next {
	case DepositStatusPartiallyRefunded, DepositStatusFullyRefunded, DepositStatusForfeited:
	default:
		return false
	}
	return d.Status == DepositStatusHeld || d.Status == DepositStatusPartiallyRefunded
}

// RefundOutcome maps the frozen refundable amount to the terminal status.
func (d *DepositBalance) RefundOutcome() DepositStatus {
	switch {
	case d.RefundableAmount.IsZero():
		return DepositStatusForfeited
	case d.RefundableAmount.Equal(d.DepositAmount):
		return DepositStatusFullyRefunded
	default:
		return DepositStatusPartiallyRefunded
	}
}

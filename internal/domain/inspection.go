package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InspectionStatus string

const (
	InspectionStatusInProgress InspectionStatus = "in_progress"
	InspectionStatusCompleted  InspectionStatus = "completed"
	InspectionStatusDisputed   InspectionStatus = "disputed"
)

// Condition is a checklist rating for one inspection area.
type Condition string

const (
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
	ConditionDamaged Condition = "damaged"
)

// ValidCondition reports whether c is one of the four checklist ratings.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}

// MoveOutInspection is the one-time condition assessment backing deductions.
// TotalDeductions and RefundableAmount are snapshots frozen at completion.
type MoveOutInspection struct {
	ID               string
	DepositID        string
	TenantID         string
	PropertyID       string
	InspectorID      string
	InspectionDate   time.Time
	Checklist        map[string]Condition
	Notes            string
	Photos           []string
	Status           InspectionStatus
	TotalDeductions  decimal.Decimal
	RefundableAmount decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks the caller-supplied fields at start time.
func (i *MoveOutInspection) Validate() error {
	if i.TenantID == "" || i.PropertyID == "" {
		return ErrMissingTenancy
	}
	for _, condition := range i.Checklist {
		if !ValidCondition(condition) {
			return ErrInvalidCondition
		}
	}
	return nil
}

// Editable reports whether checklist, notes, photos and deductions may
// still change. Completion freezes everything but the dispute flags.
func (i *MoveOutInspection) Editable() bool {
	return i.Status == InspectionStatusInProgress
}

// Finalized reports whether totals were frozen. A disputed inspection
// remains completed; the disputed status is informational only.
func (i *MoveOutInspection) Finalized() bool {
	return i.Status == InspectionStatusCompleted || i.Status == InspectionStatusDisputed
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// InspectionUseCase owns MoveOutInspection creation and the checklist
// edits allowed while the inspection is in progress. Completion is the
// settlement use case's job.
type InspectionUseCase struct {
	txManager      TransactionManager
	depositRepo    DepositRepository
	inspectionRepo InspectionRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
}

func NewInspectionUseCase(
	txManager TransactionManager,
	depositRepo DepositRepository,
	inspectionRepo InspectionRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *InspectionUseCase {
	return &InspectionUseCase{
		txManager:      txManager,
		depositRepo:    depositRepo,
		inspectionRepo: inspectionRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// StartInspectionInput carries the owner's request to begin move-out.
type StartInspectionInput struct {
	TenantID       string
	PropertyID     string
	InspectorID    string
	InspectionDate time.Time
	Checklist      map[string]domain.Condition
	Photos         []string
	Notes          string
}

func (uc *InspectionUseCase) StartInspection(ctx context.Context, input StartInspectionInput) (*domain.MoveOutInspection, error) {
	now := time.Now().UTC()
	inspectionDate := input.InspectionDate
	if inspectionDate.IsZero() {
		inspectionDate = now
	}

	checklist := input.Checklist
	if checklist == nil {
		checklist = map[string]domain.Condition{}
	}

	inspection := &domain.MoveOutInspection{
		ID:               uc.idGen.Generate(),
		TenantID:         input.TenantID,
		PropertyID:       input.PropertyID,
		InspectorID:      input.InspectorID,
		InspectionDate:   inspectionDate,
		Checklist:        checklist,
		Notes:            input.Notes,
		Photos:           input.Photos,
		Status:           domain.InspectionStatusInProgress,
		TotalDeductions:  decimal.Zero,
		RefundableAmount: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := inspection.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deposit, err := uc.depositRepo.GetByTenancyForUpdate(txCtx, tx, input.TenantID, input.PropertyID)
	if err != nil {
		return nil, err
	}
	inspection.DepositID = deposit.ID

	existing, err := uc.inspectionRepo.GetByDepositForUpdate(txCtx, tx, deposit.ID)
	if err != nil && !errors.Is(err, domain.ErrInspectionNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrInspectionExists
	}

	if err := uc.inspectionRepo.Create(txCtx, tx, inspection); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.InspectionsStarted.Inc()
	}

	return inspection, nil
}

func (uc *InspectionUseCase) GetInspection(ctx context.Context, id string) (*domain.MoveOutInspection, error) {
	return uc.inspectionRepo.GetByID(ctx, id)
}

// UpdateChecklistItem sets the condition rating for one inspection area.
func (uc *InspectionUseCase) UpdateChecklistItem(ctx context.Context, inspectionID, item string, condition domain.Condition) error {
	if item == "" {
		return domain.ErrInvalidCondition
	}
	if !domain.ValidCondition(condition) {
		return domain.ErrInvalidCondition
	}

	return uc.mutateInProgress(ctx, inspectionID, func(txCtx context.Context, tx Transaction, now time.Time) error {
		return uc.inspectionRepo.UpdateChecklistItem(txCtx, tx, inspectionID, item, condition, now)
	})
}

// UpdateNotes replaces the inspection notes.
func (uc *InspectionUseCase) UpdateNotes(ctx context.Context, inspectionID, notes string) error {
	return uc.mutateInProgress(ctx, inspectionID, func(txCtx context.Context, tx Transaction, now time.Time) error {
		return uc.inspectionRepo.UpdateNotes(txCtx, tx, inspectionID, notes, now)
	})
}

// AddPhotos appends photo references to the inspection.
func (uc *InspectionUseCase) AddPhotos(ctx context.Context, inspectionID string, photos []string) error {
	if len(photos) == 0 {
		return nil
	}
	return uc.mutateInProgress(ctx, inspectionID, func(txCtx context.Context, tx Transaction, now time.Time) error {
		return uc.inspectionRepo.AddPhotos(txCtx, tx, inspectionID, photos, now)
	})
}

// mutateInProgress runs fn inside a transaction holding the inspection row
// lock, after checking the in-progress guard.
func (uc *InspectionUseCase) mutateInProgress(ctx context.Context, inspectionID string, fn func(ctx context.Context, tx Transaction, now time.Time) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inspection, err := uc.inspectionRepo.GetByIDForUpdate(txCtx, tx, inspectionID)
	if err != nil {
		return err
	}
	if !inspection.Editable() {
		return domain.ErrInspectionFinalized
	}

	if err := fn(txCtx, tx, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

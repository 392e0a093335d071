package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// DeductionUseCase owns the append-only deduction rows of an inspection.
// Items may be added and removed only while the inspection is in progress;
// that guard is what makes the refund computation auditable.
type DeductionUseCase struct {
	txManager      TransactionManager
	inspectionRepo InspectionRepository
	deductionRepo  DeductionRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
}

func NewDeductionUseCase(
	txManager TransactionManager,
	inspectionRepo InspectionRepository,
	deductionRepo DeductionRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *DeductionUseCase {
	return &DeductionUseCase{
		txManager:      txManager,
		inspectionRepo: inspectionRepo,
		deductionRepo:  deductionRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// AddDeductionInput carries the owner's itemized charge.
type AddDeductionInput struct {
	InspectionID string
	ActorID      string
	Description  string
	Cost         decimal.Decimal
	Category     string
	Notes        string
	ProofPhotos  []string
}

func (uc *DeductionUseCase) AddDeduction(ctx context.Context, input AddDeductionInput) (*domain.DeductionItem, error) {
	now := time.Now().UTC()
	deduction := &domain.DeductionItem{
		ID:           uc.idGen.Generate(),
		InspectionID: input.InspectionID,
		Description:  input.Description,
		Cost:         input.Cost,
		Category:     input.Category,
		Notes:        input.Notes,
		ProofPhotos:  input.ProofPhotos,
		Disputed:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := deduction.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inspection, err := uc.inspectionRepo.GetByIDForUpdate(txCtx, tx, input.InspectionID)
	if err != nil {
		return nil, err
	}
	if !inspection.Editable() {
		return nil, domain.ErrInspectionFinalized
	}

	if err := uc.deductionRepo.Create(txCtx, tx, deduction); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      input.ActorID,
			Action:       string(domain.AuditActionDeductionAdd),
			ResourceType: "deduction",
			ResourceID:   deduction.ID,
			AfterState:   domain.MarshalState(deduction),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    time.Now(),
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DeductionsAdded.Inc()
	}

	return deduction, nil
}

// RemoveDeduction deletes a deduction while its inspection is in progress.
func (uc *DeductionUseCase) RemoveDeduction(ctx context.Context, deductionID, actorID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deduction, err := uc.deductionRepo.GetByIDForUpdate(txCtx, tx, deductionID)
	if err != nil {
		return err
	}

	inspection, err := uc.inspectionRepo.GetByIDForUpdate(txCtx, tx, deduction.InspectionID)
	if err != nil {
		return err
	}
	if !inspection.Editable() {
		return domain.ErrInspectionFinalized
	}

	if err := uc.deductionRepo.Delete(txCtx, tx, deductionID); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      actorID,
			Action:       string(domain.AuditActionDeductionRemove),
			ResourceType: "deduction",
			ResourceID:   deductionID,
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    time.Now(),
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.DeductionsRemoved.Inc()
	}

	return nil
}

// ListByInspection returns the deduction items of one inspection.
func (uc *DeductionUseCase) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.DeductionItem, error) {
	if _, err := uc.inspectionRepo.GetByID(ctx, inspectionID); err != nil {
		return nil, err
	}
	return uc.deductionRepo.ListByInspection(ctx, inspectionID)
}

package usecase

import (
	"context"
	"time"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// DisputeUseCase lets the tenant flag a completed deduction as disputed,
// exactly once. Raising a dispute never changes totals; resolution is an
// out-of-band administrative act.
type DisputeUseCase struct {
	txManager      TransactionManager
	inspectionRepo InspectionRepository
	deductionRepo  DeductionRepository
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
}

func NewDisputeUseCase(
	txManager TransactionManager,
	inspectionRepo InspectionRepository,
	deductionRepo DeductionRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *DisputeUseCase {
	return &DisputeUseCase{
		txManager:      txManager,
		inspectionRepo: inspectionRepo,
		deductionRepo:  deductionRepo,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// DisputeDeduction records the tenant's objection to one deduction.
// The disputed flag is written under the row lock so two concurrent
// disputes on the same item cannot both succeed.
func (uc *DisputeUseCase) DisputeDeduction(ctx context.Context, deductionID, actorID, reason string) error {
	if err := domain.ValidateDisputeReason(reason); err != nil {
		return err
	}

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
	if !inspection.Finalized() {
		return domain.ErrInspectionNotCompleted
	}

	if deduction.Disputed {
		return domain.ErrAlreadyDisputed
	}

	now := time.Now().UTC()
	if err := uc.deductionRepo.MarkDisputed(txCtx, tx, deductionID, reason, now); err != nil {
		return err
	}

	// Informational flip: a disputed inspection stays finalized.
	if inspection.Status == domain.InspectionStatusCompleted {
		if err := uc.inspectionRepo.UpdateStatus(txCtx, tx, inspection.ID, domain.InspectionStatusDisputed, now); err != nil {
			return err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   deductionID,
		AggregateType: domain.AggregateTypeDeduction,
		EventType:     domain.EventTypeDeductionDisputed,
		Payload: map[string]any{
			"deduction_id":  deductionID,
			"inspection_id": deduction.InspectionID,
			"reason":        reason,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      actorID,
			Action:       string(domain.AuditActionDeductionDispute),
			ResourceType: "deduction",
			ResourceID:   deductionID,
			AfterState:   domain.JSON{"reason": reason},
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
		uc.metrics.DisputesRaised.Inc()
	}

	return nil
}

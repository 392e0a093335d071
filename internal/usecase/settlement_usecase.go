package usecase

import (
	"context"
	"time"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// SettlementUseCase orchestrates the two cross-entity state changes:
// freezing an inspection's totals into the deposit, and moving the deposit
// to its terminal refund status. It is the sole writer of
// DepositBalance.Status and of the derived settlement amounts.
type SettlementUseCase struct {
	txManager      TransactionManager
	depositRepo    DepositRepository
	inspectionRepo InspectionRepository
	deductionRepo  DeductionRepository
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	retrier        Retrier
	metrics        *metrics.Metrics
}

func NewSettlementUseCase(
	txManager TransactionManager,
	depositRepo DepositRepository,
	inspectionRepo InspectionRepository,
	deductionRepo DeductionRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:      txManager,
		depositRepo:    depositRepo,
		inspectionRepo: inspectionRepo,
		deductionRepo:  deductionRepo,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		retrier:        retrier,
		metrics:        metrics,
	}
}

// FinalizeInspection completes an inspection: it sums the deduction items,
// freezes the totals on the inspection, and propagates them to the deposit
// in the same transaction. A second call on a completed inspection returns
// the record unchanged instead of re-summing.
func (uc *SettlementUseCase) FinalizeInspection(ctx context.Context, inspectionID, actorID string) (*domain.MoveOutInspection, error) {
	start := time.Now()

	var inspection *domain.MoveOutInspection
	operation := func() error {
		var err error
		inspection, err = uc.finalizeOnce(ctx, inspectionID, actorID)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	}

	return inspection, nil
}

func (uc *SettlementUseCase) finalizeOnce(ctx context.Context, inspectionID, actorID string) (*domain.MoveOutInspection, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	inspection, err := uc.inspectionRepo.GetByIDForUpdate(txCtx, tx, inspectionID)
	if err != nil {
		return nil, err
	}

	// Idempotent guard: the row lock serializes concurrent finalize calls,
	// and the loser observes completed state here.
	if inspection.Finalized() {
		return inspection, nil
	}

	deposit, err := uc.depositRepo.GetByIDForUpdate(txCtx, tx, inspection.DepositID)
	if err != nil {
		return nil, err
	}

	total, err := uc.deductionRepo.SumByInspection(txCtx, tx, inspectionID)
	if err != nil {
		return nil, err
	}
	refundable := domain.Refundable(deposit.DepositAmount, total)

	now := time.Now().UTC()
	if err := uc.inspectionRepo.Complete(txCtx, tx, inspectionID, total, refundable, now); err != nil {
		return nil, err
	}
	if err := uc.depositRepo.ApplySettlement(txCtx, tx, deposit.ID, total, refundable, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   inspectionID,
		AggregateType: domain.AggregateTypeInspection,
		EventType:     domain.EventTypeInspectionCompleted,
		Payload: map[string]any{
			"inspection_id":     inspectionID,
			"deposit_id":        deposit.ID,
			"tenant_id":         deposit.TenantID,
			"total_deductions":  total.String(),
			"refundable_amount": refundable.String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      actorID,
			Action:       string(domain.AuditActionInspectionComplete),
			ResourceType: "inspection",
			ResourceID:   inspectionID,
			AfterState: domain.JSON{
				"total_deductions":  total.String(),
				"refundable_amount": refundable.String(),
			},
			Status:    string(domain.AuditStatusSuccess),
			CreatedAt: time.Now(),
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	inspection.Status = domain.InspectionStatusCompleted
	inspection.TotalDeductions = total
	inspection.RefundableAmount = refundable
	inspection.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.InspectionsCompleted.Inc()
	}

	return inspection, nil
}

// ProcessRefund moves the deposit to its terminal refund status based on
// the refundable amount frozen at inspection completion. The status
// precondition under the row lock rejects the second of two concurrent
// refund requests with ErrAlreadyRefunded.
func (uc *SettlementUseCase) ProcessRefund(ctx context.Context, tenantID, propertyID, actorID string) (*domain.DepositBalance, error) {
	var deposit *domain.DepositBalance
	operation := func() error {
		var err error
		deposit, err = uc.refundOnce(ctx, tenantID, propertyID, actorID)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, err
	}

	return deposit, nil
}

func (uc *SettlementUseCase) refundOnce(ctx context.Context, tenantID, propertyID, actorID string) (*domain.DepositBalance, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deposit, err := uc.depositRepo.GetByTenancyForUpdate(txCtx, tx, tenantID, propertyID)
	if err != nil {
		return nil, err
	}

	if deposit.Terminal() {
		return nil, domain.ErrAlreadyRefunded
	}

	inspection, err := uc.inspectionRepo.GetByDepositForUpdate(txCtx, tx, deposit.ID)
	if err != nil {
		return nil, err
	}
	if !inspection.Finalized() {
		return nil, domain.ErrInspectionNotCompleted
	}

	next := deposit.RefundOutcome()
	if !deposit.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := uc.depositRepo.UpdateStatus(txCtx, tx, deposit.ID, next, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   deposit.ID,
		AggregateType: domain.AggregateTypeDeposit,
		EventType:     domain.EventTypeDepositRefunded,
		Payload: map[string]any{
			"deposit_id":        deposit.ID,
			"tenant_id":         deposit.TenantID,
			"property_id":       deposit.PropertyID,
			"refundable_amount": deposit.RefundableAmount.String(),
			"status":            string(next),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      actorID,
			Action:       string(domain.AuditActionRefundProcess),
			ResourceType: "deposit",
			ResourceID:   deposit.ID,
			AfterState: domain.JSON{
				"status":            string(next),
				"refundable_amount": deposit.RefundableAmount.String(),
			},
			Status:    string(domain.AuditStatusSuccess),
			CreatedAt: time.Now(),
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	deposit.Status = next
	deposit.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.RefundsProcessed.WithLabelValues(string(next)).Inc()
	}

	return deposit, nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
)

// DepositUseCase owns the DepositBalance record: creation after the
// legal-cap check, read lookups, and pre-refund deletion. Settlement
// mutations live in SettlementUseCase.
type DepositUseCase struct {
	txManager      TransactionManager
	depositRepo    DepositRepository
	inspectionRepo InspectionRepository
	directory      TenantDirectory
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
}

func NewDepositUseCase(
	txManager TransactionManager,
	depositRepo DepositRepository,
	inspectionRepo InspectionRepository,
	directory TenantDirectory,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *DepositUseCase {
	return &DepositUseCase{
		txManager:      txManager,
		depositRepo:    depositRepo,
		inspectionRepo: inspectionRepo,
		directory:      directory,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// CreateDepositInput carries the owner's request to open an escrow record.
type CreateDepositInput struct {
	TenantID      string
	PropertyID    string
	ActorID       string
	DepositAmount decimal.Decimal
	Notes         string
}

func (uc *DepositUseCase) CreateDeposit(ctx context.Context, input CreateDepositInput) (*domain.DepositBalance, error) {
	now := time.Now().UTC()
	deposit := &domain.DepositBalance{
		ID:               uc.idGen.Generate(),
		TenantID:         input.TenantID,
		PropertyID:       input.PropertyID,
		DepositAmount:    input.DepositAmount,
		Deductions:       decimal.Zero,
		RefundableAmount: input.DepositAmount,
		Status:           domain.DepositStatusHeld,
		Notes:            input.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := deposit.Validate(); err != nil {
		return nil, err
	}

	rent, err := uc.directory.MonthlyRent(ctx, input.TenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrTenancyNotFound) {
			return nil, err
		}
		// no rent on file, cap cannot be enforced
		rent = decimal.Zero
	}

	if err := domain.ValidateDepositAmount(input.DepositAmount, rent); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.depositRepo.Create(txCtx, tx, deposit); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   deposit.ID,
		AggregateType: domain.AggregateTypeDeposit,
		EventType:     domain.EventTypeDepositCreated,
		Payload: map[string]any{
			"deposit_id":     deposit.ID,
			"tenant_id":      deposit.TenantID,
			"property_id":    deposit.PropertyID,
			"deposit_amount": deposit.DepositAmount.String(),
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
			ActorID:      input.ActorID,
			Action:       string(domain.AuditActionDepositCreate),
			ResourceType: "deposit",
			ResourceID:   deposit.ID,
			AfterState:   domain.MarshalState(deposit),
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
		uc.metrics.DepositsCreated.Inc()
		amount, _ := deposit.DepositAmount.Float64()
		uc.metrics.DepositAmount.Observe(amount)
	}

	return deposit, nil
}

// GetByTenant returns the active deposit for a tenant.
// Absence surfaces as domain.ErrDepositNotFound; it is a normal state.
func (uc *DepositUseCase) GetByTenant(ctx context.Context, tenantID string) (*domain.DepositBalance, error) {
	return uc.depositRepo.GetByTenant(ctx, tenantID)
}

// GetByProperty returns the active deposit held against a property.
func (uc *DepositUseCase) GetByProperty(ctx context.Context, propertyID string) (*domain.DepositBalance, error) {
	return uc.depositRepo.GetByProperty(ctx, propertyID)
}

// ListDeposits lists deposits with pagination for dashboard reads.
func (uc *DepositUseCase) ListDeposits(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error) {
	return uc.depositRepo.List(ctx, limit, offset)
}

// DeleteDeposit removes a deposit that never reached settlement. Allowed
// only while the deposit is held and no completed inspection is linked;
// the delete cascades to the inspection and its deductions.
func (uc *DepositUseCase) DeleteDeposit(ctx context.Context, depositID, actorID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deposit, err := uc.depositRepo.GetByIDForUpdate(txCtx, tx, depositID)
	if err != nil {
		return err
	}

	if deposit.Status != domain.DepositStatusHeld {
		return domain.ErrRefundInProgress
	}

	inspection, err := uc.inspectionRepo.GetByDepositForUpdate(txCtx, tx, depositID)
	if err != nil && !errors.Is(err, domain.ErrInspectionNotFound) {
		return err
	}
	if inspection != nil && inspection.Finalized() {
		return domain.ErrRefundInProgress
	}

	if err := uc.depositRepo.Delete(txCtx, tx, depositID); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      actorID,
			Action:       string(domain.AuditActionDepositDelete),
			ResourceType: "deposit",
			ResourceID:   depositID,
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
		uc.metrics.DepositsDeleted.Inc()
	}

	return nil
}

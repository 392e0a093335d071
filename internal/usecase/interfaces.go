package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
)

// DepositRepository defines data access for deposit balances.
type DepositRepository interface {
	Create(ctx context.Context, tx Transaction, deposit *domain.DepositBalance) error
	GetByID(ctx context.Context, id string) (*domain.DepositBalance, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.DepositBalance, error)
	GetByTenant(ctx context.Context, tenantID string) (*domain.DepositBalance, error)
	GetByProperty(ctx context.Context, propertyID string) (*domain.DepositBalance, error)
	GetByTenancyForUpdate(ctx context.Context, tx Transaction, tenantID, propertyID string) (*domain.DepositBalance, error)
	ApplySettlement(ctx context.Context, tx Transaction, id string, deductions, refundable decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error)
}

// InspectionRepository defines data access for move-out inspections.
type InspectionRepository interface {
	Create(ctx context.Context, tx Transaction, inspection *domain.MoveOutInspection) error
	GetByID(ctx context.Context, id string) (*domain.MoveOutInspection, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.MoveOutInspection, error)
	GetByDeposit(ctx context.Context, depositID string) (*domain.MoveOutInspection, error)
	GetByDepositForUpdate(ctx context.Context, tx Transaction, depositID string) (*domain.MoveOutInspection, error)
	UpdateChecklistItem(ctx context.Context, tx Transaction, id, item string, condition domain.Condition, updatedAt time.Time) error
	UpdateNotes(ctx context.Context, tx Transaction, id, notes string, updatedAt time.Time) error
	AddPhotos(ctx context.Context, tx Transaction, id string, photos []string, updatedAt time.Time) error
	Complete(ctx context.Context, tx Transaction, id string, total, refundable decimal.Decimal, completedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.InspectionStatus, updatedAt time.Time) error
}

// DeductionRepository defines data access for deduction items.
type DeductionRepository interface {
	Create(ctx context.Context, tx Transaction, deduction *domain.DeductionItem) error
	GetByID(ctx context.Context, id string) (*domain.DeductionItem, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.DeductionItem, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByInspection(ctx context.Context, inspectionID string) ([]*domain.DeductionItem, error)
	SumByInspection(ctx context.Context, tx Transaction, inspectionID string) (decimal.Decimal, error)
	MarkDisputed(ctx context.Context, tx Transaction, id, reason string, updatedAt time.Time) error
}

// LedgerRepository defines ledger-wide audit queries.
type LedgerRepository interface {
	// CheckConsistency counts deposit rows violating the refundable
	// invariant and completed inspections whose frozen total disagrees
	// with the sum of their deduction items.
	CheckConsistency(ctx context.Context) (depositViolations, inspectionViolations int64, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// TenantDirectory is the external directory collaborator. It supplies the
// monthly rent backing the legal-cap check. A zero rent means the rent is
// unknown and the cap cannot be enforced.
type TenantDirectory interface {
	MonthlyRent(ctx context.Context, tenantID string) (decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

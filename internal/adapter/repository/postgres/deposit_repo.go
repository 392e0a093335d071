package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// DepositRepository implements usecase.DepositRepository.
type DepositRepository struct {
	pool *pgxpool.Pool
}

// NewDepositRepository creates a new DepositRepository.
func NewDepositRepository(pool *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{pool: pool}
}

const depositColumns = `id, tenant_id, property_id,
	deposit_amount::text, deductions::text, refundable_amount::text,
	status, notes, created_at, updated_at`

// Create inserts a new deposit. The partial unique index on
// (tenant_id, property_id) turns a duplicate active deposit into
// domain.ErrDepositExists.
func (r *DepositRepository) Create(ctx context.Context, tx usecase.Transaction, deposit *domain.DepositBalance) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO deposit_balances
			(id, tenant_id, property_id, deposit_amount, deductions,
			 refundable_amount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		deposit.ID, deposit.TenantID, deposit.PropertyID,
		deposit.DepositAmount.String(), deposit.Deductions.String(),
		deposit.RefundableAmount.String(), string(deposit.Status),
		deposit.Notes, deposit.CreatedAt, deposit.UpdatedAt,
	)
	if uniqueViolation(err, "deposit_balances_tenancy_key") {
		return domain.ErrDepositExists
	}

	return err
}

// GetByID retrieves a deposit by ID.
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*domain.DepositBalance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_balances
		WHERE id = $1`, id)

	return scanDeposit(row)
}

// GetByIDForUpdate retrieves a deposit by ID with a FOR UPDATE lock.
func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DepositBalance, error) {
	row := pgxTx(tx).QueryRow(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_balances
		WHERE id = $1
		FOR UPDATE`, id)

	return scanDeposit(row)
}

// GetByTenant retrieves the active deposit for a tenant.
func (r *DepositRepository) GetByTenant(ctx context.Context, tenantID string) (*domain.DepositBalance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_balances
		WHERE tenant_id = $1`, tenantID)

	return scanDeposit(row)
}

// GetByProperty retrieves the active deposit held against a property.
func (r *DepositRepository) GetByProperty(ctx context.Context, propertyID string) (*domain.DepositBalance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_balances
		WHERE property_id = $1`, propertyID)

	return scanDeposit(row)
}

// GetByTenancyForUpdate retrieves the deposit for one tenancy with a
// FOR UPDATE lock.
func (r *DepositRepository) GetByTenancyForUpdate(ctx context.Context, tx usecase.Transaction, tenantID, propertyID string) (*domain.DepositBalance, error) {
	row := pgxTx(tx).QueryRow(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_balances
		WHERE tenant_id = $1 AND property_id = $2
		FOR UPDATE`, tenantID, propertyID)

	return scanDeposit(row)
}

// ApplySettlement writes the frozen deduction totals. Status is untouched;
// only TransitionRefund moves it.
func (r *DepositRepository) ApplySettlement(ctx context.Context, tx usecase.Transaction, id string, deductions, refundable decimal.Decimal, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE deposit_balances
		SET deductions = $2, refundable_amount = $3, updated_at = $4
		WHERE id = $1`,
		id, deductions.String(), refundable.String(), updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDepositNotFound
	}

	return nil
}

// UpdateStatus moves the deposit to a refund status.
func (r *DepositRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE deposit_balances
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDepositNotFound
	}

	return nil
}

// Delete removes a deposit; the inspection and deduction rows go with it
// through ON DELETE CASCADE.
func (r *DepositRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		DELETE FROM deposit_balances
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDepositNotFound
	}

	return nil
}

// List lists deposits with pagination.
func (r *DepositRepository) List(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+depositColumns+`
		FROM deposit_balances
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deposits := make([]*domain.DepositBalance, 0)
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}

	return deposits, rows.Err()
}

func scanDeposit(row pgx.Row) (*domain.DepositBalance, error) {
	var (
		d                              domain.DepositBalance
		amount, deductions, refundable string
		status                         string
	)

	err := row.Scan(
		&d.ID, &d.TenantID, &d.PropertyID,
		&amount, &deductions, &refundable,
		&status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDepositNotFound
		}
		return nil, err
	}

	d.DepositAmount = mustDecimal(amount)
	d.Deductions = mustDecimal(deductions)
	d.RefundableAmount = mustDecimal(refundable)
	d.Status = domain.DepositStatus(status)

	return &d, nil
}

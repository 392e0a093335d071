package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
)

// TenancyRepository reads the tenancies projection and implements
// usecase.TenantDirectory.
type TenancyRepository struct {
	pool *pgxpool.Pool
}

// NewTenancyRepository creates a new TenancyRepository.
func NewTenancyRepository(pool *pgxpool.Pool) *TenancyRepository {
	return &TenancyRepository{pool: pool}
}

// MonthlyRent returns the monthly rent for a tenant.
func (r *TenancyRepository) MonthlyRent(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	var rent string
	err := r.pool.QueryRow(ctx, `
		SELECT monthly_rent::text
		FROM tenancies
		WHERE tenant_id = $1`, tenantID).Scan(&rent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrTenancyNotFound
		}
		return decimal.Zero, err
	}

	return mustDecimal(rent), nil
}

// Upsert records or refreshes a tenancy projection row. Used by the CLI and
// by test fixtures; the service itself only reads.
func (r *TenancyRepository) Upsert(ctx context.Context, tenantID, propertyID string, monthlyRent decimal.Decimal) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tenancies (tenant_id, property_id, monthly_rent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (tenant_id) DO UPDATE
		SET property_id = EXCLUDED.property_id,
		    monthly_rent = EXCLUDED.monthly_rent,
		    updated_at = EXCLUDED.updated_at`,
		tenantID, propertyID, monthlyRent.String(), now,
	)

	return err
}

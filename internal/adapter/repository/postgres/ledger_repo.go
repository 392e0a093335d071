package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency scans the whole ledger for invariant violations.
//
// A deposit row is in violation when its refundable amount does not equal
// the floored difference between deposit and deductions. A completed or
// disputed inspection is in violation when its frozen deduction total no
// longer equals the sum of its deduction items.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	var depositViolations int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM deposit_balances
		WHERE refundable_amount <> GREATEST(deposit_amount - deductions, 0)`,
	).Scan(&depositViolations)
	if err != nil {
		return 0, 0, err
	}

	var inspectionViolations int64
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM move_out_inspections i
		WHERE i.status IN ('completed', 'disputed')
		  AND i.total_deductions <> (
			SELECT COALESCE(SUM(d.cost), 0)
			FROM deduction_items d
			WHERE d.inspection_id = i.id
		  )`,
	).Scan(&inspectionViolations)
	if err != nil {
		return 0, 0, err
	}

	return depositViolations, inspectionViolations, nil
}

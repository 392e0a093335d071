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

// DeductionRepository implements usecase.DeductionRepository.
type DeductionRepository struct {
	pool *pgxpool.Pool
}

// NewDeductionRepository creates a new DeductionRepository.
func NewDeductionRepository(pool *pgxpool.Pool) *DeductionRepository {
	return &DeductionRepository{pool: pool}
}

const deductionColumns = `id, inspection_id, item_description, cost::text,
	category, notes, proof_photos, disputed, dispute_reason,
	created_at, updated_at`

// Create inserts a new deduction item.
func (r *DeductionRepository) Create(ctx context.Context, tx usecase.Transaction, deduction *domain.DeductionItem) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO deduction_items
			(id, inspection_id, item_description, cost, category, notes,
			 proof_photos, disputed, dispute_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		deduction.ID, deduction.InspectionID, deduction.Description,
		deduction.Cost.String(), deduction.Category, deduction.Notes,
		deduction.ProofPhotos, deduction.Disputed, deduction.DisputeReason,
		deduction.CreatedAt, deduction.UpdatedAt,
	)

	return err
}

// GetByID retrieves a deduction by ID.
func (r *DeductionRepository) GetByID(ctx context.Context, id string) (*domain.DeductionItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+deductionColumns+`
		FROM deduction_items
		WHERE id = $1`, id)

	return scanDeduction(row)
}

// GetByIDForUpdate retrieves a deduction by ID with a FOR UPDATE lock.
func (r *DeductionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DeductionItem, error) {
	row := pgxTx(tx).QueryRow(ctx, `
		SELECT `+deductionColumns+`
		FROM deduction_items
		WHERE id = $1
		FOR UPDATE`, id)

	return scanDeduction(row)
}

// Delete removes a deduction item.
func (r *DeductionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		DELETE FROM deduction_items
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDeductionNotFound
	}

	return nil
}

// ListByInspection lists the deduction items of one inspection.
func (r *DeductionRepository) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.DeductionItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+deductionColumns+`
		FROM deduction_items
		WHERE inspection_id = $1
		ORDER BY created_at`, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.DeductionItem, 0)
	for rows.Next() {
		item, err := scanDeduction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// SumByInspection sums deduction costs inside the settlement transaction.
func (r *DeductionRepository) SumByInspection(ctx context.Context, tx usecase.Transaction, inspectionID string) (decimal.Decimal, error) {
	var total string
	err := pgxTx(tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(cost), 0)::text
		FROM deduction_items
		WHERE inspection_id = $1`, inspectionID).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return mustDecimal(total), nil
}

// MarkDisputed sets the one-shot dispute pair. The disputed = false guard
// rejects the second of two concurrent disputes.
func (r *DeductionRepository) MarkDisputed(ctx context.Context, tx usecase.Transaction, id, reason string, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE deduction_items
		SET disputed = TRUE, dispute_reason = $2, updated_at = $3
		WHERE id = $1 AND disputed = FALSE`,
		id, reason, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyDisputed
	}

	return nil
}

func scanDeduction(row pgx.Row) (*domain.DeductionItem, error) {
	var (
		d    domain.DeductionItem
		cost string
	)

	err := row.Scan(
		&d.ID, &d.InspectionID, &d.Description, &cost,
		&d.Category, &d.Notes, &d.ProofPhotos, &d.Disputed, &d.DisputeReason,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeductionNotFound
		}
		return nil, err
	}

	d.Cost = mustDecimal(cost)

	return &d, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// InspectionRepository implements usecase.InspectionRepository.
// The checklist lives in a JSONB column; photos in a text array.
type InspectionRepository struct {
	pool *pgxpool.Pool
}

// NewInspectionRepository creates a new InspectionRepository.
func NewInspectionRepository(pool *pgxpool.Pool) *InspectionRepository {
	return &InspectionRepository{pool: pool}
}

const inspectionColumns = `id, deposit_id, tenant_id, property_id, inspector_id,
	inspection_date, checklist, notes, photos, status,
	total_deductions::text, refundable_amount::text, created_at, updated_at`

// Create inserts a new inspection. The unique index on deposit_id turns a
// second inspection for the same deposit into domain.ErrInspectionExists.
func (r *InspectionRepository) Create(ctx context.Context, tx usecase.Transaction, inspection *domain.MoveOutInspection) error {
	checklist, err := json.Marshal(inspection.Checklist)
	if err != nil {
		return err
	}

	_, err = pgxTx(tx).Exec(ctx, `
		INSERT INTO move_out_inspections
			(id, deposit_id, tenant_id, property_id, inspector_id,
			 inspection_date, checklist, notes, photos, status,
			 total_deductions, refundable_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		inspection.ID, inspection.DepositID, inspection.TenantID,
		inspection.PropertyID, inspection.InspectorID, inspection.InspectionDate,
		checklist, inspection.Notes, inspection.Photos, string(inspection.Status),
		inspection.TotalDeductions.String(), inspection.RefundableAmount.String(),
		inspection.CreatedAt, inspection.UpdatedAt,
	)
	if uniqueViolation(err, "move_out_inspections_deposit_id_key") {
		return domain.ErrInspectionExists
	}

	return err
}

// GetByID retrieves an inspection by ID.
func (r *InspectionRepository) GetByID(ctx context.Context, id string) (*domain.MoveOutInspection, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+inspectionColumns+`
		FROM move_out_inspections
		WHERE id = $1`, id)

	return scanInspection(row)
}

// GetByIDForUpdate retrieves an inspection by ID with a FOR UPDATE lock.
func (r *InspectionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.MoveOutInspection, error) {
	row := pgxTx(tx).QueryRow(ctx, `
		SELECT `+inspectionColumns+`
		FROM move_out_inspections
		WHERE id = $1
		FOR UPDATE`, id)

	return scanInspection(row)
}

// GetByDeposit retrieves the inspection linked to a deposit.
func (r *InspectionRepository) GetByDeposit(ctx context.Context, depositID string) (*domain.MoveOutInspection, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+inspectionColumns+`
		FROM move_out_inspections
		WHERE deposit_id = $1`, depositID)

	return scanInspection(row)
}

// GetByDepositForUpdate retrieves the deposit's inspection with a
// FOR UPDATE lock.
func (r *InspectionRepository) GetByDepositForUpdate(ctx context.Context, tx usecase.Transaction, depositID string) (*domain.MoveOutInspection, error) {
	row := pgxTx(tx).QueryRow(ctx, `
		SELECT `+inspectionColumns+`
		FROM move_out_inspections
		WHERE deposit_id = $1
		FOR UPDATE`, depositID)

	return scanInspection(row)
}

// UpdateChecklistItem sets one area's condition rating inside the JSONB
// checklist.
func (r *InspectionRepository) UpdateChecklistItem(ctx context.Context, tx usecase.Transaction, id, item string, condition domain.Condition, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE move_out_inspections
		SET checklist = jsonb_set(checklist, ARRAY[$2], to_jsonb($3::text)),
		    updated_at = $4
		WHERE id = $1`,
		id, item, string(condition), updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInspectionNotFound
	}

	return nil
}

// UpdateNotes replaces the inspection notes.
func (r *InspectionRepository) UpdateNotes(ctx context.Context, tx usecase.Transaction, id, notes string, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE move_out_inspections
		SET notes = $2, updated_at = $3
		WHERE id = $1`,
		id, notes, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInspectionNotFound
	}

	return nil
}

// AddPhotos appends photo references.
func (r *InspectionRepository) AddPhotos(ctx context.Context, tx usecase.Transaction, id string, photos []string, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE move_out_inspections
		SET photos = photos || $2, updated_at = $3
		WHERE id = $1`,
		id, photos, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInspectionNotFound
	}

	return nil
}

// Complete freezes the totals and flips status to completed. The guard on
// the current status makes the write a no-op for an already-completed row.
func (r *InspectionRepository) Complete(ctx context.Context, tx usecase.Transaction, id string, total, refundable decimal.Decimal, completedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE move_out_inspections
		SET status = $2, total_deductions = $3, refundable_amount = $4, updated_at = $5
		WHERE id = $1 AND status = $6`,
		id, string(domain.InspectionStatusCompleted),
		total.String(), refundable.String(), completedAt,
		string(domain.InspectionStatusInProgress),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInspectionFinalized
	}

	return nil
}

// UpdateStatus sets the inspection status.
func (r *InspectionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InspectionStatus, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE move_out_inspections
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInspectionNotFound
	}

	return nil
}

func scanInspection(row pgx.Row) (*domain.MoveOutInspection, error) {
	var (
		i                 domain.MoveOutInspection
		checklist         []byte
		status            string
		total, refundable string
	)

	err := row.Scan(
		&i.ID, &i.DepositID, &i.TenantID, &i.PropertyID, &i.InspectorID,
		&i.InspectionDate, &checklist, &i.Notes, &i.Photos, &status,
		&total, &refundable, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInspectionNotFound
		}
		return nil, err
	}

	if len(checklist) > 0 {
		if err := json.Unmarshal(checklist, &i.Checklist); err != nil {
			return nil, err
		}
	}
	if i.Checklist == nil {
		i.Checklist = map[string]domain.Condition{}
	}

	i.Status = domain.InspectionStatus(status)
	i.TotalDeductions = mustDecimal(total)
	i.RefundableAmount = mustDecimal(refundable)

	return &i, nil
}

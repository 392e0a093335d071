package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditInsert = `
	INSERT INTO audit_logs
		(id, actor_id, action, resource_type, resource_id, request_id,
		 after_state, status, error_message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create writes an audit entry outside any transaction. Used for recording
// rejected operations, which have no transaction to join.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	state, err := marshalAuditState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, auditInsert,
		log.ID, log.ActorID, log.Action, log.ResourceType, log.ResourceID,
		log.RequestID, state, log.Status, log.ErrorMessage, log.CreatedAt,
	)

	return err
}

// CreateTx writes an audit entry inside the caller's transaction so the
// entry commits or rolls back with the mutation it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	state, err := marshalAuditState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = pgxTx(tx).Exec(ctx, auditInsert,
		log.ID, log.ActorID, log.Action, log.ResourceType, log.ResourceID,
		log.RequestID, state, log.Status, log.ErrorMessage, log.CreatedAt,
	)

	return err
}

// List retrieves audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ActorID != "" {
		add("actor_id = $%d", filter.ActorID)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}
	if filter.ResourceType != "" {
		add("resource_type = $%d", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add("resource_id = $%d", filter.ResourceID)
	}
	if filter.StartDate != nil {
		add("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("created_at <= $%d", *filter.EndDate)
	}

	query := `
		SELECT id, actor_id, action, resource_type, resource_id, request_id,
		       after_state, status, error_message, created_at
		FROM audit_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var (
			l     domain.AuditLog
			state []byte
		)
		err := rows.Scan(
			&l.ID, &l.ActorID, &l.Action, &l.ResourceType, &l.ResourceID,
			&l.RequestID, &state, &l.Status, &l.ErrorMessage, &l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if state != nil {
			_ = json.Unmarshal(state, &l.AfterState)
		}
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}

func marshalAuditState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

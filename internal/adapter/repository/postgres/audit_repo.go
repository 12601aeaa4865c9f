package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

const auditColumns = `id, actor_id, action, resource_type, resource_id, request_id,
	before_state, after_state, status, error_message, created_at`

// AuditRepository implements audit log persistence
type AuditRepository struct {
	db querier
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return newAuditRepository(pool)
}

func newAuditRepository(db querier) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateTx inserts an audit log entry inside tx, so it commits or rolls
// back with the change it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	var beforeStateJSON, afterStateJSON []byte
	var err error

	if log.BeforeState != nil {
		beforeStateJSON, err = json.Marshal(log.BeforeState)
		if err != nil {
			return err
		}
	}

	if log.AfterState != nil {
		afterStateJSON, err = json.Marshal(log.AfterState)
		if err != nil {
			return err
		}
	}

	_, err = pgxTx(tx).Exec(ctx, `
		INSERT INTO audit_logs (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		log.ID,
		log.ActorID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeStateJSON,
		afterStateJSON,
		log.Status,
		log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var where whereClause
	if filter.ActorID != "" {
		where.add("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		where.add("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		where.add("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		where.add("resource_id = ?", filter.ResourceID)
	}
	if filter.StartDate != nil {
		where.add("created_at >= ?", timeToPgTimestamptz(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where.add("created_at < ?", timeToPgTimestamptz(*filter.EndDate))
	}

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, `SELECT `+auditColumns+` FROM audit_logs`+where.String()+
		` ORDER BY created_at DESC, id`+where.page(limit, offset), where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var (
			log                             domain.AuditLog
			beforeStateJSON, afterStateJSON []byte
			createdAt                       pgtype.Timestamptz
		)

		err := rows.Scan(
			&log.ID,
			&log.ActorID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&beforeStateJSON,
			&afterStateJSON,
			&log.Status,
			&log.ErrorMessage,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		if beforeStateJSON != nil {
			_ = json.Unmarshal(beforeStateJSON, &log.BeforeState)
		}

		if afterStateJSON != nil {
			_ = json.Unmarshal(afterStateJSON, &log.AfterState)
		}
		log.CreatedAt = createdAt.Time.UTC()

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// GetByResourceID retrieves the audit trail of one resource.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	return r.List(ctx, domain.AuditFilter{
		ResourceType: resourceType,
		ResourceID:   resourceID,
	})
}

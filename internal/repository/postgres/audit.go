package postgres

import (
	"context"
	"database/sql"
	"time"

	"earnx-backend/internal/domain"
	"earnx-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	entry.CreatedAt = time.Now().UTC()
	query := `INSERT INTO audit_log (action, actor_id, target_user_id, detail, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, entry.Action, entry.ActorID, entry.TargetUserID,
		entry.Detail, entry.CreatedAt).Scan(&entry.ID)
}

func (r *auditRepository) List(ctx context.Context, page, pageSize int32) ([]domain.AuditEntry, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, action, actor_id, target_user_id, COALESCE(detail, ''), created_at
	          FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var target sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Action, &e.ActorID, &target, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if target.Valid {
			v := target.Int64
			e.TargetUserID = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM audit_log`).Scan(&count); err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

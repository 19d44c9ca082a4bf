package repository

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLogs is the append-only store of admin actions. There is no update
// or delete path here.
type AuditLogs struct {
	db *pgxpool.Pool
}

func NewAuditLogs(db *pgxpool.Pool) *AuditLogs {
	return &AuditLogs{db: db}
}

func (r *AuditLogs) Insert(ctx context.Context, entry *domain.AdminActionLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO admin_action_logs (admin_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.AdminID, entry.Action, entry.EntityType, entry.EntityID, entry.Details)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *AuditLogs) ListRecent(ctx context.Context, limit, offset int) ([]domain.AdminActionLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, action, entity_type, entity_id, details, created_at
		FROM admin_action_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	return collectAuditLogs(rows)
}

func (r *AuditLogs) ListByAdmin(ctx context.Context, adminID int64, limit int) ([]domain.AdminActionLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, action, entity_type, entity_id, details, created_at
		FROM admin_action_logs
		WHERE admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, adminID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs by admin: %w", err)
	}
	defer rows.Close()
	return collectAuditLogs(rows)
}

func (r *AuditLogs) ListByEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]domain.AdminActionLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, action, entity_type, entity_id, details, created_at
		FROM admin_action_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs by entity: %w", err)
	}
	defer rows.Close()
	return collectAuditLogs(rows)
}

func (r *AuditLogs) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_action_logs`).Scan(&n)
	return n, err
}

func collectAuditLogs(rows pgx.Rows) ([]domain.AdminActionLog, error) {
	var out []domain.AdminActionLog
	for rows.Next() {
		var e domain.AdminActionLog
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

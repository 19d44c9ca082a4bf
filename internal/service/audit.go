package service

import (
	"context"
	"log/slog"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

type auditStore interface {
	Insert(ctx context.Context, entry *domain.AdminActionLog) error
	ListRecent(ctx context.Context, limit, offset int) ([]domain.AdminActionLog, error)
	ListByAdmin(ctx context.Context, adminID int64, limit int) ([]domain.AdminActionLog, error)
	ListByEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]domain.AdminActionLog, error)
	Count(ctx context.Context) (int64, error)
}

// AuditService records admin actions. Writes are best-effort: a failed
// insert is logged and dropped, it never propagates to the action being
// documented.
type AuditService struct {
	logs auditStore
}

func NewAuditService(logs auditStore) *AuditService {
	return &AuditService{logs: logs}
}

func (s *AuditService) Record(ctx context.Context, adminID int64, action, entityType string, entityID *int64, details string) {
	err := s.logs.Insert(ctx, &domain.AdminActionLog{
		AdminID:    adminID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
	if err != nil {
		slog.Error("audit log write failed",
			"admin_id", adminID,
			"action", action,
			"entity_type", entityType,
			"error", err,
		)
	}
}

// RecordEntity is Record with a non-optional entity id.
func (s *AuditService) RecordEntity(ctx context.Context, adminID int64, action, entityType string, entityID int64, details string) {
	s.Record(ctx, adminID, action, entityType, &entityID, details)
}

func (s *AuditService) Recent(ctx context.Context, limit, offset int) ([]domain.AdminActionLog, error) {
	return s.logs.ListRecent(ctx, limit, offset)
}

func (s *AuditService) ByAdmin(ctx context.Context, adminID int64, limit int) ([]domain.AdminActionLog, error) {
	return s.logs.ListByAdmin(ctx, adminID, limit)
}

func (s *AuditService) ByEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]domain.AdminActionLog, error) {
	return s.logs.ListByEntity(ctx, entityType, entityID, limit)
}

func (s *AuditService) Count(ctx context.Context) (int64, error) {
	return s.logs.Count(ctx)
}

// internal/repository/audit_log_repository.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/clubhub/ads-backend/internal/models"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

type auditLogRepository struct {
	baseRepository
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{baseRepository{db: db}}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := r.getDB(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

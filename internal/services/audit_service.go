package services

import (
	"context"

	"github.com/rajputgas/agency-api/internal/models"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an activity entry. A service constructed without a database
// (unit tests) skips logging.
func (s *AuditService) Log(ctx context.Context, userID *uint, action, entity string, entityID uint, details string) error {
	if s.db == nil {
		return nil
	}
	logEntry := &models.ActivityLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	return s.db.WithContext(ctx).Create(logEntry).Error
}

// List retrieves activity logs, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Offset(offset).Find(&logs)
	return logs, total, result.Error
}

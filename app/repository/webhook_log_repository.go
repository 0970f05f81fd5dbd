package repository

import (
	"github.com/payhive/paygate/app/models"
	"gorm.io/gorm"
)

type webhookLogRepository struct {
	db *gorm.DB
}

// NewWebhookLogRepository creates a webhook log repository backed by GORM.
func NewWebhookLogRepository(db *gorm.DB) WebhookLogRepository {
	return &webhookLogRepository{db: db}
}

func (r *webhookLogRepository) Create(logEntry *models.WebhookLog) error {
	return r.db.Create(logEntry).Error
}

func (r *webhookLogRepository) UpdateByID(id string, updates map[string]interface{}) error {
	return r.db.Model(&models.WebhookLog{}).Where("id = ?", id).Updates(updates).Error
}

func (r *webhookLogRepository) List(filter WebhookLogFilter, page, limit int) ([]models.WebhookLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := r.db.Model(&models.WebhookLog{})
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	} else if filter.TID != "" {
		query = query.Where("tid = ?", filter.TID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.WebhookLog
	err := query.Order("received_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	return logs, total, err
}

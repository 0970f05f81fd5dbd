package repository

import (
	"github.com/payhive/paygate/app/models"
	"gorm.io/gorm"
)

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a refund repository backed by GORM.
func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(refund *models.Refund) error {
	return r.db.Create(refund).Error
}

func (r *refundRepository) GetByID(id string) (*models.Refund, error) {
	var ref models.Refund
	if err := r.db.Where("id = ?", id).First(&ref).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *refundRepository) UpdateByID(id string, updates map[string]interface{}) error {
	return r.db.Model(&models.Refund{}).Where("id = ?", id).Updates(updates).Error
}

func (r *refundRepository) ListByPaymentID(paymentID string) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.Where("payment_id = ?", paymentID).Order("created_at DESC").Find(&refunds).Error
	return refunds, err
}

package repository

import (
	"time"

	"github.com/payhive/paygate/app/models"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a payment repository backed by GORM.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) GetByOrderID(orderID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetByTID(tid string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("tid = ?", tid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) UpdateByOrderID(orderID string, updates map[string]interface{}) error {
	return r.db.Model(&models.Payment{}).Where("order_id = ?", orderID).Updates(updates).Error
}

func (r *paymentRepository) UpdateByTID(tid string, updates map[string]interface{}) error {
	return r.db.Model(&models.Payment{}).Where("tid = ?", tid).Updates(updates).Error
}

func (r *paymentRepository) MarkFailed(orderID string, at time.Time) error {
	return r.UpdateByOrderID(orderID, map[string]interface{}{
		"status":    models.PaymentStatusFailed,
		"failed_at": &at,
	})
}

// ExpireStale marks prepare records past their validity window as expired.
// Only untouched ready rows are affected; a ready vbank payment awaiting
// deposit carries a tid and is skipped.
func (r *paymentRepository) ExpireStale(before time.Time) (int64, error) {
	tx := r.db.Model(&models.Payment{}).
		Where("status = ? AND tid = ? AND expires_at < ?", models.PaymentStatusReady, "", before).
		Updates(map[string]interface{}{"status": models.PaymentStatusExpired})
	return tx.RowsAffected, tx.Error
}

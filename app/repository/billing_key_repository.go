package repository

import (
	"github.com/payhive/paygate/app/models"
	"gorm.io/gorm"
)

type billingKeyRepository struct {
	db *gorm.DB
}

// NewBillingKeyRepository creates a billing key repository backed by GORM.
func NewBillingKeyRepository(db *gorm.DB) BillingKeyRepository {
	return &billingKeyRepository{db: db}
}

func (r *billingKeyRepository) Create(key *models.BillingKey) error {
	return r.db.Create(key).Error
}

func (r *billingKeyRepository) GetByBID(bid string) (*models.BillingKey, error) {
	var k models.BillingKey
	if err := r.db.Where("bid = ?", bid).First(&k).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *billingKeyRepository) UpdateByBID(bid string, updates map[string]interface{}) error {
	return r.db.Model(&models.BillingKey{}).Where("bid = ?", bid).Updates(updates).Error
}

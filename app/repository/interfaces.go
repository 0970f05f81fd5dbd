package repository

import (
	"time"

	"github.com/payhive/paygate/app/models"
)

// PaymentRepository defines the database operations for payments. Mutations
// are keyed single-row updates; the amount column set at prepare time is
// never part of an update set.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByOrderID(orderID string) (*models.Payment, error)
	GetByTID(tid string) (*models.Payment, error)
	UpdateByOrderID(orderID string, updates map[string]interface{}) error
	UpdateByTID(tid string, updates map[string]interface{}) error
	MarkFailed(orderID string, at time.Time) error
	ExpireStale(before time.Time) (int64, error)
}

// BillingKeyRepository defines the database operations for billing keys.
type BillingKeyRepository interface {
	Create(key *models.BillingKey) error
	GetByBID(bid string) (*models.BillingKey, error)
	UpdateByBID(bid string, updates map[string]interface{}) error
}

// RefundRepository defines the database operations for refunds.
type RefundRepository interface {
	Create(refund *models.Refund) error
	GetByID(id string) (*models.Refund, error)
	UpdateByID(id string, updates map[string]interface{}) error
	ListByPaymentID(paymentID string) ([]models.Refund, error)
}

// WebhookLogFilter narrows webhook log listings.
type WebhookLogFilter struct {
	OrderID string
	TID     string
}

// WebhookLogRepository defines the database operations for webhook logs.
type WebhookLogRepository interface {
	Create(logEntry *models.WebhookLog) error
	UpdateByID(id string, updates map[string]interface{}) error
	List(filter WebhookLogFilter, page, limit int) ([]models.WebhookLog, int64, error)
}

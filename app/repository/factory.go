package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository implementations.
type Repositories struct {
	Payment    PaymentRepository
	BillingKey BillingKeyRepository
	Refund     RefundRepository
	WebhookLog WebhookLogRepository
}

// NewRepositories creates all repositories on a shared DB handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Payment:    NewPaymentRepository(db),
		BillingKey: NewBillingKeyRepository(db),
		Refund:     NewRefundRepository(db),
		WebhookLog: NewWebhookLogRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetPaymentRepository returns the payment repository instance
func (f *Factory) GetPaymentRepository() PaymentRepository {
	return f.GetRepositories().Payment
}

// GetBillingKeyRepository returns the billing key repository instance
func (f *Factory) GetBillingKeyRepository() BillingKeyRepository {
	return f.GetRepositories().BillingKey
}

// GetRefundRepository returns the refund repository instance
func (f *Factory) GetRefundRepository() RefundRepository {
	return f.GetRepositories().Refund
}

// GetWebhookLogRepository returns the webhook log repository instance
func (f *Factory) GetWebhookLogRepository() WebhookLogRepository {
	return f.GetRepositories().WebhookLog
}

package models

import "time"

const (
	BillingKeyStatusActive  = "active"
	BillingKeyStatusExpired = "expired"
)

// BillingKey is a tokenized, reusable card credential issued by the
// processor. Once expired, no charge may be attempted against it.
type BillingKey struct {
	ID      string `gorm:"type:varchar(40);primaryKey" json:"billing_id"`
	BID     string `gorm:"column:bid;type:varchar(40);not null;uniqueIndex:ux_billing_keys_bid" json:"bid"`
	OrderID string `gorm:"type:varchar(64);not null;index" json:"order_id"`
	Status  string `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	// Masked card descriptor from the registration response
	CardCode      string `gorm:"type:varchar(10);default:''" json:"card_code"`
	CardName      string `gorm:"type:varchar(50);default:''" json:"card_name"`
	CardNumMasked string `gorm:"type:varchar(30);default:''" json:"card_num_masked"`

	BuyerName  string `gorm:"type:varchar(100);default:''" json:"buyer_name"`
	BuyerEmail string `gorm:"type:varchar(200);default:''" json:"buyer_email"`
	BuyerTel   string `gorm:"type:varchar(30);default:''" json:"buyer_tel"`

	AuthDate  string     `gorm:"type:varchar(30);default:''" json:"auth_date"`
	ExpiredAt *time.Time `gorm:"type:timestamp;default:null" json:"expired_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

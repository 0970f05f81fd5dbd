package models

import "time"

// Payment status values. Transitions are monotonic: ready -> paid ->
// cancelled/partialCancelled, with failed and expired as alternate
// terminals. The one sanctioned exception is a virtual account, which stays
// ready after a successful approval until the deposit webhook arrives.
const (
	PaymentStatusReady            = "ready"
	PaymentStatusPaid             = "paid"
	PaymentStatusFailed           = "failed"
	PaymentStatusCancelled        = "cancelled"
	PaymentStatusPartialCancelled = "partialCancelled"
	PaymentStatusExpired          = "expired"
)

// Payment is one merchant order attempt. Amount is the authoritative value
// captured at prepare time; no code path updates it afterwards.
type Payment struct {
	ID      string `gorm:"type:varchar(40);primaryKey" json:"payment_id"`
	OrderID string `gorm:"type:varchar(64);not null;uniqueIndex:ux_payments_order_id" json:"order_id"`
	TID     string `gorm:"column:tid;type:varchar(40);default:'';index" json:"tid"`
	Status  string `gorm:"type:varchar(20);not null;default:'ready';index" json:"status"`

	Amount     int64  `gorm:"not null" json:"amount"`
	BalanceAmt int64  `gorm:"default:0" json:"balance_amt"`
	TaxFreeAmt int64  `gorm:"default:0" json:"tax_free_amt"`
	Currency   string `gorm:"type:varchar(3);default:'KRW'" json:"currency"`

	PayMethod string `gorm:"type:varchar(20);not null" json:"pay_method"`
	GoodsName string `gorm:"type:varchar(100);not null" json:"goods_name"`

	// Processor approval details
	ApproveNo string `gorm:"type:varchar(30);default:''" json:"approve_no"`
	Channel   string `gorm:"type:varchar(20);default:''" json:"channel"`

	// Instrument details as raw JSON from the processor response
	CardInfo  string `gorm:"type:text" json:"-"`
	VbankInfo string `gorm:"type:text" json:"-"`

	BuyerName  string `gorm:"type:varchar(100);default:''" json:"buyer_name"`
	BuyerEmail string `gorm:"type:varchar(200);default:''" json:"buyer_email"`
	BuyerTel   string `gorm:"type:varchar(30);default:''" json:"buyer_tel"`

	ReturnURL  string `gorm:"type:varchar(500);not null" json:"return_url"`
	SuccessURL string `gorm:"type:varchar(500);default:''" json:"success_url"`
	FailureURL string `gorm:"type:varchar(500);default:''" json:"failure_url"`

	MallReserved string `gorm:"type:text" json:"mall_reserved"`

	// Auth token from the browser callback, kept for the approval flow
	AuthToken string `gorm:"type:varchar(100);default:''" json:"-"`

	PaidAt      *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	FailedAt    *time.Time `gorm:"type:timestamp;default:null" json:"failed_at,omitempty"`
	CancelledAt *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at,omitempty"`
	ExpiresAt   time.Time  `gorm:"type:timestamp;not null" json:"expires_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

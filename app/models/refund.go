package models

import "time"

const (
	RefundStatusRequested = "requested"
	RefundStatusCompleted = "completed"
	RefundStatusFailed    = "failed"
)

// Refund is one cancellation attempt against a payment. The row is created
// in requested state before the outbound cancel call goes out, so a crash
// between the call and the local write is still auditable from the
// processor's side. After that it is updated exactly once to completed or
// failed.
type Refund struct {
	ID           string `gorm:"type:varchar(40);primaryKey" json:"refund_id"`
	PaymentID    string `gorm:"type:varchar(40);not null;index" json:"payment_id"`
	TID          string `gorm:"column:tid;type:varchar(40);not null;index" json:"tid"`
	CancelledTID string `gorm:"column:cancelled_tid;type:varchar(40);default:''" json:"cancelled_tid"`
	OrderID      string `gorm:"type:varchar(64);not null;index" json:"order_id"`
	Status       string `gorm:"type:varchar(20);not null;default:'requested';index" json:"status"`

	CancelAmt  int64 `gorm:"default:0" json:"cancel_amt"`
	BalanceAmt int64 `gorm:"default:0" json:"balance_amt"`
	TaxFreeAmt int64 `gorm:"default:0" json:"tax_free_amt"`

	Reason string `gorm:"type:varchar(200);not null" json:"reason"`

	// Bank refund destination for virtual-account instruments
	RefundAccount  string `gorm:"type:varchar(30);default:''" json:"refund_account"`
	RefundBankCode string `gorm:"type:varchar(10);default:''" json:"refund_bank_code"`
	RefundHolder   string `gorm:"type:varchar(50);default:''" json:"refund_holder"`

	ResultCode string `gorm:"type:varchar(10);default:''" json:"result_code"`
	ResultMsg  string `gorm:"type:varchar(500);default:''" json:"result_msg"`

	CancelledAt *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

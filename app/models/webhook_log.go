package models

import "time"

const (
	WebhookStatusReceived         = "received"
	WebhookStatusProcessed        = "processed"
	WebhookStatusFailed           = "failed"
	WebhookStatusSignatureInvalid = "signature_invalid"
)

// WebhookLog is an append-only record of every inbound processor
// notification. The row is written before signature verification so forged
// or malformed traffic is still auditable; it is updated exactly once when
// processing finishes.
type WebhookLog struct {
	ID        string `gorm:"type:varchar(40);primaryKey" json:"webhook_log_id"`
	TID       string `gorm:"column:tid;type:varchar(40);default:'';index" json:"tid"`
	OrderID   string `gorm:"type:varchar(64);default:'';index" json:"order_id"`
	EventType string `gorm:"type:varchar(50);not null" json:"event_type"`
	Status    string `gorm:"type:varchar(20);not null;default:'received';index" json:"status"`

	Payload string `gorm:"type:longtext;not null" json:"payload"`

	SignatureValid *bool `gorm:"default:null" json:"signature_valid,omitempty"`

	ResultCode   string `gorm:"type:varchar(10);default:''" json:"result_code"`
	ErrorMessage string `gorm:"type:text" json:"error_message"`
	ProcessingMs int64  `gorm:"default:0" json:"processing_ms"`

	ReceivedAt  time.Time  `gorm:"autoCreateTime;index" json:"received_at"`
	ProcessedAt *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
}

package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func newID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:16]
}

func NewPaymentID() string    { return newID("pay") }
func NewRefundID() string     { return newID("ref") }
func NewBillingID() string    { return newID("bill") }
func NewWebhookLogID() string { return newID("wh") }

// NewOrderID builds a date-stamped order id for operator tooling and tests.
func NewOrderID(prefix string) string {
	if prefix == "" {
		prefix = "ORD"
	}
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + time.Now().UTC().Format("20060102") + "-" + raw[:8]
}

package webhook

import (
	"encoding/json"
	"log"
	"time"

	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"github.com/payhive/paygate/internal/pkg/utils"
)

// Service reconciles asynchronous processor notifications into the payment
// store. Every inbound payload is logged before any validation; state
// merges are idempotent and keyed by order id, so re-delivery of the same
// event is a no-op rather than an error.
type Service struct {
	payments repository.PaymentRepository
	logs     repository.WebhookLogRepository
	cfg      *config.Config
}

// NewService creates a webhook service with injected collaborators.
func NewService(payments repository.PaymentRepository, logs repository.WebhookLogRepository, cfg *config.Config) *Service {
	return &Service{payments: payments, logs: logs, cfg: cfg}
}

// Process handles one notification end to end: log, verify signature,
// merge, finalize the log row. It never returns an error to its caller;
// the processor only needs a fast acknowledgment, so every failure mode is
// captured in the webhook log instead.
func (s *Service) Process(payload nicepay.WebhookPayload) {
	start := time.Now()
	logID := utils.NewWebhookLogID()
	eventType := EventType(payload)

	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}

	if err := s.logs.Create(&models.WebhookLog{
		ID:        logID,
		TID:       payload.TID,
		OrderID:   payload.OrderID,
		EventType: eventType,
		Status:    models.WebhookStatusReceived,
		Payload:   string(raw),
	}); err != nil {
		log.Printf("ERROR failed to persist webhook log for order %s: %v", payload.OrderID, err)
		return
	}

	if !nicepay.VerifyResponseSignature(payload.TID, payload.Amount, payload.EdiDate, s.cfg.NicePay.SecretKey, payload.Signature) {
		log.Printf("ERROR webhook signature verification failed for order %s (tid %s)", payload.OrderID, payload.TID)
		s.finalize(logID, map[string]interface{}{
			"status":          models.WebhookStatusSignatureInvalid,
			"signature_valid": false,
		}, start)
		return
	}

	if err := s.applyEvent(eventType, payload); err != nil {
		log.Printf("ERROR webhook processing failed for order %s (tid %s): %v", payload.OrderID, payload.TID, err)
		s.finalize(logID, map[string]interface{}{
			"status":          models.WebhookStatusFailed,
			"signature_valid": true,
			"error_message":   err.Error(),
		}, start)
		return
	}

	s.finalize(logID, map[string]interface{}{
		"status":          models.WebhookStatusProcessed,
		"signature_valid": true,
		"result_code":     payload.ResultCode,
	}, start)
}

// EventType classifies a payload from its status and pay method fields.
func EventType(payload nicepay.WebhookPayload) string {
	switch {
	case payload.Status == models.PaymentStatusPaid:
		return "payment.approved"
	case payload.Status == models.PaymentStatusReady && payload.PayMethod == nicepay.PayMethodVbank:
		return "vbank.ready"
	case payload.Status == models.PaymentStatusCancelled:
		return "payment.cancelled"
	case payload.Status == models.PaymentStatusPartialCancelled:
		return "payment.partialCancelled"
	default:
		return "payment." + payload.Status
	}
}

// applyEvent merges the event into the payment row. The writes are
// idempotent identical-target updates, so this path can race with the
// browser-callback approval on the same order id without ordering
// hazards.
func (s *Service) applyEvent(eventType string, payload nicepay.WebhookPayload) error {
	switch eventType {
	case "payment.approved":
		updates := map[string]interface{}{
			"status": models.PaymentStatusPaid,
		}
		if paidAt, err := time.Parse(time.RFC3339, payload.PaidAt); err == nil {
			updates["paid_at"] = &paidAt
		}
		return s.payments.UpdateByOrderID(payload.OrderID, updates)

	case "vbank.ready":
		// Virtual account issued; funds arrive later via deposit webhook.
		log.Printf("INFO virtual account issued for order %s, waiting for deposit", payload.OrderID)
		return nil

	case "payment.cancelled":
		updates := map[string]interface{}{
			"status": models.PaymentStatusCancelled,
		}
		if cancelledAt, err := time.Parse(time.RFC3339, payload.CancelledAt); err == nil {
			updates["cancelled_at"] = &cancelledAt
		}
		return s.payments.UpdateByOrderID(payload.OrderID, updates)

	case "payment.partialCancelled":
		return s.payments.UpdateByOrderID(payload.OrderID, map[string]interface{}{
			"status": models.PaymentStatusPartialCancelled,
		})

	default:
		log.Printf("WARN unknown webhook event type %s for order %s", eventType, payload.OrderID)
		return nil
	}
}

func (s *Service) finalize(logID string, updates map[string]interface{}, start time.Time) {
	now := time.Now()
	updates["processing_ms"] = now.Sub(start).Milliseconds()
	updates["processed_at"] = &now
	if err := s.logs.UpdateByID(logID, updates); err != nil {
		log.Printf("ERROR failed to finalize webhook log %s: %v", logID, err)
	}
}

// LogPage is one page of webhook log views.
type LogPage struct {
	Data  []models.WebhookLog `json:"data"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
	Total int64               `json:"total"`
}

// ListLogs returns webhook logs filtered by order id or tid, newest first.
func (s *Service) ListLogs(filter repository.WebhookLogFilter, page, limit int) (*LogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	logs, total, err := s.logs.List(filter, page, limit)
	if err != nil {
		return nil, err
	}
	return &LogPage{Data: logs, Page: page, Limit: limit, Total: total}, nil
}

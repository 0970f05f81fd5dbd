package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/nicepay"
)

const testSecret = "S2-test-secret-key"

type fakePaymentRepo struct {
	mu      sync.Mutex
	byOrder map[string]*models.Payment
	updates []map[string]interface{}
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byOrder: make(map[string]*models.Payment)}
}

func (r *fakePaymentRepo) Create(p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[p.OrderID] = p
	return nil
}

func (r *fakePaymentRepo) GetByOrderID(orderID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) GetByTID(string) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) UpdateByOrderID(orderID string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOrder[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.updates = append(r.updates, updates)
	if v, ok := updates["status"]; ok {
		p.Status = v.(string)
	}
	if v, ok := updates["paid_at"]; ok {
		p.PaidAt = v.(*time.Time)
	}
	if v, ok := updates["cancelled_at"]; ok {
		p.CancelledAt = v.(*time.Time)
	}
	return nil
}

func (r *fakePaymentRepo) UpdateByTID(string, map[string]interface{}) error { return nil }

func (r *fakePaymentRepo) MarkFailed(string, time.Time) error { return nil }

func (r *fakePaymentRepo) ExpireStale(time.Time) (int64, error) { return 0, nil }

type fakeLogRepo struct {
	mu   sync.Mutex
	rows []*models.WebhookLog
}

func (r *fakeLogRepo) Create(entry *models.WebhookLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	cp.ReceivedAt = time.Now()
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeLogRepo) UpdateByID(id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID != id {
			continue
		}
		if v, ok := updates["status"]; ok {
			row.Status = v.(string)
		}
		if v, ok := updates["signature_valid"]; ok {
			b := v.(bool)
			row.SignatureValid = &b
		}
		if v, ok := updates["result_code"]; ok {
			row.ResultCode = v.(string)
		}
		if v, ok := updates["error_message"]; ok {
			row.ErrorMessage = v.(string)
		}
		if v, ok := updates["processing_ms"]; ok {
			row.ProcessingMs = v.(int64)
		}
		if v, ok := updates["processed_at"]; ok {
			row.ProcessedAt = v.(*time.Time)
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeLogRepo) List(filter repository.WebhookLogFilter, page, limit int) ([]models.WebhookLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.WebhookLog
	for _, row := range r.rows {
		if filter.OrderID != "" && row.OrderID != filter.OrderID {
			continue
		}
		if filter.TID != "" && row.TID != filter.TID {
			continue
		}
		matched = append(matched, *row)
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func newTestService() (*Service, *fakePaymentRepo, *fakeLogRepo) {
	payments := newFakePaymentRepo()
	logs := &fakeLogRepo{}
	cfg := &config.Config{NicePay: config.NicePay{SecretKey: testSecret}}
	return NewService(payments, logs, cfg), payments, logs
}

func signedPayload(tid, orderID, status string, amount int64) nicepay.WebhookPayload {
	ediDate := "2026-08-31T12:00:00.000Z"
	sum := sha256.Sum256([]byte(tid + strconv.FormatInt(amount, 10) + ediDate + testSecret))
	return nicepay.WebhookPayload{
		ResultCode: "0000",
		ResultMsg:  "ok",
		TID:        tid,
		OrderID:    orderID,
		Amount:     amount,
		EdiDate:    ediDate,
		Signature:  hex.EncodeToString(sum[:]),
		Status:     status,
		PayMethod:  "card",
		PaidAt:     "2026-08-31T12:00:01.000Z",
	}
}

func TestProcess_ApprovedEvent(t *testing.T) {
	t.Parallel()

	svc, payments, logs := newTestService()
	require.NoError(t, payments.Create(&models.Payment{OrderID: "T-1", Status: models.PaymentStatusReady, Amount: 1000}))

	svc.Process(signedPayload("tid-1", "T-1", models.PaymentStatusPaid, 1000))

	p, _ := payments.GetByOrderID("T-1")
	assert.Equal(t, models.PaymentStatusPaid, p.Status)
	require.NotNil(t, p.PaidAt)

	require.Len(t, logs.rows, 1)
	row := logs.rows[0]
	assert.Equal(t, models.WebhookStatusProcessed, row.Status)
	assert.Equal(t, "payment.approved", row.EventType)
	require.NotNil(t, row.SignatureValid)
	assert.True(t, *row.SignatureValid)
	assert.NotNil(t, row.ProcessedAt)
}

func TestProcess_RedeliveryIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, payments, logs := newTestService()
	require.NoError(t, payments.Create(&models.Payment{OrderID: "T-1", Status: models.PaymentStatusReady, Amount: 1000}))

	payload := signedPayload("tid-1", "T-1", models.PaymentStatusPaid, 1000)
	svc.Process(payload)
	svc.Process(payload)

	// Same terminal state, one log row per delivery.
	p, _ := payments.GetByOrderID("T-1")
	assert.Equal(t, models.PaymentStatusPaid, p.Status)
	assert.Len(t, logs.rows, 2)
	assert.Equal(t, models.WebhookStatusProcessed, logs.rows[0].Status)
	assert.Equal(t, models.WebhookStatusProcessed, logs.rows[1].Status)
}

func TestProcess_InvalidSignatureMutatesNothing(t *testing.T) {
	t.Parallel()

	svc, payments, logs := newTestService()
	require.NoError(t, payments.Create(&models.Payment{OrderID: "T-1", Status: models.PaymentStatusReady, Amount: 1000}))

	payload := signedPayload("tid-1", "T-1", models.PaymentStatusPaid, 1000)
	payload.Signature = "forged"
	svc.Process(payload)

	p, _ := payments.GetByOrderID("T-1")
	assert.Equal(t, models.PaymentStatusReady, p.Status)
	assert.Empty(t, payments.updates)

	// Logged before verification, then finalized as signature_invalid.
	require.Len(t, logs.rows, 1)
	assert.Equal(t, models.WebhookStatusSignatureInvalid, logs.rows[0].Status)
	require.NotNil(t, logs.rows[0].SignatureValid)
	assert.False(t, *logs.rows[0].SignatureValid)
}

func TestProcess_UnknownOrderFinalizesFailed(t *testing.T) {
	t.Parallel()

	svc, _, logs := newTestService()

	svc.Process(signedPayload("tid-9", "T-missing", models.PaymentStatusPaid, 1000))

	require.Len(t, logs.rows, 1)
	assert.Equal(t, models.WebhookStatusFailed, logs.rows[0].Status)
	assert.NotEmpty(t, logs.rows[0].ErrorMessage)
}

func TestProcess_VbankDepositAfterReady(t *testing.T) {
	t.Parallel()

	svc, payments, logs := newTestService()
	require.NoError(t, payments.Create(&models.Payment{OrderID: "T-2", Status: models.PaymentStatusReady, Amount: 50000, PayMethod: nicepay.PayMethodVbank}))

	issued := signedPayload("tid-2", "T-2", models.PaymentStatusReady, 50000)
	issued.PayMethod = nicepay.PayMethodVbank
	svc.Process(issued)

	p, _ := payments.GetByOrderID("T-2")
	assert.Equal(t, models.PaymentStatusReady, p.Status)
	assert.Equal(t, "vbank.ready", logs.rows[0].EventType)

	deposit := signedPayload("tid-2", "T-2", models.PaymentStatusPaid, 50000)
	deposit.PayMethod = nicepay.PayMethodVbank
	svc.Process(deposit)

	p, _ = payments.GetByOrderID("T-2")
	assert.Equal(t, models.PaymentStatusPaid, p.Status)
}

func TestEventType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		status    string
		payMethod string
		want      string
	}{
		{"paid", models.PaymentStatusPaid, "card", "payment.approved"},
		{"vbank issued", models.PaymentStatusReady, nicepay.PayMethodVbank, "vbank.ready"},
		{"cancelled", models.PaymentStatusCancelled, "card", "payment.cancelled"},
		{"partial", models.PaymentStatusPartialCancelled, "card", "payment.partialCancelled"},
		{"other", models.PaymentStatusExpired, "card", "payment.expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EventType(nicepay.WebhookPayload{Status: tc.status, PayMethod: tc.payMethod})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestListLogs(t *testing.T) {
	t.Parallel()

	svc, _, logs := newTestService()
	for i := 0; i < 3; i++ {
		require.NoError(t, logs.Create(&models.WebhookLog{ID: "whl_" + strconv.Itoa(i), OrderID: "T-1"}))
	}
	require.NoError(t, logs.Create(&models.WebhookLog{ID: "whl_other", OrderID: "T-2"}))

	page, err := svc.ListLogs(repository.WebhookLogFilter{OrderID: "T-1"}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Data, 2)

	t.Run("clamps out-of-range paging", func(t *testing.T) {
		page, err := svc.ListLogs(repository.WebhookLogFilter{}, 0, 500)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.Limit)
	})
}

func TestDispatcher(t *testing.T) {
	t.Parallel()

	svc, payments, logs := newTestService()
	require.NoError(t, payments.Create(&models.Payment{OrderID: "T-1", Status: models.PaymentStatusReady, Amount: 1000}))

	d := NewDispatcher(8, svc)
	d.Start(2)

	for i := 0; i < 5; i++ {
		assert.True(t, d.Submit(signedPayload("tid-1", "T-1", models.PaymentStatusPaid, 1000)))
	}
	d.Shutdown()

	// Shutdown drains everything that was accepted.
	logs.mu.Lock()
	defer logs.mu.Unlock()
	assert.Len(t, logs.rows, 5)

	p, _ := payments.GetByOrderID("T-1")
	assert.Equal(t, models.PaymentStatusPaid, p.Status)
}

func TestDispatcher_FullBufferReportsFalse(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	d := NewDispatcher(1, svc)
	// No workers started, so the buffer fills immediately.
	assert.True(t, d.Submit(nicepay.WebhookPayload{OrderID: "T-1"}))
	assert.False(t, d.Submit(nicepay.WebhookPayload{OrderID: "T-2"}))
}

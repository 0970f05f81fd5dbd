package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/payment"
	"github.com/payhive/paygate/internal/pkg/webhook"
)

type stubPaymentRepo struct{}

func (stubPaymentRepo) Create(*models.Payment) error { return nil }

func (stubPaymentRepo) GetByOrderID(string) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubPaymentRepo) GetByTID(string) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubPaymentRepo) UpdateByOrderID(string, map[string]interface{}) error { return nil }

func (stubPaymentRepo) UpdateByTID(string, map[string]interface{}) error { return nil }

func (stubPaymentRepo) MarkFailed(string, time.Time) error { return nil }

func (stubPaymentRepo) ExpireStale(time.Time) (int64, error) { return 0, nil }

type recordingLogRepo struct {
	mu   sync.Mutex
	rows []models.WebhookLog
}

func (r *recordingLogRepo) Create(entry *models.WebhookLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *entry)
	return nil
}

func (r *recordingLogRepo) UpdateByID(string, map[string]interface{}) error { return nil }

func (r *recordingLogRepo) List(repository.WebhookLogFilter, int, int) ([]models.WebhookLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows, int64(len(r.rows)), nil
}

func newTestApp(t *testing.T) (*fiber.App, *recordingLogRepo) {
	t.Helper()

	cfg := &config.Config{
		NicePay:           config.NicePay{ClientID: "client-1", SecretKey: "secret"},
		DefaultFailureURL: "http://merchant.example/failure",
	}
	logs := &recordingLogRepo{}
	webhookService := webhook.NewService(stubPaymentRepo{}, logs, cfg)
	dispatcher := webhook.NewDispatcher(4, webhookService)
	dispatcher.Start(1)
	t.Cleanup(dispatcher.Shutdown)

	Init(Deps{
		Config:            cfg,
		Payments:          payment.NewService(stubPaymentRepo{}, nil, cfg),
		Webhooks:          webhookService,
		WebhookDispatcher: dispatcher,
	})

	app := fiber.New()
	app.Post("/api/v1/payments/prepare", HandlePreparePayment)
	app.Get("/api/v1/payments/:tid", HandleGetPaymentByTID)
	app.Post("/api/v1/webhooks/nicepay", HandleReceiveWebhook)
	app.Get("/api/v1/webhooks/logs", HandleListWebhookLogs)
	return app, logs
}

func TestHandleReceiveWebhook_FixedAcknowledgment(t *testing.T) {
	app, logs := newTestApp(t)

	t.Run("valid payload", func(t *testing.T) {
		body := `{"resultCode":"0000","tid":"tid-1","orderId":"T-1","amount":1000,"status":"paid"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/nicepay", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "OK", string(data))
	})

	t.Run("malformed payload still acknowledged", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/nicepay", strings.NewReader("not-json{"))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "OK", string(data))
	})

	// The valid delivery reaches the log, possibly after worker handoff.
	require.Eventually(t, func() bool {
		logs.mu.Lock()
		defer logs.mu.Unlock()
		return len(logs.rows) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandlePreparePayment_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/prepare", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unsupported pay method", func(t *testing.T) {
		body := `{"orderId":"T-1","amount":1000,"goodsName":"g","method":"paypal","returnUrl":"http://m.example/r"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/prepare", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var envelope struct {
			Success bool `json:"success"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		assert.False(t, envelope.Success)
		assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
	})
}

func TestHandleGetPaymentByTID_NotFound(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/tid-missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "PAYMENT_NOT_FOUND", envelope.Error.Code)
}

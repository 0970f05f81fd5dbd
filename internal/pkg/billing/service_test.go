package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/nicepay"
)

const testSecret = "S2-test-secret-key"

type fakeKeyRepo struct {
	mu    sync.Mutex
	byBID map[string]*models.BillingKey
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{byBID: make(map[string]*models.BillingKey)}
}

func (r *fakeKeyRepo) Create(key *models.BillingKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *key
	r.byBID[key.BID] = &cp
	return nil
}

func (r *fakeKeyRepo) GetByBID(bid string) (*models.BillingKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byBID[bid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *key
	return &cp, nil
}

func (r *fakeKeyRepo) UpdateByBID(bid string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byBID[bid]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"]; ok {
		key.Status = v.(string)
	}
	if v, ok := updates["expired_at"]; ok {
		key.ExpiredAt = v.(*time.Time)
	}
	return nil
}

type fakePaymentRepo struct {
	mu      sync.Mutex
	created []*models.Payment
}

func (r *fakePaymentRepo) Create(p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakePaymentRepo) GetByOrderID(string) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) GetByTID(string) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) UpdateByOrderID(string, map[string]interface{}) error { return nil }

func (r *fakePaymentRepo) UpdateByTID(string, map[string]interface{}) error { return nil }

func (r *fakePaymentRepo) MarkFailed(string, time.Time) error { return nil }

func (r *fakePaymentRepo) ExpireStale(time.Time) (int64, error) { return 0, nil }

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *fakeKeyRepo, *fakePaymentRepo) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := &nicepay.Client{
		BaseURL:         srv.URL,
		ClientID:        "client-1",
		SecretKey:       testSecret,
		AuthHeader:      nicepay.GenerateBasicAuth("client-1", testSecret),
		ApprovalTimeout: 2 * time.Second,
		GeneralTimeout:  2 * time.Second,
		HTTPClient:      srv.Client(),
	}

	keys := newFakeKeyRepo()
	payments := &fakePaymentRepo{}
	cfg := &config.Config{NicePay: config.NicePay{ClientID: "client-1", SecretKey: testSecret}}
	return NewService(keys, payments, client, cfg), keys, payments
}

func activeKey(bid string) *models.BillingKey {
	return &models.BillingKey{
		ID:       "bil_test",
		BID:      bid,
		OrderID:  "B-1",
		Status:   models.BillingKeyStatusActive,
		CardCode: "04",
		CardName: "삼성카드",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	var gotBody nicepay.BillingRegisterRequest
	svc, keys, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe/regist", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(nicepay.BillingRegisterResponse{
			ResultCode: "0000",
			BID:        "BIKY123",
			OrderID:    "B-1",
			AuthDate:   "2026-08-31",
			CardCode:   "04",
			CardName:   "삼성카드",
			CardNum:    "123412******1234",
		})
	})

	view, err := svc.Register(context.Background(), RegisterRequest{
		OrderID:  "B-1",
		CardNo:   "1234123412341234",
		ExpYear:  "30",
		ExpMonth: "12",
	})
	require.NoError(t, err)

	assert.Equal(t, "BIKY123", view.BID)
	assert.Equal(t, models.BillingKeyStatusActive, view.Status)
	assert.Equal(t, "123412******1234", view.CardNumMasked)

	// The card payload crosses the wire encrypted, in A2 mode.
	assert.Equal(t, nicepay.EncModeAES256, gotBody.EncMode)
	assert.NotEmpty(t, gotBody.EncData)
	assert.NotContains(t, gotBody.EncData, "1234123412341234")

	stored, err := keys.GetByBID("BIKY123")
	require.NoError(t, err)
	assert.Equal(t, models.BillingKeyStatusActive, stored.Status)
	// Only the masked descriptor lands in the store.
	assert.NotEqual(t, "1234123412341234", stored.CardNumMasked)
}

func TestCharge(t *testing.T) {
	t.Parallel()

	svc, keys, payments := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe/BIKY123/payments", r.URL.Path)
		var body nicepay.BillingChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, nicepay.GenerateBillingChargeSignData("B-2", "BIKY123", body.EdiDate, testSecret), body.SignData)

		json.NewEncoder(w).Encode(nicepay.ApprovalResponse{
			ResultCode: "0000",
			TID:        "tid-b",
			OrderID:    "B-2",
			Status:     models.PaymentStatusPaid,
			Amount:     9900,
			BalanceAmt: 9900,
			ApproveNo:  "112233",
			PaidAt:     "2026-08-31T12:00:00.000Z",
			Card:       &nicepay.CardInfo{CardCode: "04", CardName: "삼성카드"},
		})
	})
	require.NoError(t, keys.Create(activeKey("BIKY123")))

	view, err := svc.Charge(context.Background(), "BIKY123", ChargeRequest{
		OrderID:   "B-2",
		Amount:    9900,
		GoodsName: "subscription",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, view.Status)
	assert.Equal(t, "tid-b", view.TID)
	assert.Equal(t, "112233", view.ApproveNo)

	// The charge lands directly as a paid payment row.
	require.Len(t, payments.created, 1)
	p := payments.created[0]
	assert.Equal(t, models.PaymentStatusPaid, p.Status)
	assert.Equal(t, int64(9900), p.Amount)
	require.NotNil(t, p.PaidAt)
}

func TestCharge_RejectsInactiveKey(t *testing.T) {
	t.Parallel()

	var processorCalls int
	svc, keys, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		processorCalls++
	})
	expired := activeKey("BIKY123")
	expired.Status = models.BillingKeyStatusExpired
	require.NoError(t, keys.Create(expired))

	_, err := svc.Charge(context.Background(), "BIKY123", ChargeRequest{OrderID: "B-2", Amount: 9900, GoodsName: "sub"})
	require.Error(t, err)
	assert.Equal(t, nicepay.ErrCodeBillingKeyNotFound, nicepay.CodeOf(err))
	assert.Zero(t, processorCalls)
}

func TestCharge_UnknownKey(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := svc.Charge(context.Background(), "BIKY404", ChargeRequest{OrderID: "B-2", Amount: 9900, GoodsName: "sub"})
	require.Error(t, err)
	assert.Equal(t, nicepay.ErrCodeBillingKeyNotFound, nicepay.CodeOf(err))
}

func TestExpire(t *testing.T) {
	t.Parallel()

	svc, keys, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe/BIKY123/expire", r.URL.Path)
		json.NewEncoder(w).Encode(nicepay.BaseResponse{ResultCode: "0000"})
	})
	require.NoError(t, keys.Create(activeKey("BIKY123")))

	view, err := svc.Expire(context.Background(), "BIKY123", ExpireRequest{OrderID: "B-3"})
	require.NoError(t, err)
	assert.Equal(t, models.BillingKeyStatusExpired, view.Status)
	require.NotNil(t, view.ExpiredAt)

	stored, _ := keys.GetByBID("BIKY123")
	assert.Equal(t, models.BillingKeyStatusExpired, stored.Status)
	require.NotNil(t, stored.ExpiredAt)
}

func TestRegisterRequestValidate(t *testing.T) {
	t.Parallel()

	valid := RegisterRequest{OrderID: "B-1", CardNo: "1234123412341234", ExpYear: "30", ExpMonth: "12"}
	assert.NoError(t, valid.Validate())

	badCard := valid
	badCard.CardNo = "not-a-card"
	assert.Error(t, badCard.Validate())

	badYear := valid
	badYear.ExpYear = "2030"
	assert.Error(t, badYear.Validate())
}

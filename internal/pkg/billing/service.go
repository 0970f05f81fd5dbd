package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"github.com/payhive/paygate/internal/pkg/utils"
	"gorm.io/gorm"
)

// Service manages billing keys: signed-call-then-persist, same pattern as
// payments but operating on the BillingKey entity.
type Service struct {
	keys     repository.BillingKeyRepository
	payments repository.PaymentRepository
	client   *nicepay.Client
	cfg      *config.Config
}

// NewService creates a billing service with injected collaborators.
func NewService(keys repository.BillingKeyRepository, payments repository.PaymentRepository, client *nicepay.Client, cfg *config.Config) *Service {
	return &Service{keys: keys, payments: payments, client: client, cfg: cfg}
}

// Register encrypts the card data, exchanges it for a billing key at the
// processor, and stores the masked descriptor. The encrypted payload is
// sent once and never persisted.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*KeyView, error) {
	ediDate := nicepay.GenerateEdiDate()
	signData := nicepay.GenerateBillingRegisterSignData(req.OrderID, ediDate, s.cfg.NicePay.SecretKey)

	encData, err := nicepay.EncryptCardData(req.CardNo, req.ExpYear, req.ExpMonth, req.IDNo, req.CardPw, s.cfg.NicePay.SecretKey)
	if err != nil {
		return nil, err
	}

	result, err := s.client.BillingRegister(ctx, nicepay.BillingRegisterRequest{
		EncData:    encData,
		OrderID:    req.OrderID,
		EncMode:    nicepay.EncModeAES256,
		EdiDate:    ediDate,
		SignData:   signData,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerTel:   req.BuyerTel,
	})
	if err != nil {
		return nil, err
	}

	key := &models.BillingKey{
		ID:            utils.NewBillingID(),
		BID:           result.BID,
		OrderID:       req.OrderID,
		Status:        models.BillingKeyStatusActive,
		CardCode:      result.CardCode,
		CardName:      result.CardName,
		CardNumMasked: result.CardNum,
		BuyerName:     req.BuyerName,
		BuyerEmail:    req.BuyerEmail,
		BuyerTel:      req.BuyerTel,
		AuthDate:      result.AuthDate,
	}
	if err := s.keys.Create(key); err != nil {
		return nil, err
	}

	return &KeyView{
		BillingID:     key.ID,
		BID:           key.BID,
		OrderID:       key.OrderID,
		Status:        key.Status,
		CardCode:      key.CardCode,
		CardName:      key.CardName,
		CardNumMasked: key.CardNumMasked,
		CreatedAt:     time.Now(),
	}, nil
}

// Charge bills a registered key and records the resulting payment directly
// in paid state; the card credential was authenticated at registration, so
// there is no browser round-trip and no ready phase.
func (s *Service) Charge(ctx context.Context, bid string, req ChargeRequest) (*ChargeView, error) {
	key, err := s.keys.GetByBID(bid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nicepay.NewBillingKeyNotFoundError(bid)
		}
		return nil, err
	}
	if key.Status != models.BillingKeyStatusActive {
		return nil, nicepay.NewBillingKeyNotFoundError(bid)
	}

	ediDate := nicepay.GenerateEdiDate()
	result, err := s.client.BillingCharge(ctx, bid, nicepay.BillingChargeRequest{
		OrderID:    req.OrderID,
		Amount:     req.Amount,
		GoodsName:  req.GoodsName,
		CardQuota:  req.CardQuota,
		EdiDate:    ediDate,
		SignData:   nicepay.GenerateBillingChargeSignData(req.OrderID, bid, ediDate, s.cfg.NicePay.SecretKey),
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerTel:   req.BuyerTel,
	})
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		ID:         utils.NewPaymentID(),
		OrderID:    req.OrderID,
		TID:        result.TID,
		Status:     models.PaymentStatusPaid,
		Amount:     req.Amount,
		BalanceAmt: result.BalanceAmt,
		PayMethod:  "card",
		GoodsName:  req.GoodsName,
		ApproveNo:  result.ApproveNo,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerTel:   req.BuyerTel,
		ReturnURL:  "",
		ExpiresAt:  time.Now(),
	}
	if result.Card != nil {
		if raw, mErr := json.Marshal(result.Card); mErr == nil {
			p.CardInfo = string(raw)
		}
	}
	if paidAt, pErr := time.Parse(time.RFC3339, result.PaidAt); pErr == nil {
		p.PaidAt = &paidAt
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}

	view := &ChargeView{
		PaymentID: p.ID,
		TID:       result.TID,
		BID:       bid,
		OrderID:   req.OrderID,
		Status:    models.PaymentStatusPaid,
		Amount:    req.Amount,
		ApproveNo: result.ApproveNo,
		PaidAt:    result.PaidAt,
	}
	if result.Card != nil {
		view.CardCode = result.Card.CardCode
		view.CardName = result.Card.CardName
		view.CardNum = result.Card.CardNum
	}
	return view, nil
}

// Expire revokes a billing key at the processor and marks it expired
// locally. Expired keys are never charged again.
func (s *Service) Expire(ctx context.Context, bid string, req ExpireRequest) (*KeyView, error) {
	key, err := s.keys.GetByBID(bid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nicepay.NewBillingKeyNotFoundError(bid)
		}
		return nil, err
	}

	ediDate := nicepay.GenerateEdiDate()
	if _, err := s.client.BillingExpire(ctx, bid, nicepay.BillingExpireRequest{
		OrderID:  req.OrderID,
		EdiDate:  ediDate,
		SignData: nicepay.GenerateBillingRegisterSignData(req.OrderID, ediDate, s.cfg.NicePay.SecretKey),
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.keys.UpdateByBID(bid, map[string]interface{}{
		"status":     models.BillingKeyStatusExpired,
		"expired_at": &now,
	}); err != nil {
		return nil, err
	}

	return &KeyView{
		BillingID: key.ID,
		BID:       bid,
		OrderID:   key.OrderID,
		Status:    models.BillingKeyStatusExpired,
		ExpiredAt: &now,
		CreatedAt: key.CreatedAt,
	}, nil
}

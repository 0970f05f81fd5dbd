package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"github.com/payhive/paygate/internal/pkg/utils"
	"gorm.io/gorm"
)

const prepareTTL = 30 * time.Minute

// Service implements the payment state machine: prepare reserves the
// authoritative amount, approve drives the authenticate/verify/approve
// sequence, and lookups format stored rows for callers.
type Service struct {
	payments repository.PaymentRepository
	client   *nicepay.Client
	cfg      *config.Config
}

// NewService creates a payment service with injected collaborators.
func NewService(payments repository.PaymentRepository, client *nicepay.Client, cfg *config.Config) *Service {
	return &Service{payments: payments, client: client, cfg: cfg}
}

// Prepare stores a payment in ready state with its authoritative amount and
// a fixed validity window, and returns the parameters the merchant frontend
// needs to open the processor payment window.
func (s *Service) Prepare(ctx context.Context, req PrepareRequest) (*PrepareResult, error) {
	_ = ctx
	now := time.Now()
	expiresAt := now.Add(prepareTTL)

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = s.cfg.DefaultSuccessURL
	}
	failureURL := req.FailureURL
	if failureURL == "" {
		failureURL = s.cfg.DefaultFailureURL
	}

	p := &models.Payment{
		ID:           utils.NewPaymentID(),
		OrderID:      req.OrderID,
		Status:       models.PaymentStatusReady,
		Amount:       req.Amount,
		PayMethod:    req.Method,
		GoodsName:    req.GoodsName,
		ReturnURL:    req.ReturnURL,
		SuccessURL:   successURL,
		FailureURL:   failureURL,
		BuyerName:    req.BuyerName,
		BuyerEmail:   req.BuyerEmail,
		BuyerTel:     req.BuyerTel,
		MallReserved: req.MallReserved,
		ExpiresAt:    expiresAt,
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}

	return &PrepareResult{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Status:    p.Status,
		SDKParams: SDKParams{
			ClientID:     s.cfg.NicePay.ClientID,
			Method:       req.Method,
			OrderID:      req.OrderID,
			Amount:       req.Amount,
			GoodsName:    req.GoodsName,
			ReturnURL:    req.ReturnURL,
			BuyerName:    req.BuyerName,
			BuyerEmail:   req.BuyerEmail,
			BuyerTel:     req.BuyerTel,
			MallReserved: req.MallReserved,
		},
		SDKURL:    s.cfg.NicePay.SDKURL,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

// Approve processes the processor's browser callback. The gate order is
// fixed: authentication result, then callback signature, then amount. Each
// failure short-circuits to failed without calling the processor. Only then
// is the signed approval issued, wrapped by the net-cancellation guard.
// The counterpart is a browser redirect with no retry semantics, so every
// outcome resolves to a redirect URL; only an unknown order or a store
// fault surfaces as an error for the controller's fallback redirect.
func (s *Service) Approve(ctx context.Context, params nicepay.AuthCallbackParams) (string, error) {
	p, err := s.payments.GetByOrderID(params.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nicepay.NewPaymentNotFoundError(params.OrderID)
		}
		return "", err
	}

	successURL := p.SuccessURL
	if successURL == "" {
		successURL = s.cfg.DefaultSuccessURL
	}
	failureURL := p.FailureURL
	if failureURL == "" {
		failureURL = s.cfg.DefaultFailureURL
	}

	// Gate 1: processor-side authentication result
	if params.AuthResultCode != nicepay.ResultCodeSuccess {
		s.markFailed(params.OrderID)
		return fmt.Sprintf("%s?orderId=%s&status=failed&code=%s&msg=%s",
			failureURL, url.QueryEscape(params.OrderID), url.QueryEscape(params.AuthResultCode), url.QueryEscape(params.AuthResultMsg)), nil
	}

	amount, parseErr := strconv.ParseInt(params.Amount, 10, 64)

	// Gate 2: callback signature
	if parseErr != nil || !nicepay.VerifyAuthSignature(params.AuthToken, params.ClientID, amount, s.cfg.NicePay.SecretKey, params.Signature) {
		log.Printf("ERROR auth signature verification failed for order %s (tid %s)", params.OrderID, params.TID)
		s.markFailed(params.OrderID)
		return fmt.Sprintf("%s?orderId=%s&status=failed&code=%s",
			failureURL, url.QueryEscape(params.OrderID), nicepay.ErrCodeSignatureInvalid), nil
	}

	// Gate 3: authoritative amount
	if err := VerifyAmount(s.payments, params.OrderID, amount); err != nil {
		log.Printf("ERROR amount verification failed for order %s (tid %s): %v", params.OrderID, params.TID, err)
		s.markFailed(params.OrderID)
		return fmt.Sprintf("%s?orderId=%s&status=failed&code=%s",
			failureURL, url.QueryEscape(params.OrderID), nicepay.ErrCodeAmountMismatch), nil
	}

	// Keep tid and auth token before the outbound call, so a crash mid-call
	// still leaves the correlation key for manual inquiry.
	if err := s.payments.UpdateByOrderID(params.OrderID, map[string]interface{}{
		"tid":        params.TID,
		"auth_token": params.AuthToken,
	}); err != nil {
		return "", err
	}

	result, err := nicepay.ApproveWithNetCancel(ctx, s.client, params.TID, amount, params.OrderID)
	if err != nil {
		log.Printf("ERROR approval failed for order %s (tid %s): %v", params.OrderID, params.TID, err)
		s.markFailed(params.OrderID)
		return fmt.Sprintf("%s?orderId=%s&status=failed&code=%s",
			failureURL, url.QueryEscape(params.OrderID), nicepay.CodeOf(err)), nil
	}

	updates := map[string]interface{}{
		"status":      models.PaymentStatusPaid,
		"tid":         result.TID,
		"approve_no":  result.ApproveNo,
		"balance_amt": result.BalanceAmt,
		"channel":     result.Channel,
	}
	if result.Card != nil {
		if raw, err := json.Marshal(result.Card); err == nil {
			updates["card_info"] = string(raw)
		}
	}
	if result.Vbank != nil {
		if raw, err := json.Marshal(result.Vbank); err == nil {
			updates["vbank_info"] = string(raw)
		}
	}
	if paidAt, err := time.Parse(time.RFC3339, result.PaidAt); err == nil {
		updates["paid_at"] = &paidAt
	}

	// A virtual account is authenticated but not yet funded: it stays
	// ready, and only the later deposit webhook moves it to paid.
	if result.Status == models.PaymentStatusReady && result.Vbank != nil {
		updates["status"] = models.PaymentStatusReady
	}

	if err := s.payments.UpdateByOrderID(params.OrderID, updates); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s?orderId=%s&status=paid&tid=%s",
		successURL, url.QueryEscape(params.OrderID), url.QueryEscape(result.TID)), nil
}

// GetByTID returns the payment view for a processor transaction id.
func (s *Service) GetByTID(ctx context.Context, tid string) (*View, error) {
	_ = ctx
	p, err := s.payments.GetByTID(tid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nicepay.NewPaymentNotFoundError(tid)
		}
		return nil, err
	}
	return NewView(p), nil
}

// GetByOrderID returns the payment view for a merchant order id.
func (s *Service) GetByOrderID(ctx context.Context, orderID string) (*View, error) {
	_ = ctx
	p, err := s.payments.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nicepay.NewPaymentNotFoundError(orderID)
		}
		return nil, err
	}
	return NewView(p), nil
}

// ExpireStale moves ready payments past their validity window to expired.
// Only rows never touched by a callback qualify; anything with a tid is
// mid-flight and left alone.
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	_ = ctx
	n, err := s.payments.ExpireStale(time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("INFO expired %d stale payment(s)", n)
	}
	return n, nil
}

func (s *Service) markFailed(orderID string) {
	if err := s.payments.MarkFailed(orderID, time.Now()); err != nil {
		log.Printf("ERROR failed to mark payment %s failed: %v", orderID, err)
	}
}

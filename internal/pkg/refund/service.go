package refund

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"github.com/payhive/paygate/internal/pkg/utils"
	"gorm.io/gorm"
)

// CancelRequest asks for a full or partial cancellation of a paid
// transaction. Nil CancelAmt means full cancel. The bank refund fields are
// required by the processor for virtual-account instruments.
type CancelRequest struct {
	Reason         string `json:"reason" validate:"required,max=200"`
	OrderID        string `json:"orderId" validate:"required,max=64"`
	CancelAmt      *int64 `json:"cancelAmt" validate:"omitempty,gt=0"`
	TaxFreeAmt     *int64 `json:"taxFreeAmt" validate:"omitempty,gte=0"`
	RefundAccount  string `json:"refundAccount" validate:"omitempty,max=30"`
	RefundBankCode string `json:"refundBankCode" validate:"omitempty,max=10"`
	RefundHolder   string `json:"refundHolder" validate:"omitempty,max=50"`
}

// Validate checks field constraints.
func (r *CancelRequest) Validate() error {
	return validator.New().Struct(r)
}

// Result is the synchronous answer to a cancel call.
type Result struct {
	RefundID     string `json:"refundId"`
	TID          string `json:"tid"`
	CancelledTID string `json:"cancelledTid"`
	OrderID      string `json:"orderId"`
	Status       string `json:"status"`
	CancelAmt    int64  `json:"cancelAmt"`
	BalanceAmt   int64  `json:"balanceAmt"`
	CancelledAt  string `json:"cancelledAt"`
	Reason       string `json:"reason"`
}

// Service drives the refund state machine against the processor.
type Service struct {
	payments repository.PaymentRepository
	refunds  repository.RefundRepository
	client   *nicepay.Client
}

// NewService creates a refund service with injected collaborators.
func NewService(payments repository.PaymentRepository, refunds repository.RefundRepository, client *nicepay.Client) *Service {
	return &Service{payments: payments, refunds: refunds, client: client}
}

// Cancel creates the refund row first, in requested state, then issues the
// signed cancellation. A crash between the outbound call and the local
// write therefore stays auditable from the processor's side. On success the
// payment status is recomputed from the remaining balance; on failure the
// refund row is marked failed and the error re-raised.
func (s *Service) Cancel(ctx context.Context, tid string, req CancelRequest) (*Result, error) {
	p, err := s.payments.GetByTID(tid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nicepay.NewPaymentNotFoundError(tid)
		}
		return nil, err
	}

	refund := &models.Refund{
		ID:             utils.NewRefundID(),
		PaymentID:      p.ID,
		TID:            tid,
		OrderID:        req.OrderID,
		Status:         models.RefundStatusRequested,
		Reason:         req.Reason,
		RefundAccount:  req.RefundAccount,
		RefundBankCode: req.RefundBankCode,
		RefundHolder:   req.RefundHolder,
	}
	if req.CancelAmt != nil {
		refund.CancelAmt = *req.CancelAmt
	}
	if err := s.refunds.Create(refund); err != nil {
		return nil, err
	}

	result, err := s.client.Cancel(ctx, tid, nicepay.CancelParams{
		Reason:         req.Reason,
		OrderID:        req.OrderID,
		CancelAmt:      req.CancelAmt,
		TaxFreeAmt:     req.TaxFreeAmt,
		RefundAccount:  req.RefundAccount,
		RefundBankCode: req.RefundBankCode,
		RefundHolder:   req.RefundHolder,
	})
	if err != nil {
		updates := map[string]interface{}{
			"status":     models.RefundStatusFailed,
			"result_msg": err.Error(),
		}
		if ne, ok := err.(*nicepay.Error); ok && ne.ResultCode != "" {
			updates["result_code"] = ne.ResultCode
		}
		if uErr := s.refunds.UpdateByID(refund.ID, updates); uErr != nil {
			log.Printf("ERROR failed to mark refund %s failed: %v", refund.ID, uErr)
		}
		return nil, err
	}

	cancelledAt, caErr := time.Parse(time.RFC3339, result.CancelledAt)
	refundUpdates := map[string]interface{}{
		"status":        models.RefundStatusCompleted,
		"cancelled_tid": result.CancelledTID,
		"cancel_amt":    result.CancelAmt,
		"balance_amt":   result.BalanceAmt,
		"result_code":   result.ResultCode,
		"result_msg":    result.ResultMsg,
	}
	if caErr == nil {
		refundUpdates["cancelled_at"] = &cancelledAt
	}
	if err := s.refunds.UpdateByID(refund.ID, refundUpdates); err != nil {
		return nil, err
	}

	// Full cancel empties the balance; anything left is a partial cancel.
	newStatus := models.PaymentStatusPartialCancelled
	if result.BalanceAmt == 0 {
		newStatus = models.PaymentStatusCancelled
	}

	paymentUpdates := map[string]interface{}{
		"status":      newStatus,
		"balance_amt": result.BalanceAmt,
	}
	if caErr == nil {
		paymentUpdates["cancelled_at"] = &cancelledAt
	}
	if err := s.payments.UpdateByTID(tid, paymentUpdates); err != nil {
		return nil, err
	}

	return &Result{
		RefundID:     refund.ID,
		TID:          tid,
		CancelledTID: result.CancelledTID,
		OrderID:      req.OrderID,
		Status:       newStatus,
		CancelAmt:    result.CancelAmt,
		BalanceAmt:   result.BalanceAmt,
		CancelledAt:  result.CancelledAt,
		Reason:       req.Reason,
	}, nil
}

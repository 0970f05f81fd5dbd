package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/payhive/paygate/app/models"
	"github.com/payhive/paygate/internal/pkg/nicepay"
)

// PrepareRequest creates a payment attempt and reserves the authoritative
// amount.
type PrepareRequest struct {
	OrderID      string `json:"orderId" validate:"required,min=1,max=64"`
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	GoodsName    string `json:"goodsName" validate:"required,max=100"`
	Method       string `json:"method" validate:"required"`
	ReturnURL    string `json:"returnUrl" validate:"required,url"`
	SuccessURL   string `json:"successUrl" validate:"omitempty,url"`
	FailureURL   string `json:"failureUrl" validate:"omitempty,url"`
	BuyerName    string `json:"buyerName" validate:"omitempty,max=100"`
	BuyerEmail   string `json:"buyerEmail" validate:"omitempty,email"`
	BuyerTel     string `json:"buyerTel" validate:"omitempty,max=30"`
	MallReserved string `json:"mallReserved"`
}

// Validate checks field constraints and the pay method whitelist.
func (r *PrepareRequest) Validate() error {
	v := validator.New()
	if err := v.Struct(r); err != nil {
		return err
	}
	if !nicepay.IsValidPayMethod(r.Method) {
		return fmt.Errorf("unsupported pay method: %s", r.Method)
	}
	return nil
}

// SDKParams are handed back to the merchant frontend to open the processor
// payment window.
type SDKParams struct {
	ClientID     string `json:"clientId"`
	Method       string `json:"method"`
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	GoodsName    string `json:"goodsName"`
	ReturnURL    string `json:"returnUrl"`
	BuyerName    string `json:"buyerName,omitempty"`
	BuyerEmail   string `json:"buyerEmail,omitempty"`
	BuyerTel     string `json:"buyerTel,omitempty"`
	MallReserved string `json:"mallReserved,omitempty"`
}

// PrepareResult is the synchronous answer to a prepare call.
type PrepareResult struct {
	PaymentID string    `json:"paymentId"`
	OrderID   string    `json:"orderId"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	SDKParams SDKParams `json:"sdkParams"`
	SDKURL    string    `json:"sdkUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BuyerView is the buyer slice of a payment view.
type BuyerView struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Tel   string `json:"tel,omitempty"`
}

// View is the external representation of a payment.
type View struct {
	PaymentID   string             `json:"paymentId"`
	TID         string             `json:"tid,omitempty"`
	OrderID     string             `json:"orderId"`
	Status      string             `json:"status"`
	Amount      int64              `json:"amount"`
	BalanceAmt  int64              `json:"balanceAmt"`
	PayMethod   string             `json:"payMethod"`
	GoodsName   string             `json:"goodsName"`
	Currency    string             `json:"currency"`
	ApproveNo   string             `json:"approveNo,omitempty"`
	Channel     string             `json:"channel,omitempty"`
	Card        *nicepay.CardInfo  `json:"card,omitempty"`
	Vbank       *nicepay.VbankInfo `json:"vbank,omitempty"`
	Buyer       BuyerView          `json:"buyer"`
	PaidAt      *time.Time         `json:"paidAt,omitempty"`
	FailedAt    *time.Time         `json:"failedAt,omitempty"`
	CancelledAt *time.Time         `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewView formats a payment row for external callers, parsing the stored
// instrument JSON back into structured form.
func NewView(p *models.Payment) *View {
	v := &View{
		PaymentID:   p.ID,
		TID:         p.TID,
		OrderID:     p.OrderID,
		Status:      p.Status,
		Amount:      p.Amount,
		BalanceAmt:  p.BalanceAmt,
		PayMethod:   p.PayMethod,
		GoodsName:   p.GoodsName,
		Currency:    p.Currency,
		ApproveNo:   p.ApproveNo,
		Channel:     p.Channel,
		Buyer:       BuyerView{Name: p.BuyerName, Email: p.BuyerEmail, Tel: p.BuyerTel},
		PaidAt:      p.PaidAt,
		FailedAt:    p.FailedAt,
		CancelledAt: p.CancelledAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CardInfo != "" {
		var card nicepay.CardInfo
		if err := json.Unmarshal([]byte(p.CardInfo), &card); err == nil {
			v.Card = &card
		}
	}
	if p.VbankInfo != "" {
		var vbank nicepay.VbankInfo
		if err := json.Unmarshal([]byte(p.VbankInfo), &vbank); err == nil {
			v.Vbank = &vbank
		}
	}
	return v
}

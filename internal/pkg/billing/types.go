package billing

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterRequest carries raw card data for billing key issuance. The card
// fields are encrypted before leaving the process and are never persisted.
type RegisterRequest struct {
	OrderID    string `json:"orderId" validate:"required,max=64"`
	CardNo     string `json:"cardNo" validate:"required,numeric,min=13,max=19"`
	ExpYear    string `json:"expYear" validate:"required,len=2,numeric"`
	ExpMonth   string `json:"expMonth" validate:"required,len=2,numeric"`
	IDNo       string `json:"idNo" validate:"omitempty,numeric"`
	CardPw     string `json:"cardPw" validate:"omitempty,len=2,numeric"`
	BuyerName  string `json:"buyerName" validate:"omitempty,max=100"`
	BuyerEmail string `json:"buyerEmail" validate:"omitempty,email"`
	BuyerTel   string `json:"buyerTel" validate:"omitempty,max=30"`
}

// Validate checks field constraints.
func (r *RegisterRequest) Validate() error {
	return validator.New().Struct(r)
}

// ChargeRequest charges a registered billing key. No browser round-trip is
// involved; authentication happened at registration time.
type ChargeRequest struct {
	OrderID    string `json:"orderId" validate:"required,max=64"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	GoodsName  string `json:"goodsName" validate:"required,max=100"`
	CardQuota  *int   `json:"cardQuota" validate:"omitempty,gte=0"`
	BuyerName  string `json:"buyerName" validate:"omitempty,max=100"`
	BuyerEmail string `json:"buyerEmail" validate:"omitempty,email"`
	BuyerTel   string `json:"buyerTel" validate:"omitempty,max=30"`
}

// Validate checks field constraints.
func (r *ChargeRequest) Validate() error {
	return validator.New().Struct(r)
}

// ExpireRequest revokes a billing key.
type ExpireRequest struct {
	OrderID string `json:"orderId" validate:"required,max=64"`
}

// Validate checks field constraints.
func (r *ExpireRequest) Validate() error {
	return validator.New().Struct(r)
}

// KeyView is the external representation of a billing key.
type KeyView struct {
	BillingID     string     `json:"billingId"`
	BID           string     `json:"bid"`
	OrderID       string     `json:"orderId"`
	Status        string     `json:"status"`
	CardCode      string     `json:"cardCode,omitempty"`
	CardName      string     `json:"cardName,omitempty"`
	CardNumMasked string     `json:"cardNumMasked,omitempty"`
	ExpiredAt     *time.Time `json:"expiredAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ChargeView is the answer to a billing charge.
type ChargeView struct {
	PaymentID string `json:"paymentId"`
	TID       string `json:"tid"`
	BID       string `json:"bid"`
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	ApproveNo string `json:"approveNo,omitempty"`
	PaidAt    string `json:"paidAt,omitempty"`
	CardCode  string `json:"cardCode,omitempty"`
	CardName  string `json:"cardName,omitempty"`
	CardNum   string `json:"cardNum,omitempty"`
}

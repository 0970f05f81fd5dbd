package nicepay

// Wire types for the processor API. Optional fields are explicit pointers or
// omitempty strings; each operation's serialization rule for omission is
// carried by the struct tags rather than ad-hoc map building.

// BaseResponse is the common shape of every processor response.
type BaseResponse struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
	TID        string `json:"tid,omitempty"`
	OrderID    string `json:"orderId,omitempty"`
	EdiDate    string `json:"ediDate,omitempty"`
	Signature  string `json:"signature,omitempty"`
	Amount     int64  `json:"amount,omitempty"`
}

// ApprovalRequest is the body of POST /payments/{tid}.
type ApprovalRequest struct {
	Amount   int64  `json:"amount"`
	EdiDate  string `json:"ediDate"`
	SignData string `json:"signData"`
}

// CardInfo describes the card instrument on an approval response.
type CardInfo struct {
	CardCode       string `json:"cardCode"`
	CardName       string `json:"cardName"`
	CardNum        string `json:"cardNum"`
	CardQuota      int    `json:"cardQuota"`
	IsInterestFree bool   `json:"isInterestFree"`
	CardType       string `json:"cardType"`
	CanPartCancel  string `json:"canPartCancel"`
	AcquCardCode   string `json:"acquCardCode"`
	AcquCardName   string `json:"acquCardName"`
}

// VbankInfo describes a virtual account awaiting deposit.
type VbankInfo struct {
	VbankCode    string `json:"vbankCode"`
	VbankName    string `json:"vbankName"`
	VbankNumber  string `json:"vbankNumber"`
	VbankExpDate string `json:"vbankExpDate"`
	VbankHolder  string `json:"vbankHolder"`
}

// BankInfo describes a bank-transfer instrument.
type BankInfo struct {
	BankCode string `json:"bankCode"`
	BankName string `json:"bankName"`
}

// ApprovalResponse is the processor's answer to approval, inquiry and
// billing charge calls.
type ApprovalResponse struct {
	ResultCode   string     `json:"resultCode"`
	ResultMsg    string     `json:"resultMsg"`
	TID          string     `json:"tid"`
	CancelledTID string     `json:"cancelledTid,omitempty"`
	OrderID      string     `json:"orderId"`
	EdiDate      string     `json:"ediDate"`
	Signature    string     `json:"signature"`
	Status       string     `json:"status"`
	PaidAt       string     `json:"paidAt"`
	FailedAt     string     `json:"failedAt,omitempty"`
	CancelledAt  string     `json:"cancelledAt,omitempty"`
	PayMethod    string     `json:"payMethod"`
	Amount       int64      `json:"amount"`
	BalanceAmt   int64      `json:"balanceAmt"`
	GoodsName    string     `json:"goodsName"`
	MallReserved string     `json:"mallReserved,omitempty"`
	UseEscrow    bool       `json:"useEscrow"`
	Currency     string     `json:"currency"`
	Channel      string     `json:"channel"`
	ApproveNo    string     `json:"approveNo,omitempty"`
	BuyerName    string     `json:"buyerName,omitempty"`
	BuyerTel     string     `json:"buyerTel,omitempty"`
	BuyerEmail   string     `json:"buyerEmail,omitempty"`
	ReceiptURL   string     `json:"receiptUrl,omitempty"`
	Card         *CardInfo  `json:"card,omitempty"`
	Vbank        *VbankInfo `json:"vbank,omitempty"`
	Bank         *BankInfo  `json:"bank,omitempty"`
}

// CancelRequest is the body of POST /payments/{tid}/cancel.
type CancelRequest struct {
	Reason         string `json:"reason"`
	OrderID        string `json:"orderId"`
	CancelAmt      *int64 `json:"cancelAmt,omitempty"`
	TaxFreeAmt     *int64 `json:"taxFreeAmt,omitempty"`
	EdiDate        string `json:"ediDate"`
	SignData       string `json:"signData"`
	RefundAccount  string `json:"refundAccount,omitempty"`
	RefundBankCode string `json:"refundBankCode,omitempty"`
	RefundHolder   string `json:"refundHolder,omitempty"`
}

// CancelResponse is the processor's answer to a cancel call.
type CancelResponse struct {
	ResultCode   string `json:"resultCode"`
	ResultMsg    string `json:"resultMsg"`
	TID          string `json:"tid"`
	CancelledTID string `json:"cancelledTid"`
	OrderID      string `json:"orderId"`
	Status       string `json:"status"`
	CancelledAt  string `json:"cancelledAt"`
	Amount       int64  `json:"amount"`
	BalanceAmt   int64  `json:"balanceAmt"`
	CancelAmt    int64  `json:"cancelAmt"`
}

// NetCancelRequest is the body of POST /payments/netcancel, the
// compensating call for an approval whose outcome is unknown.
type NetCancelRequest struct {
	OrderAmount int64  `json:"orderAmount"`
	OrderID     string `json:"orderId"`
	EdiDate     string `json:"ediDate"`
	SignData    string `json:"signData"`
}

// BillingRegisterRequest is the body of POST /subscribe/regist. EncData is
// the AES-encrypted card payload; it is never persisted.
type BillingRegisterRequest struct {
	EncData    string `json:"encData"`
	OrderID    string `json:"orderId"`
	EncMode    string `json:"encMode"`
	EdiDate    string `json:"ediDate"`
	SignData   string `json:"signData"`
	BuyerName  string `json:"buyerName,omitempty"`
	BuyerEmail string `json:"buyerEmail,omitempty"`
	BuyerTel   string `json:"buyerTel,omitempty"`
}

// BillingRegisterResponse is the processor's answer to a registration.
type BillingRegisterResponse struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
	BID        string `json:"bid"`
	OrderID    string `json:"orderId"`
	AuthDate   string `json:"authDate"`
	CardCode   string `json:"cardCode"`
	CardName   string `json:"cardName"`
	CardNum    string `json:"cardNum,omitempty"`
}

// BillingChargeRequest is the body of POST /subscribe/{bid}/payments.
type BillingChargeRequest struct {
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
	GoodsName  string `json:"goodsName"`
	CardQuota  *int   `json:"cardQuota,omitempty"`
	EdiDate    string `json:"ediDate"`
	SignData   string `json:"signData"`
	BuyerName  string `json:"buyerName,omitempty"`
	BuyerEmail string `json:"buyerEmail,omitempty"`
	BuyerTel   string `json:"buyerTel,omitempty"`
}

// BillingExpireRequest is the body of POST /subscribe/{bid}/expire.
type BillingExpireRequest struct {
	OrderID  string `json:"orderId"`
	EdiDate  string `json:"ediDate"`
	SignData string `json:"signData"`
}

// WebhookPayload is the server-to-server notification the processor posts
// on payment state changes.
type WebhookPayload struct {
	ResultCode   string `json:"resultCode"`
	ResultMsg    string `json:"resultMsg"`
	TID          string `json:"tid"`
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	EdiDate      string `json:"ediDate"`
	Signature    string `json:"signature"`
	Status       string `json:"status"`
	PayMethod    string `json:"payMethod"`
	UseEscrow    bool   `json:"useEscrow,omitempty"`
	PaidAt       string `json:"paidAt,omitempty"`
	FailedAt     string `json:"failedAt,omitempty"`
	CancelledAt  string `json:"cancelledAt,omitempty"`
	ApproveNo    string `json:"approveNo,omitempty"`
	MallReserved string `json:"mallReserved,omitempty"`
}

// AuthCallbackParams is the form payload the browser posts to the approve
// endpoint after processor-side authentication.
type AuthCallbackParams struct {
	AuthResultCode string `form:"authResultCode" json:"authResultCode"`
	AuthResultMsg  string `form:"authResultMsg" json:"authResultMsg"`
	TID            string `form:"tid" json:"tid"`
	ClientID       string `form:"clientId" json:"clientId"`
	OrderID        string `form:"orderId" json:"orderId"`
	Amount         string `form:"amount" json:"amount"`
	MallReserved   string `form:"mallReserved" json:"mallReserved"`
	AuthToken      string `form:"authToken" json:"authToken"`
	Signature      string `form:"signature" json:"signature"`
}

package nicepay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/payhive/paygate/internal/pkg/config"
)

// Client issues signed, timed calls against the processor API. It performs
// no retries itself; retry is a separate policy applied by callers to
// idempotency-safe operations only. Configuration is injected once at
// construction and never mutated.
type Client struct {
	BaseURL    string
	ClientID   string
	SecretKey  string
	AuthHeader string

	ApprovalTimeout time.Duration
	GeneralTimeout  time.Duration

	HTTPClient *http.Client
}

// NewClient builds a processor client from the injected configuration.
func NewClient(cfg config.NicePay) *Client {
	return &Client{
		BaseURL:         cfg.APIBaseURL,
		ClientID:        cfg.ClientID,
		SecretKey:       cfg.SecretKey,
		AuthHeader:      GenerateBasicAuth(cfg.ClientID, cfg.SecretKey),
		ApprovalTimeout: cfg.ApprovalTimeout,
		GeneralTimeout:  cfg.GeneralTimeout,
		HTTPClient:      &http.Client{},
	}
}

// Approve confirms an authenticated transaction. The call is signed over
// (tid, amount, ediDate) and runs with the long approval timeout. Callers
// that can double-charge must wrap this with ApproveWithNetCancel instead
// of retrying.
func (c *Client) Approve(ctx context.Context, tid string, amount int64) (*ApprovalResponse, error) {
	ediDate := GenerateEdiDate()
	body := ApprovalRequest{
		Amount:   amount,
		EdiDate:  ediDate,
		SignData: GenerateApprovalSignData(tid, amount, ediDate, c.SecretKey),
	}

	var out ApprovalResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("%s/payments/%s", c.BaseURL, tid), body, c.ApprovalTimeout, &out); err != nil {
		return nil, err
	}
	if out.ResultCode != ResultCodeSuccess {
		return nil, newBusinessError(ErrCodeApprovalFailed, "approval", out.ResultCode, out.ResultMsg)
	}
	return &out, nil
}

// CancelParams are the caller-supplied fields of a cancellation. Nil
// CancelAmt requests a full cancel.
type CancelParams struct {
	Reason         string
	OrderID        string
	CancelAmt      *int64
	TaxFreeAmt     *int64
	RefundAccount  string
	RefundBankCode string
	RefundHolder   string
}

// Cancel voids or partially refunds an approved transaction.
func (c *Client) Cancel(ctx context.Context, tid string, params CancelParams) (*CancelResponse, error) {
	ediDate := GenerateEdiDate()
	body := CancelRequest{
		Reason:         params.Reason,
		OrderID:        params.OrderID,
		CancelAmt:      params.CancelAmt,
		TaxFreeAmt:     params.TaxFreeAmt,
		EdiDate:        ediDate,
		SignData:       GenerateCancelSignData(tid, ediDate, c.SecretKey),
		RefundAccount:  params.RefundAccount,
		RefundBankCode: params.RefundBankCode,
		RefundHolder:   params.RefundHolder,
	}

	var out CancelResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("%s/payments/%s/cancel", c.BaseURL, tid), body, c.GeneralTimeout, &out); err != nil {
		return nil, err
	}
	if out.ResultCode != ResultCodeSuccess {
		return nil, newBusinessError(ErrCodeCancelFailed, "cancel", out.ResultCode, out.ResultMsg)
	}
	return &out, nil
}

// NetCancel issues the compensating cancellation for an approval whose
// outcome is unknown. The processor honors it for one hour after the
// original attempt. The response is returned raw; callers inspect the
// result code themselves since even a rejection must not mask the original
// fault.
func (c *Client) NetCancel(ctx context.Context, orderID string, amount int64) (*BaseResponse, error) {
	ediDate := GenerateEdiDate()
	body := NetCancelRequest{
		OrderAmount: amount,
		OrderID:     orderID,
		EdiDate:     ediDate,
		SignData:    GenerateNetCancelSignData(orderID, ediDate, c.SecretKey),
	}

	var out BaseResponse
	if err := c.request(ctx, http.MethodPost, c.BaseURL+"/payments/netcancel", body, c.GeneralTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InquiryByTID fetches the processor-side view of a transaction. Read-only
// and safe to retry.
func (c *Client) InquiryByTID(ctx context.Context, tid string) (*ApprovalResponse, error) {
	var out ApprovalResponse
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("%s/payments/%s", c.BaseURL, tid), nil, c.GeneralTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InquiryByOrderID fetches a transaction by order id and order date
// (yyyy-MM-dd). Read-only and safe to retry.
func (c *Client) InquiryByOrderID(ctx context.Context, orderID, orderDate string) (*ApprovalResponse, error) {
	u := fmt.Sprintf("%s/payments/find/%s?orderDate=%s", c.BaseURL, url.PathEscape(orderID), url.QueryEscape(orderDate))
	var out ApprovalResponse
	if err := c.request(ctx, http.MethodGet, u, nil, c.GeneralTimeout, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BillingRegister exchanges encrypted card data for a reusable billing key.
func (c *Client) BillingRegister(ctx context.Context, body BillingRegisterRequest) (*BillingRegisterResponse, error) {
	var out BillingRegisterResponse
	if err := c.request(ctx, http.MethodPost, c.BaseURL+"/subscribe/regist", body, c.GeneralTimeout, &out); err != nil {
		return nil, err
	}
	if out.ResultCode != ResultCodeSuccess {
		return nil, newBusinessError(ErrCodeBillingRegister, "billing register", out.ResultCode, out.ResultMsg)
	}
	return &out, nil
}

// BillingCharge charges a registered billing key.
func (c *Client) BillingCharge(ctx context.Context, bid string, body BillingChargeRequest) (*ApprovalResponse, error) {
	var out ApprovalResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("%s/subscribe/%s/payments", c.BaseURL, bid), body, c.GeneralTimeout, &out); err != nil {
		return nil, err
	}
	if out.ResultCode != ResultCodeSuccess {
		return nil, newBusinessError(ErrCodeBillingCharge, "billing charge", out.ResultCode, out.ResultMsg)
	}
	return &out, nil
}

// BillingExpire revokes a billing key at the processor.
func (c *Client) BillingExpire(ctx context.Context, bid string, body BillingExpireRequest) (*BaseResponse, error) {
	var out BaseResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("%s/subscribe/%s/expire", c.BaseURL, bid), body, c.GeneralTimeout, &out); err != nil {
		return nil, err
	}
	if out.ResultCode != ResultCodeSuccess {
		return nil, newBusinessError(ErrCodeBillingExpire, "billing expire", out.ResultCode, out.ResultMsg)
	}
	return &out, nil
}

// request performs one HTTP exchange with an explicit timeout. A timeout or
// transport failure comes back as a network-fault error, distinct from a
// processor business rejection; the distinction drives net-cancellation and
// retry eligibility upstream.
func (c *Client) request(ctx context.Context, method, rawURL string, body interface{}, timeout time.Duration, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return NewNetworkError(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return NewNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.AuthHeader)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return NewTimeoutError(rawURL)
		}
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return NewTimeoutError(rawURL)
		}
		return NewNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return NewNetworkError(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewNetworkError(fmt.Errorf("invalid response body: %w", err))
	}
	return nil
}

package nicepay

import "fmt"

// Stable error codes surfaced to API callers. Transport-level codes
// (ErrCodeTimeout, ErrCodeNetwork) are the only retryable class and the
// only trigger for net-cancellation.
const (
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeNetworkCancelled   = "NETWORK_CANCELLED"
	ErrCodePaymentNotFound    = "PAYMENT_NOT_FOUND"
	ErrCodeBillingKeyNotFound = "BILLING_KEY_NOT_FOUND"
	ErrCodeAmountMismatch     = "AMOUNT_MISMATCH"
	ErrCodeSignatureInvalid   = "SIGNATURE_INVALID"
	ErrCodeAuthFailed         = "AUTH_FAILED"
	ErrCodeApprovalFailed     = "APPROVAL_FAILED"
	ErrCodeCancelFailed       = "CANCEL_FAILED"
	ErrCodeBillingRegister    = "BILLING_REGISTER_FAILED"
	ErrCodeBillingCharge      = "BILLING_CHARGE_FAILED"
	ErrCodeBillingExpire      = "BILLING_EXPIRE_FAILED"
)

// Error is the taxonomy root for every failure produced by this package.
// Code is stable and machine-readable; ResultCode/ResultMsg carry the
// processor's business result when one was received.
type Error struct {
	Code       string
	Message    string
	ResultCode string
	ResultMsg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("nicepay: %s (%s)", e.Message, e.Code)
}

// IsNetworkFault reports whether err is a transport-level timeout or
// network error, as opposed to a business rejection.
func IsNetworkFault(err error) bool {
	ne, ok := err.(*Error)
	return ok && (ne.Code == ErrCodeTimeout || ne.Code == ErrCodeNetwork)
}

// CodeOf extracts the stable error code, or "UNKNOWN" for foreign errors.
func CodeOf(err error) string {
	if ne, ok := err.(*Error); ok {
		return ne.Code
	}
	return "UNKNOWN"
}

func NewTimeoutError(url string) *Error {
	return &Error{Code: ErrCodeTimeout, Message: "request timeout: " + url}
}

func NewNetworkError(cause error) *Error {
	return &Error{Code: ErrCodeNetwork, Message: "network error: " + cause.Error()}
}

func NewPaymentNotFoundError(identifier string) *Error {
	return &Error{Code: ErrCodePaymentNotFound, Message: "payment not found: " + identifier}
}

func NewBillingKeyNotFoundError(bid string) *Error {
	return &Error{Code: ErrCodeBillingKeyNotFound, Message: "billing key not found: " + bid}
}

func NewAmountMismatchError(orderID string, expected, received int64) *Error {
	return &Error{
		Code:    ErrCodeAmountMismatch,
		Message: fmt.Sprintf("amount mismatch for order %s: expected %d, received %d", orderID, expected, received),
	}
}

func NewSignatureError(context string) *Error {
	return &Error{Code: ErrCodeSignatureInvalid, Message: "signature verification failed: " + context}
}

func NewAuthFailedError(resultCode, resultMsg string) *Error {
	return &Error{
		Code:       ErrCodeAuthFailed,
		Message:    fmt.Sprintf("authentication failed: %s (%s)", resultMsg, resultCode),
		ResultCode: resultCode,
		ResultMsg:  resultMsg,
	}
}

func NewNetworkCancelledError(orderID string) *Error {
	return &Error{Code: ErrCodeNetworkCancelled, Message: "network cancellation triggered for order " + orderID}
}

func newBusinessError(code, op, resultCode, resultMsg string) *Error {
	return &Error{
		Code:       code,
		Message:    fmt.Sprintf("%s failed: %s (%s)", op, resultMsg, resultCode),
		ResultCode: resultCode,
		ResultMsg:  resultMsg,
	}
}

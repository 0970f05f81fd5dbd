package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/internal/pkg/billing"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"github.com/payhive/paygate/internal/pkg/payment"
	"github.com/payhive/paygate/internal/pkg/refund"
	"github.com/payhive/paygate/internal/pkg/webhook"
)

// Deps are the service collaborators the handlers dispatch to. Init is
// called once at startup; everything here is read-only afterwards.
type Deps struct {
	Config            *config.Config
	Payments          *payment.Service
	Refunds           *refund.Service
	Billing           *billing.Service
	Webhooks          *webhook.Service
	WebhookDispatcher *webhook.Dispatcher
}

var deps Deps

// Init wires the handlers to their services.
func Init(d Deps) {
	deps = d
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// respondError renders the stable error envelope. Internal faults get a
// generic message; detail stays in server logs only.
func respondError(c *fiber.Ctx, status int, code, message string) error {
	if status >= fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.Status(status).JSON(errorEnvelope{
		Success: false,
		Error:   errorBody{Code: code, Message: message},
	})
}

// respondServiceError maps a service failure to an HTTP status by its
// stable code.
func respondServiceError(c *fiber.Ctx, err error) error {
	code := nicepay.CodeOf(err)
	status := fiber.StatusBadGateway
	switch code {
	case nicepay.ErrCodePaymentNotFound, nicepay.ErrCodeBillingKeyNotFound:
		status = fiber.StatusNotFound
	case nicepay.ErrCodeAmountMismatch, nicepay.ErrCodeSignatureInvalid:
		status = fiber.StatusBadRequest
	case nicepay.ErrCodeApprovalFailed, nicepay.ErrCodeCancelFailed,
		nicepay.ErrCodeBillingRegister, nicepay.ErrCodeBillingCharge, nicepay.ErrCodeBillingExpire:
		status = fiber.StatusUnprocessableEntity
	case "UNKNOWN":
		status = fiber.StatusInternalServerError
	}
	return respondError(c, status, code, err.Error())
}

func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

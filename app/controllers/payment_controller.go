package controllers

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/internal/pkg/metrics/counter"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"github.com/payhive/paygate/internal/pkg/payment"
)

// HandlePreparePayment creates a payment attempt and returns the SDK
// parameters for the merchant frontend.
func HandlePreparePayment(c *fiber.Ctx) error {
	var req payment.PrepareRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	result, err := deps.Payments.Prepare(c.Context(), req)
	if err != nil {
		log.Printf("ERROR prepare failed for order %s: %v", req.OrderID, err)
		return respondError(c, fiber.StatusInternalServerError, "PREPARE_FAILED", err.Error())
	}
	return respondOK(c, result)
}

// HandleApproveCallback receives the form POST from the processor payment
// window after user authentication. It never fails to its caller: every
// outcome is a redirect, with the error code embedded for diagnostics.
func HandleApproveCallback(c *fiber.Ctx) error {
	params := nicepay.AuthCallbackParams{
		AuthResultCode: c.FormValue("authResultCode"),
		AuthResultMsg:  c.FormValue("authResultMsg"),
		TID:            c.FormValue("tid"),
		ClientID:       c.FormValue("clientId"),
		OrderID:        c.FormValue("orderId"),
		Amount:         c.FormValue("amount"),
		MallReserved:   c.FormValue("mallReserved"),
		AuthToken:      c.FormValue("authToken"),
		Signature:      c.FormValue("signature"),
	}

	redirectURL, err := deps.Payments.Approve(c.Context(), params)
	if err != nil {
		log.Printf("ERROR approve handler error for order %s: %v", params.OrderID, err)
		counter.Add(counter.EventApprovalFailed)
		fallback := fmt.Sprintf("%s?status=error&msg=%s",
			deps.Config.DefaultFailureURL, url.QueryEscape(err.Error()))
		return c.Redirect(fallback, fiber.StatusFound)
	}
	if strings.Contains(redirectURL, "status=paid") {
		counter.Add(counter.EventApprovalSuccess)
	} else {
		counter.Add(counter.EventApprovalFailed)
	}
	return c.Redirect(redirectURL, fiber.StatusFound)
}

// HandleGetPaymentByTID returns a payment view by processor transaction id.
func HandleGetPaymentByTID(c *fiber.Ctx) error {
	view, err := deps.Payments.GetByTID(c.Context(), c.Params("tid"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, view)
}

// HandleGetPaymentByOrderID returns a payment view by merchant order id.
func HandleGetPaymentByOrderID(c *fiber.Ctx) error {
	view, err := deps.Payments.GetByOrderID(c.Context(), c.Params("orderId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, view)
}

package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/internal/pkg/billing"
	"github.com/payhive/paygate/internal/pkg/metrics/counter"
)

// HandleRegisterBillingKey exchanges card data for a reusable billing key.
func HandleRegisterBillingKey(c *fiber.Ctx) error {
	var req billing.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	view, err := deps.Billing.Register(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, view)
}

// HandleChargeBillingKey charges a registered billing key.
func HandleChargeBillingKey(c *fiber.Ctx) error {
	var req billing.ChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	view, err := deps.Billing.Charge(c.Context(), c.Params("bid"), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	counter.Add(counter.EventBillingCharge)
	return respondOK(c, view)
}

// HandleExpireBillingKey revokes a billing key.
func HandleExpireBillingKey(c *fiber.Ctx) error {
	var req billing.ExpireRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	view, err := deps.Billing.Expire(c.Context(), c.Params("bid"), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, view)
}

package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/internal/pkg/metrics/counter"
	"github.com/payhive/paygate/internal/pkg/refund"
)

// HandleCancelPayment cancels a paid transaction, fully or partially.
func HandleCancelPayment(c *fiber.Ctx) error {
	var req refund.CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	result, err := deps.Refunds.Cancel(c.Context(), c.Params("tid"), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	counter.Add(counter.EventCancel)
	return respondOK(c, result)
}

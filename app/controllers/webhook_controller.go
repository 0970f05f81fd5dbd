package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/metrics/counter"
	"github.com/payhive/paygate/internal/pkg/nicepay"
)

// HandleReceiveWebhook acknowledges the processor notification immediately
// and hands processing to the dispatcher. The processor requires a fast
// 200 with body "OK" and does not wait for business processing; all
// failures land in the webhook log.
func HandleReceiveWebhook(c *fiber.Ctx) error {
	var payload nicepay.WebhookPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		// Malformed traffic still gets the fixed acknowledgment; there is
		// nothing to correlate it with.
		c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
		return c.Status(fiber.StatusOK).SendString("OK")
	}

	counter.Add(counter.EventWebhookReceived)
	if !deps.WebhookDispatcher.Submit(payload) {
		// Buffer full: process inline rather than dropping the event.
		deps.Webhooks.Process(payload)
	}

	c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
	return c.Status(fiber.StatusOK).SendString("OK")
}

// HandleListWebhookLogs returns a page of webhook logs for operators.
func HandleListWebhookLogs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	filter := repository.WebhookLogFilter{
		OrderID: c.Query("orderId"),
		TID:     c.Query("tid"),
	}

	result, err := deps.Webhooks.ListLogs(filter, page, limit)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result.Data,
		"pagination": fiber.Map{"page": result.Page, "limit": result.Limit, "total": result.Total},
	})
}

package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/internal/pkg/metrics/counter"
)

// HandleGatewayStats returns the aggregated gateway event counters.
func HandleGatewayStats(c *fiber.Ctx) error {
	snapshot, err := counter.Snapshot(c.Context())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "could not read counters")
	}
	return respondOK(c, snapshot)
}

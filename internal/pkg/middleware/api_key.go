package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/internal/pkg/config"
)

// APIKeyAuthMiddleware authenticates merchant requests carrying a static
// API key header. The approve callback and webhook receiver are exempt by
// wire contract and must not sit behind this.
func APIKeyAuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": "AUTH_MISSING", "message": "X-API-Key header is required"},
			})
		}
		if !cfg.HasAPIKey(apiKey) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": "AUTH_INVALID", "message": "Invalid API key"},
			})
		}
		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

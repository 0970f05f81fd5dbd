package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/payhive/paygate/app/controllers"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/env"
	"github.com/payhive/paygate/internal/pkg/middleware"
)

type ApiRouter struct {
	cfg *config.Config
}

func NewApiRouter(cfg *config.Config) *ApiRouter {
	return &ApiRouter{cfg: cfg}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if key := c.Get("X-API-Key"); key != "" {
				return key
			}
			return c.IP()
		},
		Storage: redis.New(redis.Config{
			Host: env.GetEnv("CACHE_HOST", "localhost"),
			Port: cachePort(),
		}),
	}))

	v1 := api.Group("/v1")

	// Payments. The approve callback comes from the processor payment
	// window and carries its own signature; the webhook receiver is
	// source-verified by signature too. Neither goes behind the API key.
	payments := v1.Group("/payments")
	payments.Post("/approve", controllers.HandleApproveCallback)

	auth := middleware.APIKeyAuthMiddleware(h.cfg)
	payments.Post("/prepare", auth, controllers.HandlePreparePayment)
	payments.Get("/order/:orderId", auth, controllers.HandleGetPaymentByOrderID)
	payments.Get("/:tid", auth, controllers.HandleGetPaymentByTID)
	payments.Post("/:tid/cancel", auth, controllers.HandleCancelPayment)

	// Billing keys
	billing := v1.Group("/billing", auth)
	billing.Post("/register", controllers.HandleRegisterBillingKey)
	billing.Post("/:bid/charge", controllers.HandleChargeBillingKey)
	billing.Post("/:bid/expire", controllers.HandleExpireBillingKey)

	// Webhooks
	webhooks := v1.Group("/webhooks")
	webhooks.Post("/nicepay", controllers.HandleReceiveWebhook)
	webhooks.Get("/logs", auth, controllers.HandleListWebhookLogs)

	v1.Get("/stats", auth, controllers.HandleGatewayStats)

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func cachePort() int {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		return 6379
	}
	return port
}

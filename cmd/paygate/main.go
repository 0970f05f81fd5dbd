package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/payhive/paygate/app/controllers"
	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/billing"
	"github.com/payhive/paygate/internal/pkg/cache"
	"github.com/payhive/paygate/internal/pkg/config"
	"github.com/payhive/paygate/internal/pkg/database"
	"github.com/payhive/paygate/internal/pkg/env"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"github.com/payhive/paygate/internal/pkg/payment"
	"github.com/payhive/paygate/internal/pkg/refund"
	"github.com/payhive/paygate/internal/pkg/router"
	"github.com/payhive/paygate/internal/pkg/webhook"
)

const (
	webhookBufferSize   = 256
	webhookWorkers      = 4
	expirySweepInterval = time.Minute
)

// startExpirySweep moves stale ready payments to expired on a fixed
// interval. Runs for the process lifetime.
func startExpirySweep(payments *payment.Service) {
	go func() {
		ticker := time.NewTicker(expirySweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := payments.ExpireStale(context.Background()); err != nil {
				log.Printf("ERROR expiry sweep failed: %v", err)
			}
		}
	}()
}

func main() {
	app, dispatcher, cfg := NewApplication()

	// Drain in-flight webhook processing before exit.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("shutting down...")
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort))
	dispatcher.Shutdown()
	if err != nil {
		log.Fatal(err)
	}
}

func NewApplication() (*fiber.App, *webhook.Dispatcher, *config.Config) {
	env.SetupEnvFile()
	cfg := config.Load()
	database.SetupDatabase()
	cache.SetupCache()

	repos := repository.NewFactory(database.GetDB()).GetRepositories()
	client := nicepay.NewClient(cfg.NicePay)

	webhookService := webhook.NewService(repos.Payment, repos.WebhookLog, cfg)
	dispatcher := webhook.NewDispatcher(webhookBufferSize, webhookService)
	dispatcher.Start(webhookWorkers)

	paymentService := payment.NewService(repos.Payment, client, cfg)
	startExpirySweep(paymentService)

	controllers.Init(controllers.Deps{
		Config:            cfg,
		Payments:          paymentService,
		Refunds:           refund.NewService(repos.Payment, repos.Refund, client),
		Billing:           billing.NewService(repos.BillingKey, repos.Payment, client, cfg),
		Webhooks:          webhookService,
		WebhookDispatcher: dispatcher,
	})

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "paygate",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app, cfg)

	return app, dispatcher, cfg
}

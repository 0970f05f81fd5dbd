package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/payhive/paygate/internal/pkg/config"
)

// Router installs one route group on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter wires all route groups. Controllers must be initialized
// before this is called.
func InstallRouter(app *fiber.App, cfg *config.Config) {
	setup(app, NewApiRouter(cfg))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PlugSync/app/controllers"
	"github.com/ManuelReschke/PlugSync/internal/pkg/bootstrap"
	"github.com/ManuelReschke/PlugSync/internal/pkg/cache"
	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
)

// Router registers a group of routes on the app
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, c *bootstrap.Container) {
	storage := newLimiterStorage()
	adminKey := env.GetEnv("ADMIN_API_KEY", "")

	webhooks := controllers.NewWebhookController(controllers.WebhookControllerOptions{
		Deliveries: c.Repos.WebhookDelivery,
		Dispatcher: c.Dispatcher,
		Archiver:   c.Archive,
		Counter:    c.Counter,
		Lock:       cache.Lock,
		Secret:     c.Config.WebhookSecret,
	})

	setup(app,
		NewWebhookRouter(webhooks, storage),
		NewHubRouter(controllers.NewHubController(c.Hub, env.GetEnv("APP_BASE_URL", "")), adminKey, storage),
		NewApiRouter(controllers.NewOrderController(c.Orders, c.Platforms, c.Scheduler), adminKey, storage),
	)
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PlugSync/app/controllers"
	"github.com/ManuelReschke/PlugSync/internal/pkg/constants"
	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
	"github.com/ManuelReschke/PlugSync/internal/pkg/middleware"
)

type HubRouter struct {
	controller *controllers.HubController
	adminKey   string
	storage    fiber.Storage
}

func (h HubRouter) InstallRouter(app *fiber.App) {
	limit := newLimiter(env.GetEnvInt("HUB_RATE_LIMIT", 30), h.storage)

	// Starting an integration expires the current install token
	app.Post(constants.HubInstallRoute, limit, middleware.AdminAPIKeyMiddleware(h.adminKey), h.controller.HandleInstall)
	app.Get(constants.HubCallbackRoute, limit, h.controller.HandleCallback)
	app.Post(constants.HubCallbackRoute, limit, h.controller.HandleCallback)
	app.Get(constants.HubStatusRoute, limit, h.controller.HandleStatus)
}

func NewHubRouter(controller *controllers.HubController, adminKey string, storage fiber.Storage) *HubRouter {
	return &HubRouter{controller: controller, adminKey: adminKey, storage: storage}
}

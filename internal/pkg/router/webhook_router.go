package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PlugSync/app/controllers"
	"github.com/ManuelReschke/PlugSync/internal/pkg/constants"
	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
)

type WebhookRouter struct {
	controller *controllers.WebhookController
	storage    fiber.Storage
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post(constants.WebhookRoute,
		newLimiter(env.GetEnvInt("WEBHOOK_RATE_LIMIT", 600), h.storage),
		h.controller.HandlePlugWebhook,
	)
}

func NewWebhookRouter(controller *controllers.WebhookController, storage fiber.Storage) *WebhookRouter {
	return &WebhookRouter{controller: controller, storage: storage}
}

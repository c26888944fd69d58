package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/controllers"
	apiv1 "github.com/ManuelReschke/PlugSync/internal/api/v1"
	"github.com/ManuelReschke/PlugSync/internal/pkg/constants"
	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
	"github.com/ManuelReschke/PlugSync/internal/pkg/middleware"
)

type ApiRouter struct {
	orders   *controllers.OrderController
	adminKey string
	storage  fiber.Storage
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", newLimiter(env.GetEnvInt("API_RATE_LIMIT", 60), h.storage))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := app.Group(constants.APIv1Route)
	if doc, err := apiv1.GetSwagger(); err != nil {
		log.Errorf("[Router] OpenAPI request validation disabled: %v", err)
	} else if validate, err := apiv1.RequestValidator(doc); err != nil {
		log.Errorf("[Router] OpenAPI request validation disabled: %v", err)
	} else {
		v1.Use(validate)
	}

	apiServer := apiv1.NewAPIServer(h.orders)
	apiv1.RegisterHandlers(v1, apiServer, middleware.AdminAPIKeyMiddleware(h.adminKey))
}

func NewApiRouter(orders *controllers.OrderController, adminKey string, storage fiber.Storage) *ApiRouter {
	return &ApiRouter{orders: orders, adminKey: adminKey, storage: storage}
}

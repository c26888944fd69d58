package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong defines model for Pong.
type Pong struct {
	Ping string `json:"ping"`
}

// ServerInterface represents all server handlers of the v1 API.
type ServerInterface interface {
	// Health check
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// Send a platform order to Plug
	// (POST /orders/{code}/plug)
	PostOrderPlug(c *fiber.Ctx, code string) error
	// Cancel every charge of the order at Plug
	// (POST /orders/{code}/cancel)
	PostOrderCancel(c *fiber.Ctx, code string) error
	// Pull the order from Plug and sync the platform order
	// (POST /orders/{code}/sync)
	PostOrderSync(c *fiber.Ctx, code string) error
}

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetPing operation middleware
func (siw *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return siw.Handler.GetPing(c)
}

// PostOrderPlug operation middleware
func (siw *ServerInterfaceWrapper) PostOrderPlug(c *fiber.Ctx) error {
	return siw.Handler.PostOrderPlug(c, c.Params("code"))
}

// PostOrderCancel operation middleware
func (siw *ServerInterfaceWrapper) PostOrderCancel(c *fiber.Ctx) error {
	return siw.Handler.PostOrderCancel(c, c.Params("code"))
}

// PostOrderSync operation middleware
func (siw *ServerInterfaceWrapper) PostOrderSync(c *fiber.Ctx) error {
	return siw.Handler.PostOrderSync(c, c.Params("code"))
}

// RegisterHandlers creates the v1 routes on router. Middlewares run before
// the order endpoints only.
func RegisterHandlers(router fiber.Router, si ServerInterface, orderMiddlewares ...fiber.Handler) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.Get("/ping", wrapper.GetPing)

	handlers := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, orderMiddlewares...), h)
	}
	router.Post("/orders/:code/plug", handlers(wrapper.PostOrderPlug)...)
	router.Post("/orders/:code/cancel", handlers(wrapper.PostOrderCancel)...)
	router.Post("/orders/:code/sync", handlers(wrapper.PostOrderSync)...)
}

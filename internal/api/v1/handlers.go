package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers to keep behavior consistent
	"github.com/ManuelReschke/PlugSync/app/controllers"
)

// APIServer implements the ServerInterface
type APIServer struct {
	orders *controllers.OrderController
}

// NewAPIServer creates a new API server instance
func NewAPIServer(orders *controllers.OrderController) *APIServer {
	return &APIServer{orders: orders}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// PostOrderPlug sends the platform order to Plug. The controller reads the
// code from the route params.
func (s *APIServer) PostOrderPlug(c *fiber.Ctx, code string) error {
	return s.orders.HandleCreate(c)
}

// PostOrderCancel cancels the order at Plug
func (s *APIServer) PostOrderCancel(c *fiber.Ctx, code string) error {
	return s.orders.HandleCancel(c)
}

// PostOrderSync syncs the order from Plug
func (s *APIServer) PostOrderSync(c *fiber.Ctx, code string) error {
	return s.orders.HandleSync(c)
}

package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/jobqueue"
)

// DefaultCancelRetryDelay is the wait before a partially failed cancel is retried
const DefaultCancelRetryDelay = 5 * time.Minute

// OrderOperations is the part of orders.Service the admin API drives
type OrderOperations interface {
	CreateOrderAtPlug(ctx context.Context, platformOrder models.PlatformOrder) (*models.Order, error)
	CancelAtPlugByPlatformOrder(ctx context.Context, platformOrder models.PlatformOrder) error
	GetOrderByPlatformID(ctx context.Context, platformOrderID uint) (*models.Order, error)
	RefreshFromPlug(ctx context.Context, plugID string) (*models.Order, error)
}

// PlatformOrderFinder resolves host orders by code, see platform.Loader
type PlatformOrderFinder interface {
	LoadByCode(ctx context.Context, code string) (models.PlatformOrder, error)
}

// FollowUps enqueues background reconciliation, see jobqueue.Scheduler
type FollowUps interface {
	ScheduleCancelRetry(ctx context.Context, orderPlugID string, delay time.Duration) error
	SyncNow(ctx context.Context, orderPlugID string) (*jobqueue.Job, error)
}

// OrderController is the admin API for Plug orders
type OrderController struct {
	orders     OrderOperations
	platforms  PlatformOrderFinder
	followUps  FollowUps
	retryDelay time.Duration
}

// NewOrderController creates a new order controller. followUps may be nil,
// then syncs run inline and failed cancels are not retried.
func NewOrderController(orders OrderOperations, platforms PlatformOrderFinder, followUps FollowUps) *OrderController {
	return &OrderController{
		orders:     orders,
		platforms:  platforms,
		followUps:  followUps,
		retryDelay: DefaultCancelRetryDelay,
	}
}

type orderResponse struct {
	Code    string             `json:"code"`
	PlugID  string             `json:"plug_id"`
	Status  models.OrderStatus `json:"status"`
	Charges []models.Charge    `json:"charges"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{Code: order.Code, PlugID: order.PlugID, Status: order.Status, Charges: order.Charges}
}

// HandleCreate handles POST /api/v1/orders/:code/plug
func (oc *OrderController) HandleCreate(c *fiber.Ctx) error {
	platformOrder, err := oc.loadPlatformOrder(c)
	if err != nil || platformOrder == nil {
		return err
	}
	if platformOrder.PlugID() != "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "Order #" + platformOrder.Code() + " was already sent to Plug",
		})
	}

	order, err := oc.orders.CreateOrderAtPlug(c.UserContext(), platformOrder)
	if err != nil {
		return respondError(c, err, "Order could not be created at Plug")
	}

	log.Infof("[OrderController] Order #%s created at Plug as %s", platformOrder.Code(), order.PlugID)
	return c.Status(fiber.StatusCreated).JSON(newOrderResponse(order))
}

// HandleCancel handles POST /api/v1/orders/:code/cancel
func (oc *OrderController) HandleCancel(c *fiber.Ctx) error {
	platformOrder, err := oc.loadPlatformOrder(c)
	if err != nil || platformOrder == nil {
		return err
	}
	if platformOrder.PlugID() == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "Order #" + platformOrder.Code() + " was never sent to Plug",
		})
	}

	ctx := c.UserContext()
	if err := oc.orders.CancelAtPlugByPlatformOrder(ctx, platformOrder); err != nil {
		return respondError(c, err, "Order could not be canceled at Plug")
	}

	order, err := oc.orders.GetOrderByPlatformID(ctx, platformOrder.ID())
	if err != nil {
		return respondError(c, err, "Order could not be loaded")
	}

	canceled := order != nil && order.IsCanceled()
	retryScheduled := false
	if order != nil && !canceled && oc.followUps != nil {
		if err := oc.followUps.ScheduleCancelRetry(ctx, order.PlugID, oc.retryDelay); err != nil {
			log.Errorf("[OrderController] Could not schedule cancel retry for %s: %v", order.PlugID, err)
		} else {
			retryScheduled = true
		}
	}

	return c.JSON(fiber.Map{
		"code":            platformOrder.Code(),
		"canceled":        canceled,
		"retry_scheduled": retryScheduled,
	})
}

// HandleSync handles POST /api/v1/orders/:code/sync
func (oc *OrderController) HandleSync(c *fiber.Ctx) error {
	platformOrder, err := oc.loadPlatformOrder(c)
	if err != nil || platformOrder == nil {
		return err
	}
	plugID := platformOrder.PlugID()
	if plugID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "Order #" + platformOrder.Code() + " was never sent to Plug",
		})
	}

	if oc.followUps != nil {
		job, err := oc.followUps.SyncNow(c.UserContext(), plugID)
		if err != nil {
			log.Errorf("[OrderController] Could not enqueue sync for %s: %v", plugID, err)
			return respondError(c, err, "Order sync could not be scheduled")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"code":   platformOrder.Code(),
			"job_id": job.ID,
		})
	}

	order, err := oc.orders.RefreshFromPlug(c.UserContext(), plugID)
	if err != nil {
		return respondError(c, err, "Order could not be synced")
	}
	return c.JSON(newOrderResponse(order))
}

// loadPlatformOrder writes the error response itself; a nil order with a
// nil error means the response is already written.
func (oc *OrderController) loadPlatformOrder(c *fiber.Ctx) (models.PlatformOrder, error) {
	code := c.Params("code")
	platformOrder, err := oc.platforms.LoadByCode(c.UserContext(), code)
	if err != nil {
		return nil, respondError(c, err, "Order could not be loaded")
	}
	if platformOrder == nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Order #" + code + " not found.",
		})
	}
	return platformOrder, nil
}

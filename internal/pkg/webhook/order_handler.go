package webhook

import (
	"context"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/money"
	"github.com/ManuelReschke/PlugSync/internal/pkg/plug"
)

// OrderService is the part of the order reconciliation service the order
// and charge handlers depend on.
type OrderService interface {
	GetOrderByPlugID(ctx context.Context, plugID string) (*models.Order, error)
	SaveOrder(ctx context.Context, order *models.Order) error
	SyncPlatformWith(ctx context.Context, order *models.Order, changeStatus bool) error
}

// OrderHandler applies order.* webhooks.
type OrderHandler struct {
	*Base[*models.Order]
	orders OrderService
	i18n   *i18n.Localizer
}

func NewOrderHandler(orders OrderService, loc *i18n.Localizer) *OrderHandler {
	h := &OrderHandler{orders: orders, i18n: loc}
	h.Base = NewBase[*models.Order]("OrderHandler", EntityOrder, h.loadOrder, loc)
	h.On("paid", h.handlePaid)
	h.On("payment_failed", h.handlePaymentFailed)
	h.On("canceled", h.handleCanceled)
	h.On("closed", h.handleClosed)
	h.On("created", h.handleCreated)
	return h
}

func (h *OrderHandler) loadOrder(ctx context.Context, w *Webhook) (*models.Order, models.PlatformOrder, error) {
	order, err := h.orders.GetOrderByPlugID(ctx, w.Entity.ID)
	if err != nil || order == nil {
		return nil, nil, err
	}
	return order, order.PlatformOrder, nil
}

func (h *OrderHandler) handlePaid(ctx context.Context, order *models.Order, w *Webhook) (Result, error) {
	if order.Status == models.OrderStatusPaid || order.IsFinal() {
		return h.already(order), nil
	}
	mergeCharges(order, w.Entity.Charges)
	order.Status = models.OrderStatusPaid

	paid := money.Sum(order.Charges).Paid
	return h.apply(ctx, order, h.i18n.T(i18n.MsgOrderPaid, money.Format(paid)), false, true)
}

func (h *OrderHandler) handlePaymentFailed(ctx context.Context, order *models.Order, w *Webhook) (Result, error) {
	switch {
	case order.Status == models.OrderStatusFailed, order.Status == models.OrderStatusPaid, order.IsFinal():
		return h.already(order), nil
	}
	mergeCharges(order, w.Entity.Charges)
	order.Status = models.OrderStatusFailed

	return h.apply(ctx, order, h.i18n.T(i18n.MsgOrderPaymentFailed), false, true)
}

func (h *OrderHandler) handleCanceled(ctx context.Context, order *models.Order, w *Webhook) (Result, error) {
	if order.IsFinal() {
		return h.already(order), nil
	}
	mergeCharges(order, w.Entity.Charges)
	order.Status = models.OrderStatusCanceled

	p := order.PlatformOrder
	sent := p.SendEmail(ctx, h.i18n.T(i18n.MsgNewOrderStatus, p.StatusLabel(order.Status)))
	return h.apply(ctx, order, h.i18n.T(i18n.MsgOrderCanceledAtPlug, order.PlugID), sent, true)
}

func (h *OrderHandler) handleClosed(ctx context.Context, order *models.Order, w *Webhook) (Result, error) {
	if order.IsFinal() {
		return h.already(order), nil
	}
	mergeCharges(order, w.Entity.Charges)
	order.Status = models.OrderStatusClosed
	order.PlatformOrder.SetState(models.OrderStateClosed)
	order.PlatformOrder.SetStatus(models.OrderStatusClosed)

	return h.apply(ctx, order, h.i18n.T(i18n.MsgOrderClosed), false, false)
}

// handleCreated notes the creation once. It arrives after the local order
// exists, so later states win over it.
func (h *OrderHandler) handleCreated(ctx context.Context, order *models.Order, w *Webhook) (Result, error) {
	if order.CreatedNoted || order.Status != models.OrderStatusPending {
		return h.already(order), nil
	}
	mergeCharges(order, w.Entity.Charges)
	order.CreatedNoted = true
	return h.apply(ctx, order, h.i18n.T(i18n.MsgOrderCreated, order.PlugID), false, false)
}

func (h *OrderHandler) apply(ctx context.Context, order *models.Order, message string, notified, changeStatus bool) (Result, error) {
	if err := h.orders.SaveOrder(ctx, order); err != nil {
		return Result{}, err
	}
	order.PlatformOrder.AddHistoryComment(message, notified)
	if err := h.orders.SyncPlatformWith(ctx, order, changeStatus); err != nil {
		return Result{}, err
	}
	return ok(message), nil
}

func (h *OrderHandler) already(order *models.Order) Result {
	return ok(h.i18n.T(i18n.MsgOrderAlready, order.Status))
}

func mergeCharges(order *models.Order, charges []plug.ChargeResponse) {
	for _, remote := range charges {
		order.MergeCharge(remote.ToCharge(order.PlugID))
	}
}

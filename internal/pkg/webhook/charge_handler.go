package webhook

import (
	"context"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/money"
)

// chargeTarget is a charge together with the order that owns it. charge
// points into order.Charges.
type chargeTarget struct {
	order  *models.Order
	charge *models.Charge
}

// ChargeHandler applies charge.* webhooks.
type ChargeHandler struct {
	*Base[*chargeTarget]
	orders OrderService
	i18n   *i18n.Localizer
}

func NewChargeHandler(orders OrderService, loc *i18n.Localizer) *ChargeHandler {
	h := &ChargeHandler{orders: orders, i18n: loc}
	h.Base = NewBase[*chargeTarget]("ChargeHandler", EntityCharge, h.loadCharge, loc)
	h.On("paid", h.pay(models.ChargeStatusPaid))
	h.On("overpaid", h.pay(models.ChargeStatusOverpaid))
	h.On("underpaid", h.pay(models.ChargeStatusUnderpaid))
	h.On("partial_canceled", h.handlePartialCanceled)
	h.On("refunded", h.handleRefunded)
	h.On("payment_failed", h.handlePaymentFailed)
	h.On("pending", h.setStatus(models.ChargeStatusPending))
	h.On("processing", h.setStatus(models.ChargeStatusProcessing))
	h.On("chargedback", h.handleChargedback)
	return h
}

func (h *ChargeHandler) loadCharge(ctx context.Context, w *Webhook) (*chargeTarget, models.PlatformOrder, error) {
	if w.Entity.Order == nil || w.Entity.Order.ID == "" {
		return nil, nil, nil
	}
	order, err := h.orders.GetOrderByPlugID(ctx, w.Entity.Order.ID)
	if err != nil || order == nil {
		return nil, nil, err
	}

	// Charges created after the order (e.g. retries) are first seen here.
	if order.FindCharge(w.Entity.ID) == nil {
		order.UpdateCharge(models.Charge{
			PlugID:          w.Entity.ID,
			Code:            w.Entity.Code,
			Status:          models.ChargeStatusPending,
			PaymentMethod:   models.PaymentMethod(w.Entity.PaymentMethod),
			Amount:          w.Entity.Amount,
			LastTransaction: w.Entity.LastTransaction,
		})
	}

	return &chargeTarget{order: order, charge: order.FindCharge(w.Entity.ID)}, order.PlatformOrder, nil
}

func (h *ChargeHandler) pay(status models.ChargeStatus) ActionFunc[*chargeTarget] {
	return func(ctx context.Context, t *chargeTarget, w *Webhook) (Result, error) {
		c := t.charge
		switch {
		case t.order.IsFinal(), c.IsReversed():
			return h.already(c), nil
		case c.IsPaid() && c.PaidAmount >= w.Entity.PaidAmount:
			return h.already(c), nil
		}
		c.Pay(w.Entity.PaidAmount, status)
		takeTransaction(c, w)
		if t.order.AllChargesIn(models.ChargeStatusPaid, models.ChargeStatusOverpaid) {
			t.order.Status = models.OrderStatusPaid
		}
		return h.apply(ctx, t, h.i18n.T(i18n.MsgChargePaid, c.PlugID, status, money.Format(c.PaidAmount)))
	}
}

func (h *ChargeHandler) handlePartialCanceled(ctx context.Context, t *chargeTarget, w *Webhook) (Result, error) {
	c := t.charge
	if c.CanceledAmount >= w.Entity.CanceledAmount {
		return h.already(c), nil
	}
	c.Cancel(w.Entity.CanceledAmount)
	takeTransaction(c, w)
	if t.order.AllChargesIn(models.ChargeStatusCanceled, models.ChargeStatusFailed) {
		t.order.Status = models.OrderStatusCanceled
	}
	return h.apply(ctx, t, h.i18n.T(i18n.MsgChargeCanceled, c.PlugID, money.Format(c.CanceledAmount)))
}

func (h *ChargeHandler) handleRefunded(ctx context.Context, t *chargeTarget, w *Webhook) (Result, error) {
	c := t.charge
	if c.Status == models.ChargeStatusRefunded && c.RefundedAmount >= w.Entity.RefundedAmount {
		return h.already(c), nil
	}
	c.Refund(w.Entity.RefundedAmount, models.ChargeStatusRefunded)
	takeTransaction(c, w)
	if t.order.AllChargesIn(models.ChargeStatusRefunded, models.ChargeStatusCanceled, models.ChargeStatusFailed) {
		t.order.Status = models.OrderStatusCanceled
	}
	return h.apply(ctx, t, h.i18n.T(i18n.MsgChargeRefunded, c.PlugID, money.Format(c.RefundedAmount)))
}

func (h *ChargeHandler) handlePaymentFailed(ctx context.Context, t *chargeTarget, w *Webhook) (Result, error) {
	c := t.charge
	if t.order.IsFinal() || c.IsSettled() {
		return h.already(c), nil
	}
	c.Fail()
	takeTransaction(c, w)
	if t.order.AllChargesIn(models.ChargeStatusFailed, models.ChargeStatusCanceled) {
		t.order.Status = models.OrderStatusFailed
	}
	return h.apply(ctx, t, h.i18n.T(i18n.MsgChargePaymentFailed, c.PlugID))
}

func (h *ChargeHandler) handleChargedback(ctx context.Context, t *chargeTarget, w *Webhook) (Result, error) {
	c := t.charge
	if c.Status == models.ChargeStatusChargedback {
		return h.already(c), nil
	}
	c.Status = models.ChargeStatusChargedback
	takeTransaction(c, w)
	return h.apply(ctx, t, h.i18n.T(i18n.MsgChargeChargedback, c.PlugID, money.Format(c.PaidAmount)))
}

func (h *ChargeHandler) setStatus(status models.ChargeStatus) ActionFunc[*chargeTarget] {
	return func(ctx context.Context, t *chargeTarget, w *Webhook) (Result, error) {
		c := t.charge
		if c.Status == status || c.IsSettled() || t.order.IsFinal() {
			return h.already(c), nil
		}
		c.Status = status
		takeTransaction(c, w)
		return h.apply(ctx, t, h.i18n.T(i18n.MsgChargeStatus, c.PlugID, status))
	}
}

func (h *ChargeHandler) apply(ctx context.Context, t *chargeTarget, message string) (Result, error) {
	if err := h.orders.SaveOrder(ctx, t.order); err != nil {
		return Result{}, err
	}
	t.order.PlatformOrder.AddHistoryComment(message, false)
	if err := h.orders.SyncPlatformWith(ctx, t.order, true); err != nil {
		return Result{}, err
	}
	return ok(message), nil
}

func (h *ChargeHandler) already(c *models.Charge) Result {
	return ok(h.i18n.T(i18n.MsgChargeAlready, c.PlugID, c.Status))
}

func takeTransaction(c *models.Charge, w *Webhook) {
	if w.Entity.LastTransaction.ID != "" {
		c.LastTransaction = w.Entity.LastTransaction
	}
}

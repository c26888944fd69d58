package webhook

import (
	"context"
	"time"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

// PlatformLoader resolves a platform order by id.
type PlatformLoader interface {
	Load(ctx context.Context, id uint) (models.PlatformOrder, error)
}

// SubscriptionHandler applies subscription.* webhooks.
type SubscriptionHandler struct {
	*Base[*models.Subscription]
	subscriptions repository.SubscriptionRepository
	platforms     PlatformLoader
	i18n          *i18n.Localizer
}

func NewSubscriptionHandler(subscriptions repository.SubscriptionRepository, platforms PlatformLoader, loc *i18n.Localizer) *SubscriptionHandler {
	h := &SubscriptionHandler{subscriptions: subscriptions, platforms: platforms, i18n: loc}
	h.Base = NewBase[*models.Subscription]("SubscriptionHandler", EntitySubscription, h.loadSubscription, loc)
	h.On("created", h.handleCreated)
	h.On("canceled", h.handleCanceled)
	return h
}

func (h *SubscriptionHandler) loadSubscription(ctx context.Context, w *Webhook) (*models.Subscription, models.PlatformOrder, error) {
	sub, err := h.subscriptions.FindByPlugID(ctx, w.Entity.ID)
	if err != nil || sub == nil {
		return nil, nil, err
	}
	p, err := h.platforms.Load(ctx, sub.PlatformOrderID)
	if err != nil {
		return nil, nil, err
	}
	sub.PlatformOrder = p
	return sub, p, nil
}

func (h *SubscriptionHandler) handleCreated(ctx context.Context, sub *models.Subscription, _ *Webhook) (Result, error) {
	if sub.Status == models.SubscriptionStatusActive || sub.Status == models.SubscriptionStatusCanceled {
		return h.already(sub), nil
	}
	sub.Status = models.SubscriptionStatusActive
	return h.apply(ctx, sub, h.i18n.T(i18n.MsgSubscriptionCreated, sub.PlugID))
}

func (h *SubscriptionHandler) handleCanceled(ctx context.Context, sub *models.Subscription, _ *Webhook) (Result, error) {
	if sub.Status == models.SubscriptionStatusCanceled {
		return h.already(sub), nil
	}
	now := time.Now()
	sub.Status = models.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	sub.PlatformOrder.SetStatus(models.OrderStatusCanceled)
	return h.apply(ctx, sub, h.i18n.T(i18n.MsgSubscriptionCanceled, sub.PlugID))
}

func (h *SubscriptionHandler) apply(ctx context.Context, sub *models.Subscription, message string) (Result, error) {
	if err := h.subscriptions.Save(ctx, sub); err != nil {
		return Result{}, err
	}
	sub.PlatformOrder.AddHistoryComment(message, false)
	if err := sub.PlatformOrder.Save(ctx); err != nil {
		return Result{}, err
	}
	return ok(message), nil
}

func (h *SubscriptionHandler) already(sub *models.Subscription) Result {
	return ok(h.i18n.T(i18n.MsgSubscriptionAlready, sub.PlugID, sub.Status))
}

package webhook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
)

func subscriptionWebhook(action, id string) *Webhook {
	return &Webhook{
		PlugID: "hook_3",
		Type:   Type{EntityType: EntitySubscription, Action: action},
		Entity: Entity{ID: id, Code: "S-1"},
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	f := newFixture()
	order := f.addOrder("or_1", "100", models.OrderStatusPending)
	sub := &models.Subscription{PlugID: "sub_1", Code: "S-1", PlatformOrderID: order.PlatformOrderID, Status: models.SubscriptionStatusPending}
	f.subs.subs["sub_1"] = sub
	h := NewSubscriptionHandler(f.subs, f.loader(), f.loc)

	res, err := h.Handle(context.Background(), subscriptionWebhook("created", "sub_1"))
	require.NoError(t, err)
	assert.Equal(t, "Subscription sub_1 created at Plug.", res.Message)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)

	res, err = h.Handle(context.Background(), subscriptionWebhook("created", "sub_1"))
	require.NoError(t, err)
	assert.Equal(t, "Subscription sub_1 already active.", res.Message)
	assert.Equal(t, 1, f.subs.saves)

	_, err = h.Handle(context.Background(), subscriptionWebhook("canceled", "sub_1"))
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
	require.NotNil(t, sub.CanceledAt)

	row := f.hosts.rows[order.PlatformOrderID]
	assert.Equal(t, models.OrderStatusCanceled, row.Status)
	assert.Equal(t, []string{
		"Webhook received: hook_3 subscription.created",
		"Subscription sub_1 created at Plug.",
		"Webhook received: hook_3 subscription.created",
		"Webhook received: hook_3 subscription.canceled",
		"Subscription sub_1 canceled at Plug.",
	}, comments(row))
}

func TestSubscriptionCreatedAfterCanceled(t *testing.T) {
	f := newFixture()
	order := f.addOrder("or_1", "100", models.OrderStatusCanceled)
	sub := &models.Subscription{PlugID: "sub_1", Code: "S-1", PlatformOrderID: order.PlatformOrderID, Status: models.SubscriptionStatusCanceled}
	f.subs.subs["sub_1"] = sub
	h := NewSubscriptionHandler(f.subs, f.loader(), f.loc)

	res, err := h.Handle(context.Background(), subscriptionWebhook("created", "sub_1"))
	require.NoError(t, err)

	assert.Equal(t, "Subscription sub_1 already canceled.", res.Message)
	assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
	assert.Zero(t, f.subs.saves)
	assert.Equal(t, []string{"Webhook received: hook_3 subscription.created"}, comments(f.hosts.rows[order.PlatformOrderID]))
}

func TestSubscriptionUnknown(t *testing.T) {
	f := newFixture()
	h := NewSubscriptionHandler(f.subs, f.loader(), f.loc)

	_, err := h.Handle(context.Background(), subscriptionWebhook("canceled", "sub_missing"))

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Order #S-1 not found.", notFound.Message())
}

package webhook

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

// EntityHandler handles the webhooks of one entity type.
type EntityHandler interface {
	Entity() string
	Handle(ctx context.Context, w *Webhook) (Result, error)
}

// ActionFunc applies one webhook action to a loaded target.
type ActionFunc[T any] func(ctx context.Context, target T, w *Webhook) (Result, error)

// LoadFunc resolves the local target of a webhook and its platform order.
// A nil platform order means the target is unknown.
type LoadFunc[T any] func(ctx context.Context, w *Webhook) (T, models.PlatformOrder, error)

// ActionHandle returns the handler name of an action: charge_paid becomes
// handleChargePaid.
func ActionHandle(action string) string {
	var b strings.Builder
	b.WriteString("handle")
	for _, part := range strings.Split(action, "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// Base implements the steps every entity handler shares: entity type
// validation, action lookup, target loading and the received history note.
type Base[T any] struct {
	name    string
	entity  string
	load    LoadFunc[T]
	actions map[string]ActionFunc[T]
	i18n    *i18n.Localizer
}

func NewBase[T any](name, entity string, load LoadFunc[T], loc *i18n.Localizer) *Base[T] {
	return &Base[T]{
		name:    name,
		entity:  entity,
		load:    load,
		actions: make(map[string]ActionFunc[T]),
		i18n:    loc,
	}
}

// On registers fn for an action such as "paid" or "partial_canceled".
func (b *Base[T]) On(action string, fn ActionFunc[T]) {
	b.actions[ActionHandle(action)] = fn
}

func (b *Base[T]) Entity() string {
	return b.entity
}

// Supports reports whether an action has a registered handler.
func (b *Base[T]) Supports(action string) bool {
	_, ok := b.actions[ActionHandle(action)]
	return ok
}

// ValidateWebhookHandling rejects webhooks of another entity type.
func (b *Base[T]) ValidateWebhookHandling(entityType string) error {
	if entityType != b.entity {
		return apperr.NewValidation("%s only supports %s type webhook handling!", b.name, b.entity)
	}
	return nil
}

func (b *Base[T]) Handle(ctx context.Context, w *Webhook) (Result, error) {
	if err := b.ValidateWebhookHandling(w.Type.EntityType); err != nil {
		return Result{}, err
	}

	action, found := b.actions[ActionHandle(w.Type.Action)]
	if !found {
		return NotImplemented(w.Type), nil
	}

	target, platformOrder, err := b.load(ctx, w)
	if err != nil {
		return Result{}, err
	}
	if platformOrder == nil || platformOrder.IncrementID() == "" {
		return Result{}, apperr.NewNotFound("%s", b.i18n.T(i18n.MsgOrderNotFound, w.Entity.OrderCode()))
	}

	platformOrder.AddHistoryComment(b.i18n.T(i18n.MsgWebhookReceived, w.PlugID, w.Type.EntityType, w.Type.Action), false)
	if err := platformOrder.Save(ctx); err != nil {
		return Result{}, err
	}

	return action(ctx, target, w)
}

// NotImplemented is the acknowledgement for webhooks nobody handles.
func NotImplemented(t Type) Result {
	message := fmt.Sprintf(i18n.MsgWebhookNotImplemented, t.EntityType, t.Action)
	log.Infof("[Webhook] %s", message)
	return ok(message)
}

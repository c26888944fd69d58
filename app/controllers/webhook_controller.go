package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
	"github.com/ManuelReschke/PlugSync/internal/pkg/archive"
	"github.com/ManuelReschke/PlugSync/internal/pkg/security"
	"github.com/ManuelReschke/PlugSync/internal/pkg/webhook"
)

const webhookLockTTL = 30 * time.Second

// WebhookDispatcher routes a parsed webhook to its handler
type WebhookDispatcher interface {
	Dispatch(ctx context.Context, w *webhook.Webhook) (webhook.Result, error)
}

// EventCounter counts deliveries per event type, see counter.Counter
type EventCounter interface {
	Add(ctx context.Context, label string) error
}

// LockFunc takes a short-lived exclusive marker, see cache.Lock
type LockFunc func(key string, ttl time.Duration) (bool, error)

// WebhookController receives Plug webhook notifications
type WebhookController struct {
	deliveries repository.WebhookDeliveryRepository
	dispatcher WebhookDispatcher
	archiver   archive.Archiver
	counter    EventCounter
	lock       LockFunc
	secret     string
	timeout    time.Duration
}

// WebhookControllerOptions wires a WebhookController. Archiver, Counter and
// Lock are optional.
type WebhookControllerOptions struct {
	Deliveries repository.WebhookDeliveryRepository
	Dispatcher WebhookDispatcher
	Archiver   archive.Archiver
	Counter    EventCounter
	Lock       LockFunc
	Secret     string
	Timeout    time.Duration
}

// NewWebhookController creates a new webhook controller
func NewWebhookController(opts WebhookControllerOptions) *WebhookController {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WebhookController{
		deliveries: opts.Deliveries,
		dispatcher: opts.Dispatcher,
		archiver:   opts.Archiver,
		counter:    opts.Counter,
		lock:       opts.Lock,
		secret:     opts.Secret,
		timeout:    timeout,
	}
}

// HandlePlugWebhook handles POST /webhooks/plug
func (wc *WebhookController) HandlePlugWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	ctx, cancel := context.WithTimeout(c.UserContext(), wc.timeout)
	defer cancel()

	// Without a configured secret the signature check is disabled
	signatureValid := wc.secret == "" ||
		security.VerifyWebhookSignature(rawBody, c.Get(security.SignatureHeader), wc.secret)

	hook, err := webhook.Parse(rawBody)
	if err != nil {
		log.Warnf("[Webhook] Rejected payload from %s: %v", GetClientIP(c), err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_payload",
			"message": err.Error(),
		})
	}

	if wc.counter != nil {
		if err := wc.counter.Add(ctx, hook.Type.String()); err != nil {
			log.Debugf("[Webhook] Could not count %s: %v", hook.Type, err)
		}
	}

	delivery := &models.WebhookDelivery{
		PlugID:         hook.PlugID,
		EventType:      hook.Type.String(),
		PayloadJSON:    string(rawBody),
		SignatureValid: signatureValid,
	}
	if err := wc.deliveries.Record(ctx, delivery); err != nil {
		log.Errorf("[Webhook] Could not record delivery %s: %v", hook.PlugID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}

	if !signatureValid {
		log.Warnf("[Webhook] Invalid signature for %s from %s", hook.PlugID, GetClientIP(c))
		delivery.ResultCode = fiber.StatusUnauthorized
		wc.markProcessed(ctx, delivery, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	if wc.lock != nil {
		acquired, err := wc.lock("webhook:lock:"+hook.PlugID, webhookLockTTL)
		if err != nil {
			log.Warnf("[Webhook] Lock for %s unavailable: %v", hook.PlugID, err)
		} else if !acquired {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   "in_progress",
				"message": "Webhook " + hook.PlugID + " is already being processed",
			})
		}
	}

	if wc.archiver != nil {
		key, err := wc.archiver.PutWebhookPayload(ctx, hook.PlugID, hook.Type.String(), rawBody)
		if err != nil {
			log.Warnf("[Webhook] Could not archive %s: %v", hook.PlugID, err)
		} else {
			delivery.ArchiveKey = key
		}
	}

	result, err := wc.dispatcher.Dispatch(ctx, hook)
	if err != nil {
		status := apperr.HTTPStatus(err)
		delivery.ResultCode = status
		wc.markProcessed(ctx, delivery, err)
		log.Warnf("[Webhook] %s %s failed: %v", hook.PlugID, hook.Type, err)
		return respondError(c, err, "Webhook could not be processed")
	}

	delivery.ResultCode = result.Code
	delivery.ResultMessage = result.Message
	wc.markProcessed(ctx, delivery, nil)
	return c.Status(result.Code).JSON(result)
}

func (wc *WebhookController) markProcessed(ctx context.Context, delivery *models.WebhookDelivery, processingErr error) {
	if processingErr != nil {
		delivery.ProcessingError = processingErr.Error()
	}
	if err := wc.deliveries.MarkProcessed(ctx, delivery); err != nil {
		log.Errorf("[Webhook] Could not mark delivery %s processed: %v", delivery.PlugID, err)
	}
}

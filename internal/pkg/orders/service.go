// Package orders keeps local Plug orders, their charges and the host
// platform order consistent.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/money"
	"github.com/ManuelReschke/PlugSync/internal/pkg/plug"
)

// Order lifecycle event topics.
const (
	TopicOrderCreated  = "plug.order.created"
	TopicOrderCanceled = "plug.order.canceled"
	TopicOrderSynced   = "plug.order.synced"
)

// PlatformLoader resolves the host order of a local order.
type PlatformLoader interface {
	Load(ctx context.Context, id uint) (models.PlatformOrder, error)
}

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, id, topic string, payload []byte) error
}

// FollowUpScheduler schedules a later reconciliation of an order.
type FollowUpScheduler interface {
	ScheduleOrderSync(ctx context.Context, orderPlugID string, delay time.Duration) error
}

// Dependencies wires a Service. Events and Scheduler are optional.
type Dependencies struct {
	Config     *config.ModuleConfig
	Orders     repository.OrderRepository
	Charges    repository.ChargeRepository
	Client     plug.Client
	Platforms  PlatformLoader
	Translator plug.ErrorTranslator
	I18n       *i18n.Localizer
	Events     EventPublisher
	Scheduler  FollowUpScheduler
}

// Service is the order reconciliation service.
type Service struct {
	cfg        *config.ModuleConfig
	orders     repository.OrderRepository
	charges    repository.ChargeRepository
	client     plug.Client
	platforms  PlatformLoader
	translator plug.ErrorTranslator
	i18n       *i18n.Localizer
	events     EventPublisher
	scheduler  FollowUpScheduler
	handlers   map[models.PaymentMethod]ResponseHandler
	validate   *validator.Validate
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	loc := deps.I18n
	if loc == nil {
		loc = i18n.New(cfg.StoreLocale)
	}
	translator := deps.Translator
	if translator == nil {
		translator = plug.NewMessageTranslator(loc)
	}

	s := &Service{
		cfg:        cfg,
		orders:     deps.Orders,
		charges:    deps.Charges,
		client:     deps.Client,
		platforms:  deps.Platforms,
		translator: translator,
		i18n:       loc,
		events:     deps.Events,
		scheduler:  deps.Scheduler,
		validate:   validator.New(),
	}
	s.handlers = s.defaultResponseHandlers()
	return s
}

// SyncPlatformWith writes the charge totals onto the platform order,
// optionally propagates the status, and always saves the platform order.
// Re-running it with unchanged charges is a no-op apart from the save.
func (s *Service) SyncPlatformWith(ctx context.Context, order *models.Order, changeStatus bool) error {
	if order.PlatformOrder == nil {
		return apperr.NewNotFound("%s", s.i18n.T(i18n.MsgOrderNotFound, order.Code))
	}
	s.applyTotals(order, changeStatus)
	if err := order.PlatformOrder.Save(ctx); err != nil {
		return err
	}
	s.publish(ctx, TopicOrderSynced, order)
	return nil
}

func (s *Service) applyTotals(order *models.Order, changeStatus bool) {
	totals := money.Sum(order.Charges)
	p := order.PlatformOrder

	paid := money.CentsToDecimal(totals.Paid)
	canceled := money.CentsToDecimal(totals.Canceled)
	refunded := money.CentsToDecimal(totals.Refunded)

	p.SetTotalPaid(paid)
	p.SetBaseTotalPaid(paid)
	p.SetTotalCanceled(canceled)
	p.SetBaseTotalCanceled(canceled)
	p.SetTotalRefunded(refunded)
	p.SetBaseTotalRefunded(refunded)

	if changeStatus {
		s.ChangeOrderStatus(order)
	}
}

// ChangeOrderStatus maps the order status onto the platform order. Paid
// becomes processing; a closed platform order is never touched.
func (s *Service) ChangeOrderStatus(order *models.Order) {
	status := order.Status
	if status == models.OrderStatusPaid {
		status = models.OrderStatusProcessing
	}
	if order.PlatformOrder.State() == models.OrderStateClosed {
		return
	}
	order.PlatformOrder.SetStatus(status)
}

// GetOrderByPlugID loads a local order with its platform order attached.
func (s *Service) GetOrderByPlugID(ctx context.Context, plugID string) (*models.Order, error) {
	order, err := s.orders.FindByPlugID(ctx, plugID)
	if err != nil || order == nil {
		return order, err
	}
	return order, s.attachPlatformOrder(ctx, order)
}

// GetOrderByPlatformID loads the local order created for a platform order.
func (s *Service) GetOrderByPlatformID(ctx context.Context, platformOrderID uint) (*models.Order, error) {
	order, err := s.orders.FindByPlatformID(ctx, platformOrderID)
	if err != nil || order == nil {
		return order, err
	}
	return order, s.attachPlatformOrder(ctx, order)
}

func (s *Service) attachPlatformOrder(ctx context.Context, order *models.Order) error {
	if order.PlatformOrder != nil {
		return nil
	}
	p, err := s.platforms.Load(ctx, order.PlatformOrderID)
	if err != nil {
		return fmt.Errorf("load platform order %d: %w", order.PlatformOrderID, err)
	}
	order.PlatformOrder = p
	return nil
}

// SaveOrder persists the local order and its charges.
func (s *Service) SaveOrder(ctx context.Context, order *models.Order) error {
	return s.orders.Save(ctx, order)
}

// I18n returns the localizer used for history comments.
func (s *Service) I18n() *i18n.Localizer {
	return s.i18n
}

type orderEvent struct {
	PlugID          string             `json:"plug_id"`
	Code            string             `json:"code"`
	Status          models.OrderStatus `json:"status"`
	PlatformOrderID uint               `json:"platform_order_id"`
	Totals          money.Totals       `json:"totals"`
	OccurredAt      time.Time          `json:"occurred_at"`
}

func (s *Service) publish(ctx context.Context, topic string, order *models.Order) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(orderEvent{
		PlugID:          order.PlugID,
		Code:            order.Code,
		Status:          order.Status,
		PlatformOrderID: order.PlatformOrderID,
		Totals:          money.Sum(order.Charges),
		OccurredAt:      time.Now().UTC(),
	})
	if err != nil {
		log.Errorf("[OrderService] Failed to encode %s event: %v", topic, err)
		return
	}
	if err := s.events.Publish(ctx, uuid.NewString(), topic, payload); err != nil {
		log.Warnf("[OrderService] Failed to publish %s for order %s: %v", topic, order.PlugID, err)
	}
}

func (s *Service) logOrder(p models.PlatformOrder, message string) {
	log.Infof("[OrderService] Order #%s (grand total %s): %s", p.Code(), p.GrandTotal().StringFixed(2), message)
}

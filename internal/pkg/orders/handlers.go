package orders

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/plug"
)

// ResponseHandler applies the payment-specific side effects of a freshly
// created order. Handlers persist the local order but leave saving the
// platform order to the caller.
type ResponseHandler interface {
	Handle(ctx context.Context, order *models.Order, req *plug.CreateOrderRequest) error
}

// ResponseHandlerFunc adapts a function to ResponseHandler.
type ResponseHandlerFunc func(ctx context.Context, order *models.Order, req *plug.CreateOrderRequest) error

func (f ResponseHandlerFunc) Handle(ctx context.Context, order *models.Order, req *plug.CreateOrderRequest) error {
	return f(ctx, order, req)
}

func (s *Service) defaultResponseHandlers() map[models.PaymentMethod]ResponseHandler {
	return map[models.PaymentMethod]ResponseHandler{
		models.PaymentMethodCreditCard: ResponseHandlerFunc(s.handleCreditCard),
		models.PaymentMethodCredit:     ResponseHandlerFunc(s.handleCreditCard),
		models.PaymentMethodBoleto:     ResponseHandlerFunc(s.handleBoleto),
		models.PaymentMethodPix:        ResponseHandlerFunc(s.handlePix),
	}
}

// RegisterResponseHandler replaces the handler of a payment variant.
func (s *Service) RegisterResponseHandler(method models.PaymentMethod, h ResponseHandler) {
	s.handlers[method] = h
}

func (s *Service) responseHandler(method models.PaymentMethod) ResponseHandler {
	if h, ok := s.handlers[method]; ok {
		return h
	}
	return ResponseHandlerFunc(s.handleDefault)
}

func (s *Service) handleCreditCard(ctx context.Context, order *models.Order, _ *plug.CreateOrderRequest) error {
	p := order.PlatformOrder

	switch order.Status {
	case models.OrderStatusPaid:
		s.applyTotals(order, true)
		p.SetState(models.OrderStateProcessing)
		p.AddHistoryComment(s.i18n.T(i18n.MsgCreditCardApproved, lastTransactionID(order)), false)
	case models.OrderStatusFailed, models.OrderStatusCanceled:
		p.AddHistoryComment(s.i18n.T(i18n.MsgCreditCardDeclined, acquirerMessage(order)), false)
	default:
		s.applyTotals(order, true)
		p.AddHistoryComment(s.i18n.T(i18n.MsgCreditCardPending), false)
	}

	return s.orders.Save(ctx, order)
}

func (s *Service) handleBoleto(ctx context.Context, order *models.Order, _ *plug.CreateOrderRequest) error {
	p := order.PlatformOrder
	p.SetState(models.OrderStatePendingPayment)
	s.applyTotals(order, true)

	link := ""
	if c := firstChargeOf(order, models.PaymentMethodBoleto); c != nil {
		link = c.LastTransaction.URL
	}
	p.AddHistoryComment(s.i18n.T(i18n.MsgBoletoIssued, strconv.Itoa(s.cfg.Boleto.DueDays), link), false)

	if err := s.orders.Save(ctx, order); err != nil {
		return err
	}
	s.scheduleSync(ctx, order, time.Duration(s.cfg.Boleto.DueDays+1)*24*time.Hour)
	return nil
}

func (s *Service) handlePix(ctx context.Context, order *models.Order, _ *plug.CreateOrderRequest) error {
	p := order.PlatformOrder
	p.SetState(models.OrderStatePendingPayment)
	s.applyTotals(order, true)

	link := ""
	if c := firstChargeOf(order, models.PaymentMethodPix); c != nil {
		link = c.LastTransaction.QRCodeURL
	}
	p.AddHistoryComment(s.i18n.T(i18n.MsgPixIssued, strconv.Itoa(s.cfg.Pix.ExpirationQrCode), link), false)

	if err := s.orders.Save(ctx, order); err != nil {
		return err
	}
	s.scheduleSync(ctx, order, time.Duration(s.cfg.Pix.ExpirationQrCode)*time.Second)
	return nil
}

func (s *Service) handleDefault(ctx context.Context, order *models.Order, _ *plug.CreateOrderRequest) error {
	s.applyTotals(order, true)
	order.PlatformOrder.AddHistoryComment(s.i18n.T(i18n.MsgWaitingPayment), false)
	return s.orders.Save(ctx, order)
}

func (s *Service) scheduleSync(ctx context.Context, order *models.Order, delay time.Duration) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.ScheduleOrderSync(ctx, order.PlugID, delay); err != nil {
		log.Warnf("[OrderService] Failed to schedule sync of order %s: %v", order.PlugID, err)
	}
}

func firstChargeOf(order *models.Order, method models.PaymentMethod) *models.Charge {
	for i := range order.Charges {
		if order.Charges[i].PaymentMethod == method {
			return &order.Charges[i]
		}
	}
	return nil
}

func lastTransactionID(order *models.Order) string {
	for _, c := range order.Charges {
		if c.LastTransaction.ID != "" {
			return c.LastTransaction.ID
		}
	}
	return order.PlugID
}

func acquirerMessage(order *models.Order) string {
	for _, c := range order.Charges {
		if c.LastTransaction.AcquirerMessage != "" {
			return c.LastTransaction.AcquirerMessage
		}
	}
	return string(order.Status)
}

package orders

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/money"
	"github.com/ManuelReschke/PlugSync/internal/pkg/plug"
)

// CreateOrderAtPlug sends a platform order to Plug. When Plug declines it,
// the charges it created are canceled again. Every failure is returned as
// an *apperr.TranslatedError carrying a buyer-facing message.
func (s *Service) CreateOrderAtPlug(ctx context.Context, platformOrder models.PlatformOrder) (*models.Order, error) {
	s.logOrder(platformOrder, "Creating order.")

	order, err := s.createOrderAtPlug(ctx, platformOrder)
	if err != nil {
		s.logOrder(platformOrder, err.Error())
		return nil, apperr.NewTranslated(s.translator.Translate(err, platformOrder.Code()), err)
	}
	return order, nil
}

func (s *Service) createOrderAtPlug(ctx context.Context, platformOrder models.PlatformOrder) (*models.Order, error) {
	platformOrder.SetState(models.OrderStateNew)
	platformOrder.SetStatus(models.OrderStatusPending)

	req, err := s.ExtractPaymentOrder(platformOrder)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order at plug: %w", err)
	}

	force := s.cfg.ForceCreateOrder
	if !force && !resp.WasChargedSuccessfully() {
		s.logOrder(platformOrder, fmt.Sprintf("Can't create order. - Force Create Order: %t | Order or charge status failed", force))
		return nil, s.compensate(ctx, platformOrder, resp)
	}

	if err := platformOrder.Save(ctx); err != nil {
		return nil, err
	}

	order := resp.ToOrder()
	order.PlatformOrder = platformOrder
	order.PlatformOrderID = platformOrder.ID()
	if order.Code == "" {
		order.Code = platformOrder.Code()
	}
	platformOrder.SetPlugID(order.PlugID)

	if err := s.responseHandler(req.Variant()).Handle(ctx, order, req); err != nil {
		return nil, err
	}

	if err := platformOrder.Save(ctx); err != nil {
		return nil, err
	}

	// Handler side effects are kept even if this check fails.
	if !resp.WasChargedSuccessfully() {
		s.logOrder(platformOrder, fmt.Sprintf("Can't create order. - Force Create Order: %t | Order or charge status failed", force))
		return nil, apperr.NewRemoteRejected(s.i18n.T(i18n.MsgCantCreateOrder), nil)
	}

	s.publish(ctx, TopicOrderCreated, order)
	return order, nil
}

// compensate cancels the charges of a declined order and persists them.
func (s *Service) compensate(ctx context.Context, platformOrder models.PlatformOrder, resp *plug.OrderResponse) error {
	charges := resp.ToOrder().Charges
	s.persistCharges(ctx, charges)

	failures := s.CancelChargesAtPlug(ctx, charges, nil)
	s.logChargeFailures(platformOrder, failures)
	s.persistCharges(ctx, charges)

	return apperr.NewRemoteRejected(s.i18n.T(i18n.MsgCantCreateOrder), failures)
}

func (s *Service) persistCharges(ctx context.Context, charges []models.Charge) {
	for i := range charges {
		if err := s.charges.Save(ctx, &charges[i]); err != nil {
			log.Errorf("[OrderService] Failed to persist charge %s: %v", charges[i].PlugID, err)
		}
	}
}

// ExtractPaymentOrder builds the Plug request for a platform order. The
// payment lines must add up to the grand total.
func (s *Service) ExtractPaymentOrder(platformOrder models.PlatformOrder) (*plug.CreateOrderRequest, error) {
	amount := money.DecimalToCents(platformOrder.GrandTotal())
	req := &plug.CreateOrderRequest{
		Code:             platformOrder.Code(),
		Amount:           amount,
		Customer:         platformOrder.Customer(),
		PaymentMethod:    string(platformOrder.PaymentMethod()),
		AntifraudEnabled: s.cfg.AntifraudEnabled && amount >= s.cfg.AntifraudMinAmount,
	}
	for _, p := range platformOrder.Payments() {
		req.AddPayment(p)
	}

	if req.PaymentsTotal() != req.Amount {
		msg := s.i18n.T(i18n.MsgPaymentSumMismatch)
		s.logOrder(platformOrder, msg)
		return nil, apperr.NewValidation("%s", msg)
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, &apperr.ValidationError{Msg: s.i18n.T(i18n.MsgInvalidPaymentData), Err: err}
	}
	return req, nil
}

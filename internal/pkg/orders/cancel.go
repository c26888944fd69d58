package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

// CancelChargesAtPlug cancels every charge that is not canceled or failed
// yet and returns the failure reason per charge id. When order is given,
// every attempted charge is written back into it.
func (s *Service) CancelChargesAtPlug(ctx context.Context, charges []models.Charge, order *models.Order) map[string]string {
	failures := make(map[string]string)

	for i := range charges {
		charge := &charges[i]
		if charge.IsAlreadyCanceled() {
			continue
		}

		reason, err := s.client.CancelCharge(ctx, charge)
		if err != nil {
			reason = err.Error()
		}
		if reason != "" {
			failures[charge.PlugID] = reason
		}

		if order != nil {
			order.UpdateCharge(*charge)
		}
	}

	return failures
}

// CancelAtPlug cancels an order and all of its charges. The order only
// moves to canceled when every charge was canceled.
func (s *Service) CancelAtPlug(ctx context.Context, order *models.Order) error {
	stored, err := s.orders.FindByPlugID(ctx, order.PlugID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", order.PlugID, err)
	}
	if stored != nil {
		if stored.PlatformOrder == nil && order.PlatformOrder != nil && order.PlatformOrderID == stored.PlatformOrderID {
			stored.PlatformOrder = order.PlatformOrder
		}
		order = stored
	}

	if order.IsCanceled() {
		return nil
	}
	if err := s.attachPlatformOrder(ctx, order); err != nil {
		return err
	}
	platformOrder := order.PlatformOrder
	if platformOrder == nil {
		return fmt.Errorf("order %s has no platform order", order.PlugID)
	}

	failures := s.CancelChargesAtPlug(ctx, order.Charges, order)

	if len(failures) > 0 {
		if err := s.orders.Save(ctx, order); err != nil {
			log.Errorf("[OrderService] Failed to save partially canceled order %s: %v", order.PlugID, err)
		}
		return s.addMessagesToPlatformHistory(ctx, failures, order)
	}

	order.Status = models.OrderStatusCanceled
	platformOrder.SetStatus(models.OrderStatusCanceled)

	if err := s.orders.Save(ctx, order); err != nil {
		return err
	}
	if err := platformOrder.Save(ctx); err != nil {
		return err
	}

	label := platformOrder.StatusLabel(order.Status)
	sent := platformOrder.SendEmail(ctx, s.i18n.T(i18n.MsgNewOrderStatus, label))
	platformOrder.AddHistoryComment(s.i18n.T(i18n.MsgOrderCanceledAtPlug, order.PlugID), sent)
	if err := platformOrder.Save(ctx); err != nil {
		log.Errorf("[OrderService] Failed to save cancel history of order %s: %v", order.PlugID, err)
	}

	s.publish(ctx, TopicOrderCanceled, order)
	return nil
}

// CancelAtPlugByPlatformOrder fetches the Plug order behind a platform
// order and cancels it. Platform orders never sent to Plug are ignored.
func (s *Service) CancelAtPlugByPlatformOrder(ctx context.Context, platformOrder models.PlatformOrder) error {
	plugID := platformOrder.PlugID()
	if plugID == "" {
		return nil
	}

	order, err := s.client.GetOrder(ctx, plugID)
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", plugID, err)
	}
	if order == nil {
		return nil
	}

	order.PlatformOrder = platformOrder
	order.PlatformOrderID = platformOrder.ID()
	return s.CancelAtPlug(ctx, order)
}

func (s *Service) addMessagesToPlatformHistory(ctx context.Context, failures map[string]string, order *models.Order) error {
	var b strings.Builder
	b.WriteString(s.i18n.T(i18n.MsgChargesNotCanceled))
	b.WriteString("<br /><ul>")
	for _, chargeID := range sortedKeys(failures) {
		fmt.Fprintf(&b, "<li>%s : %s</li>", chargeID, failures[chargeID])
	}
	b.WriteString("</ul>")

	order.PlatformOrder.AddHistoryComment(b.String(), false)
	return order.PlatformOrder.Save(ctx)
}

func (s *Service) logChargeFailures(p models.PlatformOrder, failures map[string]string) {
	for _, chargeID := range sortedKeys(failures) {
		s.logOrder(p, fmt.Sprintf("Charge %s couldn't be canceled at Plug. Reason: %s", chargeID, failures[chargeID]))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

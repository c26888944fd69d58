package orders

import (
	"context"
	"fmt"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

// RefreshFromPlug pulls the current state of an order from Plug, merges its
// charges into the local order and syncs the platform order. It backs the
// delayed follow-ups of boleto and pix orders.
func (s *Service) RefreshFromPlug(ctx context.Context, plugID string) (*models.Order, error) {
	order, err := s.GetOrderByPlugID(ctx, plugID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NewNotFound("%s", s.i18n.T(i18n.MsgOrderNotFound, plugID))
	}

	remote, err := s.client.GetOrder(ctx, plugID)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", plugID, err)
	}
	if remote == nil {
		return nil, apperr.NewNotFound("%s", s.i18n.T(i18n.MsgOrderNotFound, order.Code))
	}

	if remote.Status != "" {
		order.Status = remote.Status
	}
	for _, c := range remote.Charges {
		order.MergeCharge(c)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := s.SyncPlatformWith(ctx, order, true); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelByPlugID cancels a stored order and reports whether it ended up
// canceled.
func (s *Service) CancelByPlugID(ctx context.Context, plugID string) (bool, error) {
	order, err := s.GetOrderByPlugID(ctx, plugID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, apperr.NewNotFound("%s", s.i18n.T(i18n.MsgOrderNotFound, plugID))
	}
	if err := s.CancelAtPlug(ctx, order); err != nil {
		return false, err
	}

	stored, err := s.orders.FindByPlugID(ctx, plugID)
	if err != nil || stored == nil {
		return order.IsCanceled(), err
	}
	return stored.IsCanceled(), nil
}

// Package platform adapts the persisted host order rows to the
// models.PlatformOrder collaborator used by the reconciliation engine.
package platform

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

// Mailer delivers status notification emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Order is the gorm-backed models.PlatformOrder.
type Order struct {
	row     *models.HostOrder
	repo    repository.PlatformOrderRepository
	mailer  Mailer
	i18n    *i18n.Localizer
	pending []models.OrderHistory
}

var _ models.PlatformOrder = (*Order)(nil)

// Wrap binds a host order row to its collaborators.
func Wrap(row *models.HostOrder, repo repository.PlatformOrderRepository, mailer Mailer, loc *i18n.Localizer) *Order {
	return &Order{row: row, repo: repo, mailer: mailer, i18n: loc}
}

// Row exposes the underlying record.
func (o *Order) Row() *models.HostOrder { return o.row }

func (o *Order) ID() uint                            { return o.row.ID }
func (o *Order) Code() string                        { return o.row.Code }
func (o *Order) IncrementID() string                 { return o.row.IncrementID }
func (o *Order) PlugID() string                      { return o.row.PlugID }
func (o *Order) SetPlugID(plugID string)             { o.row.PlugID = plugID }
func (o *Order) State() models.OrderState            { return o.row.State }
func (o *Order) SetState(state models.OrderState)    { o.row.State = state }
func (o *Order) Status() models.OrderStatus          { return o.row.Status }
func (o *Order) SetStatus(status models.OrderStatus) { o.row.Status = status }
func (o *Order) GrandTotal() decimal.Decimal         { return o.row.GrandTotal }
func (o *Order) PaymentMethod() models.PaymentMethod { return o.row.PaymentMethod }

func (o *Order) SetTotalPaid(v decimal.Decimal)         { o.row.TotalPaid = v }
func (o *Order) SetBaseTotalPaid(v decimal.Decimal)     { o.row.BaseTotalPaid = v }
func (o *Order) SetTotalCanceled(v decimal.Decimal)     { o.row.TotalCanceled = v }
func (o *Order) SetBaseTotalCanceled(v decimal.Decimal) { o.row.BaseTotalCanceled = v }
func (o *Order) SetTotalRefunded(v decimal.Decimal)     { o.row.TotalRefunded = v }
func (o *Order) SetBaseTotalRefunded(v decimal.Decimal) { o.row.BaseTotalRefunded = v }

func (o *Order) StatusLabel(status models.OrderStatus) string {
	return o.i18n.StatusLabel(string(status))
}

func (o *Order) Customer() models.Customer {
	return models.Customer{
		Name:     o.row.CustomerName,
		Email:    o.row.CustomerEmail,
		Document: o.row.CustomerDocument,
		Type:     o.row.CustomerType,
		Phone:    o.row.CustomerPhone,
	}
}

func (o *Order) Payments() []models.Payment {
	return o.row.Payments
}

// AddHistoryComment buffers a comment; it is written on the next Save.
func (o *Order) AddHistoryComment(message string, customerNotified bool) {
	o.pending = append(o.pending, models.OrderHistory{Comment: message, CustomerNotified: customerNotified})
}

// PendingHistory returns comments not yet saved.
func (o *Order) PendingHistory() []models.OrderHistory {
	return o.pending
}

// SendEmail notifies the customer; failures are logged and reported as false.
func (o *Order) SendEmail(ctx context.Context, message string) bool {
	if o.mailer == nil || o.row.CustomerEmail == "" {
		return false
	}
	subject := fmt.Sprintf("Order #%s", o.row.Code)
	if err := o.mailer.Send(ctx, o.row.CustomerEmail, subject, message); err != nil {
		log.Warnf("[PlatformOrder] Email for order %s failed: %v", o.row.Code, err)
		return false
	}
	return true
}

func (o *Order) Save(ctx context.Context) error {
	if err := o.repo.Save(ctx, o.row); err != nil {
		return fmt.Errorf("save platform order %s: %w", o.row.Code, err)
	}
	if len(o.pending) == 0 {
		return nil
	}
	for i := range o.pending {
		o.pending[i].HostOrderID = o.row.ID
	}
	if err := o.repo.AddHistory(ctx, o.pending); err != nil {
		return fmt.Errorf("save history of order %s: %w", o.row.Code, err)
	}
	o.row.History = append(o.row.History, o.pending...)
	o.pending = nil
	return nil
}

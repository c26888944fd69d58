package webhook

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/money"
	"github.com/ManuelReschke/PlugSync/internal/pkg/platform"
)

type hostRepo struct {
	rows  map[uint]*models.HostOrder
	saves int
}

func (r *hostRepo) FindByID(_ context.Context, id uint) (*models.HostOrder, error) {
	return r.rows[id], nil
}

func (r *hostRepo) FindByCode(_ context.Context, code string) (*models.HostOrder, error) {
	for _, row := range r.rows {
		if row.Code == code {
			return row, nil
		}
	}
	return nil, nil
}

func (r *hostRepo) Save(_ context.Context, _ *models.HostOrder) error {
	r.saves++
	return nil
}

func (r *hostRepo) AddHistory(_ context.Context, _ []models.OrderHistory) error {
	return nil
}

type fakeOrders struct {
	orders map[string]*models.Order
	saves  int
	syncs  []bool
}

func (f *fakeOrders) GetOrderByPlugID(_ context.Context, plugID string) (*models.Order, error) {
	return f.orders[plugID], nil
}

func (f *fakeOrders) SaveOrder(_ context.Context, _ *models.Order) error {
	f.saves++
	return nil
}

func (f *fakeOrders) SyncPlatformWith(ctx context.Context, order *models.Order, changeStatus bool) error {
	f.syncs = append(f.syncs, changeStatus)
	totals := money.Sum(order.Charges)
	order.PlatformOrder.SetTotalPaid(money.CentsToDecimal(totals.Paid))
	order.PlatformOrder.SetTotalCanceled(money.CentsToDecimal(totals.Canceled))
	order.PlatformOrder.SetTotalRefunded(money.CentsToDecimal(totals.Refunded))
	if changeStatus {
		order.PlatformOrder.SetStatus(order.Status)
	}
	return order.PlatformOrder.Save(ctx)
}

type fakeSubscriptions struct {
	subs  map[string]*models.Subscription
	saves int
}

func (f *fakeSubscriptions) FindByPlugID(_ context.Context, plugID string) (*models.Subscription, error) {
	return f.subs[plugID], nil
}

func (f *fakeSubscriptions) Save(_ context.Context, _ *models.Subscription) error {
	f.saves++
	return nil
}

var errBoom = errors.New("boom")

type failingOrders struct{ fakeOrders }

func (f *failingOrders) GetOrderByPlugID(context.Context, string) (*models.Order, error) {
	return nil, errBoom
}

type fixture struct {
	loc    *i18n.Localizer
	hosts  *hostRepo
	orders *fakeOrders
	subs   *fakeSubscriptions
}

func newFixture() *fixture {
	return &fixture{
		loc:    i18n.New("en"),
		hosts:  &hostRepo{rows: map[uint]*models.HostOrder{}},
		orders: &fakeOrders{orders: map[string]*models.Order{}},
		subs:   &fakeSubscriptions{subs: map[string]*models.Subscription{}},
	}
}

// addOrder stores a local order backed by a host order with the next id.
func (f *fixture) addOrder(plugID, code string, status models.OrderStatus, charges ...models.Charge) *models.Order {
	row := &models.HostOrder{
		ID:          uint(len(f.hosts.rows) + 1),
		Code:        code,
		IncrementID: "000" + code,
		State:       models.OrderStateProcessing,
		Status:      models.OrderStatusPending,
		GrandTotal:  decimal.NewFromInt(100),
	}
	f.hosts.rows[row.ID] = row

	order := &models.Order{PlugID: plugID, Code: code, Status: status, PlatformOrderID: row.ID}
	for _, c := range charges {
		order.UpdateCharge(c)
	}
	order.PlatformOrder = platform.Wrap(row, f.hosts, nil, f.loc)
	f.orders.orders[plugID] = order
	return order
}

func (f *fixture) loader() *platform.Loader {
	return platform.NewLoader(f.hosts, nil, f.loc)
}

func comments(row *models.HostOrder) []string {
	out := make([]string, 0, len(row.History))
	for _, h := range row.History {
		out = append(out, h.Comment)
	}
	return out
}

func rowOf(order *models.Order) *models.HostOrder {
	return order.PlatformOrder.(*platform.Order).Row()
}

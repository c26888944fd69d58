package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/plug"
)

type fakePlatformOrder struct {
	id          uint
	code        string
	incrementID string
	plugID      string
	state       models.OrderState
	status      models.OrderStatus
	grandTotal  decimal.Decimal
	method      models.PaymentMethod
	customer    models.Customer
	payments    []models.Payment

	totalPaid, baseTotalPaid         decimal.Decimal
	totalCanceled, baseTotalCanceled decimal.Decimal
	totalRefunded, baseTotalRefunded decimal.Decimal

	history []string
	emails  []string
	saves   int
	saveErr error
}

func newPlatformOrder(code string, grandTotal int64, payments ...models.Payment) *fakePlatformOrder {
	return &fakePlatformOrder{
		id:          1,
		code:        code,
		incrementID: "000" + code,
		state:       models.OrderStateNew,
		status:      models.OrderStatusPending,
		grandTotal:  decimal.New(grandTotal, -2),
		customer:    models.Customer{Name: "Ana", Email: "ana@example.com"},
		payments:    payments,
	}
}

func (p *fakePlatformOrder) ID() uint                                { return p.id }
func (p *fakePlatformOrder) Code() string                            { return p.code }
func (p *fakePlatformOrder) IncrementID() string                     { return p.incrementID }
func (p *fakePlatformOrder) PlugID() string                          { return p.plugID }
func (p *fakePlatformOrder) SetPlugID(plugID string)                 { p.plugID = plugID }
func (p *fakePlatformOrder) State() models.OrderState                { return p.state }
func (p *fakePlatformOrder) SetState(state models.OrderState)        { p.state = state }
func (p *fakePlatformOrder) Status() models.OrderStatus              { return p.status }
func (p *fakePlatformOrder) SetStatus(status models.OrderStatus)     { p.status = status }
func (p *fakePlatformOrder) StatusLabel(s models.OrderStatus) string { return string(s) }
func (p *fakePlatformOrder) GrandTotal() decimal.Decimal             { return p.grandTotal }
func (p *fakePlatformOrder) SetTotalPaid(v decimal.Decimal)          { p.totalPaid = v }
func (p *fakePlatformOrder) SetBaseTotalPaid(v decimal.Decimal)      { p.baseTotalPaid = v }
func (p *fakePlatformOrder) SetTotalCanceled(v decimal.Decimal)      { p.totalCanceled = v }
func (p *fakePlatformOrder) SetBaseTotalCanceled(v decimal.Decimal)  { p.baseTotalCanceled = v }
func (p *fakePlatformOrder) SetTotalRefunded(v decimal.Decimal)      { p.totalRefunded = v }
func (p *fakePlatformOrder) SetBaseTotalRefunded(v decimal.Decimal)  { p.baseTotalRefunded = v }
func (p *fakePlatformOrder) Customer() models.Customer               { return p.customer }
func (p *fakePlatformOrder) PaymentMethod() models.PaymentMethod     { return p.method }
func (p *fakePlatformOrder) Payments() []models.Payment              { return p.payments }

func (p *fakePlatformOrder) AddHistoryComment(message string, _ bool) {
	p.history = append(p.history, message)
}

func (p *fakePlatformOrder) SendEmail(_ context.Context, message string) bool {
	p.emails = append(p.emails, message)
	return true
}

func (p *fakePlatformOrder) Save(context.Context) error {
	p.saves++
	return p.saveErr
}

type fakeOrderRepo struct {
	byPlugID map[string]*models.Order
	saves    int
}

func newOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{byPlugID: map[string]*models.Order{}}
	for _, o := range orders {
		r.byPlugID[o.PlugID] = o
	}
	return r
}

func (r *fakeOrderRepo) FindByPlugID(_ context.Context, plugID string) (*models.Order, error) {
	return r.byPlugID[plugID], nil
}

func (r *fakeOrderRepo) FindByPlatformID(_ context.Context, id uint) (*models.Order, error) {
	for _, o := range r.byPlugID {
		if o.PlatformOrderID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *models.Order) error {
	r.saves++
	r.byPlugID[order.PlugID] = order
	return nil
}

type fakeChargeRepo struct {
	saved map[string]models.Charge
	saves int
}

func (r *fakeChargeRepo) FindByPlugID(_ context.Context, plugID string) (*models.Charge, error) {
	if c, ok := r.saved[plugID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *fakeChargeRepo) Save(_ context.Context, charge *models.Charge) error {
	if r.saved == nil {
		r.saved = map[string]models.Charge{}
	}
	r.saves++
	r.saved[charge.PlugID] = *charge
	return nil
}

type fakeClient struct {
	createResp  *plug.OrderResponse
	createErr   error
	createCalls int
	lastRequest *plug.CreateOrderRequest

	cancelReasons map[string]string
	cancelErrs    map[string]error
	cancelCalls   []string

	remote   *models.Order
	getCalls int
}

func (c *fakeClient) CreateOrder(_ context.Context, req *plug.CreateOrderRequest) (*plug.OrderResponse, error) {
	c.createCalls++
	c.lastRequest = req
	return c.createResp, c.createErr
}

func (c *fakeClient) CancelCharge(_ context.Context, charge *models.Charge) (string, error) {
	c.cancelCalls = append(c.cancelCalls, charge.PlugID)
	if err := c.cancelErrs[charge.PlugID]; err != nil {
		return "", err
	}
	if reason := c.cancelReasons[charge.PlugID]; reason != "" {
		return reason, nil
	}
	charge.Cancel(charge.Amount)
	charge.Status = models.ChargeStatusCanceled
	return "", nil
}

func (c *fakeClient) GetOrder(_ context.Context, plugID string) (*models.Order, error) {
	c.getCalls++
	return c.remote, nil
}

type fakeLoader struct {
	orders map[uint]models.PlatformOrder
}

func (l *fakeLoader) Load(_ context.Context, id uint) (models.PlatformOrder, error) {
	if p, ok := l.orders[id]; ok {
		return p, nil
	}
	return nil, nil
}

type fakeScheduler struct {
	scheduled map[string]time.Duration
}

func (s *fakeScheduler) ScheduleOrderSync(_ context.Context, plugID string, delay time.Duration) error {
	if s.scheduled == nil {
		s.scheduled = map[string]time.Duration{}
	}
	s.scheduled[plugID] = delay
	return nil
}

type fakePublisher struct {
	topics []string
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, _ string, topic string, _ []byte) error {
	p.topics = append(p.topics, topic)
	return p.err
}

var errTransport = errors.New("dial tcp: connection refused")

type harness struct {
	svc       *Service
	cfg       *config.ModuleConfig
	orders    *fakeOrderRepo
	charges   *fakeChargeRepo
	client    *fakeClient
	loader    *fakeLoader
	scheduler *fakeScheduler
	events    *fakePublisher
}

func newHarness(orders ...*models.Order) *harness {
	h := &harness{
		cfg:       config.Default(),
		orders:    newOrderRepo(orders...),
		charges:   &fakeChargeRepo{},
		client:    &fakeClient{},
		loader:    &fakeLoader{orders: map[uint]models.PlatformOrder{}},
		scheduler: &fakeScheduler{},
		events:    &fakePublisher{},
	}
	h.svc = NewService(Dependencies{
		Config:    h.cfg,
		Orders:    h.orders,
		Charges:   h.charges,
		Client:    h.client,
		Platforms: h.loader,
		I18n:      i18n.New("en"),
		Events:    h.events,
		Scheduler: h.scheduler,
	})
	return h
}

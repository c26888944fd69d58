package plug

import (
	"github.com/ManuelReschke/PlugSync/app/models"
)

const (
	StatusFailed        = "failed"
	RequestStatusFailed = "failed"
)

// CreateOrderRequest is the body of an order creation call. Amounts are in
// cents.
type CreateOrderRequest struct {
	Code             string            `json:"code" validate:"required"`
	Amount           int64             `json:"amount" validate:"gt=0"`
	Customer         models.Customer   `json:"customer"`
	Payments         []models.Payment  `json:"payments" validate:"min=1,dive"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	AntifraudEnabled bool              `json:"antifraud_enabled"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// AddPayment appends a payment line.
func (r *CreateOrderRequest) AddPayment(p models.Payment) {
	r.Payments = append(r.Payments, p)
}

// PaymentsTotal sums the payment lines in cents.
func (r *CreateOrderRequest) PaymentsTotal() int64 {
	var total int64
	for _, p := range r.Payments {
		total += p.Amount
	}
	return total
}

// Variant returns the payment method used to select a response handler.
func (r *CreateOrderRequest) Variant() models.PaymentMethod {
	if r.PaymentMethod != "" {
		return models.PaymentMethod(r.PaymentMethod)
	}
	if len(r.Payments) > 0 {
		return r.Payments[0].Method
	}
	return ""
}

// TransactionRequest is one acquirer request reported inside an order
// response.
type TransactionRequest struct {
	ID            string `json:"id"`
	RequestStatus string `json:"requestStatus"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
}

// ChargeResponse is a charge as returned by Plug.
type ChargeResponse struct {
	ID              string                 `json:"id"`
	Code            string                 `json:"code"`
	Status          string                 `json:"status"`
	PaymentMethod   string                 `json:"payment_method"`
	Amount          int64                  `json:"amount"`
	PaidAmount      int64                  `json:"paid_amount"`
	CanceledAmount  int64                  `json:"canceled_amount"`
	RefundedAmount  int64                  `json:"refunded_amount"`
	LastTransaction models.TransactionInfo `json:"last_transaction"`
}

// ToCharge maps the response onto a charge owned by orderPlugID.
func (c ChargeResponse) ToCharge(orderPlugID string) models.Charge {
	return models.Charge{
		PlugID:          c.ID,
		OrderPlugID:     orderPlugID,
		Code:            c.Code,
		Status:          models.ChargeStatus(c.Status),
		PaymentMethod:   models.PaymentMethod(c.PaymentMethod),
		Amount:          c.Amount,
		PaidAmount:      c.PaidAmount,
		CanceledAmount:  c.CanceledAmount,
		RefundedAmount:  c.RefundedAmount,
		LastTransaction: c.LastTransaction,
	}
}

// OrderResponse is an order as returned by Plug.
type OrderResponse struct {
	ID                  string               `json:"id"`
	Code                string               `json:"code"`
	Status              string               `json:"status"`
	Amount              int64                `json:"amount"`
	TransactionRequests []TransactionRequest `json:"transactionRequests"`
	Charges             []ChargeResponse     `json:"charges"`
}

// ToOrder builds a local order with its charges.
func (r *OrderResponse) ToOrder() *models.Order {
	order := &models.Order{
		PlugID: r.ID,
		Code:   r.Code,
		Status: models.OrderStatus(r.Status),
	}
	for _, c := range r.Charges {
		order.UpdateCharge(c.ToCharge(r.ID))
	}
	return order
}

// WasChargedSuccessfully reports whether Plug accepted the order: the
// top-level status is present and not failed, and no transaction request
// failed.
func (r *OrderResponse) WasChargedSuccessfully() bool {
	if r == nil || r.Status == "" || r.Status == StatusFailed {
		return false
	}
	for _, tr := range r.TransactionRequests {
		if tr.RequestStatus == RequestStatusFailed {
			return false
		}
	}
	return true
}

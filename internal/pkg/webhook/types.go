// Package webhook routes Plug webhook notifications to the handler of
// their entity type and applies them to local orders and subscriptions.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/plug"
)

const (
	EntityOrder        = "order"
	EntityCharge       = "charge"
	EntitySubscription = "subscription"
)

// Type is the "<entity>.<action>" tag of a webhook, e.g. charge.paid.
type Type struct {
	EntityType string
	Action     string
}

// ParseType splits a webhook type tag at its first dot.
func ParseType(raw string) (Type, error) {
	entity, action, ok := strings.Cut(strings.TrimSpace(raw), ".")
	if !ok || entity == "" || action == "" {
		return Type{}, fmt.Errorf("invalid webhook type %q", raw)
	}
	return Type{EntityType: strings.ToLower(entity), Action: strings.ToLower(action)}, nil
}

func (t Type) String() string {
	return t.EntityType + "." + t.Action
}

// OrderRef is the order a charge belongs to.
type OrderRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// Entity is the decoded "data" object of a webhook. Only the fields of
// its own entity type are populated.
type Entity struct {
	ID              string                 `json:"id"`
	Code            string                 `json:"code"`
	Status          string                 `json:"status"`
	PaymentMethod   string                 `json:"payment_method"`
	Amount          int64                  `json:"amount"`
	PaidAmount      int64                  `json:"paid_amount"`
	CanceledAmount  int64                  `json:"canceled_amount"`
	RefundedAmount  int64                  `json:"refunded_amount"`
	LastTransaction models.TransactionInfo `json:"last_transaction"`
	Order           *OrderRef              `json:"order,omitempty"`
	Charges         []plug.ChargeResponse  `json:"charges,omitempty"`
}

// OrderCode is the code shown in "not found" messages.
func (e Entity) OrderCode() string {
	if e.Order != nil && e.Order.Code != "" {
		return e.Order.Code
	}
	return e.Code
}

// AsCharge maps a charge entity onto a local charge.
func (e Entity) AsCharge(orderPlugID string) models.Charge {
	return plug.ChargeResponse{
		ID:              e.ID,
		Code:            e.Code,
		Status:          e.Status,
		PaymentMethod:   e.PaymentMethod,
		Amount:          e.Amount,
		PaidAmount:      e.PaidAmount,
		CanceledAmount:  e.CanceledAmount,
		RefundedAmount:  e.RefundedAmount,
		LastTransaction: e.LastTransaction,
	}.ToCharge(orderPlugID)
}

// Webhook is one notification sent by Plug.
type Webhook struct {
	PlugID string
	Type   Type
	Entity Entity
}

// Parse decodes a raw webhook body.
func Parse(payload []byte) (*Webhook, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data Entity `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw.ID) == "" {
		return nil, errors.New("webhook payload missing id")
	}
	typ, err := ParseType(raw.Type)
	if err != nil {
		return nil, err
	}

	return &Webhook{PlugID: strings.TrimSpace(raw.ID), Type: typ, Entity: raw.Data}, nil
}

// Result is the acknowledgement returned for a handled webhook.
type Result struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func ok(message string) Result {
	return Result{Message: message, Code: http.StatusOK}
}

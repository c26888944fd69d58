package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderState is the coarse lifecycle state of a host platform order.
type OrderState string

const (
	OrderStateNew            OrderState = "new"
	OrderStatePendingPayment OrderState = "pending_payment"
	OrderStateProcessing     OrderState = "processing"
	OrderStateComplete       OrderState = "complete"
	OrderStateClosed         OrderState = "closed"
	OrderStateCanceled       OrderState = "canceled"
	OrderStateHolded         OrderState = "holded"
)

// PlatformOrder is the host platform's view of an order. Implementations
// buffer history comments until Save.
type PlatformOrder interface {
	ID() uint
	Code() string
	IncrementID() string
	PlugID() string
	SetPlugID(plugID string)
	State() OrderState
	SetState(state OrderState)
	Status() OrderStatus
	SetStatus(status OrderStatus)
	StatusLabel(status OrderStatus) string
	GrandTotal() decimal.Decimal
	SetTotalPaid(v decimal.Decimal)
	SetBaseTotalPaid(v decimal.Decimal)
	SetTotalCanceled(v decimal.Decimal)
	SetBaseTotalCanceled(v decimal.Decimal)
	SetTotalRefunded(v decimal.Decimal)
	SetBaseTotalRefunded(v decimal.Decimal)
	Customer() Customer
	PaymentMethod() PaymentMethod
	Payments() []Payment
	AddHistoryComment(message string, customerNotified bool)
	SendEmail(ctx context.Context, message string) bool
	Save(ctx context.Context) error
}

// HostOrder is the persisted host platform order row.
type HostOrder struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Code              string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	IncrementID       string          `gorm:"type:varchar(64);not null;default:'';index" json:"increment_id"`
	PlugID            string          `gorm:"type:varchar(64);not null;default:'';index" json:"plug_id"`
	State             OrderState      `gorm:"type:varchar(32);not null;default:'new'" json:"state"`
	Status            OrderStatus     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	GrandTotal        decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"grand_total"`
	TotalPaid         decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"total_paid"`
	BaseTotalPaid     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"base_total_paid"`
	TotalCanceled     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"total_canceled"`
	BaseTotalCanceled decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"base_total_canceled"`
	TotalRefunded     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"total_refunded"`
	BaseTotalRefunded decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"base_total_refunded"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(32);not null;default:''" json:"payment_method"`
	CustomerName      string          `gorm:"type:varchar(255);not null;default:''" json:"customer_name"`
	CustomerEmail     string          `gorm:"type:varchar(255);not null;default:''" json:"customer_email"`
	CustomerDocument  string          `gorm:"type:varchar(32);not null;default:''" json:"customer_document"`
	CustomerType      string          `gorm:"type:varchar(16);not null;default:''" json:"customer_type"`
	CustomerPhone     string          `gorm:"type:varchar(32);not null;default:''" json:"customer_phone"`
	Payments          []Payment       `gorm:"type:text;serializer:json" json:"payments"`
	History           []OrderHistory  `gorm:"foreignKey:HostOrderID" json:"history,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderHistory is a status history comment on a host order.
type OrderHistory struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	HostOrderID      uint      `gorm:"not null;index" json:"host_order_id"`
	Comment          string    `gorm:"type:text;not null" json:"comment"`
	CustomerNotified bool      `gorm:"default:false" json:"customer_notified"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

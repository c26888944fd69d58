package models

import "time"

// OrderStatus is the processor-side status of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCanceled   OrderStatus = "canceled"
	OrderStatusClosed     OrderStatus = "closed"
)

// Order is the local mirror of an order held by Plug. Charges are keyed by
// their Plug id; PlatformOrder is attached at load time and never persisted.
type Order struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	PlugID          string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"plug_id"`
	Code            string        `gorm:"type:varchar(64);not null;default:'';index" json:"code"`
	PlatformOrderID uint          `gorm:"not null;index" json:"platform_order_id"`
	Status          OrderStatus   `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	Charges         []Charge      `gorm:"foreignKey:OrderPlugID;references:PlugID" json:"charges"`
	CreatedNoted    bool          `gorm:"not null;default:false" json:"-"`
	PlatformOrder   PlatformOrder `gorm:"-" json:"-"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpdateCharge replaces the charge with the same Plug id or appends it.
func (o *Order) UpdateCharge(charge Charge) {
	charge.OrderPlugID = o.PlugID
	for i := range o.Charges {
		if o.Charges[i].PlugID == charge.PlugID {
			o.Charges[i] = charge
			return
		}
	}
	o.Charges = append(o.Charges, charge)
}

// MergeCharge takes over the state of a charge reported by Plug. Known
// charges never lose paid, canceled or refunded amounts.
func (o *Order) MergeCharge(incoming Charge) {
	local := o.FindCharge(incoming.PlugID)
	if local == nil {
		o.UpdateCharge(incoming)
		return
	}
	local.Status = incoming.Status
	local.PaidAmount = max(local.PaidAmount, incoming.PaidAmount)
	local.CanceledAmount = max(local.CanceledAmount, incoming.CanceledAmount)
	local.RefundedAmount = max(local.RefundedAmount, incoming.RefundedAmount)
	if incoming.LastTransaction.ID != "" {
		local.LastTransaction = incoming.LastTransaction
	}
}

// FindCharge returns a pointer into Charges or nil.
func (o *Order) FindCharge(plugID string) *Charge {
	for i := range o.Charges {
		if o.Charges[i].PlugID == plugID {
			return &o.Charges[i]
		}
	}
	return nil
}

// AllChargesIn reports whether every charge has one of the given statuses.
// An order without charges never matches.
func (o *Order) AllChargesIn(statuses ...ChargeStatus) bool {
	if len(o.Charges) == 0 {
		return false
	}
	for _, c := range o.Charges {
		match := false
		for _, s := range statuses {
			if c.Status == s {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

// IsCanceled reports whether the order reached the canceled status.
func (o *Order) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}

// IsFinal reports whether the order is canceled or closed. Final orders
// ignore late payment notifications.
func (o *Order) IsFinal() bool {
	return o.Status == OrderStatusCanceled || o.Status == OrderStatusClosed
}

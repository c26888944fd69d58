package models

import "time"

// ChargeStatus is the processor-side status of a single charge.
type ChargeStatus string

const (
	ChargeStatusPending     ChargeStatus = "pending"
	ChargeStatusProcessing  ChargeStatus = "processing"
	ChargeStatusPaid        ChargeStatus = "paid"
	ChargeStatusOverpaid    ChargeStatus = "overpaid"
	ChargeStatusUnderpaid   ChargeStatus = "underpaid"
	ChargeStatusFailed      ChargeStatus = "failed"
	ChargeStatusCanceled    ChargeStatus = "canceled"
	ChargeStatusRefunded    ChargeStatus = "refunded"
	ChargeStatusChargedback ChargeStatus = "chargedback"
)

// TransactionInfo is the last transaction Plug reported for a charge.
type TransactionInfo struct {
	ID              string `json:"id,omitempty"`
	Status          string `json:"status,omitempty"`
	URL             string `json:"url,omitempty"`
	Line            string `json:"line,omitempty"`
	QRCode          string `json:"qr_code,omitempty"`
	QRCodeURL       string `json:"qr_code_url,omitempty"`
	ExpiresAt       string `json:"expires_at,omitempty"`
	AcquirerMessage string `json:"acquirer_message,omitempty"`
	AcquirerTID     string `json:"acquirer_tid,omitempty"`
}

// Charge is one payment attempt against an order. Amounts are in cents.
type Charge struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	PlugID          string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"plug_id"`
	OrderPlugID     string          `gorm:"type:varchar(64);not null;default:'';index" json:"order_plug_id"`
	Code            string          `gorm:"type:varchar(64);not null;default:''" json:"code"`
	Status          ChargeStatus    `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(32);not null;default:''" json:"payment_method"`
	Amount          int64           `gorm:"not null;default:0" json:"amount"`
	PaidAmount      int64           `gorm:"not null;default:0" json:"paid_amount"`
	CanceledAmount  int64           `gorm:"not null;default:0" json:"canceled_amount"`
	RefundedAmount  int64           `gorm:"not null;default:0" json:"refunded_amount"`
	LastTransaction TransactionInfo `gorm:"type:text;serializer:json" json:"last_transaction"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsAlreadyCanceled reports whether cancelling the charge again would be
// pointless. Failed charges count as canceled.
func (c *Charge) IsAlreadyCanceled() bool {
	return c.Status == ChargeStatusCanceled || c.Status == ChargeStatusFailed
}

// IsSettled reports whether the charge reached a status that a late
// pending/processing notification must not overwrite.
func (c *Charge) IsSettled() bool {
	switch c.Status {
	case ChargeStatusPending, ChargeStatusProcessing, "":
		return false
	}
	return true
}

// IsPaid reports whether the charge received money and was not reversed.
func (c *Charge) IsPaid() bool {
	switch c.Status {
	case ChargeStatusPaid, ChargeStatusOverpaid, ChargeStatusUnderpaid:
		return true
	}
	return false
}

// IsReversed reports whether the charge ended without keeping the money.
func (c *Charge) IsReversed() bool {
	switch c.Status {
	case ChargeStatusCanceled, ChargeStatusFailed, ChargeStatusRefunded, ChargeStatusChargedback:
		return true
	}
	return false
}

// Pay records a payment. Amounts only grow.
func (c *Charge) Pay(paidAmount int64, status ChargeStatus) {
	if paidAmount > c.PaidAmount {
		c.PaidAmount = paidAmount
	}
	c.Status = status
}

// Cancel records a cancellation. A full cancellation moves the status.
func (c *Charge) Cancel(canceledAmount int64) {
	if canceledAmount > c.CanceledAmount {
		c.CanceledAmount = canceledAmount
	}
	if c.CanceledAmount >= c.Amount {
		c.Status = ChargeStatusCanceled
	}
}

// Refund records a refund.
func (c *Charge) Refund(refundedAmount int64, status ChargeStatus) {
	if refundedAmount > c.RefundedAmount {
		c.RefundedAmount = refundedAmount
	}
	c.Status = status
}

// Fail marks the charge failed.
func (c *Charge) Fail() {
	c.Status = ChargeStatusFailed
}

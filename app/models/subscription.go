package models

import "time"

const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusFailed   = "failed"
)

// Subscription mirrors a recurring plan held by Plug for a platform order.
type Subscription struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	PlugID          string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"plug_id"`
	Code            string        `gorm:"type:varchar(64);not null;default:'';index" json:"code"`
	PlatformOrderID uint          `gorm:"not null;index" json:"platform_order_id"`
	Status          string        `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	Interval        string        `gorm:"type:varchar(16);not null;default:'month'" json:"interval"`
	PlatformOrder   PlatformOrder `gorm:"-" json:"-"`
	CanceledAt      *time.Time    `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

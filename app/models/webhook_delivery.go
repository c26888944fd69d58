package models

import "time"

// WebhookDelivery audits inbound Plug webhook requests. Redeliveries of the
// same Plug id bump Attempts; they are still dispatched.
type WebhookDelivery struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	PlugID          string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"plug_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	SignatureValid  bool       `gorm:"default:false;index" json:"signature_valid"`
	Attempts        int        `gorm:"not null;default:1" json:"attempts"`
	ArchiveKey      string     `gorm:"type:varchar(255);not null;default:''" json:"archive_key"`
	ResultCode      int        `gorm:"not null;default:0" json:"result_code"`
	ResultMessage   string     `gorm:"type:text" json:"result_message"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

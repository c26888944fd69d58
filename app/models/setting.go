package models

import "time"

// Keys under which hub installation credentials are stored.
const (
	SettingHubEnabled          = "hub_enabled"
	SettingHubInstallID        = "hub_install_id"
	SettingHubAccessToken      = "hub_access_token"
	SettingHubAccountID        = "hub_account_id"
	SettingHubMerchantID       = "hub_merchant_id"
	SettingHubAccountPublicKey = "hub_account_public_key"
	SettingHubEnvironment      = "hub_environment"
)

// Setting represents a system setting
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key" validate:"required,min=1,max=255"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:50;not null;default:'string'" json:"type" validate:"required"` // string, boolean, integer
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

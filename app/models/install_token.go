package models

import "time"

// InstallToken is a one-time token that correlates the start of a hub
// installation with its callback. CreatedAt and ExpireAt are unix
// milliseconds.
type InstallToken struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Token       string `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	InstallSeed string `gorm:"type:varchar(255);not null;default:''" json:"install_seed"`
	Used        bool   `gorm:"default:false;index" json:"used"`
	CreatedAt   int64  `gorm:"autoCreateTime:false;not null" json:"created_at"`
	ExpireAt    int64  `gorm:"not null;index" json:"expire_at"`
}

// IsExpired reports whether the token is past its expiry at now.
func (t *InstallToken) IsExpired(now time.Time) bool {
	return now.UnixMilli() > t.ExpireAt
}

// ForceExpire moves the expiry before creation so the token can never be
// accepted again, regardless of clock skew.
func (t *InstallToken) ForceExpire() {
	t.ExpireAt = t.CreatedAt - 1000
}

// IsForceExpired reports whether ForceExpire was applied.
func (t *InstallToken) IsForceExpired() bool {
	return t.ExpireAt < t.CreatedAt
}

// MarkAsUsed consumes the token.
func (t *InstallToken) MarkAsUsed() {
	t.Used = true
}

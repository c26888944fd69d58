package repository

import (
	"context"

	"github.com/ManuelReschke/PlugSync/app/models"
	"gorm.io/gorm"
)

// Lookups return nil, nil when the record does not exist.

// OrderRepository defines the interface for local Plug order persistence
type OrderRepository interface {
	FindByPlugID(ctx context.Context, plugID string) (*models.Order, error)
	FindByPlatformID(ctx context.Context, platformOrderID uint) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}

// ChargeRepository defines the interface for charge persistence
type ChargeRepository interface {
	FindByPlugID(ctx context.Context, plugID string) (*models.Charge, error)
	Save(ctx context.Context, charge *models.Charge) error
}

// InstallTokenRepository defines the interface for hub install tokens
type InstallTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*models.InstallToken, error)
	// ListEntities returns at most limit tokens (0 = no limit). Without
	// includeDisabled only unused, not force-expired tokens are returned.
	ListEntities(ctx context.Context, limit int, includeDisabled bool) ([]models.InstallToken, error)
	Save(ctx context.Context, token *models.InstallToken) error
}

// PlatformOrderRepository defines the interface for host platform orders
type PlatformOrderRepository interface {
	FindByID(ctx context.Context, id uint) (*models.HostOrder, error)
	FindByCode(ctx context.Context, code string) (*models.HostOrder, error)
	Save(ctx context.Context, order *models.HostOrder) error
	AddHistory(ctx context.Context, entries []models.OrderHistory) error
}

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	FindByPlugID(ctx context.Context, plugID string) (*models.Subscription, error)
	Save(ctx context.Context, subscription *models.Subscription) error
}

// WebhookDeliveryRepository defines the interface for the webhook audit log
type WebhookDeliveryRepository interface {
	// Record inserts the delivery or bumps Attempts of an existing one.
	Record(ctx context.Context, delivery *models.WebhookDelivery) error
	MarkProcessed(ctx context.Context, delivery *models.WebhookDelivery) error
}

// SettingRepository defines the interface for key/value settings
type SettingRepository interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Order           OrderRepository
	Charge          ChargeRepository
	InstallToken    InstallTokenRepository
	PlatformOrder   PlatformOrderRepository
	Subscription    SubscriptionRepository
	WebhookDelivery WebhookDeliveryRepository
	Setting         SettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:           NewOrderRepository(db),
		Charge:          NewChargeRepository(db),
		InstallToken:    NewInstallTokenRepository(db),
		PlatformOrder:   NewPlatformOrderRepository(db),
		Subscription:    NewSubscriptionRepository(db),
		WebhookDelivery: NewWebhookDeliveryRepository(db),
		Setting:         NewSettingRepository(db),
	}
}

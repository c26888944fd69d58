package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewRepositoriesSharesConnection(t *testing.T) {
	db := &gorm.DB{}
	repos := NewRepositories(db)

	assert.Same(t, db, repos.Order.(*orderRepository).db)
	assert.Same(t, db, repos.Charge.(*chargeRepository).db)
	assert.Same(t, db, repos.InstallToken.(*installTokenRepository).db)
	assert.Same(t, db, repos.PlatformOrder.(*platformOrderRepository).db)
	assert.Same(t, db, repos.Subscription.(*subscriptionRepository).db)
	assert.Same(t, db, repos.WebhookDelivery.(*webhookDeliveryRepository).db)
	assert.Same(t, db, repos.Setting.(*settingRepository).db)
}

func TestNewRepositoriesIsNotShared(t *testing.T) {
	assert.NotSame(t, NewRepositories(&gorm.DB{}), NewRepositories(&gorm.DB{}))
}

package repository

import (
	"context"
	"errors"

	"github.com/ManuelReschke/PlugSync/app/models"
	"gorm.io/gorm"
)

// platformOrderRepository implements the PlatformOrderRepository interface
type platformOrderRepository struct {
	db *gorm.DB
}

// NewPlatformOrderRepository creates a new platform order repository instance
func NewPlatformOrderRepository(db *gorm.DB) PlatformOrderRepository {
	return &platformOrderRepository{db: db}
}

func (r *platformOrderRepository) FindByID(ctx context.Context, id uint) (*models.HostOrder, error) {
	var order models.HostOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *platformOrderRepository) FindByCode(ctx context.Context, code string) (*models.HostOrder, error) {
	var order models.HostOrder
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *platformOrderRepository) Save(ctx context.Context, order *models.HostOrder) error {
	return r.db.WithContext(ctx).Omit("History").Save(order).Error
}

func (r *platformOrderRepository) AddHistory(ctx context.Context, entries []models.OrderHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

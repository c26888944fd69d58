package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuelReschke/PlugSync/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByPlugID(ctx context.Context, plugID string) (*models.Order, error) {
	return r.first(ctx, "plug_id = ?", plugID)
}

func (r *orderRepository) FindByPlatformID(ctx context.Context, platformOrderID uint) (*models.Order, error) {
	return r.first(ctx, "platform_order_id = ?", platformOrderID)
}

func (r *orderRepository) first(ctx context.Context, query string, arg any) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Charges", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where(query, arg).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Save upserts the order by Plug id and every charge it holds.
func (r *orderRepository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plug_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "platform_order_id", "status", "created_noted", "updated_at"}),
		}).Create(order).Error
		if err != nil {
			return fmt.Errorf("save order %s: %w", order.PlugID, err)
		}
		for i := range order.Charges {
			order.Charges[i].OrderPlugID = order.PlugID
			if err := upsertCharge(tx, &order.Charges[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

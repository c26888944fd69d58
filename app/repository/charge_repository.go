package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuelReschke/PlugSync/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// chargeRepository implements the ChargeRepository interface
type chargeRepository struct {
	db *gorm.DB
}

// NewChargeRepository creates a new charge repository instance
func NewChargeRepository(db *gorm.DB) ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) FindByPlugID(ctx context.Context, plugID string) (*models.Charge, error) {
	var charge models.Charge
	err := r.db.WithContext(ctx).Where("plug_id = ?", plugID).First(&charge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &charge, nil
}

func (r *chargeRepository) Save(ctx context.Context, charge *models.Charge) error {
	return upsertCharge(r.db.WithContext(ctx), charge)
}

func upsertCharge(db *gorm.DB, charge *models.Charge) error {
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "plug_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"order_plug_id", "code", "status", "payment_method", "amount",
			"paid_amount", "canceled_amount", "refunded_amount", "last_transaction", "updated_at",
		}),
	}).Create(charge).Error
	if err != nil {
		return fmt.Errorf("save charge %s: %w", charge.PlugID, err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/PlugSync/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// webhookDeliveryRepository implements the WebhookDeliveryRepository interface
type webhookDeliveryRepository struct {
	db *gorm.DB
}

// NewWebhookDeliveryRepository creates a new webhook delivery repository instance
func NewWebhookDeliveryRepository(db *gorm.DB) WebhookDeliveryRepository {
	return &webhookDeliveryRepository{db: db}
}

func (r *webhookDeliveryRepository) Record(ctx context.Context, delivery *models.WebhookDelivery) error {
	if delivery.Attempts == 0 {
		delivery.Attempts = 1
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "plug_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + 1"),
			"payload_json":    delivery.PayloadJSON,
			"signature_valid": delivery.SignatureValid,
			"updated_at":      time.Now(),
		}),
	}).Create(delivery).Error
	if err != nil {
		return err
	}
	if delivery.ID == 0 {
		return r.db.WithContext(ctx).Where("plug_id = ?", delivery.PlugID).First(delivery).Error
	}
	return nil
}

func (r *webhookDeliveryRepository) MarkProcessed(ctx context.Context, delivery *models.WebhookDelivery) error {
	now := time.Now()
	delivery.ProcessedAt = &now
	return r.db.WithContext(ctx).Model(&models.WebhookDelivery{}).
		Where("id = ?", delivery.ID).
		Updates(map[string]interface{}{
			"processed_at":     now,
			"archive_key":      delivery.ArchiveKey,
			"result_code":      delivery.ResultCode,
			"result_message":   delivery.ResultMessage,
			"processing_error": delivery.ProcessingError,
		}).Error
}

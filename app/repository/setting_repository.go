package repository

import (
	"context"
	"errors"

	"github.com/ManuelReschke/PlugSync/app/models"
	"gorm.io/gorm"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetValue retrieves a specific setting value by key
func (r *settingRepository) GetValue(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	// Correct column is `setting_key` (see gorm tag in models.Setting)
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil // Return empty string for non-existent settings
		}
		return "", err
	}
	return setting.Value, nil
}

// SetValue sets a specific setting value by key
func (r *settingRepository) SetValue(ctx context.Context, key, value string) error {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.Setting{
			Key:   key,
			Value: value,
			Type:  "string",
		}
		return r.db.WithContext(ctx).Create(&setting).Error
	} else if err != nil {
		return err
	}

	setting.Value = value
	return r.db.WithContext(ctx).Save(&setting).Error
}

// DeleteValue removes a setting; missing keys are ignored
func (r *settingRepository) DeleteValue(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("setting_key = ?", key).Delete(&models.Setting{}).Error
}

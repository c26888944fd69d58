package repository

import (
	"context"
	"errors"

	"github.com/ManuelReschke/PlugSync/app/models"
	"gorm.io/gorm"
)

// installTokenRepository implements the InstallTokenRepository interface
type installTokenRepository struct {
	db *gorm.DB
}

// NewInstallTokenRepository creates a new install token repository instance
func NewInstallTokenRepository(db *gorm.DB) InstallTokenRepository {
	return &installTokenRepository{db: db}
}

func (r *installTokenRepository) FindByToken(ctx context.Context, token string) (*models.InstallToken, error) {
	var t models.InstallToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *installTokenRepository) ListEntities(ctx context.Context, limit int, includeDisabled bool) ([]models.InstallToken, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if !includeDisabled {
		query = query.Where("used = ? AND expire_at >= created_at", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var tokens []models.InstallToken
	err := query.Find(&tokens).Error
	return tokens, err
}

func (r *installTokenRepository) Save(ctx context.Context, token *models.InstallToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

package platform

import (
	"context"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
)

// Loader resolves host orders by id or code.
type Loader struct {
	repo   repository.PlatformOrderRepository
	mailer Mailer
	i18n   *i18n.Localizer
}

func NewLoader(repo repository.PlatformOrderRepository, mailer Mailer, loc *i18n.Localizer) *Loader {
	return &Loader{repo: repo, mailer: mailer, i18n: loc}
}

// Load returns nil, nil for unknown ids.
func (l *Loader) Load(ctx context.Context, id uint) (models.PlatformOrder, error) {
	row, err := l.repo.FindByID(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	return Wrap(row, l.repo, l.mailer, l.i18n), nil
}

// LoadByCode returns nil, nil for unknown codes.
func (l *Loader) LoadByCode(ctx context.Context, code string) (models.PlatformOrder, error) {
	row, err := l.repo.FindByCode(ctx, code)
	if err != nil || row == nil {
		return nil, err
	}
	return Wrap(row, l.repo, l.mailer, l.i18n), nil
}

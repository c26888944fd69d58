package hub

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
)

const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

// Manager owns the install token lifecycle.
type Manager struct {
	cfg      *config.ModuleConfig
	tokens   repository.InstallTokenRepository
	client   Client
	commands *CommandFactory
	now      func() time.Time
}

func NewManager(cfg *config.ModuleConfig, tokens repository.InstallTokenRepository, client Client, commands *CommandFactory) *Manager {
	return &Manager{cfg: cfg, tokens: tokens, client: client, commands: commands, now: time.Now}
}

// StartIntegration expires every active token and issues a new one for
// seed. At most one token is active afterwards.
func (m *Manager) StartIntegration(ctx context.Context, seed string) (string, error) {
	active, err := m.tokens.ListEntities(ctx, 0, false)
	if err != nil {
		return "", fmt.Errorf("list install tokens: %w", err)
	}
	for i := range active {
		active[i].ForceExpire()
		if err := m.tokens.Save(ctx, &active[i]); err != nil {
			return "", fmt.Errorf("expire install token %d: %w", active[i].ID, err)
		}
	}

	now := m.now()
	token := &models.InstallToken{
		Token:       uuid.NewString(),
		InstallSeed: seed,
		CreatedAt:   now.UnixMilli(),
		ExpireAt:    now.Add(m.cfg.HubInstallTokenTTL).UnixMilli(),
	}
	if err := m.tokens.Save(ctx, token); err != nil {
		return "", fmt.Errorf("save install token: %w", err)
	}

	log.Infof("[Hub] Integration started, %d previous token(s) expired", len(active))
	return token.Token, nil
}

// EndIntegration redeems an install token. Unknown, expired or used tokens
// are ignored without contacting the hub. The token is only consumed when
// the hub accepted the code and its command succeeded.
func (m *Manager) EndIntegration(ctx context.Context, installToken, code, callbackURL, webhookURL string) error {
	token, err := m.tokens.FindByToken(ctx, installToken)
	if err != nil {
		return fmt.Errorf("find install token: %w", err)
	}
	switch {
	case token == nil:
		log.Infof("[Hub] Ignoring unknown install token")
		return nil
	case token.Used:
		log.Infof("[Hub] Ignoring used install token %d", token.ID)
		return nil
	case token.IsForceExpired():
		log.Infof("[Hub] Ignoring install token %d, a newer integration was started", token.ID)
		return nil
	case token.IsExpired(m.now()):
		log.Infof("[Hub] Ignoring expired install token %d", token.ID)
		return nil
	}

	payload, err := m.client.RequestAccessToken(ctx, AccessTokenRequest{
		Code:           code,
		HubCallbackURL: callbackURL,
		WebhookURL:     webhookURL,
	})
	if err != nil {
		return err
	}
	if payload == nil {
		return nil
	}

	if err := m.commands.Create(payload).Execute(ctx); err != nil {
		return fmt.Errorf("execute hub command: %w", err)
	}

	token.MarkAsUsed()
	return m.tokens.Save(ctx, token)
}

// GetStatus returns "enabled" or "disabled".
func (m *Manager) GetStatus() string {
	if m.cfg.IsHubEnabled() {
		return StatusEnabled
	}
	return StatusDisabled
}

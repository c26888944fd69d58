package hub

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
)

const (
	CommandInstall   = "install"
	CommandUpdate    = "update"
	CommandUninstall = "uninstall"
)

// Command is one instruction received from the hub.
type Command interface {
	Name() string
	Execute(ctx context.Context) error
}

// CommandConstructor builds a command from a hub payload.
type CommandConstructor func(p *CommandPayload) Command

// CommandFactory maps hub command names to commands. Unknown names yield
// a command that fails as not implemented.
type CommandFactory struct {
	settings     repository.SettingRepository
	cfg          *config.ModuleConfig
	constructors map[string]CommandConstructor
}

func NewCommandFactory(settings repository.SettingRepository, cfg *config.ModuleConfig) *CommandFactory {
	f := &CommandFactory{settings: settings, cfg: cfg, constructors: make(map[string]CommandConstructor)}
	f.Register(CommandInstall, func(p *CommandPayload) Command {
		return &InstallCommand{credentialCommand{payload: p, settings: f.settings, cfg: f.cfg}}
	})
	f.Register(CommandUpdate, func(p *CommandPayload) Command {
		return &UpdateCommand{credentialCommand{payload: p, settings: f.settings, cfg: f.cfg}}
	})
	f.Register(CommandUninstall, func(p *CommandPayload) Command {
		return &UninstallCommand{settings: f.settings, cfg: f.cfg}
	})
	return f
}

func (f *CommandFactory) Register(name string, ctor CommandConstructor) {
	f.constructors[strings.ToLower(name)] = ctor
}

func (f *CommandFactory) Create(p *CommandPayload) Command {
	name := strings.ToLower(strings.TrimSpace(p.Command))
	if ctor, ok := f.constructors[name]; ok {
		return ctor(p)
	}
	return &NotImplementedCommand{name: p.Command}
}

type credentialCommand struct {
	payload  *CommandPayload
	settings repository.SettingRepository
	cfg      *config.ModuleConfig
}

// store writes the non-empty credentials of the payload.
func (c credentialCommand) store(ctx context.Context) error {
	values := map[string]string{
		models.SettingHubAccessToken:      c.payload.AccessToken,
		models.SettingHubAccountID:        c.payload.AccountID,
		models.SettingHubAccountPublicKey: c.payload.AccountPublicKey,
		models.SettingHubInstallID:        c.payload.InstallID,
		models.SettingHubMerchantID:       c.payload.MerchantID,
		models.SettingHubEnvironment:      c.payload.Type,
	}
	for key, value := range values {
		if value == "" {
			continue
		}
		if err := c.settings.SetValue(ctx, key, value); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return nil
}

// InstallCommand stores the hub credentials and enables the hub.
type InstallCommand struct {
	credentialCommand
}

func (c *InstallCommand) Name() string { return CommandInstall }

func (c *InstallCommand) Execute(ctx context.Context) error {
	if c.payload.AccessToken == "" {
		return fmt.Errorf("hub install command without access token")
	}
	if err := c.store(ctx); err != nil {
		return err
	}
	if err := c.settings.SetValue(ctx, models.SettingHubEnabled, strconv.FormatBool(true)); err != nil {
		return err
	}
	c.cfg.SetHubEnabled(true)
	log.Infof("[Hub] Installed, install id %s", c.payload.InstallID)
	return nil
}

// UpdateCommand refreshes stored credentials without touching the
// enabled flag.
type UpdateCommand struct {
	credentialCommand
}

func (c *UpdateCommand) Name() string { return CommandUpdate }

func (c *UpdateCommand) Execute(ctx context.Context) error {
	if err := c.store(ctx); err != nil {
		return err
	}
	log.Infof("[Hub] Credentials updated, install id %s", c.payload.InstallID)
	return nil
}

// UninstallCommand removes the hub credentials and disables the hub.
type UninstallCommand struct {
	settings repository.SettingRepository
	cfg      *config.ModuleConfig
}

func (c *UninstallCommand) Name() string { return CommandUninstall }

func (c *UninstallCommand) Execute(ctx context.Context) error {
	for _, key := range []string{
		models.SettingHubAccessToken,
		models.SettingHubAccountID,
		models.SettingHubAccountPublicKey,
		models.SettingHubInstallID,
		models.SettingHubMerchantID,
		models.SettingHubEnvironment,
	} {
		if err := c.settings.DeleteValue(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	if err := c.settings.SetValue(ctx, models.SettingHubEnabled, strconv.FormatBool(false)); err != nil {
		return err
	}
	c.cfg.SetHubEnabled(false)
	log.Infof("[Hub] Uninstalled")
	return nil
}

type NotImplementedCommand struct {
	name string
}

func (c *NotImplementedCommand) Name() string { return c.name }

func (c *NotImplementedCommand) Execute(context.Context) error {
	log.Warnf("[Hub] Command %q not implemented", c.name)
	return fmt.Errorf("hub command %q not implemented", c.name)
}

// RestoreState loads the persisted hub enabled flag into cfg.
func RestoreState(ctx context.Context, settings repository.SettingRepository, cfg *config.ModuleConfig) error {
	value, err := settings.GetValue(ctx, models.SettingHubEnabled)
	if err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s setting %q: %w", models.SettingHubEnabled, value, err)
	}
	cfg.SetHubEnabled(enabled)
	return nil
}

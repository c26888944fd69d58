package hub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
)

func TestCommandFactory(t *testing.T) {
	factory := NewCommandFactory(newMemorySettings(), config.Default())

	assert.IsType(t, &InstallCommand{}, factory.Create(&CommandPayload{Command: "Install"}))
	assert.IsType(t, &UpdateCommand{}, factory.Create(&CommandPayload{Command: "update"}))
	assert.IsType(t, &UninstallCommand{}, factory.Create(&CommandPayload{Command: " UNINSTALL "}))
	assert.IsType(t, &NotImplementedCommand{}, factory.Create(&CommandPayload{Command: "Reboot"}))
}

func TestInstallUpdateUninstall(t *testing.T) {
	ctx := context.Background()
	settings := newMemorySettings()
	cfg := config.Default()
	factory := NewCommandFactory(settings, cfg)

	require.NoError(t, factory.Create(installPayload()).Execute(ctx))
	assert.True(t, cfg.IsHubEnabled())
	assert.Equal(t, "acc_1", settings.values[models.SettingHubAccountID])
	assert.Equal(t, "Sandbox", settings.values[models.SettingHubEnvironment])

	require.NoError(t, factory.Create(&CommandPayload{Command: "Update", AccessToken: "sk_hub_2"}).Execute(ctx))
	assert.Equal(t, "sk_hub_2", settings.values[models.SettingHubAccessToken])
	assert.Equal(t, "acc_1", settings.values[models.SettingHubAccountID], "empty fields keep their value")
	assert.True(t, cfg.IsHubEnabled())

	require.NoError(t, factory.Create(&CommandPayload{Command: "Uninstall"}).Execute(ctx))
	assert.False(t, cfg.IsHubEnabled())
	assert.Equal(t, map[string]string{models.SettingHubEnabled: "false"}, settings.values)
}

func TestInstallRequiresAccessToken(t *testing.T) {
	cfg := config.Default()
	err := NewCommandFactory(newMemorySettings(), cfg).Create(&CommandPayload{Command: "Install"}).Execute(context.Background())

	assert.Error(t, err)
	assert.False(t, cfg.IsHubEnabled())
}

func TestRestoreState(t *testing.T) {
	ctx := context.Background()
	settings := newMemorySettings()
	cfg := config.Default()

	require.NoError(t, RestoreState(ctx, settings, cfg))
	assert.False(t, cfg.IsHubEnabled())

	settings.values[models.SettingHubEnabled] = "true"
	require.NoError(t, RestoreState(ctx, settings, cfg))
	assert.True(t, cfg.IsHubEnabled())

	settings.values[models.SettingHubEnabled] = "maybe"
	assert.Error(t, RestoreState(ctx, settings, cfg))
}

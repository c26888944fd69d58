// Package config builds the module configuration from the environment and
// an optional YAML overlay file.
package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
)

const (
	DefaultPlugAPIURL  = "https://api.plug.com/v1"
	DefaultHubAPIURL   = "https://hubapi.plug.com"
	DefaultInstallTTL  = time.Hour
	DefaultPlugTimeout = 30 * time.Second
)

// PixConfig controls the pix payment variant.
type PixConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
	// ExpirationQrCode is the QR code lifetime in seconds.
	ExpirationQrCode int `yaml:"expiration_qr_code" validate:"gte=0"`
}

// BoletoConfig controls the boleto payment variant.
type BoletoConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Title        string `yaml:"title"`
	DueDays      int    `yaml:"due_days" validate:"gte=0"`
	Instructions string `yaml:"instructions"`
}

// CreditCardConfig controls the credit card variants.
type CreditCardConfig struct {
	Enabled         bool `yaml:"enabled"`
	MaxInstallments int  `yaml:"max_installments" validate:"gte=1,lte=24"`
}

// ModuleConfig is passed to every service at construction. The hub flag is
// the only field that changes at runtime (hub install/uninstall commands).
type ModuleConfig struct {
	ForceCreateOrder   bool             `yaml:"force_create_order"`
	AntifraudEnabled   bool             `yaml:"antifraud_enabled"`
	AntifraudMinAmount int64            `yaml:"antifraud_min_amount" validate:"gte=0"`
	PlugAPIURL         string           `yaml:"plug_api_url" validate:"required,url"`
	PlugSecretKey      string           `yaml:"plug_secret_key"`
	PlugTimeout        time.Duration    `yaml:"plug_timeout"`
	HubAPIURL          string           `yaml:"hub_api_url" validate:"required,url"`
	HubAppPublicKey    string           `yaml:"hub_app_public_key"`
	HubInstallTokenTTL time.Duration    `yaml:"hub_install_token_ttl"`
	WebhookSecret      string           `yaml:"webhook_secret"`
	StoreLocale        string           `yaml:"store_locale" validate:"oneof=en pt_BR"`
	StoreEmail         string           `yaml:"store_email" validate:"omitempty,email"`
	Pix                PixConfig        `yaml:"pix"`
	Boleto             BoletoConfig     `yaml:"boleto"`
	CreditCard         CreditCardConfig `yaml:"credit_card"`

	hubEnabled bool
	mu         sync.RWMutex
}

// Default returns a configuration with every default applied.
func Default() *ModuleConfig {
	return &ModuleConfig{
		PlugAPIURL:         DefaultPlugAPIURL,
		PlugTimeout:        DefaultPlugTimeout,
		HubAPIURL:          DefaultHubAPIURL,
		HubInstallTokenTTL: DefaultInstallTTL,
		StoreLocale:        "en",
		Pix:                PixConfig{Enabled: true, Title: "Pix", ExpirationQrCode: 3600},
		Boleto:             BoletoConfig{Enabled: true, Title: "Boleto", DueDays: 3},
		CreditCard:         CreditCardConfig{Enabled: true, MaxInstallments: 12},
	}
}

// LoadModuleConfig applies defaults, then the YAML file named by
// PLUGSYNC_CONFIG (if any), then environment variables, and validates.
func LoadModuleConfig() (*ModuleConfig, error) {
	cfg := Default()

	if path := env.GetEnv("PLUGSYNC_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.applyYAML(raw); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type configFile struct {
	ModuleConfig `yaml:",inline"`
	HubEnabled   *bool `yaml:"hub_enabled"`
}

func (c *ModuleConfig) applyYAML(raw []byte) error {
	f := configFile{ModuleConfig: ModuleConfig{
		PlugAPIURL:         c.PlugAPIURL,
		PlugSecretKey:      c.PlugSecretKey,
		PlugTimeout:        c.PlugTimeout,
		HubAPIURL:          c.HubAPIURL,
		HubAppPublicKey:    c.HubAppPublicKey,
		HubInstallTokenTTL: c.HubInstallTokenTTL,
		StoreLocale:        c.StoreLocale,
		Pix:                c.Pix,
		Boleto:             c.Boleto,
		CreditCard:         c.CreditCard,
	}}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.ForceCreateOrder = f.ForceCreateOrder
	c.AntifraudEnabled = f.AntifraudEnabled
	c.AntifraudMinAmount = f.AntifraudMinAmount
	c.PlugAPIURL = f.PlugAPIURL
	c.PlugSecretKey = f.PlugSecretKey
	c.PlugTimeout = f.PlugTimeout
	c.HubAPIURL = f.HubAPIURL
	c.HubAppPublicKey = f.HubAppPublicKey
	c.HubInstallTokenTTL = f.HubInstallTokenTTL
	c.WebhookSecret = f.WebhookSecret
	c.StoreLocale = f.StoreLocale
	c.StoreEmail = f.StoreEmail
	c.Pix = f.Pix
	c.Boleto = f.Boleto
	c.CreditCard = f.CreditCard
	if f.HubEnabled != nil {
		c.SetHubEnabled(*f.HubEnabled)
	}
	return nil
}

func (c *ModuleConfig) applyEnv() {
	c.ForceCreateOrder = env.GetEnvBool("PLUG_FORCE_CREATE_ORDER", c.ForceCreateOrder)
	c.AntifraudEnabled = env.GetEnvBool("PLUG_ANTIFRAUD_ENABLED", c.AntifraudEnabled)
	c.AntifraudMinAmount = int64(env.GetEnvInt("PLUG_ANTIFRAUD_MIN_AMOUNT", int(c.AntifraudMinAmount)))
	c.PlugAPIURL = env.GetEnv("PLUG_API_URL", c.PlugAPIURL)
	c.PlugSecretKey = env.GetEnv("PLUG_SECRET_KEY", c.PlugSecretKey)
	c.PlugTimeout = env.GetEnvDuration("PLUG_TIMEOUT", c.PlugTimeout)
	c.HubAPIURL = env.GetEnv("HUB_API_URL", c.HubAPIURL)
	c.HubAppPublicKey = env.GetEnv("HUB_APP_PUBLIC_KEY", c.HubAppPublicKey)
	c.HubInstallTokenTTL = env.GetEnvDuration("HUB_INSTALL_TOKEN_TTL", c.HubInstallTokenTTL)
	c.SetHubEnabled(env.GetEnvBool("HUB_ENABLED", c.IsHubEnabled()))
	c.WebhookSecret = env.GetEnv("PLUG_WEBHOOK_SECRET", c.WebhookSecret)
	c.StoreLocale = env.GetEnv("STORE_LOCALE", c.StoreLocale)
	c.StoreEmail = env.GetEnv("STORE_EMAIL", c.StoreEmail)
	c.Pix.Enabled = env.GetEnvBool("PLUG_PIX_ENABLED", c.Pix.Enabled)
	c.Pix.Title = env.GetEnv("PLUG_PIX_TITLE", c.Pix.Title)
	c.Pix.ExpirationQrCode = env.GetEnvInt("PLUG_PIX_EXPIRATION_QR_CODE", c.Pix.ExpirationQrCode)
	c.Boleto.Enabled = env.GetEnvBool("PLUG_BOLETO_ENABLED", c.Boleto.Enabled)
	c.Boleto.DueDays = env.GetEnvInt("PLUG_BOLETO_DUE_DAYS", c.Boleto.DueDays)
	c.Boleto.Instructions = env.GetEnv("PLUG_BOLETO_INSTRUCTIONS", c.Boleto.Instructions)
	c.CreditCard.Enabled = env.GetEnvBool("PLUG_CREDIT_CARD_ENABLED", c.CreditCard.Enabled)
	c.CreditCard.MaxInstallments = env.GetEnvInt("PLUG_CREDIT_CARD_MAX_INSTALLMENTS", c.CreditCard.MaxInstallments)
}

// Validate checks the configuration against its validation tags.
func (c *ModuleConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid module config: %w", err)
	}
	if c.PlugTimeout <= 0 {
		return fmt.Errorf("invalid module config: plug timeout must be positive")
	}
	if c.HubInstallTokenTTL <= 0 {
		return fmt.Errorf("invalid module config: hub install token ttl must be positive")
	}
	return nil
}

// IsHubEnabled reports the hub enabled flag.
func (c *ModuleConfig) IsHubEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hubEnabled
}

// SetHubEnabled updates the hub enabled flag.
func (c *ModuleConfig) SetHubEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hubEnabled = enabled
}

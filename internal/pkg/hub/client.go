// Package hub runs the install handshake with the Plug hub: one-time
// install tokens, the access token exchange and the commands the hub
// answers with.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
)

const accessTokensPath = "/auth/apps/access-tokens"

// AccessTokenRequest is sent to the hub when an installation is confirmed.
type AccessTokenRequest struct {
	Code           string `json:"code"`
	HubCallbackURL string `json:"hub_callback_url,omitempty"`
	WebhookURL     string `json:"webhook_url,omitempty"`
}

// CommandPayload is the hub answer to an access token request.
type CommandPayload struct {
	Command          string `json:"command"`
	AccessToken      string `json:"access_token"`
	AccountID        string `json:"account_id"`
	AccountPublicKey string `json:"account_public_key"`
	InstallID        string `json:"install_id"`
	MerchantID       string `json:"merchant_id"`
	Type             string `json:"type"`
}

// Client exchanges an authorization code for a hub command. A nil payload
// with a nil error means the hub refused the exchange.
type Client interface {
	RequestAccessToken(ctx context.Context, req AccessTokenRequest) (*CommandPayload, error)
}

type HTTPClient struct {
	BaseURL      string
	PublicAppKey string
	HTTPClient   *http.Client
}

func NewHTTPClient(cfg *config.ModuleConfig) *HTTPClient {
	return &HTTPClient{
		BaseURL:      strings.TrimRight(cfg.HubAPIURL, "/"),
		PublicAppKey: cfg.HubAppPublicKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *HTTPClient) RequestAccessToken(ctx context.Context, in AccessTokenRequest) (*CommandPayload, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+accessTokensPath, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("PublicAppKey", c.PublicAppKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub access token request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusCreated {
		log.Warnf("[Hub] Access token request refused: status=%d body=%s", resp.StatusCode, string(body))
		return nil, nil
	}

	var out CommandPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode hub command: %w", err)
	}
	return &out, nil
}

package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
)

func TestHTTPClientRequestAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/apps/access-tokens", r.URL.Path)
		assert.Equal(t, "app_pub_1", r.Header.Get("PublicAppKey"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"code": "auth_code", "webhook_url": "https://store.test/webhooks/plug"}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"command":"Install","access_token":"sk_hub_1","install_id":"inst_1"}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.HubAPIURL = srv.URL + "/"
	cfg.HubAppPublicKey = "app_pub_1"

	payload, err := NewHTTPClient(cfg).RequestAccessToken(context.Background(), AccessTokenRequest{
		Code:       "auth_code",
		WebhookURL: "https://store.test/webhooks/plug",
	})
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, "Install", payload.Command)
	assert.Equal(t, "sk_hub_1", payload.AccessToken)
	assert.Equal(t, "inst_1", payload.InstallID)
}

func TestHTTPClientRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"command":"Install"}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.HubAPIURL = srv.URL

	payload, err := NewHTTPClient(cfg).RequestAccessToken(context.Background(), AccessTokenRequest{Code: "x"})
	require.NoError(t, err)
	assert.Nil(t, payload, "only 201 carries a command")
}

func TestHTTPClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	cfg := config.Default()
	cfg.HubAPIURL = srv.URL

	_, err := NewHTTPClient(cfg).RequestAccessToken(context.Background(), AccessTokenRequest{Code: "x"})
	assert.Error(t, err)
}

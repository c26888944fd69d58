package plug

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
)

// Client is the remote processor API used by the order service.
type Client interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error)
	// CancelCharge cancels a charge and updates it in place. A non-empty
	// reason means Plug refused; err means the call itself failed.
	CancelCharge(ctx context.Context, charge *models.Charge) (reason string, err error)
	// GetOrder returns nil, nil when Plug does not know the order.
	GetOrder(ctx context.Context, plugID string) (*models.Order, error)
}

// APIError is a non-2xx answer from Plug.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("plug api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("plug api error: status=%d body=%s", e.StatusCode, e.Body)
}

// HTTPClient talks to the Plug REST API with basic auth.
type HTTPClient struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func NewHTTPClient(cfg *config.ModuleConfig) *HTTPClient {
	return &HTTPClient{
		BaseURL:   strings.TrimRight(cfg.PlugAPIURL, "/"),
		SecretKey: cfg.PlugSecretKey,
		HTTPClient: &http.Client{
			Timeout: cfg.PlugTimeout,
		},
	}
}

func (c *HTTPClient) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	var out OrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CancelCharge(ctx context.Context, charge *models.Charge) (string, error) {
	var out ChargeResponse
	err := c.do(ctx, http.MethodDelete, "/charges/"+url.PathEscape(charge.PlugID), nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			if apiErr.Message != "" {
				return apiErr.Message, nil
			}
			return fmt.Sprintf("status %d", apiErr.StatusCode), nil
		}
		return "", err
	}

	if out.ID != "" {
		charge.Cancel(out.CanceledAmount)
		charge.LastTransaction = out.LastTransaction
	}
	charge.Status = models.ChargeStatusCanceled
	log.Infof("[PlugClient] Charge %s canceled", charge.PlugID)
	return "", nil
}

func (c *HTTPClient) GetOrder(ctx context.Context, plugID string) (*models.Order, error) {
	var out OrderResponse
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(plugID), nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out.ToOrder(), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal plug request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.SecretKey, "")
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("plug %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode plug response: %w", err)
	}
	return nil
}

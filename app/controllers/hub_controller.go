package controllers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PlugSync/internal/pkg/constants"
)

// HubIntegration is the install token lifecycle, see hub.Manager
type HubIntegration interface {
	StartIntegration(ctx context.Context, seed string) (string, error)
	EndIntegration(ctx context.Context, installToken, code, callbackURL, webhookURL string) error
	GetStatus() string
}

// HubController exposes the hub installation flow
type HubController struct {
	hub HubIntegration
	// baseURL overrides the request base when building callback URLs
	baseURL string
}

// NewHubController creates a new hub controller
func NewHubController(hub HubIntegration, baseURL string) *HubController {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		log.Warn("[Hub] APP_BASE_URL is empty, hub callbacks are refused")
	}
	return &HubController{hub: hub, baseURL: baseURL}
}

type hubCallbackRequest struct {
	InstallToken string `json:"install_token" form:"install_token" query:"install_token"`
	Code         string `json:"code" form:"code" query:"code"`
}

// HandleInstall handles POST /hub/install and issues a fresh install token
func (hc *HubController) HandleInstall(c *fiber.Ctx) error {
	seed := strings.TrimSpace(c.FormValue("seed"))
	if seed == "" {
		seed = uuid.NewString()
	}

	token, err := hc.hub.StartIntegration(c.UserContext(), seed)
	if err != nil {
		log.Errorf("[Hub] Start integration failed: %v", err)
		return respondError(c, err, "Could not start hub integration")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"install_token": token,
		"callback_url":  hc.callbackURL(c),
	})
}

// HandleCallback handles GET|POST /hub/callback. Unusable tokens are
// acknowledged like valid ones.
func (hc *HubController) HandleCallback(c *fiber.Ctx) error {
	var req hubCallbackRequest
	if c.Method() == fiber.MethodGet {
		if err := c.QueryParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	req.InstallToken = strings.TrimSpace(req.InstallToken)
	req.Code = strings.TrimSpace(req.Code)
	if req.InstallToken == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "install_token and code are required",
		})
	}

	// The URLs sent to the hub must not come from the caller's Host header.
	if hc.baseURL == "" {
		log.Error("[Hub] APP_BASE_URL is not set, refusing hub callback")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "hub_not_configured",
			"message": "APP_BASE_URL is not configured",
		})
	}

	err := hc.hub.EndIntegration(c.UserContext(), req.InstallToken, req.Code, hc.callbackURL(c), hc.webhookURL(c))
	if err != nil {
		log.Errorf("[Hub] End integration failed: %v", err)
		return respondError(c, err, "Could not finish hub integration")
	}

	return c.JSON(fiber.Map{"status": hc.hub.GetStatus()})
}

// HandleStatus handles GET /hub/status
func (hc *HubController) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": hc.hub.GetStatus()})
}

// base falls back to the request for the install response only; the
// callback refuses to run without a configured base URL.
func (hc *HubController) base(c *fiber.Ctx) string {
	if hc.baseURL != "" {
		return hc.baseURL
	}
	return c.BaseURL()
}

func (hc *HubController) callbackURL(c *fiber.Ctx) string {
	return hc.base(c) + constants.HubCallbackRoute
}

func (hc *HubController) webhookURL(c *fiber.Ctx) string {
	return hc.base(c) + constants.WebhookRoute
}

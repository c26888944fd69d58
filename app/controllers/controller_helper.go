package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
)

// errorKey is the machine readable "error" value for a response status
func errorKey(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}

// respondError writes err as {error, message} with its mapped status
func respondError(c *fiber.Ctx, err error, fallback string) error {
	status := apperr.HTTPStatus(err)
	return c.Status(status).JSON(fiber.Map{
		"error":   errorKey(status),
		"message": apperr.UserMessage(err, fallback),
	})
}

// GetClientIP determines the client IP considering Cloudflare and proxy headers
func GetClientIP(c *fiber.Ctx) string {
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return c.IP()
}

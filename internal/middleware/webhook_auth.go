package middleware

import (
	"crypto/subtle"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// ValidateWebhookToken checks the shared token the WhatsApp gateway
// sends with each webhook. When WEBHOOK_TOKEN is unset, validation is
// skipped so local development works without configuration.
func ValidateWebhookToken() fiber.Handler {
	expected := os.Getenv("WEBHOOK_TOKEN")
	if expected == "" {
		log.Println("⚠️  WEBHOOK_TOKEN not set, webhook validation disabled")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Webhook-Token")
		if token == "" {
			token = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid webhook token",
			})
		}
		return c.Next()
	}
}

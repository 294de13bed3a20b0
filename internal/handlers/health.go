package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleHealthCheck reports service liveness
func HandleHealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "mesabot-backend",
		"version": "1.0.0",
	})
}

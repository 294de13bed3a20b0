package routes

import (
	"os"

	"github.com/MesaLista/mesabot-backend/internal/handlers"
	"github.com/MesaLista/mesabot-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, webhook *handlers.WebhookHandler) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to MesaBot Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":       "/health",
				"webhook":      "/api/webhook",
				"test_webhook": "/api/webhook/test",
			},
		})
	})

	app.Get("/health", handlers.HandleHealthCheck)

	api := app.Group("/api")

	// Production webhook, protected by the shared gateway token.
	api.Post("/webhook", middleware.ValidateWebhookToken(), webhook.HandleWebhook)

	// Development endpoints. Disabled in production unless explicitly
	// turned on.
	if os.Getenv("ENVIRONMENT") != "production" || os.Getenv("ENABLE_TEST_ENDPOINTS") == "true" {
		api.Post("/webhook/test", webhook.HandleTestWebhook)
		// Test tooling sends POST; GET is kept for poking from a browser.
		api.Post("/webhook/test/clear-state", webhook.HandleClearState)
		api.Get("/webhook/test/clear-state", webhook.HandleClearState)
	}
}

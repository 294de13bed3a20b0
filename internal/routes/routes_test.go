package routes

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/MesaLista/mesabot-backend/internal/handlers"
	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/MesaLista/mesabot-backend/internal/services"
	"github.com/MesaLista/mesabot-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedProvider struct{}

func (cannedProvider) Generate(_ context.Context, _, _ string, _ []models.Message) (string, error) {
	return "hola", nil
}

func newTestRouter(t *testing.T) (*fiber.App, *services.SessionManager) {
	t.Helper()

	store := storage.NewMemoryStore()
	calendar := services.NewCalendarService()
	sessions := services.NewSessionManager(services.SessionConfig{}, nil)

	assistant := services.NewAssistantService(
		store,
		sessions,
		services.NewExtractorService(calendar, nil),
		services.NewContextService(calendar),
		services.NewTemplateService(store),
		services.NewParserService(nil),
		cannedProvider{},
		nil,
		services.AssistantConfig{},
	)

	app := fiber.New()
	SetupRoutes(app, handlers.NewWebhookHandler(assistant, nil, sessions))
	return app, sessions
}

func TestClearStateAcceptsPost(t *testing.T) {
	app, sessions := newTestRouter(t)

	sessions.Append("34612345678", models.Message{Role: models.RoleUser, Text: "hola"})
	require.NotEmpty(t, sessions.Get("34612345678"))

	req := httptest.NewRequest("POST", "/api/webhook/test/clear-state?phone=34612345678", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, sessions.Get("34612345678"))
}

func TestClearStateAcceptsGet(t *testing.T) {
	app, sessions := newTestRouter(t)

	sessions.Append("34612345678", models.Message{Role: models.RoleUser, Text: "hola"})

	req := httptest.NewRequest("GET", "/api/webhook/test/clear-state?phone=34612345678", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, sessions.Get("34612345678"))
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestRouter(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

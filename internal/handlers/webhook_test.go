package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/MesaLista/mesabot-backend/internal/services"
	"github.com/MesaLista/mesabot-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	reply string
}

func (p *scriptedProvider) Generate(_ context.Context, _, _ string, _ []models.Message) (string, error) {
	return p.reply, nil
}

func newTestApp(t *testing.T, reply string) (*fiber.App, *services.SessionManager) {
	t.Helper()

	store := storage.NewMemoryStore()
	dishes, err := store.GetRiceDishes(storage.DefaultRestaurantID)
	require.NoError(t, err)
	names := make([]string, 0, len(dishes))
	for _, d := range dishes {
		names = append(names, d.Name)
	}

	calendar := services.NewCalendarService()
	sessions := services.NewSessionManager(services.SessionConfig{}, nil)

	assistant := services.NewAssistantService(
		store,
		sessions,
		services.NewExtractorService(calendar, names),
		services.NewContextService(calendar),
		services.NewTemplateService(store),
		services.NewParserService(names),
		&scriptedProvider{reply: reply},
		nil,
		services.AssistantConfig{},
	)

	handler := NewWebhookHandler(assistant, nil, sessions)

	app := fiber.New()
	app.Post("/api/webhook", handler.HandleWebhook)
	app.Post("/api/webhook/test", handler.HandleTestWebhook)
	app.Get("/api/webhook/test/clear-state", handler.HandleClearState)
	return app, sessions
}

func TestHandleTestWebhookReturnsReply(t *testing.T) {
	app, _ := newTestApp(t, "¿Para qué día quieres la mesa?")

	body, _ := json.Marshal(TestWebhookPayload{Phone: "34612345678", Message: "Hola", PushName: "Ana"})
	req := httptest.NewRequest("POST", "/api/webhook/test", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "¿Para qué día quieres la mesa?", result["response"])
	assert.NotEmpty(t, result["message_id"])
}

func TestHandleTestWebhookRequiresFields(t *testing.T) {
	app, _ := newTestApp(t, "hola")

	req := httptest.NewRequest("POST", "/api/webhook/test", bytes.NewReader([]byte(`{"phone":""}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleWebhookIgnoresOwnMessages(t *testing.T) {
	app, sessions := newTestApp(t, "no debería llegar")

	payload := WebhookPayload{
		Event: "messages",
		Message: WebhookMessage{
			ID:     "msg-1",
			ChatID: "34612345678@s.whatsapp.net",
			Text:   "respuesta nuestra",
			FromMe: true,
			Type:   "text",
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, sessions.Get("34612345678"))
}

func TestHandleWebhookProcessesInboundText(t *testing.T) {
	app, sessions := newTestApp(t, "¡Hola Ana!")

	payload := WebhookPayload{
		Event: "messages",
		Message: WebhookMessage{
			ID:       "msg-2",
			ChatID:   "34612345678@s.whatsapp.net",
			Text:     "Hola",
			PushName: "Ana",
			Type:     "text",
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	history := sessions.Get("34612345678")
	require.Len(t, history, 2)
	assert.Equal(t, "Hola", history[0].Text)
	assert.Equal(t, "¡Hola Ana!", history[1].Text)
}

func TestHandleClearState(t *testing.T) {
	app, sessions := newTestApp(t, "hola")

	sessions.Append("34612345678", models.Message{Role: models.RoleUser, Text: "algo"})
	require.NotEmpty(t, sessions.Get("34612345678"))

	req := httptest.NewRequest("GET", "/api/webhook/test/clear-state?phone=34612345678", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Empty(t, sessions.Get("34612345678"))
}

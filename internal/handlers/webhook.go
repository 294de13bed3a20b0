package handlers

import (
	"log"
	"time"

	"github.com/MesaLista/mesabot-backend/internal/services"
	"github.com/MesaLista/mesabot-backend/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WebhookHandler handles inbound WhatsApp webhook requests
type WebhookHandler struct {
	assistant *services.AssistantService
	sender    services.MessageSender // nil in local development
	sessions  *services.SessionManager
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(assistant *services.AssistantService, sender services.MessageSender, sessions *services.SessionManager) *WebhookHandler {
	return &WebhookHandler{
		assistant: assistant,
		sender:    sender,
		sessions:  sessions,
	}
}

// WebhookPayload is the uazapi-style event envelope the WhatsApp
// gateway posts on every message.
type WebhookPayload struct {
	Instance string         `json:"instance"`
	Event    string         `json:"event"`
	Message  WebhookMessage `json:"message"`
}

// WebhookMessage is the message object inside a webhook event.
type WebhookMessage struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatid"`
	SenderID  string `json:"senderid"`
	Text      string `json:"text"`
	FromMe    bool   `json:"fromMe"`
	Timestamp int64  `json:"timestamp"`
	PushName  string `json:"pushname"`
	Type      string `json:"type"`
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	msg := payload.Message

	// Ignore our own outbound messages and anything that isn't text.
	if msg.FromMe || msg.Text == "" {
		return c.SendStatus(fiber.StatusOK)
	}
	if msg.Type != "" && msg.Type != "text" && msg.Type != "chat" {
		log.Printf("Ignoring message of type %q from %s", msg.Type, msg.ChatID)
		return c.SendStatus(fiber.StatusOK)
	}

	phone := utils.PhoneFromChatID(msg.ChatID)
	log.Printf("📱 WhatsApp message from %s (%s): %s", phone, msg.PushName, msg.Text)

	response, err := h.assistant.ProcessIncomingMessage(c.Context(), phone, msg.PushName, msg.Text)
	if err != nil {
		log.Printf("Error processing message from %s: %v", phone, err)
		return c.SendStatus(fiber.StatusOK)
	}

	if h.sender != nil && response != "" {
		if err := h.sender.SendWhatsAppMessage(phone, response); err != nil {
			log.Printf("❌ Failed to send WhatsApp response: %v", err)
		} else {
			log.Printf("✅ Response sent to %s", phone)
		}
	} else {
		log.Printf("📤 Response (not sent, no sender configured): %s", response)
	}

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload lets development tooling talk to the bot without a
// WhatsApp gateway.
type TestWebhookPayload struct {
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	PushName string `json:"pushname"`
}

// HandleTestWebhook processes a synthetic message and returns the reply
// in the response body instead of sending it over WhatsApp.
func (h *WebhookHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}
	if payload.Phone == "" || payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "phone and message are required",
		})
	}

	log.Printf("🧪 Test webhook from %s: %s", payload.Phone, payload.Message)

	response, err := h.assistant.ProcessIncomingMessage(c.Context(), payload.Phone, payload.PushName, payload.Message)
	if err != nil {
		log.Printf("Error processing test message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process message",
		})
	}

	return c.JSON(fiber.Map{
		"message_id": uuid.New().String(),
		"phone":      payload.Phone,
		"response":   response,
		"timestamp":  time.Now().Unix(),
	})
}

// HandleClearState drops the conversation history for a phone number,
// so test scenarios always start from a clean session.
func (h *WebhookHandler) HandleClearState(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "phone query parameter is required",
		})
	}

	h.sessions.Clear(utils.PhoneFromChatID(phone))
	log.Printf("🧹 Session cleared for %s", phone)

	return c.JSON(fiber.Map{
		"status": "cleared",
		"phone":  phone,
	})
}

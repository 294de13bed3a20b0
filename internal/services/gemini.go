package services

import (
	"context"
	"fmt"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// ReplyProvider generates one assistant reply for a conversation turn.
// A failure means "no reply"; the caller decides what to tell the
// customer.
type ReplyProvider interface {
	Generate(ctx context.Context, systemPrompt, userText string, history []models.Message) (string, error)
}

// GeminiService generates replies through the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService creates the Gemini client.
func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiService{client: client, model: defaultGeminiModel}, nil
}

// Generate sends the history plus the new user message, with the
// assembled system prompt as the system instruction, and returns the
// model's text.
func (s *GeminiService) Generate(ctx context.Context, systemPrompt, userText string, history []models.Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: userText}},
	})

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty reply from model")
	}
	return text, nil
}

package models

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a WhatsApp conversation. Messages are immutable
// once appended to a session and are ordered per conversant phone number.
type Message struct {
	Role        string    `json:"role"` // "user" or "assistant"
	Text        string    `json:"text"`
	DisplayName string    `json:"display_name,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewUserMessage builds a user message stamped with the given time.
func NewUserMessage(text, displayName string, ts time.Time) Message {
	return Message{
		Role:        RoleUser,
		Text:        text,
		DisplayName: displayName,
		Timestamp:   ts,
	}
}

// NewAssistantMessage builds an assistant message stamped with the given time.
func NewAssistantMessage(text string, ts time.Time) Message {
	return Message{
		Role:      RoleAssistant,
		Text:      text,
		Timestamp: ts,
	}
}
